package main

import (
	"log"
	"net/http"
	"time"

	"github.com/snehitv/vidshare-server/internal/app"
	"github.com/snehitv/vidshare-server/internal/config"
	"github.com/snehitv/vidshare-server/internal/routes"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	app, err := app.NewApplication(cfg)
	if err != nil {
		log.Fatal("Failed to start application:", err)
	}

	r := routes.SetupRoutes(app)

	defer app.RedisClient.Close()

	server := &http.Server{
		Addr:         cfg.Port,
		Handler:      r,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	app.Logger.Println("Server started on port", cfg.Port)

	err = server.ListenAndServe()
	if err != nil {
		app.Logger.Fatal("Error starting server", err)
	}

}
