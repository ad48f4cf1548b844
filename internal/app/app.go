package app

import (
	"database/sql"
	"log"
	"os"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/redis/go-redis/v9"
	"github.com/snehitv/vidshare-server/internal/auth"
	"github.com/snehitv/vidshare-server/internal/config"
	"github.com/snehitv/vidshare-server/internal/handlers"
	handler_analytics "github.com/snehitv/vidshare-server/internal/handlers/analytics"
	"github.com/snehitv/vidshare-server/internal/middlewares"
	"github.com/snehitv/vidshare-server/internal/store"
	"github.com/snehitv/vidshare-server/internal/store/analytics"
	"github.com/snehitv/vidshare-server/internal/store/cache"
	"github.com/snehitv/vidshare-server/migrations"
)

type Application struct {
	Config            *config.Config
	Logger            *log.Logger
	RedisClient       *redis.Client
	db                *sql.DB
	CHConn            driver.Conn
	MiddlewareHandler *middlewares.MiddlewareHandler
	UserHandler       *handlers.UserHandler
	ChannelHandler    *handlers.ChannelHandler
	VideoHandler      *handlers.VideoHandler
	CommentHandler    *handlers.CommentHandler
	ViewHandler       *handler_analytics.ViewHandler
}

func NewApplication(cfg *config.Config) (*Application, error) {
	logger := log.New(os.Stdout, "LOGGING: ", log.Ldate|log.Ltime)

	pgDB, err := store.ConnectPGDB(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Println("Error connecting to db")
		return nil, err
	}

	err = store.MigrateFS(pgDB, migrations.FS, "db")
	if err != nil {
		logger.Println("Postgresql migration failed")
		return nil, err
	}
	logger.Println("Database migrated...")

	redisClient, err := store.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Println("Error connecting to redis")
		return nil, err
	}

	chConfig := store.ClickhouseConfig{
		URL:      cfg.ClickhouseURL,
		Database: cfg.ClickhouseDatabase,
		Username: cfg.ClickhouseUsername,
		Password: cfg.ClickhousePassword,
	}

	chConn, err := store.ConnectClickhouse(chConfig)
	if err != nil {
		logger.Println("Error connecting to clickhouse")
		return nil, err
	}

	err = store.MigrateClickhouse(chConfig)
	if err != nil {
		logger.Println("Clickhouse migration failed")
		return nil, err
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	userStore := store.NewPostgresUserStore(pgDB)
	channelStore := store.NewPostgresChannelStore(pgDB)
	videoStore := store.NewPostgresVideoStore(pgDB)
	commentStore := store.NewPostgresCommentStore(pgDB)
	viewStore := analytics.NewClickhouseViewStore(chConn)

	videoCache := cache.NewRedisVideoCache(redisClient, logger)

	userHandler := handlers.NewUserHandler(userStore, tokens, logger)
	channelHandler := handlers.NewChannelHandler(channelStore, videoCache, logger)
	videoHandler := handlers.NewVideoHandler(videoStore, channelStore, videoCache, viewStore, logger)
	commentHandler := handlers.NewCommentHandler(commentStore, logger)
	viewHandler := handler_analytics.NewViewHandler(viewStore, logger)

	middlewareHandler := middlewares.NewMiddlewareHandler(logger, tokens, cfg.AllowedOrigins)

	app := &Application{
		Config:            cfg,
		Logger:            logger,
		RedisClient:       redisClient,
		db:                pgDB,
		CHConn:            chConn,
		MiddlewareHandler: middlewareHandler,
		UserHandler:       userHandler,
		ChannelHandler:    channelHandler,
		VideoHandler:      videoHandler,
		CommentHandler:    commentHandler,
		ViewHandler:       viewHandler,
	}

	return app, nil
}
