package store

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/pressly/goose/v3"
)

const (
	pgConnectAttempts = 10
	pgConnectBackoff  = 3 * time.Second
)

// ConnectPGDB opens the Postgres pool and waits for the database to come up,
// retrying so the server survives a slower-starting database container.
func ConnectPGDB(dsn string, logger *log.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	for i := 1; i <= pgConnectAttempts; i++ {
		db, err = sql.Open("pgx", dsn)
		if err == nil {
			if err = db.Ping(); err == nil {
				db.SetMaxOpenConns(25)
				db.SetMaxIdleConns(25)
				db.SetConnMaxIdleTime(5 * time.Minute)
				logger.Println("Connected to Database!")
				return db, nil
			}
			logger.Printf("Attempt %d: DB not ready: %v", i, err)
		} else {
			logger.Printf("Attempt %d: failed to open DB: %v", i, err)
		}

		time.Sleep(pgConnectBackoff)
	}

	return nil, fmt.Errorf("could not connect to database after %d attempts: %w", pgConnectAttempts, err)
}

func MigrateFS(db *sql.DB, migrationsFS fs.FS, dir string) error {
	goose.SetBaseFS(migrationsFS)
	defer func() {
		goose.SetBaseFS(nil)
	}()
	return Migrate(db, dir)
}

func Migrate(db *sql.DB, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
