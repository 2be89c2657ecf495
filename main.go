package main

import (
	"context"
	"log"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"brandintel/internal/config"
	"brandintel/internal/container"
	"brandintel/internal/errors"
	"brandintel/internal/migration"
	"brandintel/ui"
)

// initDatabase initializes the PostgreSQL database connection
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	c, err := container.New(appConfig)
	if err != nil {
		log.Fatal("Failed to create container:", err)
	}
	if err := c.InitWithDatabase(db); err != nil {
		log.Fatal("Failed to initialize container:", err)
	}

	webApp := ui.NewApp(c.Collection, c.Synthesis, c.StudyRepo)

	addr := ":" + appConfig.Server.Port
	log.Printf("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, webApp.Router()); err != nil {
		log.Fatal("Server failed:", err)
	}
}
