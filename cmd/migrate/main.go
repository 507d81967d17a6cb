package main

import (
	"database/sql"
	"flag"
	"log"

	"rag-tutor/internal/config"
	"rag-tutor/internal/database"
	"rag-tutor/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	version := flag.Bool("version", false, "print the current schema version and exit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer l.Sync()

	// The migrator closes the connection it is given.
	db, err := sql.Open("pgx", cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to open database", zap.Error(err))
	}

	if *version {
		v, dirty, err := database.MigrationVersion(db)
		if err != nil {
			l.Fatal("Failed to read migration version", zap.Error(err))
		}
		l.Info("Schema version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return
	}

	direction := database.Up
	if *down {
		direction = database.Down
	}
	if err := database.RunMigrations(db, direction, l); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
}
