package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/config"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/fixtures"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/database"
)

func main() {
	password := flag.String("password", "password123", "password set on every demo account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	if cfg.App.Env == "production" {
		slog.Error("Refusing to seed demo accounts in production")
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(),
		database.WithPoolSize(cfg.Database.MaxConns, cfg.Database.MinConns),
	)
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		slog.Error("Error applying schema", "error", err)
		os.Exit(1)
	}

	ids, err := fixtures.Seed(ctx, db, *password)
	if errors.Is(err, fixtures.ErrAlreadySeeded) {
		slog.Info("Organisation already present, nothing to do")
		return
	}
	if err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Organisation seeded",
		"directions", len(ids.DirectionIDs),
		"departments", len(ids.DepartmentIDs),
		"users", len(ids.UserIDs),
	)
}
