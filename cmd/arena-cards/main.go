package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/arenasim/arena-cards/internal/ability"
	"github.com/arenasim/arena-cards/internal/api"
	"github.com/arenasim/arena-cards/internal/config"
	"github.com/arenasim/arena-cards/internal/constants"
	"github.com/arenasim/arena-cards/internal/logging"
	"github.com/arenasim/arena-cards/internal/service"
	"github.com/arenasim/arena-cards/internal/storage"
)

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./arena_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid arena configuration", err, logging.Fields{
			"config_path": configPath,
			"hint":        "create an arena_config.json with a 'card_list' array of card objects (name,variant,cost,atk,def,effect,ultimate_move,ultimate_cost) and optional keys: abilities_file, server.address, simulation",
		})
	}

	registry := ability.NewRegistry()
	if cfg.AbilitiesFile != "" {
		registry, err = ability.LoadContentFile(cfg.AbilitiesFile)
		if err != nil {
			logging.Fatal("Failed to load ability content", err, logging.Fields{"abilities_file": cfg.AbilitiesFile})
		}
	}

	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/arena.db"
	}
	db, err := storage.OpenAndMigrate(dbPath, cfg.Cards)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}

	repo := storage.NewSQLiteRepository(db)
	runner := service.NewRunner(repo, registry, cfg.Cards, cfg.Simulation)
	router := api.NewRouter(api.NewRunHandler(runner))

	// Cancel an in-progress run on shutdown so its last iteration persists.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		logging.Info("shutting down, stopping active tuning run", nil)
		runner.Shutdown()
		os.Exit(0)
	}()

	logging.Info("arena-cards server starting", logging.Fields{
		constants.LogFieldAddr: cfg.ServerAddress,
		"cards":                len(cfg.Cards),
	})
	if err := router.Run(cfg.ServerAddress); err != nil {
		logging.Fatal("Server exited", err, nil)
	}
}
