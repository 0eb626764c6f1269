package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/tradebookhq/tradebook/internal/config"
	"github.com/tradebookhq/tradebook/internal/database"
	tradebookHttp "github.com/tradebookhq/tradebook/internal/http"
	importHandler "github.com/tradebookhq/tradebook/internal/http/importfile"
	tradeHandler "github.com/tradebookhq/tradebook/internal/http/trade"
	"github.com/tradebookhq/tradebook/internal/importer"
	"github.com/tradebookhq/tradebook/internal/trade"
	tradeStore "github.com/tradebookhq/tradebook/internal/trade/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	targetLocation, err := time.LoadLocation(cfg.Import.Timezone)
	if err != nil {
		slog.Error("failed to load import timezone", "timezone", cfg.Import.Timezone, "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.Server.Timeout)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		tradeService  = trade.NewService(tradeStore.New(db))
		importService = importer.NewService(targetLocation)
	)

	var (
		tradeH  = tradeHandler.NewHandler(tradeService)
		importH = importHandler.NewHandler(importService, tradeService)
	)

	router := tradebookHttp.New(tradeH, importH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
