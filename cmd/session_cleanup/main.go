package main

import (
	"context"
	"time"

	"kambafy/internal/app"
	"kambafy/internal/config"
	"kambafy/internal/database"
	"kambafy/internal/pkg/logger"
	"kambafy/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", true)
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogJSON)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if _, err := app.CleanupSessions(ctx, repository.NewMemberSessionRepository(db), time.Now().UTC(), log); err != nil {
		log.Fatal().Err(err).Msg("session cleanup failed")
	}
}
