// Command seed loads the bundled demo roster straight into the database.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"gradebook/internal/cache"
	"gradebook/internal/config"
	"gradebook/internal/db"
	"gradebook/internal/repository"
	"gradebook/internal/seed"
	"gradebook/internal/service"
)

func main() {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("database init")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	studentService := service.NewStudentService(repository.NewStudentRepository(gormDB), cacheClient)

	count, err := studentService.Seed(context.Background(), seed.DemoRoster())
	if err != nil {
		logger.Fatal().Err(err).Int("seeded", count).Msg("seed roster")
	}

	logger.Info().Int("seeded", count).Msg("demo roster loaded")
	os.Exit(0)
}
