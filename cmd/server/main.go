package main

import (
	"context"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	_ "gradebook/docs" // swagger docs

	"gradebook/internal/auth"
	"gradebook/internal/cache"
	"gradebook/internal/config"
	"gradebook/internal/db"
	"gradebook/internal/handler"
	"gradebook/internal/model"
	"gradebook/internal/repository"
	"gradebook/internal/router"
	"gradebook/internal/service"
)

// @title Student Performance API
// @version 1.0
// @description Student academic performance API with marks tracking and JWT authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("role", "server").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("database init")
	}
	logger.Info().Msg("database connected")

	// Drop tables if RESET_DB environment variable is set
	if cfg.ResetDB {
		logger.Warn().Msg("RESET_DB=true detected, dropping all tables")
		for _, table := range []interface{}{&model.Student{}, &model.User{}} {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				logger.Warn().Err(err).Msg("drop table (may not exist)")
			}
		}
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(&model.User{}, &model.Student{}); err != nil {
		logger.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	studentRepo := repository.NewStudentRepository(gormDB)

	if users, err := userRepo.Count(context.Background()); err == nil {
		logger.Info().Int64("users", users).Msg("registered users")
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, jwtService)
	studentService := service.NewStudentService(studentRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(studentService)
	seedHandler := handler.NewSeedHandler(studentService)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, logger, authHandler, studentHandler, seedHandler)

	addr := ":" + cfg.ServerPort
	logger.Info().Str("addr", addr).Msg("server starting")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server start")
	}
}
