package main // Entry point package

import (
	"github.com/go-playground/validator/v10" // request payload validation
	"github.com/joho/godotenv"               // loads .env files into the environment
	"github.com/labstack/echo/v4"            // Echo web framework
	"go.uber.org/zap"                        // structured logging

	"github.com/iliyamo/greenhouse/internal/config"     // environment configuration
	"github.com/iliyamo/greenhouse/internal/database"   // MySQL connection
	"github.com/iliyamo/greenhouse/internal/handler"    // HTTP handlers
	"github.com/iliyamo/greenhouse/internal/logger"     // shared zap logger
	"github.com/iliyamo/greenhouse/internal/metrics"    // Prometheus collectors
	"github.com/iliyamo/greenhouse/internal/middleware" // cache, rate limit, request metrics
	"github.com/iliyamo/greenhouse/internal/queue"      // routine.completed consumer
	"github.com/iliyamo/greenhouse/internal/repository" // data access layer
	"github.com/iliyamo/greenhouse/internal/router"     // route registration
	"github.com/iliyamo/greenhouse/internal/routine"    // in-memory session store
)

// payloadValidator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound structs.
type payloadValidator struct {
	v *validator.Validate
}

func (pv *payloadValidator) Validate(i interface{}) error {
	return pv.v.Struct(i)
}

func main() {
	// A missing .env is fine in deployed environments where variables
	// come from the process manager.
	_ = godotenv.Load()

	logger.Init()
	defer logger.Sync()
	metrics.Init()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logger.L.Fatal("database open failed", zap.Error(err))
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	// Repositories share the single DB handle.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	rooms := repository.NewRoomRepo(db)
	zones := repository.NewZoneRepo(db)
	plants := repository.NewPlantRepo(db)
	steps := repository.NewCareStepRepo(db)
	sessions := routine.NewStore()

	authH := handler.NewAuthHandler(cfg, users, tokens)
	gardenH := handler.NewGardenHandler(rooms, zones, plants, steps, sessions)
	careH := handler.NewCareHandler(cfg, gardenH)

	e := echo.New()
	e.HideBanner = true
	e.Validator = &payloadValidator{v: validator.New()}

	e.Use(middleware.Metrics())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, cfg.JWTSecret))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb, cfg.JWTSecret))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterGarden(e, gardenH, careH, cfg.JWTSecret)
	router.RegisterRoutine(e, gardenH, cfg.JWTSecret)

	// The consumer maintains its own reconnect loop for the lifetime of
	// the process.
	go func() {
		if err := queue.StartRoutineConsumer(); err != nil {
			logger.L.Error("routine consumer stopped", zap.Error(err))
		}
	}()

	addr := ":" + cfg.Port
	logger.L.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))

	if err := e.Start(addr); err != nil {
		logger.L.Fatal("server exited", zap.Error(err))
	}
}
