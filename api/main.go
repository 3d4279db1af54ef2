package main

import (
	"context"
	nethttp "net/http"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rogerio-castellano/it-asset-tracker/internal/auth"
	"github.com/rogerio-castellano/it-asset-tracker/internal/authz"
	"github.com/rogerio-castellano/it-asset-tracker/internal/config"
	"github.com/rogerio-castellano/it-asset-tracker/internal/db"
	"github.com/rogerio-castellano/it-asset-tracker/internal/http"
	"github.com/rogerio-castellano/it-asset-tracker/internal/http/handlers"
	rl "github.com/rogerio-castellano/it-asset-tracker/internal/http/rate_limiter"
	"github.com/rogerio-castellano/it-asset-tracker/internal/inventory"
	"github.com/rogerio-castellano/it-asset-tracker/internal/locations"
	"github.com/rogerio-castellano/it-asset-tracker/internal/redissvc"
	"github.com/rogerio-castellano/it-asset-tracker/internal/repo"
	"github.com/rogerio-castellano/it-asset-tracker/internal/report"
)

// @title IT Asset Tracker API
// @version 1.0
// @description REST API for IT support stock: an append-only ledger of quantity changes with reconciliation, thresholds and reports.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}

	logger := newLogger(cfg)

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	redisService := redissvc.NewRedisService(rdb, ctx)
	if err := redisService.Ping(); err != nil {
		logger.Fatal().Err(err).Msg("could not connect to Redis")
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not connect to database")
	}
	defer database.Close()

	auth.SetSecret(cfg.JWTSecret)

	itemRepo := repo.NewPostgresItemRepository(database)
	ledgerRepo := repo.NewPostgresLedgerRepository(database)

	directory := locations.NewStaticDirectory(cfg.Locations)
	engine := inventory.NewEngine(itemRepo, ledgerRepo, logger)
	thresholds := inventory.NewThresholdManager(itemRepo, logger)
	bulk := inventory.NewBulkProcessor(engine, thresholds, itemRepo, directory, logger)

	handlers.SetItemRepo(itemRepo)
	handlers.SetLedgerRepo(ledgerRepo)
	handlers.SetUserRepo(repo.NewPostgresUserRepository(database))
	handlers.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))
	handlers.SetEngine(engine)
	handlers.SetThresholdManager(thresholds)
	handlers.SetBulkProcessor(bulk)
	handlers.SetDispatcher(inventory.NewDispatcher(engine, thresholds, bulk, itemRepo))
	handlers.SetReportEngine(report.NewEngine(itemRepo, ledgerRepo))
	handlers.SetLocationDirectory(directory)
	handlers.SetGate(authz.NewSecretGate(
		cfg.AdminSecretHash,
		authz.NewRedisStrikeStore(redisService.Rdb(), redisService.Ctx()),
		0, 0, logger,
	))
	handlers.SetRefreshStore(auth.NewRefreshStore(redisService.Rdb(), redisService.Ctx(), 0))

	go rl.StartVisitorCleanupLoop()

	r := http.RateLimitMiddleware(http.NewRouter())
	logger.Info().Str("addr", cfg.ServerAddr).Msg("server running")
	if err := nethttp.ListenAndServe(cfg.ServerAddr, r); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	if cfg.Env == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger
}
