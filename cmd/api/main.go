package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kandangops/kandang-backend/api/controllers"
	"github.com/kandangops/kandang-backend/api/routes"
	"github.com/kandangops/kandang-backend/internal/intake"
	"github.com/kandangops/kandang-backend/internal/plan"
	"github.com/kandangops/kandang-backend/internal/recon"
	"github.com/kandangops/kandang-backend/internal/receipts"
	"github.com/kandangops/kandang-backend/pkg/config"
	pkgerrors "github.com/kandangops/kandang-backend/pkg/errors"
	"github.com/kandangops/kandang-backend/pkg/logger"
	"github.com/kandangops/kandang-backend/pkg/metrics"
	"github.com/kandangops/kandang-backend/pkg/redis"
	"github.com/kandangops/kandang-backend/pkg/sheets"
	"github.com/kandangops/kandang-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	ledgerMetrics := metrics.NewLedgerMetrics(registry)

	ledgerClient, err := sheets.NewClient(context.Background(), cfg.Sheets, cfg.Google, ledgerMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap sheets client", err)
		os.Exit(1)
	}

	var ledgerStore sheets.Store = ledgerClient
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logg.Error(context.Background(), "error closing redis", cerr)
			}
		}()
		ledgerStore = sheets.NewCachedLedger(ledgerClient, redisClient, cfg.Sheets.SpreadsheetID, cfg.Sheets.ReadCacheTTL, logg)
	}

	var gcsClient *gcs.Client
	if cfg.GCS.Enabled() {
		gcsClient, err = gcs.NewClient(context.Background(), cfg.GCS, cfg.Google, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs", err)
			os.Exit(1)
		}
	}

	orderPlan, err := plan.Load(cfg.Plan.Path)
	if err != nil {
		logg.Error(context.Background(), "failed to load order plan", err)
		os.Exit(1)
	}

	reconService, err := recon.NewService(ledgerStore, orderPlan, cfg.Sheets.InboundRange, cfg.Sheets.OutboundRange, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reconciliation service", err)
		os.Exit(1)
	}

	// Fail fast on a ledger layout drift; a ledger that is merely
	// unreachable at boot still serves degraded views.
	if err := reconService.ValidateHeaders(context.Background()); err != nil {
		if pkgerrors.IsLedgerUnavailable(err) {
			logg.Warn(context.Background(), "ledger unreachable at startup, header validation skipped")
		} else {
			logg.Error(context.Background(), "ledger header validation failed", err)
			os.Exit(1)
		}
	}

	intakeService, err := intake.NewService(ledgerStore, ledgerStore, cfg.Sheets.InboundRange, cfg.Sheets.OutboundRange, cfg.Intake.Location(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create intake service", err)
		os.Exit(1)
	}

	var uploader receipts.Uploader
	var storagePinger controllers.Pinger
	if gcsClient != nil {
		uploader = gcsClient
		storagePinger = gcsClient
	}
	receiptService := receipts.NewService(uploader, cfg.Intake.Location(), logg)

	var cachePinger controllers.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			registry,
			ledgerClient,
			cachePinger,
			storagePinger,
			intakeService,
			reconService,
			receiptService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
