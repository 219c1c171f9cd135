package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"recruitbot/internal/access"
	admissionConfig "recruitbot/internal/admission/config"
	admissionMetrics "recruitbot/internal/admission/metrics"
	"recruitbot/internal/admission/ports"
	admissionService "recruitbot/internal/admission/service"
	"recruitbot/internal/admission/store/state"
	"recruitbot/internal/bot"
	"recruitbot/internal/platform/config"
	"recruitbot/internal/platform/httpserver"
	"recruitbot/internal/platform/logger"
	"recruitbot/internal/platform/metrics"
	"recruitbot/internal/platform/redis"
	"recruitbot/internal/platform/sqldb"
	"recruitbot/internal/platform/tracing"
	registrationService "recruitbot/internal/registration/service"
	"recruitbot/internal/registration/store/record"
	"recruitbot/internal/registration/store/session"
	"recruitbot/internal/report"
)

// runServe wires high-level dependencies and runs the bot until ctx is cancelled.
// Business logic lives in internal service packages.
func runServe(ctx context.Context, cfg config.Config) error {
	log := logger.New(cfg.LogFormat, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		return err
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, version, log)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("otel shutdown failed", "error", err)
		}
	}()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	records := record.NewSQL(db)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	botMetrics := metrics.New(reg)
	checks := map[string]httpserver.HealthCheck{"database": db.Health}

	admCfg := admissionConfig.DefaultConfig()
	var states ports.StateStore = state.New()
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		states = state.NewRedis(redisClient.Client, admCfg.Retention())
		checks["redis"] = redisClient.Health
		log.Info("admission state shared through redis")
	}

	admission, err := admissionService.New(states, records,
		admissionService.WithLogger(log),
		admissionService.WithMetrics(admissionMetrics.New(reg)),
		admissionService.WithConfig(&admCfg),
	)
	if err != nil {
		return err
	}

	registration, err := registrationService.New(records, session.New(),
		registrationService.WithLogger(log),
		registrationService.WithMetrics(botMetrics),
	)
	if err != nil {
		return err
	}

	grants, err := access.New(operatorKey(cfg, log), access.WithLogger(log))
	if err != nil {
		return err
	}

	reports, err := report.New(records,
		report.WithDir(cfg.ReportDir),
		report.WithLogger(log),
		report.WithMetrics(botMetrics),
	)
	if err != nil {
		return err
	}

	telegram, err := bot.NewTelegram(cfg.BotToken, cfg.BotDebug, log)
	if err != nil {
		return err
	}
	dispatcher, err := bot.New(admission, registration, grants, reports, telegram,
		bot.WithLogger(log),
		bot.WithMetrics(botMetrics),
	)
	if err != nil {
		return err
	}

	srv := httpserver.New(cfg.OpsAddr, httpserver.NewOpsRouter(reg, checks))
	log.Info("starting recruitbot", "ops_addr", cfg.OpsAddr, "database", cfg.Database.Dialect)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return telegram.Run(ctx, dispatcher.Handle) })
	g.Go(func() error { return httpserver.Run(ctx, srv) })
	g.Go(func() error { return admission.RunSweeper(ctx) })
	g.Go(func() error { return report.RunJanitor(ctx, cfg.ReportDir, admCfg.SweepInterval, log) })
	return g.Wait()
}

// runReport writes one report file into out and returns its path.
func runReport(ctx context.Context, cfg config.Config, period report.Period, out string) (string, error) {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return "", err
	}
	defer db.Close()

	reports, err := report.New(record.NewSQL(db), report.WithDir(out))
	if err != nil {
		return "", err
	}
	return reports.Generate(ctx, period)
}

func openDatabase(ctx context.Context, cfg config.Config) (*sqldb.DB, error) {
	db, err := sqldb.Open(ctx, cfg.Database.Dialect, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// operatorKey returns a matcher that never matches when no key is configured,
// which leaves reports unreachable without stopping the form.
func operatorKey(cfg config.Config, log *slog.Logger) access.Matcher {
	matcher, err := access.NewMatcher(cfg.AdminKey, cfg.AdminKeyHash)
	if err != nil {
		log.Warn("admin key not configured; reports are disabled")
		return access.PlainKey("")
	}
	return matcher
}
