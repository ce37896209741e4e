package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"MarketAnalyst/internal/collector"
	"MarketAnalyst/internal/config"
	"MarketAnalyst/internal/metrics"
	"MarketAnalyst/internal/notifier"
	"MarketAnalyst/internal/recorder"
	"MarketAnalyst/internal/scheduler"
	"MarketAnalyst/internal/server"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			cfgPath = v
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newSource(cfg *config.Config) collector.Source {
	switch cfg.DataSource.Kind {
	case config.SourceYahoo:
		return collector.NewYahooSource(cfg.DataSource.Proxy, cfg.DataSource.RequestsPerSecond)
	case config.SourceMock:
		return &collector.MockSource{Price: 100, Days: 400}
	default:
		return collector.NewFileSource(cfg.DataSource.Dir)
	}
}

func newRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	level, _ := zerolog.ParseLevel(cfg.Log.Level)
	zerolog.SetGlobalLevel(level)
	log.Info().Str("version", version).Msg("MarketAnalyst starting")

	source := newSource(cfg)
	log.Info().Str("source", source.Name()).Msg("data source ready")
	col := collector.NewCollector(source, cfg.AnalysisOptions())

	rec := newRecorder(cfg)
	defer rec.Close()

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy)
		sender = tn
	} else {
		log.Warn().Msg("telegram not configured, reports are only recorded")
	}

	reg := metrics.NewRegistry()
	sched := scheduler.NewScheduler(ctx, col, sender, rec, cfg.Companies, cfg.DataSource.Workers)
	sched.Metrics = reg
	if err := sched.Register(cfg.Schedule.ReportCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if run, _ := cmd.Flags().GetBool("run-on-start"); run || os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("run-on-start enabled, generating reports now")
		go sched.RunReportsNow()
	}

	srv := server.NewServer(cfg.HTTP.Addr, server.Deps{
		Runner:   sched,
		Recorder: rec,
		Metrics:  reg,
		Options:  cfg.AnalysisOptions(),
	})
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	log.Info().Msg("MarketAnalyst is running. Press Ctrl+C to stop.")
	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("MarketAnalyst stopped")
	return nil
}
