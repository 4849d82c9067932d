package main

import (
	"fmt"

	"go.uber.org/zap"

	"SGSTrader/internal/analyzer"
	"SGSTrader/internal/collector"
	"SGSTrader/internal/config"
	"SGSTrader/internal/model"
	"SGSTrader/internal/recorder"
)

// app bundles the components shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	recorder recorder.Recorder
	service  *analyzer.Service
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}
	zc.Level = level
	return zc.Build()
}

// loadApp reads the config and wires collector, recorder and analyzer.
func loadApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	fetchers, err := collector.BuildFetchers(cfg.DataSource.Providers, cfg.ProviderOptions(), logger)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(fetchers))
	for i, f := range fetchers {
		names[i] = f.Name()
	}
	logger.Info("data providers", zap.Strings("providers", names), zap.Ints("lookback_days", cfg.DataSource.LookbackDays))
	col := collector.NewCollector(fetchers, cfg.DataSource.LookbackDays, logger)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		recorder: rec,
		service:  analyzer.NewService(col, rec, logger),
	}, nil
}

func (a *app) defaultRequest() (analyzer.Request, error) {
	kind, err := model.ParseMarketKind(a.cfg.Defaults.Market)
	if err != nil {
		return analyzer.Request{}, err
	}
	return analyzer.Request{Market: kind, Symbol: a.cfg.Defaults.Symbol, Capital: a.cfg.Defaults.Capital}, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		a.logger.Warn("close recorder", zap.Error(err))
	}
	_ = a.logger.Sync()
}
