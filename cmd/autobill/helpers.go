package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/autobill/internal/common"
	"github.com/Veraticus/autobill/internal/config"
	"github.com/Veraticus/autobill/internal/dedup"
	"github.com/Veraticus/autobill/internal/notify"
	"github.com/Veraticus/autobill/internal/parser"
	"github.com/Veraticus/autobill/internal/pipeline"
	"github.com/Veraticus/autobill/internal/redact"
	"github.com/Veraticus/autobill/internal/service"
	"github.com/Veraticus/autobill/internal/sheets"
	"github.com/Veraticus/autobill/internal/storage"
)

// initStorage opens the configured database and migrates it.
func initStorage(ctx context.Context) (*storage.SQLiteStore, error) {
	dbPath := config.DatabasePath(viper.GetViper())

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// app holds a ready orchestrator and everything that must be closed after it.
type app struct {
	orch    *pipeline.Orchestrator
	store   *storage.SQLiteStore
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("failed to close resource", "error", err)
		}
	}
}

// buildApp wires the pipeline from configuration. clock may be nil.
func buildApp(ctx context.Context, clock func() time.Time) (*app, error) {
	logger := slog.Default()

	store, err := initStorage(ctx)
	if err != nil {
		return nil, err
	}
	a := &app{store: store, closers: []func() error{store.Close}}

	categories, err := store.Categories(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	if len(categories) == 0 {
		logger.Warn("category whitelist is empty; every bill will use the default category",
			"hint", "autobill categories seed")
	}

	sink, err := buildSink(ctx, store, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	registry, err := parser.RegistryFromNames(viper.GetStringSlice(config.KeyParsers))
	if err != nil {
		a.Close()
		return nil, common.NewUserError("invalid pipeline.parsers setting", err)
	}

	classifier, err := createClassifier(logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	orch, err := pipeline.New(pipeline.Deps{
		Parsers:    registry,
		Guard:      dedup.New(viper.GetDuration(config.KeyDedupWindow)),
		Redactor:   redact.New(),
		Classifier: classifier,
		Categories: store,
		Sink:       sink,
		Notifier:   buildNotifier(a, logger),
		Clock:      clock,
		Logger:     logger,
	}, pipeline.Config{
		DefaultCategory: viper.GetString(config.KeyDefaultCategory),
		DefaultNote:     viper.GetString(config.KeyDefaultNote),
		FallbackIcon:    viper.GetString(config.KeyFallbackIcon),
		Workers:         viper.GetInt(config.KeyWorkers),
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.orch = orch

	return a, nil
}

func buildSink(ctx context.Context, store *storage.SQLiteStore, logger *slog.Logger) (service.TransactionSink, error) {
	switch backend := viper.GetString(config.KeySink); backend {
	case config.SinkSQLite, "":
		return store, nil
	case config.SinkSheets:
		cfg, err := config.LoadSheetsConfig(viper.GetViper())
		if err != nil {
			return nil, common.NewUserError("Google Sheets is not configured", err)
		}
		writer, err := sheets.NewWriter(ctx, *cfg, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("recording bills to Google Sheets", "sheet", cfg.SheetName)
		return writer, nil
	default:
		return nil, fmt.Errorf("%w: unknown sink backend %q", common.ErrInvalidConfig, backend)
	}
}

// buildNotifier always logs; AMQP is added when configured and reachable.
func buildNotifier(a *app, logger *slog.Logger) service.Notifier {
	notifiers := notify.Multi{notify.NewLogNotifier(logger)}

	url := viper.GetString(config.KeyAMQPURL)
	if url == "" {
		return notifiers
	}

	amqpNotifier, err := notify.NewAMQPNotifier(url,
		viper.GetString(config.KeyAMQPExchange),
		viper.GetString(config.KeyAMQPQueue),
		logger)
	if err != nil {
		logger.Warn("AMQP notifications disabled", "error", err)
		return notifiers
	}

	a.closers = append(a.closers, amqpNotifier.Close)
	return append(notifiers, amqpNotifier)
}
