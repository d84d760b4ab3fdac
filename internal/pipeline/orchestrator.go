// Package pipeline drives one screen event at a time through parsing,
// deduplication, redaction and classification to a finalized transaction.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/autobill/internal/common"
	"github.com/Veraticus/autobill/internal/model"
	"github.com/Veraticus/autobill/internal/screen"
	"github.com/Veraticus/autobill/internal/service"
)

// Deps are the collaborators of an Orchestrator. Notifier and Clock are
// optional.
type Deps struct {
	Parsers    BillParser
	Guard      DedupGuard
	Redactor   Redactor
	Classifier VoteClassifier
	Categories service.CategoryLookup
	Sink       service.TransactionSink
	Notifier   service.Notifier
	Clock      func() time.Time
	Logger     *slog.Logger
}

// Config holds the values substituted when enrichment is unavailable.
type Config struct {
	DefaultCategory string
	DefaultNote     string
	FallbackIcon    string
	Workers         int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		DefaultCategory: "其他",
		DefaultNote:     "自动记账",
		FallbackIcon:    "❓",
		Workers:         4,
	}
}

// Stats is a snapshot of pass counters.
type Stats struct {
	Received            int64
	NoMatch             int64
	Duplicates          int64
	Finalized           int64
	PersistenceFailures int64
}

// Orchestrator runs pipeline passes. It is safe for concurrent use.
type Orchestrator struct {
	deps   Deps
	logger *slog.Logger
	config Config

	received            atomic.Int64
	noMatch             atomic.Int64
	duplicates          atomic.Int64
	finalized           atomic.Int64
	persistenceFailures atomic.Int64
}

// New creates an orchestrator. Empty config fields take their defaults.
func New(deps Deps, config Config) (*Orchestrator, error) {
	switch {
	case deps.Parsers == nil:
		return nil, fmt.Errorf("%w: parsers are required", common.ErrMissingConfig)
	case deps.Guard == nil:
		return nil, fmt.Errorf("%w: dedup guard is required", common.ErrMissingConfig)
	case deps.Redactor == nil:
		return nil, fmt.Errorf("%w: redactor is required", common.ErrMissingConfig)
	case deps.Classifier == nil:
		return nil, fmt.Errorf("%w: classifier is required", common.ErrMissingConfig)
	case deps.Categories == nil:
		return nil, fmt.Errorf("%w: category lookup is required", common.ErrMissingConfig)
	case deps.Sink == nil:
		return nil, fmt.Errorf("%w: transaction sink is required", common.ErrMissingConfig)
	}

	defaults := DefaultConfig()
	if config.DefaultCategory == "" {
		config.DefaultCategory = defaults.DefaultCategory
	}
	if config.DefaultNote == "" {
		config.DefaultNote = defaults.DefaultNote
	}
	if config.FallbackIcon == "" {
		config.FallbackIcon = defaults.FallbackIcon
	}
	if config.Workers <= 0 {
		config.Workers = defaults.Workers
	}

	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{deps: deps, config: config, logger: logger}, nil
}

// Process runs one pass for ev. Drops are reported through Outcome.Reason
// with a nil error. The returned error is non-nil only when the context ended
// before the hand-off or the sink failed.
func (o *Orchestrator) Process(ctx context.Context, ev model.RawScreenEvent) (Outcome, error) {
	o.received.Add(1)
	out := Outcome{State: Received, Trace: []State{Received}}

	candidate, ok := o.deps.Parsers.Parse(ev.SourceAppID, screen.EventText(ev))
	if !ok {
		o.noMatch.Add(1)
		out.drop(common.ErrNoMatch)
		return out, nil
	}
	out.Candidate = &candidate
	out.advance(Parsed)

	if !o.deps.Guard.Accept(candidate, o.deps.Clock()) {
		o.duplicates.Add(1)
		o.logger.Debug("duplicate bill suppressed",
			"source_app", candidate.SourceAppID,
			"amount", candidate.Amount.StringFixed(2),
			"direction", candidate.Direction)
		out.drop(common.ErrDuplicateSuppressed)
		return out, nil
	}
	out.advance(DedupChecked)

	evidence := o.deps.Redactor.Redact(candidate.EvidenceText)
	out.advance(Redacted)

	// One snapshot serves both the whitelist and the icon lookup.
	categories := o.loadCategories(ctx)

	vote := o.deps.Classifier.Classify(ctx, evidence, service.CategoryNames(categories), model.CategoryVote{
		Category: o.config.DefaultCategory,
		Note:     o.config.DefaultNote,
	})
	out.advance(Classified)

	// Nothing may be persisted once the host has gone away.
	if err := ctx.Err(); err != nil {
		return out, fmt.Errorf("pass abandoned before finalizing: %w", err)
	}

	txn, err := o.finalize(candidate, vote, categories)
	if err != nil {
		return out, err
	}
	out.Transaction = &txn
	out.advance(Finalized)

	if err := o.deps.Sink.Append(ctx, txn); err != nil {
		o.persistenceFailures.Add(1)
		o.logger.Error("failed to persist transaction", "transaction_id", txn.ID, "error", err)
		return out, fmt.Errorf("%w: %w", common.ErrPersistence, err)
	}
	o.finalized.Add(1)

	o.logger.Info("bill recorded",
		"transaction_id", txn.ID,
		"source_app", txn.SourceAppID,
		"direction", txn.Direction,
		"amount", txn.Amount.StringFixed(2),
		"category", txn.Category)

	if o.deps.Notifier != nil {
		if err := o.deps.Notifier.Notify(ctx, txn.Notification()); err != nil {
			o.logger.Warn("notification failed", "transaction_id", txn.ID, "error", err)
		}
	}

	return out, nil
}

// loadCategories reads the whitelist fresh. A lookup failure leaves only the
// classifier's fallback sentinel available.
func (o *Orchestrator) loadCategories(ctx context.Context) []model.Category {
	categories, err := o.deps.Categories.Categories(ctx)
	if err != nil {
		o.logger.Warn("failed to load categories", "error", err)
		return nil
	}
	return categories
}

func (o *Orchestrator) finalize(candidate model.CandidateBill, vote model.CategoryVote, categories []model.Category) (model.FinalizedTransaction, error) {
	now := o.deps.Clock()

	id, err := ulid.New(ulid.Timestamp(now), ulid.DefaultEntropy())
	if err != nil {
		return model.FinalizedTransaction{}, fmt.Errorf("failed to generate transaction id: %w", err)
	}

	note := vote.Note
	if note == "" {
		note = o.config.DefaultNote
	}

	icon := o.config.FallbackIcon
	if found := service.IconFor(categories, vote.Category); found != "" {
		icon = found
	}

	return model.FinalizedTransaction{
		ID:           id.String(),
		Amount:       candidate.Amount,
		Direction:    candidate.Direction,
		Category:     vote.Category,
		Icon:         icon,
		Note:         note,
		Timestamp:    now,
		OriginSource: model.OriginAuto,
		SourceAppID:  candidate.SourceAppID,
	}, nil
}

// Run processes events from the channel on up to Workers goroutines until the
// channel closes or ctx ends. Failed passes are logged, not returned.
func (o *Orchestrator) Run(ctx context.Context, events <-chan model.RawScreenEvent) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.config.Workers)

	o.logger.Info("pipeline started", "workers", o.config.Workers)

loop:
	for {
		select {
		case <-gctx.Done():
			break loop
		case ev, ok := <-events:
			if !ok {
				break loop
			}
			g.Go(func() error {
				if _, err := o.Process(gctx, ev); err != nil && !errors.Is(err, context.Canceled) {
					o.logger.Error("pipeline pass failed", "source_app", ev.SourceAppID, "error", err)
				}
				return nil
			})
		}
	}

	err := g.Wait()
	o.logger.Info("pipeline stopped", "stats", o.Stats())
	if err != nil {
		return err
	}
	return ctx.Err()
}

// Stats returns the current counters.
func (o *Orchestrator) Stats() Stats {
	return Stats{
		Received:            o.received.Load(),
		NoMatch:             o.noMatch.Load(),
		Duplicates:          o.duplicates.Load(),
		Finalized:           o.finalized.Load(),
		PersistenceFailures: o.persistenceFailures.Load(),
	}
}
