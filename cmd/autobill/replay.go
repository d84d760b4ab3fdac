package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/autobill/internal/cli"
	"github.com/Veraticus/autobill/internal/common"
	"github.com/Veraticus/autobill/internal/screen"
)

func replayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <events.jsonl>",
		Short: "Process a recorded event file in order",
		Long: `Replay a recorded JSONL event file through the pipeline, one event at a time,
using each event's observedAt as the clock so duplicate suppression behaves
as it did live.`,
		Args: cobra.ExactArgs(1),
		RunE: runReplay,
	}
}

// replayClock is advanced to each event's observation time before it is processed.
type replayClock struct {
	now time.Time
	mu  sync.Mutex
}

func (c *replayClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *replayClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	clock := &replayClock{now: time.Now()}
	a, err := buildApp(ctx, clock.Now)
	if err != nil {
		return err
	}
	defer a.Close()

	total := countEvents(data)
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Replaying events...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	events, errs := screen.NewSource(bytes.NewReader(data), slog.Default()).Events(ctx)

	var failures int
	for ev := range events {
		clock.set(ev.ObservedAt)

		if _, err := a.orch.Process(ctx, ev); err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			failures++
			slog.Warn("event failed", "observed_at", ev.ObservedAt, "error", err)
		}

		if err := bar.Add(1); err != nil {
			slog.Debug("progress bar update failed", "error", err)
		}
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	if err := <-errs; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderStats(a.orch.Stats()))
	if failures > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(fmt.Sprintf("%d bills could not be saved", failures)))
		return fmt.Errorf("%w: %d bills", common.ErrPersistence, failures)
	}
	return ctx.Err()
}

func countEvents(data []byte) int {
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}
