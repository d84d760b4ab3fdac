package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/autobill/internal/cli"
	"github.com/Veraticus/autobill/internal/common"
	"github.com/Veraticus/autobill/internal/pipeline"
	"github.com/Veraticus/autobill/internal/screen"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Record bills from a live stream of screen events",
		Long: `Read newline-delimited JSON screen events (one per UI change) and run each
through the recognition pipeline. Events come from stdin unless --input is given.

Each event looks like:
  {"sourceAppId": "com.tencent.mm", "observedAt": "2026-10-17T12:00:00Z", "screenText": "支付成功 ..."}
or carries a "root" accessibility tree instead of "screenText".`,
		RunE: runWatch,
	}

	cmd.Flags().StringP("input", "i", "", "read events from this file instead of stdin")

	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	input, _ := cmd.Flags().GetString("input")

	var r io.Reader = os.Stdin
	if input != "" {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	interrupts := cli.NewInterruptHandler(os.Stderr, "Stopped watching, finishing bills in flight...")
	ctx := interrupts.HandleInterrupts(cmd.Context())

	a, err := buildApp(ctx, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	slog.Info("watching for bills", "input", inputName(input))

	events, errs := screen.NewSource(r, slog.Default()).Events(ctx)
	runErr := a.orch.Run(ctx, events)

	// On cancellation the source may still be blocked reading stdin.
	if ctx.Err() == nil {
		if srcErr := <-errs; srcErr != nil && !errors.Is(srcErr, context.Canceled) {
			common.LogError(srcErr, "screen event source failed", common.Fields{"input": inputName(input)})
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderStats(a.orch.Stats()))

	if runErr != nil && !interrupts.WasInterrupted() {
		return runErr
	}
	return nil
}

func inputName(input string) string {
	if input == "" {
		return "stdin"
	}
	return input
}

func renderStats(s pipeline.Stats) string {
	body := fmt.Sprintf("Events:       %d\nRecorded:     %d\nNot a bill:   %d\nDuplicates:   %d\nSave failures:%d",
		s.Received, s.Finalized, s.NoMatch, s.Duplicates, s.PersistenceFailures)
	return cli.RenderBox(cli.ChartIcon+" Session summary", body)
}
