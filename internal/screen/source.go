package screen

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/autobill/internal/model"
)

// maxLineBytes bounds a single JSONL event. Accessibility dumps of busy
// screens can be large.
const maxLineBytes = 4 * 1024 * 1024

// Source decodes newline-delimited JSON screen events from a reader.
type Source struct {
	r      io.Reader
	logger *slog.Logger
	now    func() time.Time
}

// NewSource creates a Source reading from r.
func NewSource(r io.Reader, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{r: r, logger: logger, now: time.Now}
}

// Events starts decoding in the background. The event channel closes at EOF,
// on a read error or when ctx is done; the error channel then yields at most
// one error.
func (s *Source) Events(ctx context.Context) (<-chan model.RawScreenEvent, <-chan error) {
	events := make(chan model.RawScreenEvent)
	errs := make(chan error, 1)

	go func() {
		defer close(events)
		defer close(errs)

		scanner := bufio.NewScanner(s.r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

		line := 0
		for scanner.Scan() {
			line++
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}

			ev, err := s.decode([]byte(text))
			if err != nil {
				s.logger.Warn("skipping malformed screen event", "line", line, "error", err)
				continue
			}

			select {
			case events <- ev:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}

		if err := scanner.Err(); err != nil {
			errs <- fmt.Errorf("failed to read screen events: %w", err)
		}
	}()

	return events, errs
}

func (s *Source) decode(data []byte) (model.RawScreenEvent, error) {
	var ev model.RawScreenEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return model.RawScreenEvent{}, fmt.Errorf("invalid JSON: %w", err)
	}
	if ev.SourceAppID == "" {
		return model.RawScreenEvent{}, fmt.Errorf("missing sourceAppId")
	}
	if ev.ObservedAt.IsZero() {
		ev.ObservedAt = s.now()
	}
	return ev, nil
}

// DecodeTree parses a screen tree dump. YAML is accepted, and since YAML is a
// superset of JSON so are JSON dumps.
func DecodeTree(data []byte) (*model.ScreenNode, error) {
	var root model.ScreenNode
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse screen tree: %w", err)
	}
	return &root, nil
}
