package watcher

import (
	"context"
	"time"

	"github.com/ritzau/workflow-canvas/pkg/logging"
)

// Debouncer merges bursts of change batches. It flushes after quietPeriod
// without input, or maxWait after the first batch of a burst, whichever
// comes first.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a new debouncer reading from input
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 8),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start runs the debouncer in a goroutine. Output is closed when ctx is done
// or the input closes.
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Debouncer) run(ctx context.Context) {
	defer close(d.output)

	var (
		quiet       <-chan time.Time
		deadline    <-chan time.Time
		accumulated = map[ChangeType][]string{}
		batches     int
	)

	flush := func() {
		quiet, deadline = nil, nil
		if batches == 0 {
			return
		}
		logging.Debug("flushing store changes", "batches", batches)

		// Removals last so a write-then-delete burst ends in the deleted state
		for _, t := range []ChangeType{ChangeTypeWritten, ChangeTypeRemoved} {
			if paths := accumulated[t]; len(paths) > 0 {
				d.output <- ChangeEvent{Type: t, Paths: dedupe(paths), Timestamp: time.Now()}
			}
		}
		accumulated = map[ChangeType][]string{}
		batches = 0
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				return
			}
			accumulated[event.Type] = append(accumulated[event.Type], event.Paths...)
			batches++

			quiet = time.After(d.quietPeriod)
			if deadline == nil {
				deadline = time.After(d.maxWait)
			}

		case <-quiet:
			flush()

		case <-deadline:
			flush()
		}
	}
}

// Output returns the channel of debounced batches
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0:0]
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
