package preview

import (
	"context"
	"sync"
	"time"
)

// Debouncer coalesces bursts of file events into single rebuild signals.
// A rebuild fires after QuietWindow without new triggers, or MaxDelay after
// the first trigger of a burst, whichever comes first.
type Debouncer struct {
	quietWindow time.Duration
	maxDelay    time.Duration

	mu      sync.Mutex
	pending bool

	trigger chan struct{}
	out     chan struct{}
}

// NewDebouncer creates a debouncer. maxDelay <= 0 defaults to 10x the quiet
// window.
func NewDebouncer(quietWindow, maxDelay time.Duration) *Debouncer {
	if maxDelay <= 0 {
		maxDelay = 10 * quietWindow
	}
	return &Debouncer{
		quietWindow: quietWindow,
		maxDelay:    maxDelay,
		trigger:     make(chan struct{}, 1),
		out:         make(chan struct{}, 1),
	}
}

// Trigger records one file event. Never blocks.
func (d *Debouncer) Trigger() {
	select {
	case d.trigger <- struct{}{}:
	default:
	}
}

// C delivers one signal per coalesced burst.
func (d *Debouncer) C() <-chan struct{} { return d.out }

// Run drives the debounce loop until ctx is cancelled.
func (d *Debouncer) Run(ctx context.Context) {
	quiet := time.NewTimer(time.Hour)
	stopTimer(quiet)
	max := time.NewTimer(time.Hour)
	stopTimer(max)

	var quietC, maxC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case <-d.trigger:
			d.mu.Lock()
			if !d.pending {
				d.pending = true
				resetTimer(max, d.maxDelay)
				maxC = max.C
			}
			d.mu.Unlock()
			resetTimer(quiet, d.quietWindow)
			quietC = quiet.C

		case <-quietC:
			d.emit()
			quietC, maxC = nil, nil
			stopTimer(max)

		case <-maxC:
			d.emit()
			quietC, maxC = nil, nil
			stopTimer(quiet)
		}
	}
}

func (d *Debouncer) emit() {
	d.mu.Lock()
	d.pending = false
	d.mu.Unlock()

	select {
	case d.out <- struct{}{}:
	default:
	}
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func resetTimer(t *time.Timer, after time.Duration) {
	stopTimer(t)
	t.Reset(after)
}
