// Package focus implements the single countdown behind focus mode.
package focus

import (
	"context"
	"sync"
	"time"

	"github.com/osvaldocariege06/Up-ToDo/internal/instrumentation"
	"github.com/osvaldocariege06/Up-ToDo/internal/logging"
	"github.com/osvaldocariege06/Up-ToDo/internal/model"
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// State is a snapshot of the timer. RemainingSeconds is 0 whenever Active is
// false.
type State struct {
	Active           bool `json:"active" yaml:"active"`
	RemainingSeconds int  `json:"remainingSeconds" yaml:"remainingSeconds"`
}

// Option configures a Timer.
type Option func(*Timer)

// WithTicker replaces the wall-clock ticker.
func WithTicker(f TickerFactory) Option {
	return func(t *Timer) {
		if f != nil {
			t.newTicker = f
		}
	}
}

// WithOnFinish sets the callback fired once when a session counts down to 0.
// It is not fired for stopped or restarted sessions.
func WithOnFinish(fn func()) Option {
	return func(t *Timer) {
		t.onFinish = fn
	}
}

// WithOnTick sets a callback receiving the state after every tick.
func WithOnTick(fn func(State)) Option {
	return func(t *Timer) {
		t.onTick = fn
	}
}

// WithLogger sets the logger. Defaults to logging.Default().
func WithLogger(l logging.Logger) Option {
	return func(t *Timer) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMetrics counts ended sessions on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(t *Timer) {
		t.metrics = m
	}
}

// Timer runs at most one countdown session at a time.
type Timer struct {
	newTicker TickerFactory
	onFinish  func()
	onTick    func(State)
	logger    logging.Logger
	metrics   *instrumentation.Metrics

	mu        sync.Mutex
	active    bool
	remaining int
	session   uint64
	stop      chan struct{}
}

// New creates an idle Timer.
func New(opts ...Option) *Timer {
	t := &Timer{
		newTicker: NewRealTicker,
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Start begins a session of seconds. A running session is replaced.
func (t *Timer) Start(seconds int) error {
	if seconds <= 0 {
		return model.NewValidationError("seconds", "must be greater than zero")
	}

	t.mu.Lock()
	restarted := t.active
	t.haltLocked()
	t.active = true
	t.remaining = seconds
	t.session++
	session := t.session
	stop := make(chan struct{})
	t.stop = stop
	ticker := t.newTicker(TickInterval)
	t.mu.Unlock()

	if restarted {
		t.metrics.RecordFocusSession(context.Background(), instrumentation.FocusResultRestarted)
		t.logger.Debug("focus session restarted", "seconds", seconds)
	} else {
		t.logger.Debug("focus session started", "seconds", seconds)
	}

	go t.run(session, ticker, stop)
	return nil
}

// Stop ends the session. Safe to call when idle.
func (t *Timer) Stop() {
	t.mu.Lock()
	wasActive := t.active
	t.haltLocked()
	t.mu.Unlock()

	if wasActive {
		t.metrics.RecordFocusSession(context.Background(), instrumentation.FocusResultStopped)
		t.logger.Debug("focus session stopped")
	}
}

// State returns a snapshot.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return State{Active: t.active, RemainingSeconds: t.remaining}
}

func (t *Timer) haltLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.active = false
	t.remaining = 0
}

func (t *Timer) run(session uint64, ticker Ticker, stop <-chan struct{}) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			state, finished, ok := t.tick(session)
			if !ok {
				return
			}
			if t.onTick != nil {
				t.onTick(state)
			}
			if finished {
				t.metrics.RecordFocusSession(context.Background(), instrumentation.FocusResultFinished)
				t.logger.Info("focus session finished")
				if t.onFinish != nil {
					t.onFinish()
				}
				return
			}
		}
	}
}

// tick decrements the session's countdown. ok is false when session is no
// longer current.
func (t *Timer) tick(session uint64) (state State, finished, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if session != t.session || !t.active {
		return State{}, false, false
	}
	t.remaining--
	if t.remaining <= 0 {
		t.stop = nil
		t.active = false
		t.remaining = 0
		finished = true
	}
	return State{Active: t.active, RemainingSeconds: t.remaining}, finished, true
}

// DurationFromClock converts a picked clock value H:M into H*60+M seconds.
func DurationFromClock(hours, minutes int) (int, error) {
	if hours < 0 || hours > 23 {
		return 0, model.NewValidationError("hours", "must be between 0 and 23")
	}
	if minutes < 0 || minutes > 59 {
		return 0, model.NewValidationError("minutes", "must be between 0 and 59")
	}
	return hours*60 + minutes, nil
}
