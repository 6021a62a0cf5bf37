package challenge

import (
	"fmt"
	"math"
	"time"

	"github.com/vytor/wildquiz/internal/models"
)

// Time-pressure levels reported by Timed.PressureLevel.
const (
	PressureNone     = "none"
	PressureLow      = "low"
	PressureMedium   = "medium"
	PressureHigh     = "high"
	PressureCritical = "critical"
)

// DefaultTimeLimit is the countdown applied when no limit is configured.
const DefaultTimeLimit = 30

// Timed wraps any Challenge with a countdown. The wrapped challenge knows
// nothing about timing; an expired timer simply turns every answer
// incorrect. Wrappers stack: a Timed can wrap another wrapper.
type Timed struct {
	wrapped   Challenge
	limit     int
	showTimer bool
	now       func() time.Time

	start     time.Time
	end       time.Time
	submitted bool // latched on the first answer submission
}

// TimedOption configures a Timed wrapper.
type TimedOption func(*Timed)

// WithTimeLimit sets the countdown length in seconds.
func WithTimeLimit(seconds int) TimedOption {
	return func(t *Timed) {
		if seconds > 0 {
			t.limit = seconds
		}
	}
}

// WithoutQuestionTimer hides the time-limit marker from the question text.
func WithoutQuestionTimer() TimedOption {
	return func(t *Timed) {
		t.showTimer = false
	}
}

// WithClock overrides the time source. Tests use this to advance time
// deterministically.
func WithClock(now func() time.Time) TimedOption {
	return func(t *Timed) {
		t.now = now
	}
}

// WrapTimed decorates a challenge with a countdown timer.
func WrapTimed(ch Challenge, opts ...TimedOption) *Timed {
	t := &Timed{
		wrapped:   ch,
		limit:     DefaultTimeLimit,
		showTimer: true,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// StartTimer starts (or restarts) the countdown. Any prior timing state,
// including a latched submission, is discarded.
func (t *Timed) StartTimer() {
	t.start = t.now()
	t.end = time.Time{}
	t.submitted = false
}

// Elapsed returns seconds since StartTimer, frozen at the first answer
// submission. Zero when the timer never started.
func (t *Timed) Elapsed() float64 {
	if t.start.IsZero() {
		return 0
	}
	endpoint := t.end
	if endpoint.IsZero() {
		endpoint = t.now()
	}
	return round2(endpoint.Sub(t.start).Seconds())
}

// Remaining returns seconds left on the countdown, floored at 0.
func (t *Timed) Remaining() float64 {
	if t.start.IsZero() {
		return float64(t.limit)
	}
	remaining := float64(t.limit) - t.Elapsed()
	if remaining < 0 {
		return 0
	}
	return round2(remaining)
}

// TimedOut reports whether the countdown has expired.
func (t *Timed) TimedOut() bool {
	if t.start.IsZero() {
		return false
	}
	return t.Elapsed() > float64(t.limit)
}

// PressureLevel classifies how much time is left, for adaptive UIs.
func (t *Timed) PressureLevel() string {
	if t.start.IsZero() {
		return PressureNone
	}
	pct := t.Remaining() / float64(t.limit) * 100
	switch {
	case pct > 50:
		return PressureLow
	case pct > 25:
		return PressureMedium
	case pct > 10:
		return PressureHigh
	default:
		return PressureCritical
	}
}

// TimeLimit returns the configured countdown length in seconds.
func (t *Timed) TimeLimit() int { return t.limit }

// Question prefixes the wrapped question with the time limit unless the
// marker was disabled.
func (t *Timed) Question() string {
	q := t.wrapped.Question()
	if t.showTimer {
		return fmt.Sprintf("[%ds] %s", t.limit, q)
	}
	return q
}

// Validate latches the submission time on first call, then checks the
// answer. An expired timer makes any answer incorrect.
func (t *Timed) Validate(answer string) bool {
	t.latchSubmission()
	if t.TimedOut() {
		return false
	}
	return t.wrapped.Validate(answer)
}

// ValidateWithTiming is the richer validation interface: it latches like
// Validate and returns the full timing context with the verdict.
func (t *Timed) ValidateWithTiming(answer string) models.TimedResult {
	t.latchSubmission()

	timedOut := t.TimedOut()
	result := models.TimedResult{
		TimeTaken:     t.Elapsed(),
		TimedOut:      timedOut,
		TimeRemaining: t.Remaining(),
		TimeLimit:     t.limit,
	}
	if !timedOut {
		result.IsCorrect = t.wrapped.Validate(answer)
	}
	if !result.IsCorrect {
		result.CorrectAnswer = t.CorrectAnswer()
		if timedOut {
			result.TimeoutMessage = fmt.Sprintf("Time is up! Limit: %ds", t.limit)
		}
	}
	return result
}

// latchSubmission freezes the answer time on the first submission; later
// submissions keep the original time-taken.
func (t *Timed) latchSubmission() {
	if t.submitted {
		return
	}
	t.end = t.now()
	t.submitted = true
}

// Serialize extends the wrapped record with timing metadata.
func (t *Timed) Serialize() models.ChallengeRecord {
	rec := t.wrapped.Serialize()
	rec.Timed = true
	rec.TimeLimitSeconds = t.limit
	rec.TimerStarted = !t.start.IsZero()
	rec.TimeElapsed = t.Elapsed()
	rec.TimeRemaining = t.Remaining()
	rec.IsTimedOut = t.TimedOut()
	return rec
}

// Delegated challenge identity.

func (t *Timed) ID() string            { return t.wrapped.ID() }
func (t *Timed) AnimalID() int64       { return t.wrapped.AnimalID() }
func (t *Timed) Difficulty() int       { return t.wrapped.Difficulty() }
func (t *Timed) Type() string          { return t.wrapped.Type() }
func (t *Timed) Options() []string     { return t.wrapped.Options() }
func (t *Timed) CorrectAnswer() string { return t.wrapped.CorrectAnswer() }

// Wrapped returns the immediately wrapped challenge.
func (t *Timed) Wrapped() Challenge { return t.wrapped }

// Base walks the wrapper chain to the innermost challenge.
func (t *Timed) Base() Challenge { return BaseOf(t.wrapped) }

// Observer dispatch is shared with the wrapped challenge, so an observer
// attached through the wrapper sees the same events as one attached to
// the base.

func (t *Timed) Attach(obs Observer) {
	if n, ok := t.wrapped.(Notifier); ok {
		n.Attach(obs)
	}
}

func (t *Timed) Detach(obs Observer) {
	if n, ok := t.wrapped.(Notifier); ok {
		n.Detach(obs)
	}
}

func (t *Timed) NotifyStarted(userID string, ch Challenge) error {
	if n, ok := t.wrapped.(Notifier); ok {
		return n.NotifyStarted(userID, ch)
	}
	return nil
}

func (t *Timed) NotifyCompleted(userID string, ch Challenge, answer string, timeTaken float64, isCorrect bool) error {
	if n, ok := t.wrapped.(Notifier); ok {
		return n.NotifyCompleted(userID, ch, answer, timeTaken, isCorrect)
	}
	return nil
}

func (t *Timed) NotifySkipped(userID string, ch Challenge) error {
	if n, ok := t.wrapped.(Notifier); ok {
		return n.NotifySkipped(userID, ch)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
