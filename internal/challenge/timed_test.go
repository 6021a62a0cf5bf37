package challenge_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wildquiz/internal/challenge"
)

// fakeClock advances only when told to.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTimedDiet(t *testing.T, opts ...challenge.TimedOption) *challenge.Timed {
	t.Helper()
	ch, err := challenge.NewDiet(context.Background(), newFakeSource(), testRand(), 1, 1)
	require.NoError(t, err)
	return challenge.WrapTimed(ch, opts...)
}

func TestTimed_Defaults(t *testing.T) {
	timed := newTimedDiet(t)
	assert.Equal(t, challenge.DefaultTimeLimit, timed.TimeLimit())
	assert.False(t, timed.TimedOut())
	assert.Equal(t, float64(challenge.DefaultTimeLimit), timed.Remaining())
	assert.Equal(t, 0.0, timed.Elapsed())
	assert.Equal(t, challenge.PressureNone, timed.PressureLevel())
}

func TestTimed_QuestionPrefix(t *testing.T) {
	timed := newTimedDiet(t, challenge.WithTimeLimit(20))
	assert.True(t, strings.HasPrefix(timed.Question(), "[20s] "))
	assert.Contains(t, timed.Question(), "The Lion is a...?")

	plain := newTimedDiet(t, challenge.WithoutQuestionTimer())
	assert.Equal(t, "The Lion is a...?", plain.Question())
}

func TestTimed_ElapsedAndRemaining(t *testing.T) {
	clock := newFakeClock()
	timed := newTimedDiet(t, challenge.WithTimeLimit(30), challenge.WithClock(clock.Now))

	timed.StartTimer()
	clock.Advance(12 * time.Second)

	assert.Equal(t, 12.0, timed.Elapsed())
	assert.Equal(t, 18.0, timed.Remaining())
	assert.False(t, timed.TimedOut())
}

func TestTimed_ValidateWithinLimit(t *testing.T) {
	clock := newFakeClock()
	timed := newTimedDiet(t, challenge.WithTimeLimit(30), challenge.WithClock(clock.Now))

	timed.StartTimer()
	clock.Advance(5 * time.Second)

	assert.True(t, timed.Validate("Carnivore"))
	assert.False(t, timed.TimedOut())
}

func TestTimed_ExpiredTimerRejectsCorrectAnswer(t *testing.T) {
	clock := newFakeClock()
	timed := newTimedDiet(t, challenge.WithTimeLimit(10), challenge.WithClock(clock.Now))

	timed.StartTimer()
	clock.Advance(11 * time.Second)

	assert.True(t, timed.TimedOut())
	assert.False(t, timed.Validate("Carnivore"))
	assert.Equal(t, 0.0, timed.Remaining())
}

func TestTimed_ValidateWithTiming(t *testing.T) {
	clock := newFakeClock()
	timed := newTimedDiet(t, challenge.WithTimeLimit(10), challenge.WithClock(clock.Now))

	timed.StartTimer()
	clock.Advance(4 * time.Second)

	result := timed.ValidateWithTiming("Carnivore")
	assert.True(t, result.IsCorrect)
	assert.False(t, result.TimedOut)
	assert.Equal(t, 4.0, result.TimeTaken)
	assert.Equal(t, 6.0, result.TimeRemaining)
	assert.Equal(t, 10, result.TimeLimit)
	assert.Empty(t, result.CorrectAnswer)
	assert.Empty(t, result.TimeoutMessage)
}

func TestTimed_ValidateWithTiming_Timeout(t *testing.T) {
	clock := newFakeClock()
	timed := newTimedDiet(t, challenge.WithTimeLimit(10), challenge.WithClock(clock.Now))

	timed.StartTimer()
	clock.Advance(15 * time.Second)

	result := timed.ValidateWithTiming("Carnivore")
	assert.False(t, result.IsCorrect)
	assert.True(t, result.TimedOut)
	assert.Equal(t, "Carnivore", result.CorrectAnswer)
	assert.Equal(t, "Time is up! Limit: 10s", result.TimeoutMessage)
}

func TestTimed_SubmissionLatchesElapsed(t *testing.T) {
	clock := newFakeClock()
	timed := newTimedDiet(t, challenge.WithTimeLimit(30), challenge.WithClock(clock.Now))

	timed.StartTimer()
	clock.Advance(7 * time.Second)
	timed.Validate("Herbivore")

	// Time keeps passing but the submission time is frozen.
	clock.Advance(1 * time.Minute)
	assert.Equal(t, 7.0, timed.Elapsed())
	assert.False(t, timed.TimedOut())
}

func TestTimed_StartTimerResetsLatch(t *testing.T) {
	clock := newFakeClock()
	timed := newTimedDiet(t, challenge.WithTimeLimit(30), challenge.WithClock(clock.Now))

	timed.StartTimer()
	clock.Advance(7 * time.Second)
	timed.Validate("Herbivore")

	timed.StartTimer()
	clock.Advance(3 * time.Second)
	assert.Equal(t, 3.0, timed.Elapsed())
}

func TestTimed_PressureLevels(t *testing.T) {
	clock := newFakeClock()
	timed := newTimedDiet(t, challenge.WithTimeLimit(100), challenge.WithClock(clock.Now))
	timed.StartTimer()

	tests := []struct {
		advance time.Duration
		want    string
	}{
		{10 * time.Second, challenge.PressureLow},      // 90 left
		{45 * time.Second, challenge.PressureMedium},   // 45 left
		{30 * time.Second, challenge.PressureHigh},     // 15 left
		{10 * time.Second, challenge.PressureCritical}, // 5 left
	}
	for _, tt := range tests {
		clock.Advance(tt.advance)
		assert.Equal(t, tt.want, timed.PressureLevel())
	}
}

func TestTimed_SerializeIncludesTiming(t *testing.T) {
	clock := newFakeClock()
	timed := newTimedDiet(t, challenge.WithTimeLimit(20), challenge.WithClock(clock.Now))

	rec := timed.Serialize()
	assert.True(t, rec.Timed)
	assert.Equal(t, 20, rec.TimeLimitSeconds)
	assert.False(t, rec.TimerStarted)

	timed.StartTimer()
	clock.Advance(6 * time.Second)
	rec = timed.Serialize()
	assert.True(t, rec.TimerStarted)
	assert.Equal(t, 6.0, rec.TimeElapsed)
	assert.Equal(t, 14.0, rec.TimeRemaining)
	assert.False(t, rec.IsTimedOut)
}

func TestTimed_DelegatesIdentity(t *testing.T) {
	ch, err := challenge.NewDiet(context.Background(), newFakeSource(), testRand(), 1, 4)
	require.NoError(t, err)
	timed := challenge.WrapTimed(ch)

	assert.Equal(t, ch.ID(), timed.ID())
	assert.Equal(t, ch.Type(), timed.Type())
	assert.Equal(t, ch.AnimalID(), timed.AnimalID())
	assert.Equal(t, ch.Difficulty(), timed.Difficulty())
	assert.Equal(t, ch.CorrectAnswer(), timed.CorrectAnswer())
}

func TestTimed_WrappersStack(t *testing.T) {
	ch, err := challenge.NewDiet(context.Background(), newFakeSource(), testRand(), 1, 1)
	require.NoError(t, err)

	inner := challenge.WrapTimed(ch, challenge.WithTimeLimit(20))
	outer := challenge.WrapTimed(inner, challenge.WithTimeLimit(10))

	assert.Equal(t, inner, outer.Wrapped())
	assert.Equal(t, challenge.Challenge(ch), challenge.BaseOf(outer))
	assert.True(t, strings.HasPrefix(outer.Question(), "[10s] [20s] "))
}
