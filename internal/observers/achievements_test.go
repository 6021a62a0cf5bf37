package observers_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wildquiz/internal/challenge"
	"github.com/vytor/wildquiz/internal/models"
	"github.com/vytor/wildquiz/internal/observers"
)

// stubPeriods resolves animal ids to day/night periods.
type stubPeriods struct {
	periods map[int64]string
}

func (s stubPeriods) Get(ctx context.Context, id int64) (*models.Animal, error) {
	period, ok := s.periods[id]
	if !ok {
		return nil, fmt.Errorf("no animal %d", id)
	}
	return &models.Animal{ID: id, Period: period}, nil
}

type unlockRecorder struct {
	unlocked []string
}

func (r *unlockRecorder) NotifyAchievement(userID, achievementID, name string) {
	r.unlocked = append(r.unlocked, achievementID)
}

func completeAch(t *testing.T, a *observers.Achievements, userID string, ch challenge.Challenge, timeTaken float64, correct bool) {
	t.Helper()
	require.NoError(t, a.OnChallengeCompleted(userID, ch, "answer", timeTaken, correct))
}

func TestAchievements_FirstSteps(t *testing.T) {
	a := observers.NewAchievements()

	completeAch(t, a, "u1", dietChallenge(1), 20, false)
	assert.True(t, a.Unlocked("u1", "first_steps"))
}

func TestAchievements_SpeedMaster(t *testing.T) {
	a := observers.NewAchievements()

	// A fast wrong answer does not count.
	completeAch(t, a, "u1", dietChallenge(1), 2, false)
	assert.False(t, a.Unlocked("u1", "speed_master"))

	completeAch(t, a, "u1", dietChallenge(1), 6, true)
	assert.False(t, a.Unlocked("u1", "speed_master"))

	completeAch(t, a, "u1", dietChallenge(1), 3, true)
	assert.True(t, a.Unlocked("u1", "speed_master"))
}

func TestAchievements_PerfectStreak(t *testing.T) {
	a := observers.NewAchievements()

	for i := 0; i < 4; i++ {
		completeAch(t, a, "u1", dietChallenge(int64(i)), 10, true)
	}
	assert.False(t, a.Unlocked("u1", "perfect_streak"))

	// A wrong answer resets the streak.
	completeAch(t, a, "u1", dietChallenge(10), 10, false)
	for i := 0; i < 4; i++ {
		completeAch(t, a, "u1", dietChallenge(int64(20+i)), 10, true)
	}
	assert.False(t, a.Unlocked("u1", "perfect_streak"))

	completeAch(t, a, "u1", dietChallenge(30), 10, true)
	assert.True(t, a.Unlocked("u1", "perfect_streak"))
}

func TestAchievements_TypeExperts(t *testing.T) {
	a := observers.NewAchievements()

	// Type counters include incorrect completions.
	for i := 0; i < 10; i++ {
		completeAch(t, a, "u1", soundChallenge(int64(i)), 10, i%2 == 0)
	}
	assert.True(t, a.Unlocked("u1", "sound_expert"))
	assert.False(t, a.Unlocked("u1", "image_expert"))
}

func TestAchievements_AnimalCollector(t *testing.T) {
	a := observers.NewAchievements()

	// Only correct answers discover animals, repeats don't count twice.
	for i := 0; i < 9; i++ {
		completeAch(t, a, "u1", dietChallenge(int64(i)), 10, true)
	}
	completeAch(t, a, "u1", dietChallenge(0), 10, true)
	assert.False(t, a.Unlocked("u1", "animal_collector"))

	completeAch(t, a, "u1", dietChallenge(9), 10, true)
	assert.True(t, a.Unlocked("u1", "animal_collector"))
}

func TestAchievements_NightOwlAndDayChampion(t *testing.T) {
	periods := stubPeriods{periods: map[int64]string{}}
	for i := int64(0); i < 5; i++ {
		periods.periods[i] = models.PeriodNocturnal
		periods.periods[100+i] = models.PeriodDiurnal
	}
	a := observers.NewAchievements(observers.WithPeriodSource(periods))

	for i := int64(0); i < 5; i++ {
		completeAch(t, a, "u1", dietChallenge(i), 10, true)
	}
	assert.True(t, a.Unlocked("u1", "night_owl"))
	assert.False(t, a.Unlocked("u1", "day_champion"))

	for i := int64(0); i < 5; i++ {
		completeAch(t, a, "u1", dietChallenge(100+i), 10, true)
	}
	assert.True(t, a.Unlocked("u1", "day_champion"))
}

func TestAchievements_Perfectionist(t *testing.T) {
	a := observers.NewAchievements()

	for i := 0; i < 10; i++ {
		completeAch(t, a, "u1", dietChallenge(int64(i)), 10, true)
	}
	assert.True(t, a.Unlocked("u1", "perfectionist"))

	// A second user with one miss in ten never qualifies.
	completeAch(t, a, "u2", dietChallenge(1), 10, false)
	for i := 0; i < 9; i++ {
		completeAch(t, a, "u2", dietChallenge(int64(i)), 10, true)
	}
	assert.False(t, a.Unlocked("u2", "perfectionist"))
}

func TestAchievements_NotifierReceivesUnlocks(t *testing.T) {
	recorder := &unlockRecorder{}
	a := observers.NewAchievements(observers.WithAchievementNotifier(recorder))

	completeAch(t, a, "u1", dietChallenge(1), 3, true)
	assert.Equal(t, []string{"first_steps", "speed_master"}, recorder.unlocked)
}

func TestAchievements_UnlockHistoryTimestamps(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	a := observers.NewAchievements(observers.WithAchievementClock(func() time.Time { return now }))

	completeAch(t, a, "u1", dietChallenge(1), 3, true)

	report := a.Report("u1")
	require.Len(t, report.UnlockHistory, 2)
	assert.Equal(t, "first_steps", report.UnlockHistory[0].AchievementID)
	assert.Equal(t, "speed_master", report.UnlockHistory[1].AchievementID)
	assert.Equal(t, now, report.UnlockHistory[0].Timestamp)
}

func TestAchievements_Report(t *testing.T) {
	a := observers.NewAchievements()

	report := a.Report("u1")
	assert.Equal(t, 12, report.TotalAchievements)
	assert.Equal(t, 0, report.UnlockedCount)
	assert.Nil(t, report.FastestTime, "no correct answer yet")
	assert.Len(t, report.Locked, 12)

	completeAch(t, a, "u1", dietChallenge(1), 4, true)
	report = a.Report("u1")
	assert.Equal(t, 2, report.UnlockedCount)
	assert.InDelta(t, 16.67, report.CompletionPercentage, 0.01)
	require.NotNil(t, report.FastestTime)
	assert.Equal(t, 4.0, *report.FastestTime)
	assert.Equal(t, 1, report.AnimalsDiscovered)
}

func TestAchievements_NextAchievements(t *testing.T) {
	a := observers.NewAchievements()

	completeAch(t, a, "u1", dietChallenge(1), 3, true)

	next := a.NextAchievements("u1", 2)
	require.Len(t, next, 2)
	// registry order, skipping what is already unlocked
	assert.Equal(t, "perfect_streak", next[0].ID)
	assert.Equal(t, "sound_expert", next[1].ID)
}
