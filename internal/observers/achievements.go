package observers

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/vytor/wildquiz/internal/challenge"
	"github.com/vytor/wildquiz/internal/logger"
	"github.com/vytor/wildquiz/internal/models"
)

// AchievementStats is the running statistics snapshot criteria are
// evaluated against.
type AchievementStats struct {
	TotalCompleted    int
	TotalCorrect      int
	CurrentStreak     int
	FastestTime       float64 // +Inf until the first correct answer
	TypeCounts        map[string]int
	AnimalsDiscovered map[int64]struct{}
	NightChallenges   int
	DayChallenges     int
	PerfectAccuracy   bool
}

// Achievement is a named milestone with an unlock predicate.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Criteria    func(*AchievementStats) bool
}

// DefaultAchievements returns the built-in registry. Order matters: it is
// the evaluation and reporting order.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{
			ID: "first_steps", Name: "First Steps", Icon: "🎯",
			Description: "Complete your first challenge",
			Criteria:    func(s *AchievementStats) bool { return s.TotalCompleted >= 1 },
		},
		{
			ID: "speed_master", Name: "Speed Master", Icon: "⚡",
			Description: "Answer correctly in under 5 seconds",
			Criteria:    func(s *AchievementStats) bool { return s.FastestTime > 0 && s.FastestTime < 5 },
		},
		{
			ID: "perfect_streak", Name: "Perfect Streak", Icon: "🔥",
			Description: "Get 5 challenges right in a row",
			Criteria:    func(s *AchievementStats) bool { return s.CurrentStreak >= 5 },
		},
		{
			ID: "sound_expert", Name: "Sound Expert", Icon: "🎵",
			Description: "Complete 10 sound challenges",
			Criteria:    func(s *AchievementStats) bool { return s.TypeCounts[challenge.TypeSound] >= 10 },
		},
		{
			ID: "image_expert", Name: "Image Expert", Icon: "👁️",
			Description: "Complete 10 image challenges",
			Criteria:    func(s *AchievementStats) bool { return s.TypeCounts[challenge.TypeImage] >= 10 },
		},
		{
			ID: "habitat_explorer", Name: "Habitat Explorer", Icon: "🌍",
			Description: "Complete 10 habitat challenges",
			Criteria:    func(s *AchievementStats) bool { return s.TypeCounts[challenge.TypeHabitat] >= 10 },
		},
		{
			ID: "diet_pro", Name: "Diet Pro", Icon: "📊",
			Description: "Complete 10 diet challenges",
			Criteria:    func(s *AchievementStats) bool { return s.TypeCounts[challenge.TypeDiet] >= 10 },
		},
		{
			ID: "animal_collector", Name: "Animal Collector", Icon: "🦁",
			Description: "Discover 10 different animals",
			Criteria:    func(s *AchievementStats) bool { return len(s.AnimalsDiscovered) >= 10 },
		},
		{
			ID: "night_owl", Name: "Night Owl", Icon: "🦉",
			Description: "Complete 5 challenges about nocturnal animals",
			Criteria:    func(s *AchievementStats) bool { return s.NightChallenges >= 5 },
		},
		{
			ID: "day_champion", Name: "Day Champion", Icon: "☀️",
			Description: "Complete 5 challenges about diurnal animals",
			Criteria:    func(s *AchievementStats) bool { return s.DayChallenges >= 5 },
		},
		{
			ID: "persistence", Name: "Persistence", Icon: "💪",
			Description: "Complete 50 challenges in total",
			Criteria:    func(s *AchievementStats) bool { return s.TotalCompleted >= 50 },
		},
		{
			ID: "perfectionist", Name: "Perfectionist", Icon: "💯",
			Description: "Keep 100% accuracy across 10 challenges",
			Criteria:    func(s *AchievementStats) bool { return s.TotalCompleted >= 10 && s.PerfectAccuracy },
		},
	}
}

// UnlockEvent is one entry of a user's chronological unlock history.
type UnlockEvent struct {
	AchievementID string    `json:"achievement_id"`
	Name          string    `json:"name"`
	Timestamp     time.Time `json:"timestamp"`
}

// AchievementNotifier receives unlock notifications, typically the
// external platform sink.
type AchievementNotifier interface {
	NotifyAchievement(userID, achievementID, name string)
}

// PeriodSource resolves an animal id to its record; the achievements
// observer uses it to classify completions as day or night.
type PeriodSource interface {
	Get(ctx context.Context, id int64) (*models.Animal, error)
}

type userAchievements struct {
	stats    AchievementStats
	unlocked map[string]struct{}
	history  []UnlockEvent
}

// Achievements evaluates unlock criteria after every completion and keeps
// the per-user unlock history.
type Achievements struct {
	mu       sync.Mutex
	registry []Achievement
	users    map[string]*userAchievements
	animals  PeriodSource
	notifier AchievementNotifier
	now      func() time.Time
	log      *logger.Logger
}

// AchievementOption configures an Achievements observer.
type AchievementOption func(*Achievements)

// WithPeriodSource enables day/night classification of completions.
func WithPeriodSource(src PeriodSource) AchievementOption {
	return func(a *Achievements) {
		a.animals = src
	}
}

// WithAchievementNotifier forwards unlocks to an external collaborator.
func WithAchievementNotifier(n AchievementNotifier) AchievementOption {
	return func(a *Achievements) {
		a.notifier = n
	}
}

// WithAchievementClock overrides the time source for tests.
func WithAchievementClock(now func() time.Time) AchievementOption {
	return func(a *Achievements) {
		a.now = now
	}
}

// NewAchievements creates an isolated achievements observer with the
// default registry.
func NewAchievements(opts ...AchievementOption) *Achievements {
	a := &Achievements{
		registry: DefaultAchievements(),
		users:    make(map[string]*userAchievements),
		now:      time.Now,
		log:      logger.Default().WithPrefix("achievements"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// initUser must be called with the mutex held.
func (a *Achievements) initUser(userID string) *userAchievements {
	user, ok := a.users[userID]
	if ok {
		return user
	}
	user = &userAchievements{
		stats: AchievementStats{
			FastestTime:       math.Inf(1),
			TypeCounts:        make(map[string]int),
			AnimalsDiscovered: make(map[int64]struct{}),
		},
		unlocked: make(map[string]struct{}),
	}
	a.users[userID] = user
	return user
}

// OnChallengeStarted ensures the user record exists.
func (a *Achievements) OnChallengeStarted(userID string, ch challenge.Challenge) error {
	a.mu.Lock()
	a.initUser(userID)
	a.mu.Unlock()
	return nil
}

// OnChallengeCompleted updates the statistics snapshot, then evaluates
// every criterion once. Newly satisfied criteria unlock, join the history
// and are forwarded to the notifier.
func (a *Achievements) OnChallengeCompleted(userID string, ch challenge.Challenge, answer string, timeTaken float64, isCorrect bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	user := a.initUser(userID)
	stats := &user.stats

	stats.TotalCompleted++
	if isCorrect {
		stats.TotalCorrect++
		stats.CurrentStreak++
		if timeTaken < stats.FastestTime {
			stats.FastestTime = timeTaken
		}
		stats.AnimalsDiscovered[ch.AnimalID()] = struct{}{}
	} else {
		stats.CurrentStreak = 0
	}
	stats.TypeCounts[ch.Type()]++
	stats.PerfectAccuracy = stats.TotalCorrect == stats.TotalCompleted

	if a.animals != nil {
		if animal, err := a.animals.Get(context.Background(), ch.AnimalID()); err == nil {
			if animal.Period == models.PeriodNocturnal {
				stats.NightChallenges++
			} else {
				stats.DayChallenges++
			}
		}
	}

	for _, ach := range a.registry {
		if _, done := user.unlocked[ach.ID]; done {
			continue
		}
		if !ach.Criteria(stats) {
			continue
		}
		user.unlocked[ach.ID] = struct{}{}
		user.history = append(user.history, UnlockEvent{
			AchievementID: ach.ID,
			Name:          ach.Name,
			Timestamp:     a.now(),
		})
		a.log.Info("achievement unlocked: user=%s achievement=%s", userID, ach.ID)
		if a.notifier != nil {
			a.notifier.NotifyAchievement(userID, ach.ID, ach.Name)
		}
	}
	return nil
}

// AchievementInfo describes one achievement for reporting.
type AchievementInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// AchievementReport is the per-user achievements view.
type AchievementReport struct {
	TotalAchievements    int               `json:"total_achievements"`
	UnlockedCount        int               `json:"unlocked_count"`
	CompletionPercentage float64           `json:"completion_percentage"`
	Unlocked             []AchievementInfo `json:"unlocked"`
	Locked               []AchievementInfo `json:"locked"`
	TotalCompleted       int               `json:"total_completed"`
	CurrentStreak        int               `json:"current_streak"`
	FastestTime          *float64          `json:"fastest_time"`
	AnimalsDiscovered    int               `json:"animals_discovered"`
	UnlockHistory        []UnlockEvent     `json:"unlock_history"`
}

// Report builds the achievements view for one user.
func (a *Achievements) Report(userID string) AchievementReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	user := a.initUser(userID)
	report := AchievementReport{
		TotalAchievements: len(a.registry),
		UnlockedCount:     len(user.unlocked),
		TotalCompleted:    user.stats.TotalCompleted,
		CurrentStreak:     user.stats.CurrentStreak,
		AnimalsDiscovered: len(user.stats.AnimalsDiscovered),
		UnlockHistory:     append([]UnlockEvent(nil), user.history...),
	}
	if len(a.registry) > 0 {
		report.CompletionPercentage = float64(len(user.unlocked)) / float64(len(a.registry)) * 100
	}
	if !math.IsInf(user.stats.FastestTime, 1) {
		fastest := user.stats.FastestTime
		report.FastestTime = &fastest
	}
	for _, ach := range a.registry {
		info := AchievementInfo{ID: ach.ID, Name: ach.Name, Description: ach.Description, Icon: ach.Icon}
		if _, done := user.unlocked[ach.ID]; done {
			report.Unlocked = append(report.Unlocked, info)
		} else {
			info.Icon = "🔒"
			report.Locked = append(report.Locked, info)
		}
	}
	return report
}

// Unlocked reports whether the user has unlocked the given achievement.
func (a *Achievements) Unlocked(userID, achievementID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	user := a.initUser(userID)
	_, done := user.unlocked[achievementID]
	return done
}

// NextAchievements suggests up to limit locked achievements, in registry
// order.
func (a *Achievements) NextAchievements(userID string, limit int) []AchievementInfo {
	a.mu.Lock()
	defer a.mu.Unlock()

	user := a.initUser(userID)
	var out []AchievementInfo
	for _, ach := range a.registry {
		if _, done := user.unlocked[ach.ID]; done {
			continue
		}
		out = append(out, AchievementInfo{ID: ach.ID, Name: ach.Name, Description: ach.Description, Icon: ach.Icon})
		if len(out) == limit {
			break
		}
	}
	return out
}

// AchievementSnapshot is the achievements slice of a submission result.
type AchievementSnapshot struct {
	UnlockedCount  int           `json:"unlocked_count"`
	CurrentStreak  int           `json:"current_streak"`
	RecentUnlocks  []UnlockEvent `json:"recent_unlocks,omitempty"`
	TotalCompleted int           `json:"total_completed"`
}

// Snapshot returns the achievements state after the latest event. since
// bounds RecentUnlocks to unlocks at or after the given time.
func (a *Achievements) Snapshot(userID string, since time.Time) AchievementSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	user := a.initUser(userID)
	snap := AchievementSnapshot{
		UnlockedCount:  len(user.unlocked),
		CurrentStreak:  user.stats.CurrentStreak,
		TotalCompleted: user.stats.TotalCompleted,
	}
	for _, event := range user.history {
		if !event.Timestamp.Before(since) {
			snap.RecentUnlocks = append(snap.RecentUnlocks, event)
		}
	}
	return snap
}
