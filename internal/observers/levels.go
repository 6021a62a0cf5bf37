package observers

import (
	"sort"
	"sync"
	"time"

	"github.com/vytor/wildquiz/internal/challenge"
	"github.com/vytor/wildquiz/internal/logger"
)

// LevelDef is one row of the progression table.
type LevelDef struct {
	Level      int    `json:"level"`
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	XPRequired int    `json:"xp_required"`
}

// levelTable is ordered by level; thresholds are cumulative XP.
var levelTable = []LevelDef{
	{1, "Beginner Explorer", "🌱", 0},
	{2, "Curious Observer", "🔍", 100},
	{3, "Fauna Connoisseur", "🦊", 300},
	{4, "Animal Specialist", "🦁", 600},
	{5, "Master Naturalist", "🦅", 1000},
	{6, "Nature Sage", "🌟", 1500},
	{7, "Animal Guardian", "👑", 2200},
	{8, "Fauna Legend", "🏆", 3000},
}

// Per-type XP multipliers; diet is the hardest variant and pays the most.
var xpMultipliers = map[string]float64{
	challenge.TypeSound:   1.0,
	challenge.TypeImage:   1.1,
	challenge.TypeHabitat: 1.2,
	challenge.TypeDiet:    1.5,
}

// LevelUpEvent is one entry of a user's level-up history.
type LevelUpEvent struct {
	OldLevel            int       `json:"old_level"`
	Level               int       `json:"level"`
	LevelName           string    `json:"level_name"`
	TotalXP             int       `json:"total_xp"`
	ChallengesCompleted int       `json:"challenges_completed"`
	Timestamp           time.Time `json:"timestamp"`
}

// LevelUpNotifier receives level-up notifications, typically the external
// platform sink.
type LevelUpNotifier interface {
	NotifyLevelUp(userID string, newLevel int, metrics map[string]any)
}

type levelRecord struct {
	xp        int
	level     int
	completed int // every completion counts, incorrect included
	history   []LevelUpEvent
}

// Levels converts completions into XP and tracks each user's position on
// the progression table.
type Levels struct {
	mu       sync.Mutex
	users    map[string]*levelRecord
	notifier LevelUpNotifier
	now      func() time.Time
	log      *logger.Logger
}

// LevelOption configures a Levels observer.
type LevelOption func(*Levels)

// WithLevelUpNotifier forwards level-ups to an external collaborator.
func WithLevelUpNotifier(n LevelUpNotifier) LevelOption {
	return func(l *Levels) {
		l.notifier = n
	}
}

// WithLevelClock overrides the time source for tests.
func WithLevelClock(now func() time.Time) LevelOption {
	return func(l *Levels) {
		l.now = now
	}
}

// NewLevels creates an isolated level-progression observer.
func NewLevels(opts ...LevelOption) *Levels {
	l := &Levels{
		users: make(map[string]*levelRecord),
		now:   time.Now,
		log:   logger.Default().WithPrefix("levels"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// initUser must be called with the mutex held.
func (l *Levels) initUser(userID string) *levelRecord {
	rec, ok := l.users[userID]
	if ok {
		return rec
	}
	rec = &levelRecord{level: 1}
	l.users[userID] = rec
	return rec
}

// difficultyBonus maps the 1-5 integer difficulty onto the easy/medium/hard
// bonus tiers.
func difficultyBonus(difficulty int) int {
	switch {
	case difficulty <= 2:
		return 0
	case difficulty == 3:
		return 5
	default:
		return 10
	}
}

func speedBonus(timeTaken float64) int {
	switch {
	case timeTaken < 5:
		return 10
	case timeTaken < 10:
		return 5
	case timeTaken < 20:
		return 2
	default:
		return 0
	}
}

// CalculateXP scores one completion. Incorrect answers earn nothing.
func CalculateXP(challengeType string, difficulty int, timeTaken float64, isCorrect bool) int {
	if !isCorrect {
		return 0
	}
	multiplier, ok := xpMultipliers[challengeType]
	if !ok {
		multiplier = 1.0
	}
	base := float64(10 + difficultyBonus(difficulty))
	return int(base*multiplier) + speedBonus(timeTaken)
}

// levelFor returns the highest level whose threshold is at or below xp.
func levelFor(xp int) int {
	level := 1
	for _, def := range levelTable {
		if xp >= def.XPRequired {
			level = def.Level
		}
	}
	return level
}

func levelDef(level int) LevelDef {
	for _, def := range levelTable {
		if def.Level == level {
			return def
		}
	}
	return levelTable[0]
}

// OnChallengeStarted ensures the user record exists.
func (l *Levels) OnChallengeStarted(userID string, ch challenge.Challenge) error {
	l.mu.Lock()
	l.initUser(userID)
	l.mu.Unlock()
	return nil
}

// OnChallengeCompleted counts the completion, adds the earned XP and
// recomputes the level. A level increase joins the history and is forwarded
// to the notifier.
func (l *Levels) OnChallengeCompleted(userID string, ch challenge.Challenge, answer string, timeTaken float64, isCorrect bool) error {
	l.mu.Lock()
	l.initUser(userID).completed++
	l.mu.Unlock()

	if xp := CalculateXP(ch.Type(), ch.Difficulty(), timeTaken, isCorrect); xp > 0 {
		l.addXP(userID, xp)
	}
	return nil
}

// AwardBonusXP grants XP outside the completion flow, e.g. for a daily
// login or a special event. Level-up handling is identical.
func (l *Levels) AwardBonusXP(userID string, amount int, reason string) {
	if amount <= 0 {
		return
	}
	l.log.Info("bonus XP: user=%s amount=%d reason=%s", userID, amount, reason)
	l.addXP(userID, amount)
}

func (l *Levels) addXP(userID string, amount int) {
	l.mu.Lock()
	rec := l.initUser(userID)
	rec.xp += amount
	oldLevel := rec.level
	newLevel := levelFor(rec.xp)
	leveledUp := newLevel > oldLevel
	if leveledUp {
		rec.level = newLevel
		def := levelDef(newLevel)
		rec.history = append(rec.history, LevelUpEvent{
			OldLevel:            oldLevel,
			Level:               newLevel,
			LevelName:           def.Name,
			TotalXP:             rec.xp,
			ChallengesCompleted: rec.completed,
			Timestamp:           l.now(),
		})
	}
	totalXP, level, completed := rec.xp, rec.level, rec.completed
	l.mu.Unlock()

	if leveledUp {
		l.log.Info("level up: user=%s level=%d xp=%d", userID, level, totalXP)
		if l.notifier != nil {
			l.notifier.NotifyLevelUp(userID, level, map[string]any{
				"level_name":           levelDef(level).Name,
				"total_xp":             totalXP,
				"challenges_completed": completed,
			})
		}
	}
}

// LevelSnapshot is the level slice of a submission result.
type LevelSnapshot struct {
	XPEarned     int    `json:"xp_earned"`
	TotalXP      int    `json:"total_xp"`
	CurrentLevel int    `json:"current_level"`
	LevelName    string `json:"level_name"`
	LeveledUp    bool   `json:"leveled_up"`
}

// Snapshot returns the level state after the latest event. xpEarned is
// echoed back so callers can show it without recomputing.
func (l *Levels) Snapshot(userID string, xpEarned int, leveledUp bool) LevelSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.initUser(userID)
	return LevelSnapshot{
		XPEarned:     xpEarned,
		TotalXP:      rec.xp,
		CurrentLevel: rec.level,
		LevelName:    levelDef(rec.level).Name,
		LeveledUp:    leveledUp,
	}
}

// XP returns the user's lifetime XP total.
func (l *Levels) XP(userID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initUser(userID).xp
}

// Level returns the user's current level.
func (l *Levels) Level(userID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initUser(userID).level
}

// LevelProgress is the full progression view for one user.
type LevelProgress struct {
	UserID              string         `json:"user_id"`
	TotalXP             int            `json:"total_xp"`
	ChallengesCompleted int            `json:"challenges_completed"`
	Current             LevelDef       `json:"current"`
	Next                *LevelDef      `json:"next,omitempty"`
	XPToNext            int            `json:"xp_to_next"`
	ProgressPercent     float64        `json:"progress_percent"`
	RecentLevelUps      []LevelUpEvent `json:"recent_level_ups,omitempty"`
}

// Progress builds the progression view: current and next level, XP gap and
// percentage through the current band, plus the last 5 level-ups.
func (l *Levels) Progress(userID string) LevelProgress {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.initUser(userID)
	current := levelDef(rec.level)
	progress := LevelProgress{
		UserID:              userID,
		TotalXP:             rec.xp,
		ChallengesCompleted: rec.completed,
		Current:             current,
		ProgressPercent:     100,
	}
	if rec.level < levelTable[len(levelTable)-1].Level {
		next := levelDef(rec.level + 1)
		progress.Next = &next
		progress.XPToNext = next.XPRequired - rec.xp
		band := next.XPRequired - current.XPRequired
		if band > 0 {
			progress.ProgressPercent = round2(float64(rec.xp-current.XPRequired) / float64(band) * 100)
		}
	}
	if n := len(rec.history); n > 0 {
		from := n - 5
		if from < 0 {
			from = 0
		}
		progress.RecentLevelUps = append([]LevelUpEvent(nil), rec.history[from:]...)
	}
	return progress
}

// LeaderboardEntry is one row of the XP leaderboard.
type LeaderboardEntry struct {
	Rank                int    `json:"rank"`
	UserID              string `json:"user_id"`
	TotalXP             int    `json:"total_xp"`
	Level               int    `json:"level"`
	LevelName           string `json:"level_name"`
	ChallengesCompleted int    `json:"challenges_completed"`
}

// Leaderboard returns up to limit users ordered by lifetime XP descending.
// Ties break on user id so the order is stable.
func (l *Levels) Leaderboard(limit int) []LeaderboardEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]LeaderboardEntry, 0, len(l.users))
	for userID, rec := range l.users {
		entries = append(entries, LeaderboardEntry{
			UserID:              userID,
			TotalXP:             rec.xp,
			Level:               rec.level,
			LevelName:           levelDef(rec.level).Name,
			ChallengesCompleted: rec.completed,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalXP != entries[j].TotalXP {
			return entries[i].TotalXP > entries[j].TotalXP
		}
		return entries[i].UserID < entries[j].UserID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
