// Package observers holds the subsystems that react to challenge lifecycle
// events: cognitive analytics, achievements and level progression. Each one
// keeps its own per-user projection of the event stream; the projections
// are never merged.
package observers

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/vytor/wildquiz/internal/challenge"
	apperrors "github.com/vytor/wildquiz/internal/errors"
	"github.com/vytor/wildquiz/internal/logger"
)

// TypeStats is the per-challenge-type accuracy bucket.
type TypeStats struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

type cognitiveRecord struct {
	totalChallenges   int
	correctAnswers    int
	incorrectAnswers  int
	accuracyRate      float64
	byType            map[string]*TypeStats
	typeOrder         []string
	animalsDiscovered []int64
	currentLevel      int
	firstAttempt      time.Time
	lastAttempt       time.Time
}

// Analytics aggregates per-user accuracy, per-type performance, discovered
// animals and a derived cognitive level.
type Analytics struct {
	mu         sync.Mutex
	users      map[string]*cognitiveRecord
	activityID string
	now        func() time.Time
	log        *logger.Logger
}

// AnalyticsOption configures an Analytics observer.
type AnalyticsOption func(*Analytics)

// WithAnalyticsClock overrides the time source for tests.
func WithAnalyticsClock(now func() time.Time) AnalyticsOption {
	return func(a *Analytics) {
		a.now = now
	}
}

// NewAnalytics creates an isolated analytics observer. activityID tags
// platform exports.
func NewAnalytics(activityID string, opts ...AnalyticsOption) *Analytics {
	a := &Analytics{
		users:      make(map[string]*cognitiveRecord),
		activityID: activityID,
		now:        time.Now,
		log:        logger.Default().WithPrefix("analytics"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// initUser must be called with the mutex held.
func (a *Analytics) initUser(userID string) *cognitiveRecord {
	rec, ok := a.users[userID]
	if ok {
		return rec
	}
	now := a.now()
	rec = &cognitiveRecord{
		byType:       make(map[string]*TypeStats),
		currentLevel: 1,
		firstAttempt: now,
		lastAttempt:  now,
	}
	for _, typ := range []string{challenge.TypeSound, challenge.TypeImage, challenge.TypeHabitat, challenge.TypeDiet} {
		rec.byType[typ] = &TypeStats{}
		rec.typeOrder = append(rec.typeOrder, typ)
	}
	a.users[userID] = rec
	return rec
}

func (rec *cognitiveRecord) bucket(typ string) *TypeStats {
	stats, ok := rec.byType[typ]
	if !ok {
		stats = &TypeStats{}
		rec.byType[typ] = stats
		rec.typeOrder = append(rec.typeOrder, typ)
	}
	return stats
}

// OnChallengeStarted ensures the user record exists.
func (a *Analytics) OnChallengeStarted(userID string, ch challenge.Challenge) error {
	a.mu.Lock()
	a.initUser(userID)
	a.mu.Unlock()
	a.log.Debug("user %s started %s challenge", userID, ch.Type())
	return nil
}

// OnChallengeCompleted folds one completion into the user's record.
func (a *Analytics) OnChallengeCompleted(userID string, ch challenge.Challenge, answer string, timeTaken float64, isCorrect bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec := a.initUser(userID)
	rec.totalChallenges++
	if isCorrect {
		rec.correctAnswers++
	} else {
		rec.incorrectAnswers++
	}
	rec.accuracyRate = float64(rec.correctAnswers) / float64(rec.totalChallenges) * 100

	stats := rec.bucket(ch.Type())
	stats.Total++
	if isCorrect {
		stats.Correct++
	}
	stats.Accuracy = float64(stats.Correct) / float64(stats.Total) * 100

	if isCorrect && !containsID(rec.animalsDiscovered, ch.AnimalID()) {
		rec.animalsDiscovered = append(rec.animalsDiscovered, ch.AnimalID())
	}

	rec.lastAttempt = a.now()
	rec.currentLevel = cognitiveLevel(rec)

	a.log.Debug("user %s completed %s: correct=%t accuracy=%.1f level=%d",
		userID, ch.Type(), isCorrect, rec.accuracyRate, rec.currentLevel)
	return nil
}

// OnChallengeSkipped only logs; skips carry no accuracy signal.
func (a *Analytics) OnChallengeSkipped(userID string, ch challenge.Challenge) error {
	a.log.Debug("user %s skipped %s challenge", userID, ch.Type())
	return nil
}

// cognitiveLevel derives the 1-5 level from volume and accuracy. The level
// never drops below its previous value.
func cognitiveLevel(rec *cognitiveRecord) int {
	total := rec.totalChallenges
	accuracy := rec.accuracyRate

	switch {
	case total < 5:
		return 1
	case total < 15 && accuracy >= 60:
		return 2
	case total < 30 && accuracy >= 70:
		return 3
	case total < 50 && accuracy >= 80:
		return 4
	case accuracy >= 85:
		return 5
	}
	if rec.currentLevel < 1 {
		return 1
	}
	return rec.currentLevel
}

// PointsEarned scores a single answer: nothing when wrong, 10 base with a
// small speed bonus when right.
func PointsEarned(isCorrect bool, timeTaken float64) int {
	if !isCorrect {
		return 0
	}
	points := 10
	if timeTaken < 10 {
		points += 5
	} else if timeTaken < 20 {
		points += 2
	}
	return points
}

// CognitiveSnapshot is the analytics slice of a submission result.
type CognitiveSnapshot struct {
	CurrentAccuracy   float64 `json:"current_accuracy"`
	TypeAccuracy      float64 `json:"type_accuracy"`
	CurrentLevel      int     `json:"current_level"`
	AnimalsDiscovered int     `json:"animals_discovered"`
}

// Snapshot returns the user's analytics state after the latest event.
func (a *Analytics) Snapshot(userID, challengeType string) CognitiveSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec := a.initUser(userID)
	return CognitiveSnapshot{
		CurrentAccuracy:   rec.accuracyRate,
		TypeAccuracy:      rec.bucket(challengeType).Accuracy,
		CurrentLevel:      rec.currentLevel,
		AnimalsDiscovered: len(rec.animalsDiscovered),
	}
}

// AccuracyByType returns one type's accuracy bucket.
func (a *Analytics) AccuracyByType(userID, challengeType string) (TypeStats, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec := a.initUser(userID)
	stats, ok := rec.byType[challengeType]
	if !ok {
		return TypeStats{}, apperrors.NewNotFoundError("challenge type", challengeType)
	}
	return *stats, nil
}

// AccuracyOverview bundles global and per-type accuracy.
type AccuracyOverview struct {
	GlobalAccuracy float64              `json:"global_accuracy"`
	ByType         map[string]TypeStats `json:"by_type"`
}

// Accuracy returns the user's global and per-type accuracy rates.
func (a *Analytics) Accuracy(userID string) AccuracyOverview {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec := a.initUser(userID)
	return AccuracyOverview{
		GlobalAccuracy: rec.accuracyRate,
		ByType:         copyByType(rec.byType),
	}
}

// ProgressSummary is the headline block of a progress report.
type ProgressSummary struct {
	TotalChallenges int     `json:"total_challenges"`
	CorrectAnswers  int     `json:"correct_answers"`
	AccuracyRate    float64 `json:"accuracy_rate"`
	CurrentLevel    int     `json:"current_level"`
}

// ProgressReport is the full cognitive progress view for one user.
type ProgressReport struct {
	UserID            string               `json:"user_id"`
	Summary           ProgressSummary      `json:"summary"`
	ByType            map[string]TypeStats `json:"by_challenge_type"`
	AnimalsDiscovered []int64              `json:"animals_discovered"`
	FirstAttempt      time.Time            `json:"first_attempt"`
	LastAttempt       time.Time            `json:"last_attempt"`
}

// Progress builds the progress report for one user.
func (a *Analytics) Progress(userID string) ProgressReport {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec := a.initUser(userID)
	discovered := make([]int64, len(rec.animalsDiscovered))
	copy(discovered, rec.animalsDiscovered)

	return ProgressReport{
		UserID: userID,
		Summary: ProgressSummary{
			TotalChallenges: rec.totalChallenges,
			CorrectAnswers:  rec.correctAnswers,
			AccuracyRate:    round2(rec.accuracyRate),
			CurrentLevel:    rec.currentLevel,
		},
		ByType:            copyByType(rec.byType),
		AnimalsDiscovered: discovered,
		FirstAttempt:      rec.firstAttempt,
		LastAttempt:       rec.lastAttempt,
	}
}

// RecommendedTypes lists challenge types the user has attempted fewer than
// 10 times, weakest accuracy first.
func (a *Analytics) RecommendedTypes(userID string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec := a.initUser(userID)
	var out []string
	for _, typ := range rec.typeOrder {
		if rec.byType[typ].Total < 10 {
			out = append(out, typ)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rec.byType[out[i]].Accuracy < rec.byType[out[j]].Accuracy
	})
	return out
}

// ExportMetrics is the metrics block of a platform export.
type ExportMetrics struct {
	TotalResponses    int     `json:"totalResponses"`
	CorrectResponses  int     `json:"correctResponses"`
	AccuracyRate      float64 `json:"accuracyRate"`
	CurrentLevel      int     `json:"currentLevel"`
	AnimalsDiscovered int     `json:"animalsDiscovered"`
}

// PlatformExport is the canonical shape handed to the external
// learning-analytics platform.
type PlatformExport struct {
	StudentID  string               `json:"studentId"`
	ActivityID string               `json:"activityId"`
	Metrics    ExportMetrics        `json:"metrics"`
	ByType     map[string]TypeStats `json:"byType"`
	Timestamp  time.Time            `json:"timestamp"`
}

// ExportForPlatform formats the user's analytics for the external platform.
func (a *Analytics) ExportForPlatform(userID string) PlatformExport {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec := a.initUser(userID)
	return PlatformExport{
		StudentID:  userID,
		ActivityID: a.activityID,
		Metrics: ExportMetrics{
			TotalResponses:    rec.totalChallenges,
			CorrectResponses:  rec.correctAnswers,
			AccuracyRate:      rec.accuracyRate,
			CurrentLevel:      rec.currentLevel,
			AnimalsDiscovered: len(rec.animalsDiscovered),
		},
		ByType:    copyByType(rec.byType),
		Timestamp: a.now(),
	}
}

func copyByType(byType map[string]*TypeStats) map[string]TypeStats {
	out := make(map[string]TypeStats, len(byType))
	for typ, stats := range byType {
		out[typ] = *stats
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func containsID(ids []int64, id int64) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
