package services

import (
	"context"
	"time"

	"github.com/vytor/wildquiz/internal/challenge"
	"github.com/vytor/wildquiz/internal/errors"
	"github.com/vytor/wildquiz/internal/logger"
	"github.com/vytor/wildquiz/internal/models"
	"github.com/vytor/wildquiz/internal/observers"
	"github.com/vytor/wildquiz/internal/platform"
)

// TypeRandom asks the factory to pick a challenge type uniformly.
const TypeRandom = "random"

// CreateChallengeRequest is the input to CreateChallenge.
type CreateChallengeRequest struct {
	UserID           string `json:"user_id"`
	Type             string `json:"type"`
	AnimalID         int64  `json:"animal_id"`
	Difficulty       int    `json:"difficulty"`
	Timed            bool   `json:"timed"`
	TimeLimitSeconds int    `json:"time_limit_seconds"`
}

// SubmitAnswerRequest is the input to SubmitAnswer.
type SubmitAnswerRequest struct {
	UserID           string  `json:"user_id"`
	Type             string  `json:"type"`
	AnimalID         int64   `json:"animal_id"`
	Answer           string  `json:"answer"`
	TimeTaken        float64 `json:"time_taken"`
	TimeLimitSeconds int     `json:"time_limit_seconds"`
}

// SkipRequest is the input to SkipChallenge.
type SkipRequest struct {
	UserID   string `json:"user_id"`
	Type     string `json:"type"`
	AnimalID int64  `json:"animal_id"`
}

// SubmitResult combines the verdict with the post-event state of every
// progression subsystem.
type SubmitResult struct {
	IsCorrect     bool                          `json:"is_correct"`
	CorrectAnswer string                        `json:"correct_answer,omitempty"`
	TimedOut      bool                          `json:"timed_out,omitempty"`
	PointsEarned  int                           `json:"points_earned"`
	Cognitive     observers.CognitiveSnapshot   `json:"cognitive"`
	Level         observers.LevelSnapshot       `json:"level"`
	Achievements  observers.AchievementSnapshot `json:"achievements"`
}

// QuizService is the application core: it creates challenges, judges
// answers and fans events out to the progression subsystems.
type QuizService interface {
	CreateChallenge(ctx context.Context, req CreateChallengeRequest) (models.ChallengeRecord, error)
	SubmitAnswer(ctx context.Context, req SubmitAnswerRequest) (*SubmitResult, error)
	SkipChallenge(ctx context.Context, req SkipRequest) error

	Accuracy(userID string) observers.AccuracyOverview
	AccuracyForType(userID, challengeType string) (observers.TypeStats, error)
	Progress(userID string) observers.ProgressReport
	RecommendedTypes(userID string) []string
	ExportForPlatform(userID string, send bool) observers.PlatformExport
	Achievements(userID string) observers.AchievementReport
	LevelProgress(userID string) observers.LevelProgress
	Leaderboard(limit int) []observers.LeaderboardEntry
}

type quizService struct {
	factory      *challenge.Factory
	analytics    *observers.Analytics
	achievements *observers.Achievements
	levels       *observers.Levels
	platform     *platform.Client

	defaultTimeLimit int
}

// NewQuizService wires the factory and observer set into a service.
// platformClient may be nil when no external platform is configured.
func NewQuizService(
	factory *challenge.Factory,
	analytics *observers.Analytics,
	achievements *observers.Achievements,
	levels *observers.Levels,
	platformClient *platform.Client,
	defaultTimeLimit int,
) QuizService {
	if defaultTimeLimit <= 0 {
		defaultTimeLimit = challenge.DefaultTimeLimit
	}
	return &quizService{
		factory:          factory,
		analytics:        analytics,
		achievements:     achievements,
		levels:           levels,
		platform:         platformClient,
		defaultTimeLimit: defaultTimeLimit,
	}
}

// attach subscribes the observer set in notification order: analytics,
// achievements, levels, then the platform sink.
func (s *quizService) attach(ch challenge.Challenge) {
	notifier, ok := ch.(challenge.Notifier)
	if !ok {
		return
	}
	notifier.Attach(s.analytics)
	notifier.Attach(s.achievements)
	notifier.Attach(s.levels)
	if s.platform != nil {
		notifier.Attach(s.platform)
	}
}

func (s *quizService) create(ctx context.Context, typeName string, animalID int64, difficulty int) (challenge.Challenge, error) {
	if typeName == TypeRandom {
		return s.factory.CreateRandom(ctx, animalID, difficulty)
	}
	return s.factory.Create(ctx, typeName, animalID, difficulty)
}

func (s *quizService) CreateChallenge(ctx context.Context, req CreateChallengeRequest) (models.ChallengeRecord, error) {
	log := logger.FromContext(ctx)

	if req.Type == "" {
		return models.ChallengeRecord{}, errors.NewMissingFieldError("type")
	}
	if req.AnimalID <= 0 {
		return models.ChallengeRecord{}, errors.NewMissingFieldError("animal_id")
	}

	ch, err := s.create(ctx, req.Type, req.AnimalID, req.Difficulty)
	if err != nil {
		return models.ChallengeRecord{}, err
	}

	if req.Timed {
		limit := req.TimeLimitSeconds
		if limit <= 0 {
			limit = s.defaultTimeLimit
		}
		timed := challenge.WrapTimed(ch, challenge.WithTimeLimit(limit))
		timed.StartTimer()
		ch = timed
	}

	if req.UserID != "" {
		s.attach(ch)
		if notifier, ok := ch.(challenge.Notifier); ok {
			if err := notifier.NotifyStarted(req.UserID, ch); err != nil {
				log.Warn("observer errors on challenge start: %v", err)
			}
		}
	}

	log.Debug("created %s challenge for animal %d (user=%s)", ch.Type(), req.AnimalID, req.UserID)
	return ch.Serialize(), nil
}

func (s *quizService) SubmitAnswer(ctx context.Context, req SubmitAnswerRequest) (*SubmitResult, error) {
	log := logger.FromContext(ctx)

	if req.UserID == "" {
		return nil, errors.NewMissingFieldError("user_id")
	}
	if req.Type == "" {
		return nil, errors.NewMissingFieldError("type")
	}
	if req.AnimalID <= 0 {
		return nil, errors.NewMissingFieldError("animal_id")
	}
	if req.Answer == "" {
		return nil, errors.NewMissingFieldError("answer")
	}
	if req.TimeTaken < 0 {
		return nil, errors.NewValidationError("time_taken", "cannot be negative")
	}

	// The API is stateless: the challenge is rebuilt from its identifying
	// fields rather than looked up from a session.
	ch, err := s.factory.Create(ctx, req.Type, req.AnimalID, 1)
	if err != nil {
		return nil, err
	}
	s.attach(ch)

	timedOut := req.TimeLimitSeconds > 0 && req.TimeTaken > float64(req.TimeLimitSeconds)
	isCorrect := !timedOut && ch.Validate(req.Answer)

	levelBefore := s.levels.Level(req.UserID)
	since := time.Now()

	if notifier, ok := ch.(challenge.Notifier); ok {
		if err := notifier.NotifyCompleted(req.UserID, ch, req.Answer, req.TimeTaken, isCorrect); err != nil {
			log.Warn("observer errors on challenge completion: %v", err)
		}
	}

	xpEarned := observers.CalculateXP(ch.Type(), ch.Difficulty(), req.TimeTaken, isCorrect)
	leveledUp := s.levels.Level(req.UserID) > levelBefore

	result := &SubmitResult{
		IsCorrect:    isCorrect,
		TimedOut:     timedOut,
		PointsEarned: observers.PointsEarned(isCorrect, req.TimeTaken),
		Cognitive:    s.analytics.Snapshot(req.UserID, ch.Type()),
		Level:        s.levels.Snapshot(req.UserID, xpEarned, leveledUp),
		Achievements: s.achievements.Snapshot(req.UserID, since),
	}
	if !isCorrect {
		result.CorrectAnswer = ch.CorrectAnswer()
	}

	log.Debug("user %s answered %s challenge: correct=%t points=%d",
		req.UserID, ch.Type(), isCorrect, result.PointsEarned)
	return result, nil
}

func (s *quizService) SkipChallenge(ctx context.Context, req SkipRequest) error {
	log := logger.FromContext(ctx)

	if req.UserID == "" {
		return errors.NewMissingFieldError("user_id")
	}
	if req.Type == "" {
		return errors.NewMissingFieldError("type")
	}
	if req.AnimalID <= 0 {
		return errors.NewMissingFieldError("animal_id")
	}

	ch, err := s.factory.Create(ctx, req.Type, req.AnimalID, 1)
	if err != nil {
		return err
	}
	s.attach(ch)

	if notifier, ok := ch.(challenge.Notifier); ok {
		if err := notifier.NotifySkipped(req.UserID, ch); err != nil {
			log.Warn("observer errors on challenge skip: %v", err)
		}
	}
	return nil
}

func (s *quizService) Accuracy(userID string) observers.AccuracyOverview {
	return s.analytics.Accuracy(userID)
}

func (s *quizService) AccuracyForType(userID, challengeType string) (observers.TypeStats, error) {
	return s.analytics.AccuracyByType(userID, challengeType)
}

func (s *quizService) Progress(userID string) observers.ProgressReport {
	return s.analytics.Progress(userID)
}

func (s *quizService) RecommendedTypes(userID string) []string {
	return s.analytics.RecommendedTypes(userID)
}

// ExportForPlatform formats the user's analytics for the external platform
// and, when send is set, ships the report asynchronously.
func (s *quizService) ExportForPlatform(userID string, send bool) observers.PlatformExport {
	export := s.analytics.ExportForPlatform(userID)
	if send && s.platform != nil {
		s.platform.SendProgressReport(userID, export)
	}
	return export
}

func (s *quizService) Achievements(userID string) observers.AchievementReport {
	return s.achievements.Report(userID)
}

func (s *quizService) LevelProgress(userID string) observers.LevelProgress {
	return s.levels.Progress(userID)
}

func (s *quizService) Leaderboard(limit int) []observers.LeaderboardEntry {
	return s.levels.Leaderboard(limit)
}
