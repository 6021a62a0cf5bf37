// Package platform delivers learner events to the external
// learning-analytics platform. Events queue in memory and ship in batches
// on a background worker, so a slow platform never stalls a submission.
package platform

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vytor/wildquiz/internal/challenge"
	"github.com/vytor/wildquiz/internal/logger"
	"github.com/vytor/wildquiz/internal/worker"
)

// Event types shipped to the platform.
const (
	EventChallengeStarted    = "challenge_started"
	EventChallengeCompleted  = "challenge_completed"
	EventChallengeSkipped    = "challenge_skipped"
	EventLevelUp             = "level_up"
	EventAchievementUnlocked = "achievement_unlocked"
	EventProgressReport      = "progress_report"
)

// DefaultBatchSize is the queue length that triggers an automatic flush.
const DefaultBatchSize = 10

// Event is one platform notification.
type Event struct {
	ID         string         `json:"id"`
	EventType  string         `json:"event_type"`
	Timestamp  time.Time      `json:"timestamp"`
	StudentID  string         `json:"student_id"`
	ActivityID string         `json:"activity_id"`
	Payload    map[string]any `json:"payload,omitempty"`
}

type eventBatch struct {
	Events         []Event   `json:"events"`
	BatchTimestamp time.Time `json:"batch_timestamp"`
}

// Submitter is the slice of the worker pool the client needs.
type Submitter interface {
	Submit(worker.Job) error
}

// Client batches events for the external platform. It implements the
// challenge observer interface plus the level-up and achievement
// notification hooks, so it can be attached anywhere those fire.
type Client struct {
	mu    sync.Mutex
	queue []Event

	baseURL    string
	apiKey     string
	activityID string
	batchSize  int

	httpc *http.Client
	pool  Submitter
	now   func() time.Time
	newID func() string
	log   *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for delivery.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithBatchSize sets how many queued events trigger an automatic flush.
func WithBatchSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithPlatformClock overrides the time source for tests.
func WithPlatformClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithIDGenerator overrides event id generation for tests.
func WithIDGenerator(newID func() string) Option {
	return func(c *Client) {
		c.newID = newID
	}
}

// NewClient creates a platform client delivering through the given pool.
func NewClient(baseURL, apiKey, activityID string, pool Submitter, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		activityID: activityID,
		batchSize:  DefaultBatchSize,
		httpc:      &http.Client{Timeout: 10 * time.Second},
		pool:       pool,
		now:        time.Now,
		newID:      uuid.NewString,
		log:        logger.Default().WithPrefix("platform"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) event(eventType, studentID string, payload map[string]any) Event {
	return Event{
		ID:         c.newID(),
		EventType:  eventType,
		Timestamp:  c.now(),
		StudentID:  studentID,
		ActivityID: c.activityID,
		Payload:    payload,
	}
}

// OnChallengeStarted queues a challenge_started event.
func (c *Client) OnChallengeStarted(userID string, ch challenge.Challenge) error {
	c.enqueue(c.event(EventChallengeStarted, userID, map[string]any{
		"type":       ch.Type(),
		"difficulty": ch.Difficulty(),
		"animal_id":  ch.AnimalID(),
	}))
	return nil
}

// OnChallengeCompleted queues a challenge_completed event.
func (c *Client) OnChallengeCompleted(userID string, ch challenge.Challenge, answer string, timeTaken float64, isCorrect bool) error {
	c.enqueue(c.event(EventChallengeCompleted, userID, map[string]any{
		"type":         ch.Type(),
		"difficulty":   ch.Difficulty(),
		"animal_id":    ch.AnimalID(),
		"is_correct":   isCorrect,
		"time_taken":   timeTaken,
		"answer_given": answer,
		"session_id":   c.sessionID(userID),
	}))
	return nil
}

// OnChallengeSkipped queues a challenge_skipped event.
func (c *Client) OnChallengeSkipped(userID string, ch challenge.Challenge) error {
	c.enqueue(c.event(EventChallengeSkipped, userID, map[string]any{
		"type":      ch.Type(),
		"animal_id": ch.AnimalID(),
	}))
	return nil
}

// NotifyLevelUp queues a level_up event.
func (c *Client) NotifyLevelUp(userID string, newLevel int, metrics map[string]any) {
	payload := map[string]any{"new_level": newLevel}
	for k, v := range metrics {
		payload[k] = v
	}
	c.enqueue(c.event(EventLevelUp, userID, payload))
}

// NotifyAchievement queues an achievement_unlocked event.
func (c *Client) NotifyAchievement(userID, achievementID, achievementName string) {
	c.enqueue(c.event(EventAchievementUnlocked, userID, map[string]any{
		"achievement_id":   achievementID,
		"achievement_name": achievementName,
	}))
}

// SendProgressReport ships a full progress report immediately, bypassing
// the batch queue.
func (c *Client) SendProgressReport(userID string, report any) {
	event := c.event(EventProgressReport, userID, map[string]any{"report": report})
	c.dispatch([]Event{event})
}

// sessionID derives a short tracking id from the user and current time.
func (c *Client) sessionID(userID string) string {
	sum := md5.Sum([]byte(userID + "_" + c.now().Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:])[:16]
}

func (c *Client) enqueue(event Event) {
	c.mu.Lock()
	c.queue = append(c.queue, event)
	shouldFlush := len(c.queue) >= c.batchSize
	c.mu.Unlock()

	c.log.Debug("queued %s event for %s", event.EventType, event.StudentID)
	if shouldFlush {
		c.ForceFlush()
	}
}

// Pending returns the number of queued, not-yet-dispatched events.
func (c *Client) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// ForceFlush dispatches every queued event regardless of batch size.
func (c *Client) ForceFlush() {
	c.mu.Lock()
	pending := c.queue
	c.queue = nil
	c.mu.Unlock()

	if len(pending) == 0 {
		return
	}
	c.dispatch(pending)
}

// dispatch hands a batch to the worker pool. Rejected jobs are logged and
// dropped; delivery is best effort.
func (c *Client) dispatch(events []Event) {
	job := worker.JobFunc{
		JobName: fmt.Sprintf("platform-batch-%d", len(events)),
		Fn: func(ctx context.Context) error {
			return c.post(ctx, eventBatch{Events: events, BatchTimestamp: c.now()})
		},
	}
	if err := c.pool.Submit(job); err != nil {
		c.log.Warn("dropping batch of %d events: %v", len(events), err)
	}
}

func (c *Client) post(ctx context.Context, batch eventBatch) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/events/batch", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("deliver batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("platform rejected batch: %s", resp.Status)
	}
	c.log.Debug("delivered batch of %d events", len(batch.Events))
	return nil
}
