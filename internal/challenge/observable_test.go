package challenge_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wildquiz/internal/challenge"
)

// recordingObserver appends every event it sees to a shared log.
type recordingObserver struct {
	name   string
	events *[]string

	startErr    error
	completeErr error
	panicOnCall bool
}

func (o *recordingObserver) OnChallengeStarted(userID string, ch challenge.Challenge) error {
	if o.panicOnCall {
		panic("boom")
	}
	*o.events = append(*o.events, o.name+":started:"+userID)
	return o.startErr
}

func (o *recordingObserver) OnChallengeCompleted(userID string, ch challenge.Challenge, answer string, timeTaken float64, isCorrect bool) error {
	if o.panicOnCall {
		panic("boom")
	}
	*o.events = append(*o.events, fmt.Sprintf("%s:completed:%s:%t", o.name, userID, isCorrect))
	return o.completeErr
}

// skipRecorder also implements the optional skip hook.
type skipRecorder struct {
	recordingObserver
}

func (o *skipRecorder) OnChallengeSkipped(userID string, ch challenge.Challenge) error {
	*o.events = append(*o.events, o.name+":skipped:"+userID)
	return nil
}

func newNotifyingChallenge(t *testing.T) challenge.Challenge {
	t.Helper()
	ch, err := challenge.NewDiet(context.Background(), newFakeSource(), testRand(), 1, 1)
	require.NoError(t, err)
	return ch
}

func TestObservable_NotifyInAttachmentOrder(t *testing.T) {
	ch := newNotifyingChallenge(t)
	notifier := ch.(challenge.Notifier)

	var events []string
	first := &recordingObserver{name: "first", events: &events}
	second := &recordingObserver{name: "second", events: &events}
	notifier.Attach(first)
	notifier.Attach(second)

	require.NoError(t, notifier.NotifyStarted("u1", ch))
	require.NoError(t, notifier.NotifyCompleted("u1", ch, "Carnivore", 3, true))

	assert.Equal(t, []string{
		"first:started:u1",
		"second:started:u1",
		"first:completed:u1:true",
		"second:completed:u1:true",
	}, events)
}

func TestObservable_AttachIsIdempotent(t *testing.T) {
	ch := newNotifyingChallenge(t)
	notifier := ch.(challenge.Notifier)

	var events []string
	obs := &recordingObserver{name: "only", events: &events}
	notifier.Attach(obs)
	notifier.Attach(obs)

	require.NoError(t, notifier.NotifyStarted("u1", ch))
	assert.Len(t, events, 1)
}

func TestObservable_Detach(t *testing.T) {
	ch := newNotifyingChallenge(t)
	notifier := ch.(challenge.Notifier)

	var events []string
	obs := &recordingObserver{name: "gone", events: &events}
	notifier.Attach(obs)
	notifier.Detach(obs)

	require.NoError(t, notifier.NotifyStarted("u1", ch))
	assert.Empty(t, events)
}

func TestObservable_FailingObserverDoesNotBlockOthers(t *testing.T) {
	ch := newNotifyingChallenge(t)
	notifier := ch.(challenge.Notifier)

	var events []string
	failing := &recordingObserver{name: "failing", events: &events, completeErr: fmt.Errorf("storage down")}
	healthy := &recordingObserver{name: "healthy", events: &events}
	notifier.Attach(failing)
	notifier.Attach(healthy)

	err := notifier.NotifyCompleted("u1", ch, "Carnivore", 3, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage down")
	// the healthy observer still saw the event
	assert.Contains(t, events, "healthy:completed:u1:true")
}

func TestObservable_PanickingObserverIsContained(t *testing.T) {
	ch := newNotifyingChallenge(t)
	notifier := ch.(challenge.Notifier)

	var events []string
	panicking := &recordingObserver{name: "panicking", events: &events, panicOnCall: true}
	healthy := &recordingObserver{name: "healthy", events: &events}
	notifier.Attach(panicking)
	notifier.Attach(healthy)

	err := notifier.NotifyCompleted("u1", ch, "Carnivore", 3, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "observer panic")
	assert.Contains(t, events, "healthy:completed:u1:true")
}

func TestObservable_SkipOnlyReachesSkipObservers(t *testing.T) {
	ch := newNotifyingChallenge(t)
	notifier := ch.(challenge.Notifier)

	var events []string
	plain := &recordingObserver{name: "plain", events: &events}
	skipper := &skipRecorder{recordingObserver{name: "skipper", events: &events}}
	notifier.Attach(plain)
	notifier.Attach(skipper)

	require.NoError(t, notifier.NotifySkipped("u1", ch))
	assert.Equal(t, []string{"skipper:skipped:u1"}, events)
}

func TestTimed_SharesObserverListWithWrapped(t *testing.T) {
	ch := newNotifyingChallenge(t)
	timed := challenge.WrapTimed(ch, challenge.WithTimeLimit(10))

	var events []string
	obs := &recordingObserver{name: "shared", events: &events}

	// Attach through the wrapper, notify through the base.
	timed.Attach(obs)
	require.NoError(t, ch.(challenge.Notifier).NotifyStarted("u1", ch))
	assert.Equal(t, []string{"shared:started:u1"}, events)
}
