package challenge

import (
	"errors"
	"fmt"
)

// Observer reacts to challenge lifecycle events. Implementations maintain
// their own per-user state, lazily initialized on first contact.
type Observer interface {
	OnChallengeStarted(userID string, ch Challenge) error
	OnChallengeCompleted(userID string, ch Challenge, answer string, timeTaken float64, isCorrect bool) error
}

// SkipObserver is an optional hook for observers that care about skips.
type SkipObserver interface {
	OnChallengeSkipped(userID string, ch Challenge) error
}

// Notifier is the dispatch surface a challenge exposes to its caller.
type Notifier interface {
	Attach(Observer)
	Detach(Observer)
	NotifyStarted(userID string, ch Challenge) error
	NotifyCompleted(userID string, ch Challenge, answer string, timeTaken float64, isCorrect bool) error
	NotifySkipped(userID string, ch Challenge) error
}

// Observable holds an ordered observer list and fans events out to it,
// synchronously and in attachment order. A failing observer never blocks
// the others; individual failures are joined into the returned error so
// the caller can log them without losing the answer outcome.
type Observable struct {
	observers []Observer
}

// Attach adds an observer. Attaching the same observer twice is a no-op.
func (o *Observable) Attach(obs Observer) {
	for _, existing := range o.observers {
		if existing == obs {
			return
		}
	}
	o.observers = append(o.observers, obs)
}

// Detach removes an observer if present.
func (o *Observable) Detach(obs Observer) {
	for i, existing := range o.observers {
		if existing == obs {
			o.observers = append(o.observers[:i], o.observers[i+1:]...)
			return
		}
	}
}

// NotifyStarted informs every observer that the user started the challenge.
func (o *Observable) NotifyStarted(userID string, ch Challenge) error {
	var errs []error
	for _, obs := range o.observers {
		if err := o.dispatch(func() error { return obs.OnChallengeStarted(userID, ch) }); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", obs, err))
		}
	}
	return errors.Join(errs...)
}

// NotifyCompleted informs every observer of the completion outcome. Callers
// must not invoke this twice for one challenge instance; observers would
// double-count.
func (o *Observable) NotifyCompleted(userID string, ch Challenge, answer string, timeTaken float64, isCorrect bool) error {
	var errs []error
	for _, obs := range o.observers {
		if err := o.dispatch(func() error {
			return obs.OnChallengeCompleted(userID, ch, answer, timeTaken, isCorrect)
		}); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", obs, err))
		}
	}
	return errors.Join(errs...)
}

// NotifySkipped informs observers that implement the optional skip hook.
func (o *Observable) NotifySkipped(userID string, ch Challenge) error {
	var errs []error
	for _, obs := range o.observers {
		skipper, ok := obs.(SkipObserver)
		if !ok {
			continue
		}
		if err := o.dispatch(func() error { return skipper.OnChallengeSkipped(userID, ch) }); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", obs, err))
		}
	}
	return errors.Join(errs...)
}

// dispatch shields the fan-out from a panicking observer.
func (o *Observable) dispatch(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panic: %v", r)
		}
	}()
	return fn()
}
