// Package challenge implements the quiz engine: four challenge variants,
// a registry-backed factory, a timed wrapper and observer dispatch.
package challenge

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/vytor/wildquiz/internal/models"
)

// Built-in challenge type discriminators.
const (
	TypeSound   = "sound"
	TypeImage   = "image"
	TypeHabitat = "habitat"
	TypeDiet    = "diet"
)

// Challenge is a single quiz item testing recognition of one animal
// attribute. CorrectAnswer is fixed at construction; Options may return a
// different order (and different distractors) on every call.
type Challenge interface {
	ID() string
	AnimalID() int64
	Difficulty() int
	Type() string
	Question() string
	Options() []string
	CorrectAnswer() string
	Validate(answer string) bool
	Serialize() models.ChallengeRecord
}

// AnimalSource is the slice of the animal catalogue the variants need.
type AnimalSource interface {
	Get(ctx context.Context, id int64) (*models.Animal, error)
	RandomByHabitat(ctx context.Context, habitat string, excludeID int64, count int) ([]models.Animal, error)
	Habitats(ctx context.Context) ([]models.Habitat, error)
}

// Wrapper is implemented by decorating challenge types.
type Wrapper interface {
	Wrapped() Challenge
}

// BaseOf walks a chain of wrappers down to the innermost challenge.
func BaseOf(ch Challenge) Challenge {
	for {
		w, ok := ch.(Wrapper)
		if !ok {
			return ch
		}
		ch = w.Wrapped()
	}
}

// base carries the state shared by all concrete variants. Embedding
// Observable gives every variant an observer list without wiring dispatch
// into each implementation.
type base struct {
	Observable

	id            string
	typ           string
	animalID      int64
	difficulty    int
	correctAnswer string
	rng           *rand.Rand
}

func newBase(typ string, animalID int64, difficulty int, correctAnswer string, rng *rand.Rand) base {
	return base{
		id:            fmt.Sprintf("%s_%d_%d", typ, animalID, 1000+rng.Intn(9000)),
		typ:           typ,
		animalID:      animalID,
		difficulty:    difficulty,
		correctAnswer: correctAnswer,
		rng:           rng,
	}
}

func (b *base) ID() string            { return b.id }
func (b *base) AnimalID() int64       { return b.animalID }
func (b *base) Difficulty() int       { return b.difficulty }
func (b *base) Type() string          { return b.typ }
func (b *base) CorrectAnswer() string { return b.correctAnswer }

// Validate checks an answer against the correct one, ignoring case and
// surrounding whitespace.
func (b *base) Validate(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), b.correctAnswer)
}

func (b *base) record(question string, options []string) models.ChallengeRecord {
	return models.ChallengeRecord{
		ChallengeID: b.id,
		AnimalID:    b.animalID,
		Type:        b.typ,
		Difficulty:  b.difficulty,
		Question:    question,
		Options:     options,
	}
}

// shuffled returns a shuffled copy of the given options.
func (b *base) shuffled(options []string) []string {
	out := make([]string, len(options))
	copy(out, options)
	b.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
