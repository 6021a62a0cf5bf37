package challenge

import (
	"context"
	"math/rand"

	"github.com/vytor/wildquiz/internal/models"
)

// SoundChallenge asks the learner to identify an animal from its sound.
type SoundChallenge struct {
	base

	animal      models.Animal
	distractors []string // names of habitat-mates, excluding the animal itself
}

// NewSound builds a sound-identification challenge for the given animal.
// The distractor pool is fetched once; Options re-samples from it per call.
func NewSound(ctx context.Context, src AnimalSource, rng *rand.Rand, animalID int64, difficulty int) (*SoundChallenge, error) {
	animal, err := src.Get(ctx, animalID)
	if err != nil {
		return nil, err
	}
	pool, err := habitatMateNames(ctx, src, *animal)
	if err != nil {
		return nil, err
	}
	return &SoundChallenge{
		base:        newBase(TypeSound, animalID, difficulty, animal.Name, rng),
		animal:      *animal,
		distractors: pool,
	}, nil
}

func (c *SoundChallenge) Question() string {
	return "Which animal makes this sound?"
}

// Options returns the correct answer plus up to 3 habitat-matched
// distractors, freshly shuffled on every call. When the habitat holds
// fewer than 3 other animals, fewer options come back.
func (c *SoundChallenge) Options() []string {
	return c.optionsWithDistractors(c.distractors)
}

func (c *SoundChallenge) Serialize() models.ChallengeRecord {
	rec := c.record(c.Question(), c.Options())
	rec.AudioFile = c.animal.SoundFile
	rec.Instructions = "Tap the speaker icon to hear the animal's sound"
	return rec
}

// habitatMateNames loads the full distractor pool for an animal: every
// other animal sharing its habitat.
func habitatMateNames(ctx context.Context, src AnimalSource, animal models.Animal) ([]string, error) {
	const poolLimit = 64
	mates, err := src.RandomByHabitat(ctx, animal.Habitat, animal.ID, poolLimit)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(mates))
	seen := map[string]struct{}{}
	for _, m := range mates {
		if _, ok := seen[m.Name]; ok {
			continue
		}
		seen[m.Name] = struct{}{}
		names = append(names, m.Name)
	}
	return names, nil
}

// optionsWithDistractors samples up to 3 names from the pool, adds the
// correct answer and shuffles.
func (b *base) optionsWithDistractors(pool []string) []string {
	sampled := b.shuffled(pool)
	if len(sampled) > 3 {
		sampled = sampled[:3]
	}
	options := append([]string{b.correctAnswer}, sampled...)
	return b.shuffled(options)
}
