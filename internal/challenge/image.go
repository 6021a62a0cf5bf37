package challenge

import (
	"context"
	"math/rand"

	"github.com/vytor/wildquiz/internal/models"
)

// ImageChallenge asks the learner to name the animal shown in a picture.
type ImageChallenge struct {
	base

	animal      models.Animal
	distractors []string
}

// NewImage builds an image-identification challenge for the given animal.
func NewImage(ctx context.Context, src AnimalSource, rng *rand.Rand, animalID int64, difficulty int) (*ImageChallenge, error) {
	animal, err := src.Get(ctx, animalID)
	if err != nil {
		return nil, err
	}
	pool, err := habitatMateNames(ctx, src, *animal)
	if err != nil {
		return nil, err
	}
	return &ImageChallenge{
		base:        newBase(TypeImage, animalID, difficulty, animal.Name, rng),
		animal:      *animal,
		distractors: pool,
	}, nil
}

func (c *ImageChallenge) Question() string {
	return "What is this animal called?"
}

// Options behaves like SoundChallenge.Options: correct answer plus up to 3
// habitat-matched distractors, shuffled fresh per call.
func (c *ImageChallenge) Options() []string {
	return c.optionsWithDistractors(c.distractors)
}

func (c *ImageChallenge) Serialize() models.ChallengeRecord {
	rec := c.record(c.Question(), c.Options())
	rec.ImageFile = c.animal.ImageFile
	rec.Instructions = "Look at the picture and identify the animal"
	return rec
}
