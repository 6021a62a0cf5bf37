package challenge

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/vytor/wildquiz/internal/models"
)

var dietOptions = []string{models.DietCarnivore, models.DietHerbivore, models.DietOmnivore}

var dietHints = map[string]string{
	models.DietCarnivore: "This animal feeds mostly on meat",
	models.DietHerbivore: "This animal feeds mostly on plants",
	models.DietOmnivore:  "This animal eats both plants and meat",
}

// DietChallenge asks the learner to classify what an animal eats.
type DietChallenge struct {
	base

	animal models.Animal
}

// NewDiet builds a diet-classification challenge for the given animal.
func NewDiet(ctx context.Context, src AnimalSource, rng *rand.Rand, animalID int64, difficulty int) (*DietChallenge, error) {
	animal, err := src.Get(ctx, animalID)
	if err != nil {
		return nil, err
	}
	return &DietChallenge{
		base:   newBase(TypeDiet, animalID, difficulty, animal.Diet, rng),
		animal: *animal,
	}, nil
}

func (c *DietChallenge) Question() string {
	return fmt.Sprintf("The %s is a...?", c.animal.Name)
}

// Options is the fixed three-way diet classification.
func (c *DietChallenge) Options() []string {
	out := make([]string, len(dietOptions))
	copy(out, dietOptions)
	return out
}

// Hint returns a display-only nudge toward the right classification.
// It plays no part in validation.
func (c *DietChallenge) Hint() string {
	return dietHints[c.correctAnswer]
}

func (c *DietChallenge) Serialize() models.ChallengeRecord {
	rec := c.record(c.Question(), c.Options())
	rec.AnimalName = c.animal.Name
	rec.AnimalImage = c.animal.ImageFile
	rec.Instructions = "Classify what this animal eats"
	rec.Hint = c.Hint()
	return rec
}
