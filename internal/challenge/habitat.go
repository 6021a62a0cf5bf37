package challenge

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/vytor/wildquiz/internal/models"
)

// HabitatChallenge asks where an animal lives.
type HabitatChallenge struct {
	base

	animal     models.Animal
	vocabulary []string // habitat display names, correct answer excluded
}

// NewHabitat builds a habitat-identification challenge for the given animal.
func NewHabitat(ctx context.Context, src AnimalSource, rng *rand.Rand, animalID int64, difficulty int) (*HabitatChallenge, error) {
	animal, err := src.Get(ctx, animalID)
	if err != nil {
		return nil, err
	}
	habitats, err := src.Habitats(ctx)
	if err != nil {
		return nil, err
	}
	var correct string
	vocabulary := make([]string, 0, len(habitats)-1)
	for _, h := range habitats {
		if h.Tag == animal.Habitat {
			correct = h.Name
			continue
		}
		vocabulary = append(vocabulary, h.Name)
	}
	if correct == "" {
		return nil, fmt.Errorf("animal %d references unknown habitat %q", animalID, animal.Habitat)
	}
	return &HabitatChallenge{
		base:       newBase(TypeHabitat, animalID, difficulty, correct, rng),
		animal:     *animal,
		vocabulary: vocabulary,
	}, nil
}

func (c *HabitatChallenge) Question() string {
	return fmt.Sprintf("Where does the %s live?", c.animal.Name)
}

// Options returns the correct habitat plus 3 other habitat names drawn
// from the vocabulary, shuffled fresh per call. With fewer than 4 entries
// in the vocabulary the list comes back shorter.
func (c *HabitatChallenge) Options() []string {
	return c.optionsWithDistractors(c.vocabulary)
}

func (c *HabitatChallenge) Serialize() models.ChallengeRecord {
	rec := c.record(c.Question(), c.Options())
	rec.AnimalName = c.animal.Name
	rec.AnimalImage = c.animal.ImageFile
	rec.Instructions = "Select the habitat where this animal lives"
	return rec
}
