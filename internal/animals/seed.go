package animals

import (
	"context"
	"fmt"

	"github.com/vytor/wildquiz/internal/models"
)

var seedHabitats = []models.Habitat{
	{Tag: "forest", Name: "Tropical Forest"},
	{Tag: "savanna", Name: "African Savanna"},
	{Tag: "ocean", Name: "Ocean"},
	{Tag: "desert", Name: "Desert"},
	{Tag: "mountain", Name: "Mountains"},
	{Tag: "polar", Name: "Polar Regions"},
}

// Animal id 1 must stay the Lion; challenge ids and several tests key off it.
var seedAnimals = []models.Animal{
	{ID: 1, Name: "Lion", Habitat: "savanna", Period: models.PeriodDiurnal, Diet: models.DietCarnivore,
		SoundFile: "sounds/lion.mp3", ImageFile: "images/lion.jpg",
		FunFact: "A lion's roar can be heard up to 8 km away."},
	{ID: 2, Name: "Elephant", Habitat: "savanna", Period: models.PeriodDiurnal, Diet: models.DietHerbivore,
		SoundFile: "sounds/elephant.mp3", ImageFile: "images/elephant.jpg",
		FunFact: "Elephants communicate through infrasound humans cannot hear."},
	{ID: 3, Name: "Owl", Habitat: "forest", Period: models.PeriodNocturnal, Diet: models.DietCarnivore,
		SoundFile: "sounds/owl.mp3", ImageFile: "images/owl.jpg",
		FunFact: "Owls can rotate their heads up to 270 degrees."},
	{ID: 4, Name: "Monkey", Habitat: "forest", Period: models.PeriodDiurnal, Diet: models.DietOmnivore,
		SoundFile: "sounds/monkey.mp3", ImageFile: "images/monkey.jpg",
		FunFact: "Monkeys use tools to get at hard-to-reach food."},
	{ID: 5, Name: "Dolphin", Habitat: "ocean", Period: models.PeriodDiurnal, Diet: models.DietCarnivore,
		SoundFile: "sounds/dolphin.mp3", ImageFile: "images/dolphin.jpg",
		FunFact: "Dolphins sleep with one half of their brain at a time."},
	{ID: 6, Name: "Zebra", Habitat: "savanna", Period: models.PeriodDiurnal, Diet: models.DietHerbivore,
		SoundFile: "sounds/zebra.mp3", ImageFile: "images/zebra.jpg",
		FunFact: "No two zebras share the same stripe pattern."},
	{ID: 7, Name: "Giraffe", Habitat: "savanna", Period: models.PeriodDiurnal, Diet: models.DietHerbivore,
		SoundFile: "sounds/giraffe.mp3", ImageFile: "images/giraffe.jpg",
		FunFact: "Giraffes only need around two hours of sleep a day."},
	{ID: 8, Name: "Wolf", Habitat: "forest", Period: models.PeriodNocturnal, Diet: models.DietCarnivore,
		SoundFile: "sounds/wolf.mp3", ImageFile: "images/wolf.jpg",
		FunFact: "A wolf's howl can carry over 10 km in open terrain."},
	{ID: 9, Name: "Deer", Habitat: "forest", Period: models.PeriodDiurnal, Diet: models.DietHerbivore,
		SoundFile: "sounds/deer.mp3", ImageFile: "images/deer.jpg",
		FunFact: "Deer can jump close to three metres straight up."},
	{ID: 10, Name: "Shark", Habitat: "ocean", Period: models.PeriodNocturnal, Diet: models.DietCarnivore,
		SoundFile: "sounds/shark.mp3", ImageFile: "images/shark.jpg",
		FunFact: "Sharks existed before trees did."},
	{ID: 11, Name: "Sea Turtle", Habitat: "ocean", Period: models.PeriodDiurnal, Diet: models.DietOmnivore,
		SoundFile: "sounds/sea_turtle.mp3", ImageFile: "images/sea_turtle.jpg",
		FunFact: "Sea turtles navigate using the Earth's magnetic field."},
	{ID: 12, Name: "Octopus", Habitat: "ocean", Period: models.PeriodNocturnal, Diet: models.DietCarnivore,
		SoundFile: "sounds/octopus.mp3", ImageFile: "images/octopus.jpg",
		FunFact: "An octopus has three hearts and blue blood."},
	{ID: 13, Name: "Camel", Habitat: "desert", Period: models.PeriodDiurnal, Diet: models.DietHerbivore,
		SoundFile: "sounds/camel.mp3", ImageFile: "images/camel.jpg",
		FunFact: "A camel can drink up to 100 litres of water in ten minutes."},
	{ID: 14, Name: "Fennec Fox", Habitat: "desert", Period: models.PeriodNocturnal, Diet: models.DietOmnivore,
		SoundFile: "sounds/fennec_fox.mp3", ImageFile: "images/fennec_fox.jpg",
		FunFact: "The fennec fox's oversized ears radiate away desert heat."},
	{ID: 15, Name: "Scorpion", Habitat: "desert", Period: models.PeriodNocturnal, Diet: models.DietCarnivore,
		SoundFile: "sounds/scorpion.mp3", ImageFile: "images/scorpion.jpg",
		FunFact: "Scorpions glow under ultraviolet light."},
	{ID: 16, Name: "Desert Tortoise", Habitat: "desert", Period: models.PeriodDiurnal, Diet: models.DietHerbivore,
		SoundFile: "sounds/desert_tortoise.mp3", ImageFile: "images/desert_tortoise.jpg",
		FunFact: "Desert tortoises can go a year without drinking."},
	{ID: 17, Name: "Golden Eagle", Habitat: "mountain", Period: models.PeriodDiurnal, Diet: models.DietCarnivore,
		SoundFile: "sounds/golden_eagle.mp3", ImageFile: "images/golden_eagle.jpg",
		FunFact: "Golden eagles can spot prey from over three kilometres away."},
	{ID: 18, Name: "Mountain Goat", Habitat: "mountain", Period: models.PeriodDiurnal, Diet: models.DietHerbivore,
		SoundFile: "sounds/mountain_goat.mp3", ImageFile: "images/mountain_goat.jpg",
		FunFact: "Mountain goats can climb slopes steeper than 60 degrees."},
	{ID: 19, Name: "Snow Leopard", Habitat: "mountain", Period: models.PeriodNocturnal, Diet: models.DietCarnivore,
		SoundFile: "sounds/snow_leopard.mp3", ImageFile: "images/snow_leopard.jpg",
		FunFact: "Snow leopards cannot roar; they chuff instead."},
	{ID: 20, Name: "Alpaca", Habitat: "mountain", Period: models.PeriodDiurnal, Diet: models.DietHerbivore,
		SoundFile: "sounds/alpaca.mp3", ImageFile: "images/alpaca.jpg",
		FunFact: "Alpacas hum to each other to communicate."},
	{ID: 21, Name: "Penguin", Habitat: "polar", Period: models.PeriodDiurnal, Diet: models.DietCarnivore,
		SoundFile: "sounds/penguin.mp3", ImageFile: "images/penguin.jpg",
		FunFact: "Emperor penguins can dive more than 500 metres deep."},
	{ID: 22, Name: "Polar Bear", Habitat: "polar", Period: models.PeriodDiurnal, Diet: models.DietCarnivore,
		SoundFile: "sounds/polar_bear.mp3", ImageFile: "images/polar_bear.jpg",
		FunFact: "Polar bear fur is transparent, not white."},
	{ID: 23, Name: "Arctic Fox", Habitat: "polar", Period: models.PeriodNocturnal, Diet: models.DietOmnivore,
		SoundFile: "sounds/arctic_fox.mp3", ImageFile: "images/arctic_fox.jpg",
		FunFact: "Arctic foxes can survive temperatures below -50 C."},
	{ID: 24, Name: "Walrus", Habitat: "polar", Period: models.PeriodDiurnal, Diet: models.DietCarnivore,
		SoundFile: "sounds/walrus.mp3", ImageFile: "images/walrus.jpg",
		FunFact: "Walruses use their tusks to haul themselves onto ice."},
}

func (s *Store) seed(ctx context.Context) error {
	s.log.Info("seeding animal catalogue: %d habitats, %d animals", len(seedHabitats), len(seedAnimals))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, h := range seedHabitats {
		insert := sqlBuilder.
			Insert("habitats").
			Columns("tag", "name", "position").
			Values(h.Tag, h.Name, i)
		sqlStr, args, err := insert.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return fmt.Errorf("seed habitat %s: %w", h.Tag, err)
		}
	}

	for _, a := range seedAnimals {
		insert := sqlBuilder.
			Insert("animals").
			Columns("id", "name", "habitat", "period", "diet", "sound_file", "image_file", "fun_fact").
			Values(a.ID, a.Name, a.Habitat, a.Period, a.Diet, a.SoundFile, a.ImageFile, a.FunFact)
		sqlStr, args, err := insert.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return fmt.Errorf("seed animal %s: %w", a.Name, err)
		}
	}

	return tx.Commit()
}
