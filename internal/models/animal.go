package models

// Activity periods for animals.
const (
	PeriodDiurnal   = "diurnal"
	PeriodNocturnal = "nocturnal"
)

// Diet classes used by the diet challenge.
const (
	DietCarnivore = "Carnivore"
	DietHerbivore = "Herbivore"
	DietOmnivore  = "Omnivore"
)

// Animal is a static reference record loaded once at process start.
type Animal struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Habitat   string `json:"habitat"` // habitat tag, e.g. "savanna"
	Period    string `json:"period"`  // diurnal or nocturnal
	Diet      string `json:"diet"`
	SoundFile string `json:"sound_file"`
	ImageFile string `json:"image_file"`
	FunFact   string `json:"fun_fact"`
}

// Habitat maps a habitat tag to its display name.
type Habitat struct {
	Tag  string `json:"tag"`
	Name string `json:"name"`
}
