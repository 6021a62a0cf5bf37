package challenge

import (
	"context"
	"math/rand"
	"sync"
	"time"

	apperrors "github.com/vytor/wildquiz/internal/errors"
	"github.com/vytor/wildquiz/internal/logger"
)

// Constructor builds a challenge of one registered type.
type Constructor func(ctx context.Context, animalID int64, difficulty int) (Challenge, error)

// Factory creates challenge instances from a mutable type registry.
// The registry is shared by everything holding the factory, so a Register
// call is visible to all subsequent Create calls; construct separate
// factories where isolation matters (tests do).
type Factory struct {
	mu    sync.RWMutex
	names []string // registration order
	ctors map[string]Constructor
	rng   *rand.Rand
	log   *logger.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithRand sets the random source, letting tests make creation deterministic.
func WithRand(rng *rand.Rand) FactoryOption {
	return func(f *Factory) {
		f.rng = rng
	}
}

// NewFactory returns a factory with the four built-in types registered, in
// order: sound, image, habitat, diet.
func NewFactory(src AnimalSource, opts ...FactoryOption) *Factory {
	f := &Factory{
		ctors: make(map[string]Constructor),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		log:   logger.Default().WithPrefix("factory"),
	}
	for _, opt := range opts {
		opt(f)
	}

	builtins := []struct {
		name  string
		build func(ctx context.Context, src AnimalSource, rng *rand.Rand, animalID int64, difficulty int) (Challenge, error)
	}{
		{TypeSound, func(ctx context.Context, src AnimalSource, rng *rand.Rand, id int64, d int) (Challenge, error) {
			return NewSound(ctx, src, rng, id, d)
		}},
		{TypeImage, func(ctx context.Context, src AnimalSource, rng *rand.Rand, id int64, d int) (Challenge, error) {
			return NewImage(ctx, src, rng, id, d)
		}},
		{TypeHabitat, func(ctx context.Context, src AnimalSource, rng *rand.Rand, id int64, d int) (Challenge, error) {
			return NewHabitat(ctx, src, rng, id, d)
		}},
		{TypeDiet, func(ctx context.Context, src AnimalSource, rng *rand.Rand, id int64, d int) (Challenge, error) {
			return NewDiet(ctx, src, rng, id, d)
		}},
	}
	for _, b := range builtins {
		build := b.build
		f.names = append(f.names, b.name)
		f.ctors[b.name] = func(ctx context.Context, animalID int64, difficulty int) (Challenge, error) {
			return build(ctx, src, f.childRand(), animalID, difficulty)
		}
	}
	return f
}

// childRand derives an independent random source for one challenge, so
// per-call option shuffles never contend with the factory's source.
func (f *Factory) childRand() *rand.Rand {
	f.mu.Lock()
	defer f.mu.Unlock()
	return rand.New(rand.NewSource(f.rng.Int63()))
}

// Create builds a challenge of the named type.
func (f *Factory) Create(ctx context.Context, typeName string, animalID int64, difficulty int) (Challenge, error) {
	f.mu.RLock()
	ctor, ok := f.ctors[typeName]
	f.mu.RUnlock()
	if !ok {
		f.log.Warn("unknown challenge type requested: %s", typeName)
		return nil, apperrors.NewUnknownTypeError(typeName, f.Types())
	}
	if difficulty < 1 {
		difficulty = 1
	}
	return ctor(ctx, animalID, difficulty)
}

// CreateRandom builds a challenge of a uniformly random registered type.
func (f *Factory) CreateRandom(ctx context.Context, animalID int64, difficulty int) (Challenge, error) {
	f.mu.Lock()
	if len(f.names) == 0 {
		f.mu.Unlock()
		return nil, apperrors.NewUnknownTypeError("random", nil)
	}
	name := f.names[f.rng.Intn(len(f.names))]
	f.mu.Unlock()
	return f.Create(ctx, name, animalID, difficulty)
}

// CreateSet builds one challenge per registered type, in registry order.
func (f *Factory) CreateSet(ctx context.Context, animalID int64, difficulty int) ([]Challenge, error) {
	out := make([]Challenge, 0, len(f.Types()))
	for _, name := range f.Types() {
		ch, err := f.Create(ctx, name, animalID, difficulty)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, nil
}

// Register adds a new challenge type at runtime.
func (f *Factory) Register(typeName string, ctor Constructor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.ctors[typeName]; exists {
		return apperrors.NewDuplicateTypeError(typeName)
	}
	f.names = append(f.names, typeName)
	f.ctors[typeName] = ctor
	f.log.Info("registered challenge type: %s", typeName)
	return nil
}

// Unregister removes a challenge type from the registry.
func (f *Factory) Unregister(typeName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.ctors[typeName]; !exists {
		names := make([]string, len(f.names))
		copy(names, f.names)
		return apperrors.NewUnknownTypeError(typeName, names)
	}
	delete(f.ctors, typeName)
	for i, name := range f.names {
		if name == typeName {
			f.names = append(f.names[:i], f.names[i+1:]...)
			break
		}
	}
	f.log.Info("unregistered challenge type: %s", typeName)
	return nil
}

// Types returns the registered type names in registration order.
func (f *Factory) Types() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}
