package animals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	apperrors "github.com/vytor/wildquiz/internal/errors"
	"github.com/vytor/wildquiz/internal/logger"
	"github.com/vytor/wildquiz/internal/models"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const schema = `
CREATE TABLE IF NOT EXISTS habitats (
    tag      TEXT PRIMARY KEY,
    name     TEXT NOT NULL,
    position INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS animals (
    id         INTEGER PRIMARY KEY,
    name       TEXT NOT NULL,
    habitat    TEXT NOT NULL REFERENCES habitats(tag),
    period     TEXT NOT NULL CHECK (period IN ('diurnal', 'nocturnal')),
    diet       TEXT NOT NULL CHECK (diet IN ('Carnivore', 'Herbivore', 'Omnivore')),
    sound_file TEXT NOT NULL,
    image_file TEXT NOT NULL,
    fun_fact   TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_animals_habitat ON animals(habitat);
`

// Store is the animal reference catalogue. It is backed by an in-memory
// sqlite database seeded once at startup; the data never changes after that.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// Open creates the catalogue database at path and seeds it when empty.
// The default path keeps everything in memory for the process lifetime.
func Open(path string) (*Store, error) {
	log := logger.Default().WithPrefix("animals")

	dsn := path
	if path != ":memory:" {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		dsn = path + sep + "_busy_timeout=5000&_foreign_keys=on"
	}
	log.Info("opening animal catalogue: %s", path)

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Error("failed to open catalogue: %v", err)
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1) // single connection keeps the :memory: database alive

	s := &Store{db: sqlDB, log: log}
	if err := s.init(context.Background()); err != nil {
		log.Error("failed to initialize catalogue: %v", err)
		return nil, err
	}

	log.Info("animal catalogue ready")
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM animals`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		s.log.Debug("catalogue already seeded with %d animals", count)
		return nil
	}
	return s.seed(ctx)
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the animal with the given id.
func (s *Store) Get(ctx context.Context, id int64) (*models.Animal, error) {
	log := logger.FromContext(ctx).WithPrefix("animals")
	log.Debug("getting animal: id=%d", id)

	var a models.Animal
	err := s.db.QueryRowContext(ctx, `
SELECT id, name, habitat, period, diet, sound_file, image_file, fun_fact
FROM animals
WHERE id = ?
`, id).Scan(&a.ID, &a.Name, &a.Habitat, &a.Period, &a.Diet, &a.SoundFile, &a.ImageFile, &a.FunFact)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("animal not found: id=%d", id)
			return nil, apperrors.NewNotFoundError("animal", id)
		}
		log.Error("failed to get animal: %v", err)
		return nil, err
	}
	return &a, nil
}

// List returns the full catalogue in id order.
func (s *Store) List(ctx context.Context) ([]models.Animal, error) {
	log := logger.FromContext(ctx).WithPrefix("animals")
	log.Debug("listing animals")

	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, habitat, period, diet, sound_file, image_file, fun_fact
FROM animals
ORDER BY id ASC
`)
	if err != nil {
		log.Error("failed to list animals: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.Animal
	for rows.Next() {
		var a models.Animal
		if err := rows.Scan(&a.ID, &a.Name, &a.Habitat, &a.Period, &a.Diet, &a.SoundFile, &a.ImageFile, &a.FunFact); err != nil {
			log.Error("failed to scan animal row: %v", err)
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// RandomByHabitat returns up to count random animals, optionally filtered
// by habitat tag and excluding one id. Used to pick distractors; when the
// habitat holds fewer animals than requested, fewer are returned.
func (s *Store) RandomByHabitat(ctx context.Context, habitat string, excludeID int64, count int) ([]models.Animal, error) {
	log := logger.FromContext(ctx).WithPrefix("animals")
	log.Debug("sampling animals: habitat=%s, exclude=%d, count=%d", habitat, excludeID, count)

	query := sqlBuilder.
		Select("id", "name", "habitat", "period", "diet", "sound_file", "image_file", "fun_fact").
		From("animals").
		OrderBy("RANDOM()").
		Limit(uint64(count))
	if habitat != "" {
		query = query.Where(squirrel.Eq{"habitat": habitat})
	}
	if excludeID > 0 {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to sample animals: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.Animal
	for rows.Next() {
		var a models.Animal
		if err := rows.Scan(&a.ID, &a.Name, &a.Habitat, &a.Period, &a.Diet, &a.SoundFile, &a.ImageFile, &a.FunFact); err != nil {
			log.Error("failed to scan animal row: %v", err)
			return nil, err
		}
		out = append(out, a)
	}
	log.Debug("sampled %d animals", len(out))
	return out, rows.Err()
}

// Habitats returns the habitat vocabulary in its seeded order.
func (s *Store) Habitats(ctx context.Context) ([]models.Habitat, error) {
	log := logger.FromContext(ctx).WithPrefix("animals")
	log.Debug("listing habitats")

	rows, err := s.db.QueryContext(ctx, `
SELECT tag, name
FROM habitats
ORDER BY position ASC
`)
	if err != nil {
		log.Error("failed to list habitats: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.Habitat
	for rows.Next() {
		var h models.Habitat
		if err := rows.Scan(&h.Tag, &h.Name); err != nil {
			log.Error("failed to scan habitat row: %v", err)
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// HabitatName resolves a habitat tag to its display name.
func (s *Store) HabitatName(ctx context.Context, tag string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM habitats WHERE tag = ?`, tag).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.NewNotFoundError("habitat", tag)
		}
		return "", err
	}
	return name, nil
}
