package entries

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pbaille/kalorien/internal/domain"
	"github.com/pbaille/kalorien/internal/logging"
	"github.com/pbaille/kalorien/internal/store"
	"github.com/sirupsen/logrus"
)

// Well-known blob keys.
const (
	FoodKey   = "food-tracker-entries"
	WeightKey = "weight-tracker-entries"
)

// corruptSuffix names the key a corrupt blob is moved to before it is replaced.
const corruptSuffix = ".corrupt"

// ErrDuplicateID is returned when an entry id already exists in its collection.
var ErrDuplicateID = errors.New("entry id already exists")

type collection[T any] struct {
	key      string
	label    string
	mu       sync.Mutex
	idOf     func(T) string
	validate func(T) error
}

// Store persists the food and weight collections. Every write loads the whole
// collection, changes it and saves it back; writes to one collection are
// serialized.
type Store struct {
	blobs  store.BlobStore
	log    logrus.FieldLogger
	food   *collection[domain.FoodEntry]
	weight *collection[domain.WeightEntry]
}

// New creates a Store on top of blobs. A nil logger discards log output.
func New(blobs store.BlobStore, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{
		blobs: blobs,
		log:   log,
		food: &collection[domain.FoodEntry]{
			key:      FoodKey,
			label:    "food",
			idOf:     func(e domain.FoodEntry) string { return e.ID },
			validate: domain.FoodEntry.Validate,
		},
		weight: &collection[domain.WeightEntry]{
			key:      WeightKey,
			label:    "weight",
			idOf:     func(e domain.WeightEntry) string { return e.ID },
			validate: domain.WeightEntry.Validate,
		},
	}
}

// SaveFoodEntry appends entry to the food collection.
func (s *Store) SaveFoodEntry(ctx context.Context, entry domain.FoodEntry) error {
	return appendEntry(ctx, s, s.food, entry)
}

// FoodEntries returns all food entries in saved order, or an empty slice
// when nothing readable is stored.
func (s *Store) FoodEntries(ctx context.Context) []domain.FoodEntry {
	return list(ctx, s, s.food)
}

// DeleteFoodEntry removes the food entry with id. Deleting an unknown id is
// not an error; removed reports whether anything changed.
func (s *Store) DeleteFoodEntry(ctx context.Context, id string) (removed bool, err error) {
	return deleteEntry(ctx, s, s.food, id)
}

// SaveWeightEntry appends entry to the weight collection.
func (s *Store) SaveWeightEntry(ctx context.Context, entry domain.WeightEntry) error {
	return appendEntry(ctx, s, s.weight, entry)
}

// WeightEntries returns all weight entries in saved order.
func (s *Store) WeightEntries(ctx context.Context) []domain.WeightEntry {
	return list(ctx, s, s.weight)
}

// DeleteWeightEntry removes the weight entry with id.
func (s *Store) DeleteWeightEntry(ctx context.Context, id string) (removed bool, err error) {
	return deleteEntry(ctx, s, s.weight, id)
}

func list[T any](ctx context.Context, s *Store, c *collection[T]) []T {
	data, ok, err := s.blobs.Load(ctx, c.key)
	if err != nil {
		s.log.WithFields(logrus.Fields{"key": c.key, "error": err}).Warn("read collection failed, using empty")
		return []T{}
	}
	if !ok {
		return []T{}
	}
	entries, _, err := decode[T](data)
	if err != nil {
		s.log.WithFields(logrus.Fields{"key": c.key, "error": err}).Warn("unreadable collection, using empty")
		return []T{}
	}
	if entries == nil {
		return []T{}
	}
	return entries
}

// loadForWrite is the strict read used before a write. Backend errors and
// newer layouts abort the write; a corrupt blob is copied aside first so
// that the write does not destroy it.
func loadForWrite[T any](ctx context.Context, s *Store, c *collection[T]) ([]T, error) {
	data, ok, err := s.blobs.Load(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("load %s entries: %w", c.label, err)
	}
	if !ok {
		return nil, nil
	}

	entries, version, err := decode[T](data)
	switch {
	case errors.Is(err, ErrUnsupportedVersion):
		return nil, fmt.Errorf("load %s entries: %w", c.label, err)
	case errors.Is(err, ErrCorrupt):
		backup := c.key + corruptSuffix
		if err := s.blobs.Save(ctx, backup, data); err != nil {
			return nil, fmt.Errorf("back up corrupt %s entries: %w", c.label, err)
		}
		s.log.WithFields(logrus.Fields{"key": c.key, "backup": backup}).Warn("corrupt collection moved aside, starting empty")
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("load %s entries: %w", c.label, err)
	}

	if version < CurrentVersion {
		s.log.WithFields(logrus.Fields{"key": c.key, "from": version, "to": CurrentVersion}).Info("migrating collection layout")
	}
	return entries, nil
}

func persist[T any](ctx context.Context, s *Store, c *collection[T], entries []T) error {
	data, err := encode(entries)
	if err != nil {
		return fmt.Errorf("save %s entries: %w", c.label, err)
	}
	if err := s.blobs.Save(ctx, c.key, data); err != nil {
		return fmt.Errorf("save %s entries: %w", c.label, err)
	}
	return nil
}

func appendEntry[T any](ctx context.Context, s *Store, c *collection[T], entry T) error {
	if err := c.validate(entry); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := loadForWrite(ctx, s, c)
	if err != nil {
		return err
	}
	id := c.idOf(entry)
	for _, e := range existing {
		if c.idOf(e) == id {
			return fmt.Errorf("save %s entry %s: %w", c.label, id, ErrDuplicateID)
		}
	}

	updated := make([]T, 0, len(existing)+1)
	updated = append(updated, existing...)
	updated = append(updated, entry)
	if err := persist(ctx, s, c, updated); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{"key": c.key, "id": id, "count": len(updated)}).Debug("entry saved")
	return nil
}

func deleteEntry[T any](ctx context.Context, s *Store, c *collection[T], id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, err := loadForWrite(ctx, s, c)
	if err != nil {
		return false, err
	}

	kept := make([]T, 0, len(existing))
	for _, e := range existing {
		if c.idOf(e) != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(existing) {
		return false, nil
	}
	if err := persist(ctx, s, c, kept); err != nil {
		return false, err
	}

	s.log.WithFields(logrus.Fields{"key": c.key, "id": id}).Debug("entry deleted")
	return true, nil
}
