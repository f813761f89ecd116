// Package local is the Local Store Adapter: the whole star collection kept
// as one JSON blob in the on-device key/value store.
//
// Every mutation is read-entire-blob, change in memory, write-entire-blob.
// Deletes are soft: the record stays in the blob with deletedAt set, and
// ReadAll filters it out. Whether the store has been seeded is derived only
// from the blob's existence; an empty collection stays empty.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/starkeeper/internal/common"
	"github.com/dmitrijs2005/starkeeper/internal/logging"
	"github.com/dmitrijs2005/starkeeper/internal/models"
	"github.com/dmitrijs2005/starkeeper/internal/storage/kv"
	"github.com/dmitrijs2005/starkeeper/internal/timex"
)

type Store struct {
	repo   kv.Repository
	key    string
	logger logging.Logger
	now    func() time.Time

	// mu serializes read-modify-write cycles issued by this process.
	mu sync.Mutex
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func NewStore(repo kv.Repository, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		repo:   repo,
		key:    common.StorageKey,
		logger: logger.With("component", "local_store"),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ReadAll returns all live stars, seeding the defaults on first run.
func (s *Store) ReadAll(ctx context.Context) ([]models.Star, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read locally: %w", err)
	}

	stars := make([]models.Star, 0, len(records))
	for _, r := range records {
		if r.deleted() {
			continue
		}
		stars = append(stars, r.toModel())
	}
	return stars, nil
}

// WriteAll replaces the stored collection with stars.
func (s *Store) WriteAll(ctx context.Context, stars []models.Star) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]starRecord, 0, len(stars))
	for _, st := range stars {
		records = append(records, fromModel(st))
	}
	if err := s.store(ctx, records); err != nil {
		return fmt.Errorf("failed to write locally: %w", err)
	}
	return nil
}

// UpsertOne replaces the star with the same id, or appends it. A replaced
// record that was soft-deleted stays deleted.
func (s *Store) UpsertOne(ctx context.Context, star models.Star) (models.Star, error) {
	return s.replace(ctx, star, true)
}

// UpdateOne replaces the live star with the same id. A missing or
// soft-deleted star yields common.ErrorNotFound.
func (s *Store) UpdateOne(ctx context.Context, star models.Star) (models.Star, error) {
	return s.replace(ctx, star, false)
}

func (s *Store) replace(ctx context.Context, star models.Star, appendMissing bool) (models.Star, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return models.Star{}, fmt.Errorf("failed to update locally: %w", err)
	}

	rec := fromModel(star)
	idx := -1
	for i := range records {
		if records[i].ID == star.ID {
			idx = i
			break
		}
	}

	switch {
	case idx >= 0 && records[idx].deleted():
		if !appendMissing {
			return models.Star{}, fmt.Errorf("failed to update locally: %w", common.ErrorNotFound)
		}
		rec.DeletedAt = records[idx].DeletedAt
		records[idx] = rec
	case idx >= 0:
		records[idx] = rec
	case appendMissing:
		records = append(records, rec)
	default:
		return models.Star{}, fmt.Errorf("failed to update locally: %w", common.ErrorNotFound)
	}

	if err := s.store(ctx, records); err != nil {
		return models.Star{}, fmt.Errorf("failed to update locally: %w", err)
	}
	return rec.toModel(), nil
}

func (s *Store) SoftDeleteOne(ctx context.Context, id string) error {
	return s.SoftDeleteMany(ctx, []string{id})
}

// SoftDeleteMany stamps deletedAt on every live star whose id is in ids.
// Unknown ids are ignored.
func (s *Store) SoftDeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return common.ErrEmptyIDList
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete locally: %w", err)
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	stamp := timex.FormatISO(s.now())
	marked := 0
	for i := range records {
		if _, ok := wanted[records[i].ID]; ok && !records[i].deleted() {
			records[i].DeletedAt = stamp
			marked++
		}
	}
	if marked == 0 {
		s.logger.Debug(ctx, "no local stars matched delete", "ids", ids)
		return nil
	}

	if err := s.store(ctx, records); err != nil {
		return fmt.Errorf("failed to delete locally: %w", err)
	}
	return nil
}

// Reset drops the blob; the next read seeds the defaults again.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to reset locally: %w", err)
	}
	return nil
}

// load returns the raw records, soft-deleted ones included. A missing blob
// is seeded and persisted before returning.
func (s *Store) load(ctx context.Context) ([]starRecord, error) {
	data, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}

	if data == nil {
		seed := defaultStars(s.now())
		records := make([]starRecord, 0, len(seed))
		for _, st := range seed {
			records = append(records, fromModel(st))
		}
		if err := s.store(ctx, records); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		s.logger.Info(ctx, "seeded local collection", "count", len(records))
		return records, nil
	}

	var records []starRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	return records, nil
}

func (s *Store) store(ctx context.Context, records []starRecord) error {
	if records == nil {
		records = []starRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	return s.repo.Set(ctx, s.key, data)
}
