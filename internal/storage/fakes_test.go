package storage

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/starkeeper/internal/common"
	"github.com/dmitrijs2005/starkeeper/internal/models"
)

type fakeLocal struct {
	mu      sync.Mutex
	stars   []models.Star
	readErr error
	calls   int
}

func (f *fakeLocal) ReadAll(context.Context) ([]models.Star, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make([]models.Star, 0, len(f.stars))
	for _, s := range f.stars {
		if !s.Deleted() {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

func (f *fakeLocal) UpsertOne(_ context.Context, star models.Star) (models.Star, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for i := range f.stars {
		if f.stars[i].ID == star.ID {
			f.stars[i] = star.Clone()
			return star, nil
		}
	}
	f.stars = append(f.stars, star.Clone())
	return star, nil
}

func (f *fakeLocal) UpdateOne(_ context.Context, star models.Star) (models.Star, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	for i := range f.stars {
		if f.stars[i].ID == star.ID && !f.stars[i].Deleted() {
			f.stars[i] = star.Clone()
			return star, nil
		}
	}
	return models.Star{}, common.ErrorNotFound
}

func (f *fakeLocal) SoftDeleteOne(ctx context.Context, id string) error {
	return f.SoftDeleteMany(ctx, []string{id})
}

func (f *fakeLocal) SoftDeleteMany(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(ids) == 0 {
		return common.ErrEmptyIDList
	}
	for _, id := range ids {
		for i := range f.stars {
			if f.stars[i].ID == id {
				d := fixedNow
				f.stars[i].DeletedAt = &d
			}
		}
	}
	return nil
}

type fakeRemote struct {
	configured  bool
	stars       []models.Star
	err         error
	readErr     error
	calls       []string
	deletedLog  []string
	sawDeadline bool
}

func (f *fakeRemote) Configured() bool { return f.configured }

func (f *fakeRemote) record(ctx context.Context, op string) error {
	f.calls = append(f.calls, op)
	if _, ok := ctx.Deadline(); ok {
		f.sawDeadline = true
	}
	return f.err
}

func (f *fakeRemote) ReadAll(ctx context.Context, _ string) ([]models.Star, error) {
	if err := f.record(ctx, "read"); err != nil {
		return nil, err
	}
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.stars, nil
}

func (f *fakeRemote) CreateOne(ctx context.Context, star models.Star, _ string) (models.Star, error) {
	if err := f.record(ctx, "create"); err != nil {
		return models.Star{}, err
	}
	f.stars = append(f.stars, star)
	return star, nil
}

func (f *fakeRemote) UpdateOne(ctx context.Context, star models.Star, _ string) (models.Star, error) {
	if err := f.record(ctx, "update"); err != nil {
		return models.Star{}, err
	}
	for i := range f.stars {
		if f.stars[i].ID == star.ID {
			f.stars[i] = star
		}
	}
	return star, nil
}

func (f *fakeRemote) SoftDeleteOne(ctx context.Context, _, _ string) error {
	return f.record(ctx, "delete")
}

func (f *fakeRemote) SoftDeleteMany(ctx context.Context, _ []string, _ string) error {
	return f.record(ctx, "bulk delete")
}

func (f *fakeRemote) SoftDeleteLog(ctx context.Context, logID, _ string) error {
	if err := f.record(ctx, "delete log"); err != nil {
		return err
	}
	f.deletedLog = append(f.deletedLog, logID)
	return nil
}
