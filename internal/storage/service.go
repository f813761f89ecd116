// Package storage is the single entry point for reading and writing stars.
//
// For every call it picks one backend: the remote store when the caller
// names a real account and the remote store is configured, the local store
// otherwise. Reads that fail remotely are served from the local store and
// tagged as a fallback. Writes never fall back; their failures are returned
// as *Error.
package storage

import (
	"context"
	"time"

	"github.com/dmitrijs2005/starkeeper/internal/common"
	"github.com/dmitrijs2005/starkeeper/internal/identity"
	"github.com/dmitrijs2005/starkeeper/internal/logging"
	"github.com/dmitrijs2005/starkeeper/internal/models"
)

// LocalStore is the on-device backend.
type LocalStore interface {
	ReadAll(ctx context.Context) ([]models.Star, error)
	UpsertOne(ctx context.Context, star models.Star) (models.Star, error)
	UpdateOne(ctx context.Context, star models.Star) (models.Star, error)
	SoftDeleteOne(ctx context.Context, id string) error
	SoftDeleteMany(ctx context.Context, ids []string) error
}

// RemoteStore is the per-account cloud backend.
type RemoteStore interface {
	Configured() bool
	ReadAll(ctx context.Context, accountID string) ([]models.Star, error)
	CreateOne(ctx context.Context, star models.Star, accountID string) (models.Star, error)
	UpdateOne(ctx context.Context, star models.Star, accountID string) (models.Star, error)
	SoftDeleteOne(ctx context.Context, id, accountID string) error
	SoftDeleteMany(ctx context.Context, ids []string, accountID string) error
	SoftDeleteLog(ctx context.Context, logID, accountID string) error
}

// Tier names the backend that served a read.
type Tier int

const (
	TierLocal Tier = iota
	TierRemote
	TierLocalFallback
)

func (t Tier) String() string {
	switch t {
	case TierRemote:
		return "remote"
	case TierLocalFallback:
		return "local (fallback)"
	default:
		return "local"
	}
}

// Result is a loaded collection tagged with the tier that produced it.
// Cause is set only for TierLocalFallback.
type Result struct {
	Stars []models.Star
	Tier  Tier
	Cause error
}

type Service struct {
	local   LocalStore
	remote  RemoteStore
	logger  logging.Logger
	now     func() time.Time
	newID   func() string
	timeout time.Duration
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDSource(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithRemoteTimeout bounds each remote call; zero means no bound.
func WithRemoteTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// NewService wires the backends. remote may be nil.
func NewService(local LocalStore, remote RemoteStore, logger logging.Logger, opts ...Option) *Service {
	s := &Service{
		local:  local,
		remote: remote,
		logger: logger.With("component", "storage"),
		now:    time.Now,
		newID:  identity.Generate,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// UseRemote reports whether calls for accountID go to the remote store.
func (s *Service) UseRemote(accountID string) bool {
	return accountID != "" &&
		accountID != common.GuestAccountID &&
		s.remote != nil &&
		s.remote.Configured()
}

func (s *Service) remoteCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Load reads the whole collection for accountID.
func (s *Service) Load(ctx context.Context, accountID string) (Result, error) {
	var cause error

	if s.UseRemote(accountID) {
		rctx, cancel := s.remoteCtx(ctx)
		stars, err := s.remote.ReadAll(rctx, accountID)
		cancel()
		if err == nil {
			return Result{Stars: stars, Tier: TierRemote}, nil
		}
		cause = Classify("read", err)
		s.logger.Warn(ctx, "remote read failed, using local store", "account", accountID, "err", err)
	}

	stars, err := s.local.ReadAll(ctx)
	if err != nil {
		return Result{}, Classify("read", err)
	}
	if cause != nil {
		return Result{Stars: stars, Tier: TierLocalFallback, Cause: cause}, nil
	}
	return Result{Stars: stars, Tier: TierLocal}, nil
}

// GetAll is Load without the tier.
func (s *Service) GetAll(ctx context.Context, accountID string) ([]models.Star, error) {
	res, err := s.Load(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return res.Stars, nil
}

// Get returns one live star by id.
func (s *Service) Get(ctx context.Context, id, accountID string) (models.Star, error) {
	stars, err := s.GetAll(ctx, accountID)
	if err != nil {
		return models.Star{}, err
	}
	return find(stars, id, "get")
}

// GetForUpdate is Get for callers that will write the star back. It refuses
// a local fallback read: the local copy is not the account's data.
func (s *Service) GetForUpdate(ctx context.Context, id, accountID string) (models.Star, error) {
	res, err := s.Load(ctx, accountID)
	if err != nil {
		return models.Star{}, err
	}
	if res.Tier == TierLocalFallback {
		return models.Star{}, &Error{Kind: KindOf(res.Cause), Op: "get for update", Err: res.Cause}
	}
	return find(res.Stars, id, "get for update")
}

func find(stars []models.Star, id, op string) (models.Star, error) {
	for _, st := range stars {
		if st.ID == id {
			return st, nil
		}
	}
	return models.Star{}, &Error{Kind: KindNotFound, Op: op, Err: ErrNotFound}
}

func (s *Service) Create(ctx context.Context, star models.Star, accountID string) (models.Star, error) {
	if err := models.Validate(star); err != nil {
		return models.Star{}, &Error{Kind: KindValidation, Op: "create", Err: err}
	}

	if s.UseRemote(accountID) {
		rctx, cancel := s.remoteCtx(ctx)
		defer cancel()
		created, err := s.remote.CreateOne(rctx, star, accountID)
		if err != nil {
			return models.Star{}, Classify("create", err)
		}
		return created, nil
	}

	star = star.Clone()
	star.ID = identity.Ensure(star.ID, s.newID)
	created, err := s.local.UpsertOne(ctx, star)
	if err != nil {
		return models.Star{}, Classify("create", err)
	}
	return created, nil
}

// Update replaces the stored star with the same id. Locally a missing or
// deleted star is reported as not found.
func (s *Service) Update(ctx context.Context, star models.Star, accountID string) (models.Star, error) {
	if err := models.Validate(star); err != nil {
		return models.Star{}, &Error{Kind: KindValidation, Op: "update", Err: err}
	}

	if s.UseRemote(accountID) {
		rctx, cancel := s.remoteCtx(ctx)
		defer cancel()
		updated, err := s.remote.UpdateOne(rctx, star, accountID)
		if err != nil {
			return models.Star{}, Classify("update", err)
		}
		return updated, nil
	}

	updated, err := s.local.UpdateOne(ctx, star)
	if err != nil {
		return models.Star{}, Classify("update", err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id, accountID string) error {
	if s.UseRemote(accountID) {
		rctx, cancel := s.remoteCtx(ctx)
		defer cancel()
		return Classify("delete", s.remote.SoftDeleteOne(rctx, id, accountID))
	}
	return Classify("delete", s.local.SoftDeleteOne(ctx, id))
}

// BulkDelete soft-deletes every id. An empty list does nothing.
func (s *Service) BulkDelete(ctx context.Context, ids []string, accountID string) error {
	if len(ids) == 0 {
		return nil
	}
	if s.UseRemote(accountID) {
		rctx, cancel := s.remoteCtx(ctx)
		defer cancel()
		return Classify("bulk delete", s.remote.SoftDeleteMany(rctx, ids, accountID))
	}
	return Classify("bulk delete", s.local.SoftDeleteMany(ctx, ids))
}

// DeleteLog removes a log row remotely. Locally logs live inside their star
// and go away through Update, so this is a no-op there.
func (s *Service) DeleteLog(ctx context.Context, logID, accountID string) error {
	if !s.UseRemote(accountID) {
		return nil
	}
	rctx, cancel := s.remoteCtx(ctx)
	defer cancel()
	return Classify("delete log", s.remote.SoftDeleteLog(rctx, logID, accountID))
}

// AwardXP records an engagement event on a star and saves it.
func (s *Service) AwardXP(ctx context.Context, starID string, amount int, note, accountID string) (models.Star, error) {
	star, err := s.GetForUpdate(ctx, starID, accountID)
	if err != nil {
		return models.Star{}, err
	}
	if _, err := star.AwardXP(amount, note, s.now(), s.newID); err != nil {
		return models.Star{}, &Error{Kind: KindValidation, Op: "award xp", Err: err}
	}
	return s.Update(ctx, star, accountID)
}

// RemoveLog drops one log from a star, taking its XP back without going
// below zero, and saves the star.
func (s *Service) RemoveLog(ctx context.Context, starID, logID, accountID string) (models.Star, error) {
	star, err := s.GetForUpdate(ctx, starID, accountID)
	if err != nil {
		return models.Star{}, err
	}
	if _, ok := star.RemoveLog(logID); !ok {
		return models.Star{}, &Error{Kind: KindNotFound, Op: "remove log", Err: ErrNotFound}
	}

	updated, err := s.Update(ctx, star, accountID)
	if err != nil {
		return models.Star{}, err
	}
	if err := s.DeleteLog(ctx, logID, accountID); err != nil {
		return models.Star{}, err
	}
	return updated, nil
}
