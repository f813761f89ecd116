// Package remote is the Remote Store Adapter: stars and their XP logs kept in
// a hosted Postgres database, one tenant per account id.
//
// Every statement is filtered by user_id. Star rows are never physically
// deleted; deleted_at marks them gone.
package remote

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/starkeeper/internal/identity"
	"github.com/dmitrijs2005/starkeeper/internal/logging"
	schema "github.com/dmitrijs2005/starkeeper/internal/migrations/remote"
	"github.com/dmitrijs2005/starkeeper/internal/storage/assets"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
)

// Uploader turns inline images into durable references.
type Uploader interface {
	Upload(ctx context.Context, accountID, entityID, image, prefix string) assets.Result
}

type Store struct {
	db       *sql.DB
	uploader Uploader
	logger   logging.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDSource(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func New(db *sql.DB, uploader Uploader, logger logging.Logger, opts ...Option) *Store {
	s := &Store{
		db:       db,
		uploader: uploader,
		logger:   logger.With("component", "remote_store"),
		now:      time.Now,
		newID:    identity.Generate,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open returns a connection pool for dsn. It does not contact the server.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open remote database: %w", err)
	}
	return db, nil
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, schema.Migrations)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply remote migrations: %w", err)
	}
	return nil
}

// Configured reports whether the store has a database to talk to.
func (s *Store) Configured() bool {
	return s != nil && s.db != nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
