package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/starkeeper/internal/config"
	"github.com/dmitrijs2005/starkeeper/internal/filex"
	"github.com/dmitrijs2005/starkeeper/internal/identity"
	"github.com/dmitrijs2005/starkeeper/internal/logging"
	"github.com/dmitrijs2005/starkeeper/internal/models"
	"github.com/dmitrijs2005/starkeeper/internal/session"
	"github.com/dmitrijs2005/starkeeper/internal/storage"
	"github.com/dmitrijs2005/starkeeper/internal/storage/assets"
	"github.com/dmitrijs2005/starkeeper/internal/storage/kv"
	"github.com/dmitrijs2005/starkeeper/internal/storage/local"
	"github.com/dmitrijs2005/starkeeper/internal/storage/remote"
)

// Service is the part of the storage façade the commands use.
type Service interface {
	UseRemote(accountID string) bool
	Load(ctx context.Context, accountID string) (storage.Result, error)
	Get(ctx context.Context, id, accountID string) (models.Star, error)
	GetForUpdate(ctx context.Context, id, accountID string) (models.Star, error)
	Create(ctx context.Context, star models.Star, accountID string) (models.Star, error)
	Update(ctx context.Context, star models.Star, accountID string) (models.Star, error)
	Delete(ctx context.Context, id, accountID string) error
	BulkDelete(ctx context.Context, ids []string, accountID string) error
	AwardXP(ctx context.Context, starID string, amount int, note, accountID string) (models.Star, error)
	RemoveLog(ctx context.Context, starID, logID, accountID string) (models.Star, error)
}

type App struct {
	svc     Service
	account session.Account
	ping    func(ctx context.Context) error
	logger  logging.Logger

	reader  *bufio.Reader
	out     io.Writer
	stdinFd int

	now   func() time.Time
	newID func() string

	lastTier storage.Tier
	loaded   bool
	closers  []func() error
}

func newApp(svc Service, account session.Account, in io.Reader, out io.Writer, logger logging.Logger) *App {
	return &App{
		svc:     svc,
		account: account,
		logger:  logger,
		reader:  bufio.NewReader(in),
		out:     out,
		stdinFd: -1,
		now:     time.Now,
		newID:   identity.Generate,
	}
}

// NewApp opens the stores described by cfg and returns an App reading
// commands from stdin.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if err := filex.EnsureParentDir(cfg.LocalDBPath); err != nil {
		return nil, fmt.Errorf("error initializing local database: %w", err)
	}
	db, err := kv.Open(ctx, cfg.LocalDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing local database: %w", err)
	}
	closers := []func() error{db.Close}
	localStore := local.NewStore(kv.NewSQLiteRepository(db), logger)

	account, err := session.Resolve(session.Credentials{
		AccountID:   cfg.AccountID,
		AccessToken: cfg.AccessToken,
		JWTSecret:   cfg.JWTSecret,
	}, time.Now())
	if err != nil {
		logger.Warn(ctx, "access token rejected, continuing as guest", "err", err)
	}

	var remoteStore storage.RemoteStore
	var ping func(context.Context) error
	if cfg.RemoteConfigured() {
		rs, pg, err := openRemote(ctx, cfg, logger)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		closers = append(closers, pg.Close)
		remoteStore = rs
		ping = rs.Ping
	}

	svc := storage.NewService(localStore, remoteStore, logger, storage.WithRemoteTimeout(cfg.RemoteTimeout))

	a := newApp(svc, account, os.Stdin, os.Stdout, logger)
	a.ping = ping
	a.stdinFd = int(os.Stdin.Fd())
	a.closers = closers
	return a, nil
}

// openRemote prepares the remote store. An unreachable server is not an
// error here: reads fall back to the local store until it comes back.
func openRemote(ctx context.Context, cfg *config.Config, logger logging.Logger) (*remote.Store, *sql.DB, error) {
	pg, err := remote.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	mctx, cancel := ctx, context.CancelFunc(func() {})
	if cfg.RemoteTimeout > 0 {
		mctx, cancel = context.WithTimeout(ctx, cfg.RemoteTimeout)
	}
	if err := remote.RunMigrations(mctx, pg); err != nil {
		logger.Warn(ctx, "remote migrations not applied", "err", err)
	}
	cancel()

	uploader, err := assets.New(ctx, assets.Config{
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		AccessKey:     cfg.S3RootUser,
		SecretKey:     cfg.S3RootPassword,
		BaseEndpoint:  cfg.S3BaseEndpoint,
		PublicBaseURL: cfg.S3PublicBaseURL,
	}, logger)
	if err != nil {
		logger.Warn(ctx, "image uploads disabled", "err", err)
		uploader = assets.NewWithClient(nil, assets.Config{}, logger)
	}

	return remote.New(pg, uploader, logger), pg, nil
}

// Run blocks in the command loop until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	fmt.Fprintf(a.out, "StarKeeper. Signed in as %s. Type 'help' for commands.\n", a.accountLabel())
	runREPL(ctx, a, a.prompt, a.reader, a.out)
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn(context.Background(), "close failed", "err", err)
		}
	}
}

func (a *App) accountID() string {
	return a.account.ID
}

func (a *App) accountLabel() string {
	if a.account.IsGuest() {
		return "guest"
	}
	return a.account.ID
}

func (a *App) prompt() string {
	if a.svc.UseRemote(a.accountID()) {
		return "account mode"
	}
	return "local mode"
}
