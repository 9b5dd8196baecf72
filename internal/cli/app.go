package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/jonboulle/clockwork"

	"profilesync/internal/account"
	"profilesync/internal/avatar"
	"profilesync/internal/backend/localauth"
	"profilesync/internal/backend/memory"
	"profilesync/internal/backend/postgres"
	"profilesync/internal/backend/s3store"
	"profilesync/internal/config"
	"profilesync/internal/lifecycle"
	"profilesync/internal/logging"
	"profilesync/internal/profile"
	"profilesync/internal/session"
)

// App is the interactive client. It owns the composition root: backend
// adapters, the session manager, and, while a session exists, the account
// controller.
type App struct {
	cfg      *config.Config
	log      logging.Logger
	sessions *session.Manager
	store    *profile.Store
	transfer *avatar.Transfer
	life     *lifecycle.Notifier
	auth     *localauth.Client
	db       *sql.DB
	reader   *bufio.Reader

	// ctrl is written by remount on the auth-event path and read by the
	// REPL goroutine; ctrlMu covers both.
	ctrlMu sync.Mutex
	ctrl   *account.Controller
}

// NewApp wires the client from configuration. An empty database DSN keeps
// profiles in memory; an empty S3 endpoint keeps avatar objects in memory.
func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	clock := clockwork.NewRealClock()

	var (
		repo profile.Repository
		db   *sql.DB
	)
	if cfg.DatabaseDSN != "" {
		var err error
		db, err = postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("open profile store: %w", err)
		}
		repo = postgres.NewRepository(db)
	} else {
		repo = memory.NewRows()
	}

	var objects avatar.ObjectStore
	if cfg.S3Endpoint != "" {
		store, err := s3store.New(ctx, s3store.Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("open object store: %w", err)
		}
		objects = store
	} else {
		objects = memory.NewObjects()
	}

	auth := localauth.New(localauth.Options{
		Secret:              []byte(cfg.AuthSecret),
		AccessTTL:           cfg.AccessTokenTTL,
		RefreshTTL:          cfg.RefreshTokenTTL,
		RequireConfirmation: cfg.RequireEmailConfirmation,
		Clock:               clock,
		Logger:              log,
	})

	reader := bufio.NewReader(os.Stdin)
	app := &App{
		cfg:    cfg,
		log:    log,
		store:  profile.NewStore(repo, clock, log),
		life:   lifecycle.NewNotifier(),
		auth:   auth,
		db:     db,
		reader: reader,
	}
	app.transfer = avatar.NewTransfer(objects, avatar.NewFilePicker(app.promptImagePath), cfg.S3Bucket, clock, log)
	app.sessions = session.NewManager(auth, log)
	return app, nil
}

// Run starts the session manager and the REPL, simulating the app coming to
// the foreground on entry and backgrounding on exit.
func (a *App) Run(ctx context.Context) error {
	if err := a.sessions.Start(ctx); err != nil {
		return err
	}
	defer a.sessions.Close()

	a.sessions.OnChange(func(st session.State) { a.remount(ctx, st) })
	a.remount(ctx, a.sessions.Current())

	a.sessions.BindLifecycle(a.life)
	a.life.Notify(lifecycle.Foreground)
	defer a.life.Notify(lifecycle.Background)

	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))

	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// remount follows the session gate: a controller exists exactly while a
// session does.
func (a *App) remount(ctx context.Context, st session.State) {
	s, ok := st.Session()
	if !ok {
		a.setController(nil)
		return
	}
	if c := a.controller(); c != nil && c.Profile().ID == s.User.ID {
		return
	}
	c := account.NewController(s, a.store, a.transfer, a.log, func(err error) {
		printlnFn(fmt.Sprintf("Error: %v", err))
	})
	a.setController(c)
	if err := c.Mount(ctx); err != nil {
		a.log.Error(ctx, "profile mount failed", "error", err)
	}
}

// controller returns the currently mounted controller, or nil when no
// session exists. remount may swap it from the auth-event goroutine at any
// time, so callers work with the returned value, not the field.
func (a *App) controller() *account.Controller {
	a.ctrlMu.Lock()
	defer a.ctrlMu.Unlock()
	return a.ctrl
}

func (a *App) setController(c *account.Controller) {
	a.ctrlMu.Lock()
	defer a.ctrlMu.Unlock()
	a.ctrl = c
}

func (a *App) isLoggedIn() bool {
	return a.sessions.Current().Status() == session.StatusAuthenticated
}

func (a *App) status() string {
	st := a.sessions.Current()
	if s, ok := st.Session(); ok {
		return s.User.Email
	}
	return st.Status().String()
}

// promptImagePath is the CLI image "picker": it asks for a filesystem path,
// with an empty line meaning cancel.
func (a *App) promptImagePath(ctx context.Context) (string, error) {
	return GetSimpleText(a.reader, "Image file path (empty line to cancel)", os.Stdout)
}
