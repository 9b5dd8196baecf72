// Package localauth implements the backend.AuthClient contract in-process:
// bcrypt-hashed users, HS256 access tokens, rotating refresh tokens, an
// optional email-confirmation gate, and a background auto-refresh loop that
// renews tokens before expiry. It backs the CLI and the integration-style
// tests; a production deployment would swap in a client for the hosted auth
// service.
package localauth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"profilesync/internal/backend"
	"profilesync/internal/common"
	"profilesync/internal/logging"
)

// Options configures a Client. Zero fields fall back to the defaults below.
type Options struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// RefreshInterval is how often the auto-refresh loop checks whether the
	// current session needs renewing.
	RefreshInterval time.Duration
	// RefreshLeeway renews a token when it expires within this window.
	RefreshLeeway time.Duration
	// RequireConfirmation gates new accounts behind ConfirmEmail, so SignUp
	// returns no session until the address is confirmed.
	RequireConfirmation bool
	Clock               clockwork.Clock
	Logger              logging.Logger
}

type user struct {
	id           string
	email        string
	passwordHash []byte
	confirmed    bool
}

type refreshRecord struct {
	userID    string
	expiresAt time.Time
}

// Client is an in-process auth backend.
type Client struct {
	opts Options
	log  logging.Logger

	mu            sync.Mutex
	users         map[string]*user // keyed by lower-cased email
	refreshTokens map[string]refreshRecord
	current       *backend.Session

	nextListener int
	listeners    map[int]func(backend.AuthEvent, *backend.Session)

	refreshStop chan struct{}
	refreshDone chan struct{}
}

var _ backend.AuthClient = (*Client)(nil)

func New(opts Options) *Client {
	if len(opts.Secret) == 0 {
		opts.Secret = []byte("dev-secret-change-me")
	}
	if opts.AccessTTL == 0 {
		opts.AccessTTL = time.Hour
	}
	if opts.RefreshTTL == 0 {
		opts.RefreshTTL = 30 * 24 * time.Hour
	}
	if opts.RefreshInterval == 0 {
		opts.RefreshInterval = 30 * time.Second
	}
	if opts.RefreshLeeway == 0 {
		opts.RefreshLeeway = 5 * time.Minute
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Client{
		opts:          opts,
		log:           opts.Logger,
		users:         make(map[string]*user),
		refreshTokens: make(map[string]refreshRecord),
		listeners:     make(map[int]func(backend.AuthEvent, *backend.Session)),
	}
}

// SignUp creates an account. With RequireConfirmation set it returns
// (nil, nil) until ConfirmEmail is called; otherwise it signs the user in
// immediately.
func (c *Client) SignUp(ctx context.Context, email, password string) (*backend.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	key := normalizeEmail(email)

	c.mu.Lock()
	if _, exists := c.users[key]; exists {
		c.mu.Unlock()
		return nil, common.ErrUserExists
	}
	u := &user{
		id:           uuid.NewString(),
		email:        key,
		passwordHash: hash,
		confirmed:    !c.opts.RequireConfirmation,
	}
	c.users[key] = u

	if !u.confirmed {
		c.mu.Unlock()
		c.log.Info(ctx, "sign-up pending confirmation", "email", key)
		return nil, nil
	}

	s := c.mintSessionLocked(u)
	c.mu.Unlock()

	c.emit(backend.EventSignedIn, s)
	return s, nil
}

// ConfirmEmail marks an account as confirmed, unblocking sign-in.
func (c *Client) ConfirmEmail(email string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[normalizeEmail(email)]
	if !ok {
		return common.ErrNotFound
	}
	u.confirmed = true
	return nil
}

// SignInWithPassword verifies credentials and mints a session. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*backend.Session, error) {
	c.mu.Lock()
	u, ok := c.users[normalizeEmail(email)]
	if !ok {
		c.mu.Unlock()
		return nil, common.ErrInvalidCredentials
	}
	if !u.confirmed {
		c.mu.Unlock()
		return nil, common.ErrEmailNotConfirmed
	}
	hash := u.passwordHash
	c.mu.Unlock()

	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return nil, common.ErrInvalidCredentials
	}

	c.mu.Lock()
	s := c.mintSessionLocked(u)
	c.mu.Unlock()

	c.emit(backend.EventSignedIn, s)
	return s, nil
}

// SignOut drops the persisted session and revokes its refresh token. Safe to
// call when no session exists.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	if c.current != nil {
		delete(c.refreshTokens, c.current.RefreshToken)
		c.current = nil
	}
	c.mu.Unlock()

	c.emit(backend.EventSignedOut, nil)
	return nil
}

// GetSession returns the persisted session, renewing it first when the
// access token already expired. (nil, nil) means no session survived.
func (c *Client) GetSession(ctx context.Context) (*backend.Session, error) {
	c.mu.Lock()
	s := c.current
	if s == nil {
		c.mu.Unlock()
		return nil, nil
	}
	if !s.Expired(c.opts.Clock.Now()) {
		cp := *s
		c.mu.Unlock()
		return &cp, nil
	}
	renewed, err := c.rotateLocked(s.RefreshToken)
	if err != nil {
		// The refresh token lapsed too; the session is gone.
		c.current = nil
		c.mu.Unlock()
		return nil, nil
	}
	c.mu.Unlock()
	c.emit(backend.EventTokenRefreshed, renewed)
	return renewed, nil
}

// OnAuthStateChange registers a listener for session changes.
func (c *Client) OnAuthStateChange(fn func(backend.AuthEvent, *backend.Session)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// StartAutoRefresh launches the background renewal loop. Idempotent.
func (c *Client) StartAutoRefresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.refreshStop != nil {
		return
	}
	c.refreshStop = make(chan struct{})
	c.refreshDone = make(chan struct{})
	go c.refreshLoop(c.refreshStop, c.refreshDone)
}

// StopAutoRefresh stops the renewal loop and waits for it to exit.
// Idempotent; in-flight data operations are unaffected.
func (c *Client) StopAutoRefresh() {
	c.mu.Lock()
	stop, done := c.refreshStop, c.refreshDone
	c.refreshStop, c.refreshDone = nil, nil
	c.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (c *Client) refreshLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := c.opts.Clock.NewTicker(c.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			c.refreshIfExpiring()
		}
	}
}

func (c *Client) refreshIfExpiring() {
	c.mu.Lock()
	s := c.current
	if s == nil || c.opts.Clock.Now().Add(c.opts.RefreshLeeway).Before(s.ExpiresAt) {
		c.mu.Unlock()
		return
	}
	renewed, err := c.rotateLocked(s.RefreshToken)
	if err != nil {
		// Invalidate while still holding the lock, so a sign-in that lands
		// between the failed rotation and the invalidation is not clobbered.
		c.current = nil
		c.mu.Unlock()
		c.log.Warn(context.Background(), "token refresh failed, session invalidated", "error", err)
		c.emit(backend.EventSignedOut, nil)
		return
	}
	c.mu.Unlock()

	c.log.Info(context.Background(), "token refreshed", "user_id", renewed.User.ID)
	c.emit(backend.EventTokenRefreshed, renewed)
}

// rotateLocked swaps refreshToken for a fresh token pair. Callers hold c.mu.
func (c *Client) rotateLocked(refreshToken string) (*backend.Session, error) {
	rec, ok := c.refreshTokens[refreshToken]
	if !ok {
		return nil, common.ErrRefreshExpired
	}
	if c.opts.Clock.Now().After(rec.expiresAt) {
		delete(c.refreshTokens, refreshToken)
		return nil, common.ErrRefreshExpired
	}
	delete(c.refreshTokens, refreshToken)

	var u *user
	for _, cand := range c.users {
		if cand.id == rec.userID {
			u = cand
			break
		}
	}
	if u == nil {
		return nil, common.ErrRefreshExpired
	}
	s := c.mintSessionLocked(u)
	cp := *s
	return &cp, nil
}

// mintSessionLocked issues a token pair and persists it as the current
// session. Callers hold c.mu.
func (c *Client) mintSessionLocked(u *user) *backend.Session {
	now := c.opts.Clock.Now()
	expiresAt := now.Add(c.opts.AccessTTL)

	access, err := generateAccessToken(u.id, u.email, c.opts.Secret, now, expiresAt)
	if err != nil {
		// Signing only fails on a broken key type; treat as fatal setup error.
		panic(err)
	}

	refresh := uuid.NewString()
	c.refreshTokens[refresh] = refreshRecord{userID: u.id, expiresAt: now.Add(c.opts.RefreshTTL)}

	s := &backend.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         backend.User{ID: u.id, Email: u.email},
		ExpiresAt:    expiresAt,
	}
	c.current = s
	return s
}

func (c *Client) emit(ev backend.AuthEvent, s *backend.Session) {
	c.mu.Lock()
	fns := make([]func(backend.AuthEvent, *backend.Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(ev, s)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
