// Package account composes the profile store and the avatar transfer for one
// authenticated session. It mirrors the account screen: mounted only while a
// session exists, it loads the profile, exposes field setters, and persists
// any freshly uploaded avatar key back through the store.
package account

import (
	"context"
	"sync"
	"sync/atomic"

	"profilesync/internal/avatar"
	"profilesync/internal/backend"
	"profilesync/internal/common"
	"profilesync/internal/logging"
	"profilesync/internal/profile"
)

// Controller wires ProfileStore and AvatarTransfer for one session.
//
// Every mutating operation sets the loading flag before touching the backend
// and clears it on every exit path. Overlapping operations are not
// deduplicated; if two are in flight, the later response wins.
type Controller struct {
	sess     *backend.Session
	store    *profile.Store
	transfer *avatar.Transfer
	log      logging.Logger

	// notify surfaces user-facing errors (modal alert equivalent). Never nil.
	notify func(error)

	loading atomic.Bool

	mu      sync.Mutex
	mounted bool
	current profile.Profile
}

// NewController builds a controller for an authenticated session. notify may
// be nil, in which case surfaced errors are only logged.
func NewController(sess *backend.Session, store *profile.Store, transfer *avatar.Transfer, log logging.Logger, notify func(error)) *Controller {
	c := &Controller{
		sess:     sess,
		store:    store,
		transfer: transfer,
		log:      log,
		notify:   notify,
	}
	if c.notify == nil {
		c.notify = func(err error) {
			c.log.Error(context.Background(), "unhandled account error", "error", err)
		}
	}
	return c
}

// Mount loads the session user's profile. A missing row initializes the
// fields to empty defaults without surfacing an error; any other failure is
// notified and returned.
func (c *Controller) Mount(ctx context.Context) error {
	c.loading.Store(true)
	defer c.loading.Store(false)

	if c.sess == nil {
		return common.E(common.KindValidation, "account.Mount", common.ErrNoSession)
	}

	p, err := c.store.Load(ctx, c.sess.User.ID)
	if err != nil {
		if common.IsNotFound(err) {
			c.setProfile(profile.Profile{ID: c.sess.User.ID})
			return nil
		}
		c.notify(err)
		return err
	}

	c.setProfile(*p)
	return nil
}

// Profile returns the in-memory profile snapshot.
func (c *Controller) Profile() profile.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Loading reports whether an operation is in flight.
func (c *Controller) Loading() bool {
	return c.loading.Load()
}

// SetUsername updates the in-memory username field.
func (c *Controller) SetUsername(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.Username = username
}

// SetWebsite updates the in-memory website field.
func (c *Controller) SetWebsite(website string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.Website = website
}

// Save upserts the current in-memory profile. Failures are notified and
// returned.
func (c *Controller) Save(ctx context.Context) error {
	c.loading.Store(true)
	defer c.loading.Store(false)

	if err := c.requireMounted("account.Save"); err != nil {
		return err
	}

	saved, err := c.store.Save(ctx, c.Profile())
	if err != nil {
		c.notify(err)
		return err
	}
	c.setProfile(*saved)
	return nil
}

// UploadAvatar runs the pick-and-upload pipeline. A canceled picker is a
// silent no-op. On a new key the key is merged into the in-memory profile
// and the merged result saved; the avatar asset is refreshed from the store.
func (c *Controller) UploadAvatar(ctx context.Context) error {
	c.loading.Store(true)
	defer c.loading.Store(false)

	if err := c.requireMounted("account.UploadAvatar"); err != nil {
		return err
	}

	key, err := c.transfer.Upload(ctx)
	if err != nil {
		c.notify(err)
		return err
	}
	if key == "" {
		return nil
	}

	c.mu.Lock()
	c.current.AvatarKey = key
	merged := c.current
	c.mu.Unlock()

	saved, err := c.store.Save(ctx, merged)
	if err != nil {
		c.notify(err)
		return err
	}
	c.setProfile(*saved)

	c.transfer.Download(ctx, key)
	return nil
}

// Avatar returns the decoded asset for the stored avatar key, fetching it if
// the key changed. Fetch failures are absorbed by the transfer layer, so the
// previously displayed asset (or none) comes back.
func (c *Controller) Avatar(ctx context.Context) *avatar.Asset {
	return c.transfer.Download(ctx, c.Profile().AvatarKey)
}

func (c *Controller) requireMounted(op string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil || !c.mounted {
		err := common.E(common.KindValidation, op, common.ErrNoSession)
		c.notify(err)
		return err
	}
	return nil
}

func (c *Controller) setProfile(p profile.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = p
	c.mounted = true
}
