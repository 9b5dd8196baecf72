package cli

import (
	"context"
	"fmt"

	"profilesync/internal/common"
	"profilesync/internal/lifecycle"
)

// Show prints the mounted profile and whether an avatar is displayable.
func (a *App) Show(ctx context.Context) error {
	c := a.controller()
	if c == nil {
		printlnFn("Not signed in.")
		return common.E(common.KindValidation, "cli.Show", common.ErrNoSession)
	}
	p := c.Profile()
	printlnFn(fmt.Sprintf("Username:  %s", p.Username))
	printlnFn(fmt.Sprintf("Website:   %s", p.Website))
	printlnFn(fmt.Sprintf("AvatarKey: %s", p.AvatarKey))

	if asset := c.Avatar(ctx); asset != nil {
		b := asset.Image.Bounds()
		printlnFn(fmt.Sprintf("Avatar:    %s %dx%d", asset.Format, b.Dx(), b.Dy()))
	} else if p.AvatarKey != "" {
		printlnFn("Avatar:    (not displayable)")
	} else {
		printlnFn("Avatar:    (none)")
	}
	return nil
}

// Set updates one in-memory profile field. Run 'save' to persist.
func (a *App) Set(ctx context.Context, field, value string) error {
	c := a.controller()
	if c == nil {
		printlnFn("Not signed in.")
		return common.E(common.KindValidation, "cli.Set", common.ErrNoSession)
	}
	switch field {
	case "username":
		c.SetUsername(value)
	case "website":
		c.SetWebsite(value)
	default:
		printlnFn("usage: set username|website <value>")
		return nil
	}
	printlnFn("Updated. Run 'save' to persist.")
	return nil
}

// Save persists the in-memory profile.
func (a *App) Save(ctx context.Context) error {
	c := a.controller()
	if c == nil {
		printlnFn("Not signed in.")
		return common.E(common.KindValidation, "cli.Save", common.ErrNoSession)
	}
	if err := c.Save(ctx); err != nil {
		return err
	}
	printlnFn("Profile saved.")
	return nil
}

// Avatar uploads a new avatar picked by file path and persists its key.
func (a *App) Avatar(ctx context.Context) error {
	c := a.controller()
	if c == nil {
		printlnFn("Not signed in.")
		return common.E(common.KindValidation, "cli.Avatar", common.ErrNoSession)
	}
	before := c.Profile().AvatarKey
	if err := c.UploadAvatar(ctx); err != nil {
		return err
	}
	after := c.Profile().AvatarKey
	if after == before {
		printlnFn("Upload canceled.")
		return nil
	}
	printlnFn(fmt.Sprintf("Avatar uploaded as %s.", after))
	return nil
}

// Foreground simulates the app returning to the foreground.
func (a *App) Foreground() {
	a.life.Notify(lifecycle.Foreground)
	printlnFn("App foregrounded; token auto-refresh running.")
}

// Background simulates the app moving to the background.
func (a *App) Background() {
	a.life.Notify(lifecycle.Background)
	printlnFn("App backgrounded; token auto-refresh suspended.")
}
