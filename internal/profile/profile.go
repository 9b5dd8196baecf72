// Package profile owns the single per-user profile row: its model, field
// validation, and the load/upsert store that talks to the relational backend.
package profile

import (
	"context"
	"time"
)

// Profile is the one mutable metadata row owned by a user. ID always equals
// the authenticated user's id. AvatarKey is the opaque object-store
// identifier of the current picture; empty means no avatar.
type Profile struct {
	ID        string    `validate:"required"`
	Username  string    `validate:"omitempty,min=3"`
	Website   string    `validate:"omitempty,url"`
	AvatarKey string    `validate:"omitempty"`
	UpdatedAt time.Time `validate:"-"`
}

// Repository is the relational-store contract for profiles. A missing row is
// signalled with common.ErrNotFound; any other failure is a plain error.
//
// SelectOne must filter on direct id equality.
type Repository interface {
	SelectOne(ctx context.Context, id string) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}
