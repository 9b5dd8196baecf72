package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"

	"profilesync/internal/common"
	"profilesync/internal/logging"
	"profilesync/internal/metrics"
)

// Store loads and persists profiles through a Repository.
type Store struct {
	repo     Repository
	clock    clockwork.Clock
	validate *validator.Validate
	log      logging.Logger
}

func NewStore(repo Repository, clock clockwork.Clock, log logging.Logger) *Store {
	return &Store{
		repo:     repo,
		clock:    clock,
		validate: validator.New(),
		log:      log,
	}
}

// Load returns the profile row for userID. An absent row is the explicit
// not-found outcome (common.KindNotFound), distinct from any other backend
// failure (common.KindStore).
func (s *Store) Load(ctx context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, common.E(common.KindValidation, "profile.Load", common.ErrNoSession)
	}
	p, err := s.repo.SelectOne(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.E(common.KindNotFound, "profile.Load", err)
		}
		return nil, common.E(common.KindStore, "profile.Load", err)
	}
	return p, nil
}

// Save upserts p keyed by its id, overwriting all fields (last-write-wins)
// and refreshing UpdatedAt. Saving identical content twice leaves identical
// stored state. The returned profile carries the refreshed timestamp.
func (s *Store) Save(ctx context.Context, p Profile) (*Profile, error) {
	if p.ID == "" {
		return nil, common.E(common.KindValidation, "profile.Save", common.ErrNoSession)
	}
	if err := s.validate.Struct(p); err != nil {
		return nil, common.E(common.KindValidation, "profile.Save", fmt.Errorf("invalid profile: %w", err))
	}

	p.UpdatedAt = s.clock.Now()
	if err := s.repo.Upsert(ctx, &p); err != nil {
		metrics.ProfileSaves.WithLabelValues(metrics.ResultError).Inc()
		return nil, common.E(common.KindStore, "profile.Save", err)
	}
	metrics.ProfileSaves.WithLabelValues(metrics.ResultOK).Inc()
	s.log.Info(ctx, "profile saved", "user_id", p.ID)
	return &p, nil
}
