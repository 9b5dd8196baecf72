// Package postgres implements the profile repository over a Postgres row
// store. Schema management is embedded goose migrations.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"profilesync/internal/common"
	"profilesync/internal/profile"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open connects to dsn with the pgx stdlib driver and applies pending
// migrations.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Repository is the Postgres-backed profile.Repository.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var _ profile.Repository = (*Repository)(nil)

// SelectOne returns the row whose id equals the given id. Absence maps to
// common.ErrNotFound.
func (r *Repository) SelectOne(ctx context.Context, id string) (*profile.Profile, error) {
	query :=
		`SELECT id, username, website, avatar_key, updated_at FROM profiles
		 WHERE id = $1
		 `

	p := &profile.Profile{}
	var username, website, avatarKey sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &username, &website, &avatarKey, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	p.Username = username.String
	p.Website = website.String
	p.AvatarKey = avatarKey.String
	return p, nil
}

// Upsert inserts the row or overwrites all of its fields when it already
// exists.
func (r *Repository) Upsert(ctx context.Context, p *profile.Profile) error {
	query :=
		`INSERT INTO profiles (id, username, website, avatar_key, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		 SET username = EXCLUDED.username,
		     website = EXCLUDED.website,
		     avatar_key = EXCLUDED.avatar_key,
		     updated_at = EXCLUDED.updated_at
		 `

	_, err := r.db.ExecContext(ctx, query,
		p.ID, nullable(p.Username), nullable(p.Website), nullable(p.AvatarKey), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// nullable maps an empty string to SQL NULL so cleared fields round-trip as
// absent values.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
