// Package memory provides map-backed implementations of the relational and
// object-store contracts. They serve tests and local development runs where
// no Postgres or S3 endpoint is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"profilesync/internal/common"
	"profilesync/internal/profile"
)

// Rows is an in-memory profile.Repository.
type Rows struct {
	mu   sync.RWMutex
	rows map[string]profile.Profile
}

func NewRows() *Rows {
	return &Rows{rows: make(map[string]profile.Profile)}
}

func (r *Rows) SelectOne(ctx context.Context, id string) (*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (r *Rows) Upsert(ctx context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[p.ID] = *p
	return nil
}

type object struct {
	data        []byte
	contentType string
}

// Objects is an in-memory avatar.ObjectStore.
type Objects struct {
	mu      sync.RWMutex
	buckets map[string]map[string]object
}

func NewObjects() *Objects {
	return &Objects{buckets: make(map[string]map[string]object)}
}

func (o *Objects) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	obj, ok := o.buckets[bucket][key]
	if !ok {
		return nil, fmt.Errorf("object %s/%s: %w", bucket, key, common.ErrNotFound)
	}
	out := make([]byte, len(obj.data))
	copy(out, obj.data)
	return out, nil
}

func (o *Objects) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.buckets[bucket] == nil {
		o.buckets[bucket] = make(map[string]object)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	o.buckets[bucket][key] = object{data: stored, contentType: contentType}
	return key, nil
}

// ContentType returns the stored content type for a key, for test
// assertions.
func (o *Objects) ContentType(bucket, key string) (string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	obj, ok := o.buckets[bucket][key]
	return obj.contentType, ok
}

// Delete removes an object, simulating server-side deletion.
func (o *Objects) Delete(bucket, key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.buckets[bucket], key)
}
