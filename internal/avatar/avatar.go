// Package avatar moves the profile picture between the object store and a
// locally decoded, displayable asset. Downloads decode and absorb their own
// failures; uploads pick a local image, mint a fresh storage key, and
// propagate failures to the caller.
package avatar

import (
	"context"
	"image"

	// Registered decoders for the formats a picker can produce.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ObjectStore is the binary object-store contract consumed by Transfer.
//
// Upload returns the key the object was stored under (echoing the requested
// key on success).
type ObjectStore interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
}

// Picked is a single image chosen by the user.
type Picked struct {
	// Path is the source path the image was read from; its extension names
	// the stored object.
	Path string
	// MIME is the asset's declared content type; empty falls back to
	// image/jpeg.
	MIME string
	// Data is the raw image bytes.
	Data []byte
}

// Picker selects exactly one local image. A nil Picked with a nil error
// means the user canceled, which is a silent no-op for the upload flow.
type Picker interface {
	Pick(ctx context.Context) (*Picked, error)
}

// Asset is the ephemeral decoded form of the bytes behind a storage key.
// It is never persisted; it is recomputed when the key changes.
type Asset struct {
	Key    string
	Image  image.Image
	Format string
}
