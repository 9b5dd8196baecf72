package avatar

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"

	"profilesync/internal/common"
	"profilesync/internal/logging"
	"profilesync/internal/metrics"
)

const (
	defaultExtension   = "jpeg"
	defaultContentType = "image/jpeg"
)

// Transfer downloads avatars into a displayable asset and uploads picked
// images under freshly minted keys. It owns the current asset for the
// lifetime of the current key.
type Transfer struct {
	objects ObjectStore
	picker  Picker
	bucket  string
	clock   clockwork.Clock
	log     logging.Logger

	mu      sync.Mutex
	current *Asset
}

func NewTransfer(objects ObjectStore, picker Picker, bucket string, clock clockwork.Clock, log logging.Logger) *Transfer {
	return &Transfer{
		objects: objects,
		picker:  picker,
		bucket:  bucket,
		clock:   clock,
		log:     log,
	}
}

// Download fetches the object behind key and decodes it into the current
// asset. Fetch and decode failures are logged and absorbed: the previous
// asset (possibly none) is kept and returned, and no error ever reaches the
// caller. An empty key clears the current asset.
func (t *Transfer) Download(ctx context.Context, key string) *Asset {
	t.mu.Lock()
	defer t.mu.Unlock()

	if key == "" {
		t.current = nil
		return nil
	}
	if t.current != nil && t.current.Key == key {
		return t.current
	}

	data, err := t.objects.Download(ctx, t.bucket, key)
	if err != nil {
		metrics.AvatarDownloads.WithLabelValues(metrics.ResultError).Inc()
		t.log.Warn(ctx, "avatar download failed", "key", key, "error", err)
		return t.current
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		metrics.AvatarDownloads.WithLabelValues(metrics.ResultError).Inc()
		t.log.Warn(ctx, "avatar decode failed", "key", key, "error", err)
		return t.current
	}

	metrics.AvatarDownloads.WithLabelValues(metrics.ResultOK).Inc()
	t.current = &Asset{Key: key, Image: img, Format: format}
	return t.current
}

// Current returns the most recently decoded asset, or nil when none exists.
func (t *Transfer) Current() *Asset {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Upload invokes the picker and, when an image was selected, stores its
// bytes under a new key. Cancellation returns ("", nil). The key is
// "<millis>.<extension>" with the extension taken from the source path,
// lower-cased, defaulting to jpeg; the content type is the picked MIME or
// image/jpeg. Keys are immutable history: a new upload always mints a new
// key and never overwrites an old one. Two uploads inside the same
// millisecond can collide; callers uploading at that rate must serialize.
//
// Unlike Download, failures propagate to the caller as transfer-kind errors:
// the caller owns persisting the returned key and must know when there is
// none.
func (t *Transfer) Upload(ctx context.Context) (string, error) {
	picked, err := t.picker.Pick(ctx)
	if err != nil {
		metrics.AvatarUploads.WithLabelValues(metrics.ResultError).Inc()
		return "", common.E(common.KindTransfer, "avatar.Upload", fmt.Errorf("pick image: %w", err))
	}
	if picked == nil {
		metrics.AvatarUploads.WithLabelValues(metrics.ResultCanceled).Inc()
		t.log.Info(ctx, "image picker canceled")
		return "", nil
	}

	key := fmt.Sprintf("%d.%s", t.clock.Now().UnixMilli(), extensionOf(picked.Path))

	contentType := picked.MIME
	if contentType == "" {
		contentType = defaultContentType
	}

	stored, err := t.objects.Upload(ctx, t.bucket, key, picked.Data, contentType)
	if err != nil {
		metrics.AvatarUploads.WithLabelValues(metrics.ResultError).Inc()
		return "", common.E(common.KindTransfer, "avatar.Upload", err)
	}

	metrics.AvatarUploads.WithLabelValues(metrics.ResultOK).Inc()
	t.log.Info(ctx, "avatar uploaded", "key", stored, "content_type", contentType)
	return stored, nil
}

// extensionOf derives the storage extension from a source path: the part
// after the final dot, lower-cased, defaulting to jpeg when the path has no
// usable extension.
func extensionOf(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return defaultExtension
	}
	return strings.ToLower(ext)
}
