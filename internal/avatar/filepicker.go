package avatar

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

// FilePicker selects an image by asking pathFn for a filesystem path and
// reading it. It is the picker used by the CLI; a GUI client would supply
// its own Picker over the platform image library.
//
// An empty path from pathFn is treated as cancellation.
type FilePicker struct {
	pathFn func(ctx context.Context) (string, error)
}

func NewFilePicker(pathFn func(ctx context.Context) (string, error)) *FilePicker {
	return &FilePicker{pathFn: pathFn}
}

func (p *FilePicker) Pick(ctx context.Context) (*Picked, error) {
	path, err := p.pathFn(ctx)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", path, err)
	}

	return &Picked{
		Path: path,
		MIME: mime.TypeByExtension(filepath.Ext(path)),
		Data: data,
	}, nil
}
