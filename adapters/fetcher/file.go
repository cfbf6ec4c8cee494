package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/Skryldev/image-loader/errors"
)

// File fetches byte streams from the local filesystem, resolving file://
// URIs and bare paths.
type File struct {
	rootDir string
}

// NewFile creates a File fetcher.  When rootDir is non-empty, all paths are
// resolved inside it; an empty rootDir allows absolute and relative paths
// as-is.
func NewFile(rootDir string) *File {
	return &File{rootDir: rootDir}
}

func (f *File) Fetch(ctx context.Context, uri string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryNetwork, "file.fetch", err)
	}

	path := strings.TrimPrefix(uri, "file://")
	if f.rootDir != "" {
		path = filepath.Join(f.rootDir, filepath.Clean("/"+path))
	}

	fh, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.New(apperrors.CategoryNetwork, "file.fetch",
				fmt.Errorf("not found: %s", path))
		}
		return nil, apperrors.Wrap(apperrors.CategoryNetwork, "file.fetch", err)
	}
	return fh, nil
}
