package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrTooLarge is returned by Stage when the source exceeds the size limit.
var ErrTooLarge = errors.New("file too large")

// File is an upload staged on local disk. The owner must call Remove.
type File struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}

// BaseName is the client file name without directory and extension.
func (f *File) BaseName() string {
	base := filepath.Base(f.Name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Remove deletes the staged file. Removing an already removed file is not an error.
func (f *File) Remove() error {
	if f == nil || f.Path == "" {
		return nil
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove staged file: %w", err)
	}
	return nil
}

// Stage copies src into a temp file under dir, refusing more than maxBytes.
func Stage(src io.Reader, dir, name, contentType string, maxBytes int64) (*File, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(dir, "upload-*"+filepath.Ext(filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	f := &File{Path: tmp.Name(), Name: name, ContentType: contentType}

	n, copyErr := io.Copy(tmp, io.LimitReader(src, maxBytes+1))
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = f.Remove()
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	if n > maxBytes {
		_ = f.Remove()
		return nil, ErrTooLarge
	}
	f.Size = n
	return f, nil
}
