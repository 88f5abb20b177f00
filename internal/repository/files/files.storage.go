// FilePath: internal/repository/files/files.storage.go
package files

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	nuts "github.com/vaudience/go-nuts"

	"github.com/luzhub/luzhub/internal/errors"
)

const (
	defaultPermissions = 0755
	photoExtension     = ".jpg"
)

// Config holds configuration for the photo storage
type Config struct {
	BasePath    string
	MaxFileSize int64
}

// PhotoRepo stores module photos on disk, one flat directory keyed by
// "<moduleID>_<unixTimestamp>.jpg".
type PhotoRepo struct {
	config Config
}

// NewPhotoRepository creates a new photo storage repository
func NewPhotoRepository(config Config) (*PhotoRepo, error) {
	if err := createDirectoryIfNotExists(config.BasePath); err != nil {
		return nil, err
	}
	return &PhotoRepo{config: config}, nil
}

// Store writes the uploaded image and returns its file name.
func (r *PhotoRepo) Store(ctx context.Context, moduleID string, src io.Reader, at time.Time) (string, error) {
	name := fmt.Sprintf("%s_%d%s", moduleID, at.Unix(), photoExtension)

	dst, err := os.Create(filepath.Join(r.config.BasePath, name))
	if err != nil {
		return "", errors.NewInternalError("failed to create photo file", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(src, r.config.MaxFileSize+1))
	if err != nil {
		return "", errors.NewInternalError("failed to write photo file", err)
	}
	if written > r.config.MaxFileSize {
		os.Remove(dst.Name())
		return "", errors.NewValidationError("photo exceeds maximum allowed size", nil)
	}

	nuts.L.Infof("[PhotoRepo] Stored photo: %s (%d bytes)", name, written)
	return name, nil
}

// Path resolves a stored photo name to its absolute path. Names are
// restricted to the store's flat namespace.
func (r *PhotoRepo) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", errors.NewValidationError("invalid photo name", nil)
	}
	path := filepath.Join(r.config.BasePath, name)
	if _, err := os.Stat(path); err != nil {
		return "", errors.NewNotFoundError("photo not found", err)
	}
	return path, nil
}

// Stream copies a stored photo to the given writer.
func (r *PhotoRepo) Stream(ctx context.Context, name string, w io.Writer) error {
	path, err := r.Path(name)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.NewInternalError("failed to open photo", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return errors.NewInternalError("failed to stream photo", err)
	}
	return nil
}

// DeleteByModule removes every stored photo belonging to a module.
func (r *PhotoRepo) DeleteByModule(ctx context.Context, moduleID string) error {
	entries, err := os.ReadDir(r.config.BasePath)
	if err != nil {
		return errors.NewInternalError("failed to list photo store", err)
	}

	deleted := 0
	prefix := moduleID + "_"
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(r.config.BasePath, entry.Name())); err != nil {
			nuts.L.Errorf("[PhotoRepo] Failed to delete photo %s: %v", entry.Name(), err)
			continue
		}
		deleted++
	}

	nuts.L.Infof("[PhotoRepo] Deleted %d photos for module %s", deleted, moduleID)
	return nil
}

func createDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, defaultPermissions); err != nil {
			return errors.NewInternalError("failed to create directory", err)
		}
	}
	return nil
}
