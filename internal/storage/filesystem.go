package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"relay/internal/domain"
)

// ErrMaskNotFound is returned when the mask file for a type is absent.
var ErrMaskNotFound = errors.New("storage: mask not found")

// MaskLoader returns the bytes of the mask paired with a mask type.
type MaskLoader interface {
	Load(ctx context.Context, maskType domain.MaskType) ([]byte, error)
	Path(maskType domain.MaskType) string
}

// MaskStore reads mask assets from a directory on the local filesystem, one
// <mask_type>.png file per supported type. Files are provisioned at deploy
// time and never written by the service.
type MaskStore struct {
	basePath string
}

// NewMaskStore initializes a MaskStore rooted at basePath. The directory is
// not required to exist yet; a missing file is reported per lookup.
func NewMaskStore(basePath string) (*MaskStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	return &MaskStore{basePath: filepath.Clean(basePath)}, nil
}

// BasePath returns the configured root directory.
func (s *MaskStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Path returns the file path for maskType, in slash form relative to the
// working directory when basePath is relative (e.g. "masks/surface.png").
func (s *MaskStore) Path(maskType domain.MaskType) string {
	if s == nil {
		return ""
	}
	key, err := sanitizeKey(string(maskType) + ".png")
	if err != nil {
		return ""
	}
	return filepath.ToSlash(filepath.Join(s.basePath, filepath.FromSlash(key)))
}

// Load reads the mask for maskType.
func (s *MaskStore) Load(ctx context.Context, maskType domain.MaskType) ([]byte, error) {
	if s == nil {
		return nil, errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !maskType.Valid() {
		return nil, fmt.Errorf("storage: unsupported mask type %q", maskType)
	}
	path := s.Path(maskType)
	if path == "" {
		return nil, fmt.Errorf("storage: invalid mask key %q", maskType)
	}
	data, err := os.ReadFile(filepath.FromSlash(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMaskNotFound, path)
		}
		return nil, fmt.Errorf("storage: read mask: %w", err)
	}
	return data, nil
}

// Missing returns the paths of supported mask types whose files are absent.
func (s *MaskStore) Missing() []string {
	var missing []string
	for _, m := range domain.MaskTypes() {
		path := s.Path(m)
		if _, err := os.Stat(filepath.FromSlash(path)); err != nil {
			missing = append(missing, path)
		}
	}
	return missing
}

var _ MaskLoader = (*MaskStore)(nil)

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.Clean(key)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
