package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dittomusic-JK/promo-report-dashboard/models"
)

// maxUploadBytes caps attachment size. Screenshots bypass the cap; they
// are produced locally, not received from clients.
const maxUploadBytes = 10 << 20 // 10MB

// allowedUploadExt lists attachment types the dashboard accepts.
var allowedUploadExt = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
	".pdf":  {},
}

// AssetStore writes screenshots and uploaded attachments under one
// directory and hands back the public /assets/ path the router serves
// them from.
type AssetStore struct {
	dir string
}

// NewAssetStore creates the backing directory if needed.
func NewAssetStore(dir string) (*AssetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &AssetStore{dir: dir}, nil
}

// Dir returns the directory assets are stored in, for static serving.
func (s *AssetStore) Dir() string {
	return s.dir
}

// SaveScreenshot persists captured PNG bytes under a generated name and
// returns the public asset path. Empty input stores nothing and returns
// an empty path; a snapshot with no screenshot is not an error.
func (s *AssetStore) SaveScreenshot(png []byte) (string, error) {
	if len(png) == 0 {
		return "", nil
	}
	name := uuid.NewString() + ".png"
	if err := os.WriteFile(filepath.Join(s.dir, name), png, 0o644); err != nil {
		return "", models.NewExtractError(models.ErrCodeStorage, "failed to store screenshot", err)
	}
	return "/assets/" + name, nil
}

// SaveUpload stores a client-provided attachment under a generated name,
// keeping only the original extension. Unknown types and oversized files
// are rejected before anything touches disk.
func (s *AssetStore) SaveUpload(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedUploadExt[ext]; !ok {
		return "", models.NewExtractError(models.ErrCodeInvalidInput, "unsupported file type", nil)
	}

	data, err := io.ReadAll(io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		return "", models.NewExtractError(models.ErrCodeStorage, "failed to read upload", err)
	}
	if len(data) > maxUploadBytes {
		return "", models.NewExtractError(models.ErrCodeInvalidInput, "file too large", nil)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", models.NewExtractError(models.ErrCodeStorage, "failed to store upload", err)
	}
	return "/assets/" + name, nil
}
