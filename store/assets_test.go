package store

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dittomusic-JK/promo-report-dashboard/models"
)

func newTestAssetStore(t *testing.T) *AssetStore {
	t.Helper()
	s, err := NewAssetStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestAssetStore_SaveScreenshot(t *testing.T) {
	s := newTestAssetStore(t)
	png := []byte("\x89PNG fake bytes")

	url, err := s.SaveScreenshot(png)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(url, "/assets/"), "got %q", url)
	require.True(t, strings.HasSuffix(url, ".png"), "got %q", url)

	onDisk, err := os.ReadFile(filepath.Join(s.Dir(), strings.TrimPrefix(url, "/assets/")))
	require.NoError(t, err)
	assert.Equal(t, png, onDisk)
}

func TestAssetStore_EmptyScreenshotStoresNothing(t *testing.T) {
	s := newTestAssetStore(t)

	url, err := s.SaveScreenshot(nil)
	require.NoError(t, err)
	assert.Equal(t, "", url)

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAssetStore_SaveUpload(t *testing.T) {
	s := newTestAssetStore(t)

	url, err := s.SaveUpload("press-shot.JPG", bytes.NewReader([]byte("jpeg bytes")))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(url, ".jpg"), "extension should be kept lowercased, got %q", url)

	onDisk, err := os.ReadFile(filepath.Join(s.Dir(), strings.TrimPrefix(url, "/assets/")))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), onDisk)
}

func TestAssetStore_RejectsUnknownType(t *testing.T) {
	s := newTestAssetStore(t)

	_, err := s.SaveUpload("malware.exe", bytes.NewReader([]byte("nope")))

	var ee *models.ExtractError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, models.ErrCodeInvalidInput, ee.Code)
}

func TestAssetStore_RejectsOversizedUpload(t *testing.T) {
	s := newTestAssetStore(t)
	huge := bytes.NewReader(make([]byte, maxUploadBytes+1))

	_, err := s.SaveUpload("big.png", huge)

	var ee *models.ExtractError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, models.ErrCodeInvalidInput, ee.Code)

	entries, readErr := os.ReadDir(s.Dir())
	require.NoError(t, readErr)
	assert.Empty(t, entries, "rejected upload must not touch disk")
}
