package service

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))

	return buf.Bytes()
}

func TestNormalizeAvatar(t *testing.T) {
	out, err := NormalizeAvatar(bytes.NewReader(encodePNG(t, 10, 5)))
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, avatarSize, img.Bounds().Dx())
	assert.Equal(t, avatarSize, img.Bounds().Dy())
}

func TestNormalizeAvatarAcceptsJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 600, 400)), nil))

	out, err := NormalizeAvatar(&buf)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	// Output is normalized to PNG whatever came in
	assert.Equal(t, "png", format)
	assert.Equal(t, avatarSize, img.Bounds().Dx())
}

func TestNormalizeAvatarRejectsGarbage(t *testing.T) {
	_, err := NormalizeAvatar(bytes.NewReader([]byte("definitely not an image")))
	assert.Error(t, err)
}

func TestLocalAvatarStore(t *testing.T) {
	dir := t.TempDir()

	store, err := NewLocalAvatarStore(filepath.Join(dir, "avatars"))
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "u1_123_me.png", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "/avatars/u1_123_me.png", url)

	got, err := os.ReadFile(filepath.Join(dir, "avatars", "u1_123_me.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)
}
