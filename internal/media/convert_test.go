package media

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestConvert_ThumbnailBounds(t *testing.T) {
	got, err := Convert(encodePNG(t, 800, 600))
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", got.MIMEType)
	require.NotEmpty(t, got.Data)
	require.NotEmpty(t, got.Thumbnail)

	// main payload keeps its dimensions
	main := decodeJPEG(t, got.Data)
	assert.Equal(t, 800, main.Bounds().Dx())
	assert.Equal(t, 600, main.Bounds().Dy())

	// thumbnail longest edge is clamped, aspect ratio preserved
	thumb := decodeJPEG(t, got.Thumbnail)
	assert.Equal(t, ThumbnailMaxDim, thumb.Bounds().Dx())
	assert.Equal(t, 150, thumb.Bounds().Dy())
}

func TestConvert_PortraitOrientation(t *testing.T) {
	got, err := Convert(encodePNG(t, 300, 900))
	require.NoError(t, err)

	thumb := decodeJPEG(t, got.Thumbnail)
	assert.Equal(t, 67, thumb.Bounds().Dx()) // round(300 * 200/900)
	assert.Equal(t, ThumbnailMaxDim, thumb.Bounds().Dy())
}

func TestConvert_SmallImageNotUpscaled(t *testing.T) {
	got, err := Convert(encodePNG(t, 40, 30))
	require.NoError(t, err)

	thumb := decodeJPEG(t, got.Thumbnail)
	assert.Equal(t, 40, thumb.Bounds().Dx())
	assert.Equal(t, 30, thumb.Bounds().Dy())
}

func TestConvert_Errors(t *testing.T) {
	_, err := Convert(nil)
	require.Error(t, err)

	_, err = Convert([]byte("definitely not an image"))
	require.Error(t, err)
}
