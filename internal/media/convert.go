// Package media converts captured images into attachment payloads: a
// bounded-quality JPEG re-encode of the full image plus a small
// aspect-preserving thumbnail for list rendering.
package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"

	xdraw "golang.org/x/image/draw"
)

const (
	// ThumbnailMaxDim bounds the longest edge of a thumbnail.
	ThumbnailMaxDim = 200

	imageQuality     = 85
	thumbnailQuality = 60
)

// Converted holds the encoded forms of one capture.
type Converted struct {
	Data      []byte
	Thumbnail []byte
	MIMEType  string
}

// Convert decodes raw image bytes and produces the stored JPEG payload and
// its thumbnail. It fails when the bytes are not a decodable image.
func Convert(raw []byte) (*Converted, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty image")
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("invalid image bounds: %dx%d", b.Dx(), b.Dy())
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: imageQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	thumb, err := encodeThumbnail(img)
	if err != nil {
		return nil, err
	}

	return &Converted{Data: buf.Bytes(), Thumbnail: thumb, MIMEType: "image/jpeg"}, nil
}

// encodeThumbnail scales the image so its longest edge is at most
// ThumbnailMaxDim, preserving aspect ratio, and re-encodes it at a lower
// quality than the main payload.
func encodeThumbnail(img image.Image) ([]byte, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	maxSide := w
	if h > maxSide {
		maxSide = h
	}
	if maxSide > ThumbnailMaxDim {
		scale := float64(ThumbnailMaxDim) / float64(maxSide)
		nw := int(math.Round(float64(w) * scale))
		nh := int(math.Round(float64(h) * scale))
		if nw < 1 {
			nw = 1
		}
		if nh < 1 {
			nh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: thumbnailQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
