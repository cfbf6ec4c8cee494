// Package codec provides BoundsProbe and ImageDecoder implementations.
package codec

import (
	"context"
	"image"
	"io"

	// Decoders registered with the stdlib image registry.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Skryldev/image-loader/core"
	apperrors "github.com/Skryldev/image-loader/errors"
)

// Std probes and decodes with Go's stdlib image registry (JPEG, PNG, GIF)
// plus the x/image WebP, BMP, and TIFF decoders.  CGO-free.
//
// The stdlib decoders have no subsampled decoding mode, so Decode honours
// the sample factor by decoding and immediately reducing with a
// nearest-neighbour pass, which keeps every decoded pixel untouched and
// simply drops rows/columns — the same pixels a subsampled decode would
// produce.  The full-resolution buffer is short-lived; for true
// shrink-on-load use the Vips codec.
type Std struct{}

// NewStd returns an initialised stdlib codec.
func NewStd() *Std { return &Std{} }

// ProbeBounds reads only the image header from r.  No pixel buffer is
// materialised.
func (s *Std) ProbeBounds(ctx context.Context, r io.Reader) (core.Dimensions, error) {
	if err := ctx.Err(); err != nil {
		return core.Dimensions{}, apperrors.Wrap(apperrors.CategoryDecode, "std.probe", err)
	}

	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return core.Dimensions{}, apperrors.Wrap(apperrors.CategoryDecode, "std.probe", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return core.Dimensions{}, apperrors.New(apperrors.CategoryDecode, "std.probe",
			apperrors.ErrInvalidDimensions)
	}
	return core.Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

// Decode decodes r, reduced by sampleFactor.  A factor of 1 returns the
// intrinsic-resolution image untouched.
func (s *Std) Decode(ctx context.Context, r io.Reader, sampleFactor int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "std.decode", err)
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "std.decode", err)
	}
	if sampleFactor <= 1 {
		return img, nil
	}

	bounds := img.Bounds()
	w := bounds.Dx() / sampleFactor
	h := bounds.Dy() / sampleFactor
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return resize.Resize(uint(w), uint(h), img, resize.NearestNeighbor), nil
}

var _ core.Codec = (*Std)(nil)
