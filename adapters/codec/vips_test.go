package codec_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/Skryldev/image-loader/adapters/codec"
	apperrors "github.com/Skryldev/image-loader/errors"
)

// libvips is initialised once for the whole package; Startup must not be
// repeated after a Shutdown, so the codec is shared across tests and torn
// down at process exit.
var (
	vipsOnce  sync.Once
	vipsCodec *codec.Vips
)

func newVipsCodec(t *testing.T) *codec.Vips {
	t.Helper()
	if testing.Short() {
		t.Skip("libvips not exercised in short mode")
	}
	vipsOnce.Do(func() {
		vipsCodec = codec.NewVips(codec.VipsConfig{ChunkSize: 16 * 1024})
	})
	return vipsCodec
}

func TestVips_ProbeBounds(t *testing.T) {
	cdc := newVipsCodec(t)
	tests := []struct {
		name string
		raw  []byte
		w, h int
	}{
		{"jpeg", newJPEG(t, 800, 600), 800, 600},
		{"png", newPNG(t, 123, 457), 123, 457},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dims, err := cdc.ProbeBounds(context.Background(), bytes.NewReader(tc.raw))
			if err != nil {
				t.Fatalf("ProbeBounds: %v", err)
			}
			if dims.Width != tc.w || dims.Height != tc.h {
				t.Errorf("bounds: got %dx%d, want %dx%d", dims.Width, dims.Height, tc.w, tc.h)
			}
		})
	}
}

func TestVips_DecodeFactorOnePreservesIntrinsicDimensions(t *testing.T) {
	cdc := newVipsCodec(t)
	raw := newJPEG(t, 320, 240)

	img, err := cdc.Decode(context.Background(), bytes.NewReader(raw), 1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 320 || b.Dy() != 240 {
		t.Errorf("dimensions: got %dx%d, want 320x240 (factor 1 must not scale)", b.Dx(), b.Dy())
	}
}

func TestVips_DecodeHonoursSampleFactor(t *testing.T) {
	cdc := newVipsCodec(t)
	raw := newJPEG(t, 800, 600)

	tests := []struct {
		factor int
		w, h   int
	}{
		{2, 400, 300},
		{4, 200, 150},
		{8, 100, 75},
	}
	for _, tc := range tests {
		img, err := cdc.Decode(context.Background(), bytes.NewReader(raw), tc.factor)
		if err != nil {
			t.Fatalf("Decode factor %d: %v", tc.factor, err)
		}
		b := img.Bounds()
		if b.Dx() != tc.w || b.Dy() != tc.h {
			t.Errorf("factor %d: got %dx%d, want %dx%d", tc.factor, b.Dx(), b.Dy(), tc.w, tc.h)
		}
	}
}

// Factors past the decoder's shrink ceiling are finished by a resize.
func TestVips_DecodeFactorBeyondDecoderShrink(t *testing.T) {
	cdc := newVipsCodec(t)
	raw := newJPEG(t, 1600, 1200)

	img, err := cdc.Decode(context.Background(), bytes.NewReader(raw), 16)
	if err != nil {
		t.Fatalf("Decode factor 16: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 100 || b.Dy() != 75 {
		t.Errorf("factor 16: got %dx%d, want 100x75", b.Dx(), b.Dy())
	}
}

// Non-JPEG sources have no shrink-on-load path and are reduced by resize.
func TestVips_DecodePNGWithFactor(t *testing.T) {
	cdc := newVipsCodec(t)
	raw := newPNG(t, 400, 300)

	img, err := cdc.Decode(context.Background(), bytes.NewReader(raw), 2)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 200 || b.Dy() != 150 {
		t.Errorf("got %dx%d, want 200x150", b.Dx(), b.Dy())
	}
}

func TestVips_Garbage(t *testing.T) {
	cdc := newVipsCodec(t)

	if _, err := cdc.ProbeBounds(context.Background(), bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("probe: expected error for garbage input")
	}
	_, err := cdc.Decode(context.Background(), bytes.NewReader([]byte("not an image")), 1)
	if err == nil {
		t.Fatal("decode: expected error for garbage input")
	}
	if !apperrors.IsCategory(err, apperrors.CategoryDecode) {
		t.Errorf("error category: got %v, want decode", err)
	}
}

func TestVips_EmptyInput(t *testing.T) {
	cdc := newVipsCodec(t)

	_, err := cdc.Decode(context.Background(), bytes.NewReader(nil), 1)
	if !apperrors.IsCategory(err, apperrors.CategoryDecode) {
		t.Errorf("got %v, want decode-category error for empty input", err)
	}
}
