// Package transform provides optional post-decode transforms applied on the
// worker before delivery.
package transform

import (
	"context"
	"image"

	"github.com/disintegration/imaging"

	"github.com/Skryldev/image-loader/core"
	apperrors "github.com/Skryldev/image-loader/errors"
)

// ── Fit ───────────────────────────────────────────────────────────────────────

// FitStep scales the image down to fit inside Width×Height, preserving
// aspect ratio.  Images already inside the box pass through unchanged.
type FitStep struct {
	Width, Height int
}

func (s *FitStep) Name() string { return "fit" }

func (s *FitStep) Apply(ctx context.Context, img image.Image) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, apperrors.New(apperrors.CategoryPipeline, s.Name(), apperrors.ErrInvalidDimensions)
	}
	return imaging.Fit(img, s.Width, s.Height, imaging.Lanczos), nil
}

// ── Fill ──────────────────────────────────────────────────────────────────────

// FillStep scales and centre-crops the image to exactly Width×Height.
type FillStep struct {
	Width, Height int
}

func (s *FillStep) Name() string { return "fill" }

func (s *FillStep) Apply(ctx context.Context, img image.Image) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryPipeline, s.Name(), err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, apperrors.New(apperrors.CategoryPipeline, s.Name(), apperrors.ErrInvalidDimensions)
	}
	return imaging.Fill(img, s.Width, s.Height, imaging.Center, imaging.Lanczos), nil
}

// ── Grayscale ─────────────────────────────────────────────────────────────────

// GrayscaleStep converts the image to grayscale.
type GrayscaleStep struct{}

func (s *GrayscaleStep) Name() string { return "grayscale" }

func (s *GrayscaleStep) Apply(_ context.Context, img image.Image) (image.Image, error) {
	return imaging.Grayscale(img), nil
}

// ── Chain ─────────────────────────────────────────────────────────────────────

// Chain applies transforms in order.
type Chain struct {
	Transforms []core.Transform
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) Apply(ctx context.Context, img image.Image) (image.Image, error) {
	current := img
	var err error
	for _, t := range c.Transforms {
		current, err = t.Apply(ctx, current)
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

// compile-time interface checks
var _ core.Transform = (*FitStep)(nil)
var _ core.Transform = (*FillStep)(nil)
var _ core.Transform = (*GrayscaleStep)(nil)
var _ core.Transform = (*Chain)(nil)
