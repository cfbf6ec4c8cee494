package codec

import (
	"context"
	"image"
	"io"
	"runtime"

	govips "github.com/davidbyttow/govips/v2/vips"

	"github.com/Skryldev/image-loader/core"
	apperrors "github.com/Skryldev/image-loader/errors"
	"github.com/Skryldev/image-loader/utils"
)

// VipsConfig configures the libvips codec.
type VipsConfig struct {
	MaxCacheSize int
	MaxWorkers   int
	// ChunkSize is the read size used when draining source streams into
	// memory.  Zero means 32KiB.
	ChunkSize   int
	ReportLeaks bool
}

// Vips is a libvips-powered codec.  Safe for concurrent use across
// goroutines.  Unlike the Std codec it honours the sample factor at decode
// time: for JPEG the shrink happens inside the decoder (shrink-on-load), so
// the full-resolution pixel buffer is never allocated.
type Vips struct {
	cfg VipsConfig
}

// NewVips initialises libvips and returns a ready codec.
// Call Shutdown() when the process exits.
func NewVips(cfg VipsConfig) *Vips {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	govips.Startup(&govips.Config{
		ConcurrencyLevel: cfg.MaxWorkers,
		MaxCacheSize:     cfg.MaxCacheSize,
		ReportLeaks:      cfg.ReportLeaks,
	})
	return &Vips{cfg: cfg}
}

// Shutdown releases all libvips resources.  Call once at process exit.
func (v *Vips) Shutdown() {
	govips.Shutdown()
}

// ProbeBounds reads the image header only; vips decodes pixels on demand, so
// no pixel buffer is materialised here.
func (v *Vips) ProbeBounds(ctx context.Context, r io.Reader) (core.Dimensions, error) {
	raw, err := v.drain(ctx, r, "vips.probe")
	if err != nil {
		return core.Dimensions{}, err
	}

	ref, err := govips.NewImageFromBuffer(raw)
	if err != nil {
		return core.Dimensions{}, apperrors.Wrap(apperrors.CategoryDecode, "vips.probe", err)
	}
	defer ref.Close()

	dims := core.Dimensions{Width: ref.Width(), Height: ref.Height()}
	if dims.Width <= 0 || dims.Height <= 0 {
		return core.Dimensions{}, apperrors.New(apperrors.CategoryDecode, "vips.probe",
			apperrors.ErrInvalidDimensions)
	}
	return dims, nil
}

// Decode decodes r reduced by sampleFactor.  JPEG sources shrink inside the
// decoder; other formats decode lazily and are reduced by a nearest kernel
// resize before pixels are rendered.
func (v *Vips) Decode(ctx context.Context, r io.Reader, sampleFactor int) (image.Image, error) {
	raw, err := v.drain(ctx, r, "vips.decode")
	if err != nil {
		return nil, err
	}

	var ref *govips.ImageRef
	shrink := 1
	if sampleFactor > 1 && utils.DetectFormat(raw) == "jpeg" {
		// libjpeg shrinks by 1, 2, 4, or 8 during decode.
		shrink = sampleFactor
		if shrink > 8 {
			shrink = 8
		}
		params := govips.NewImportParams()
		params.JpegShrinkFactor.Set(shrink)
		ref, err = govips.LoadImageFromBuffer(raw, params)
	} else {
		ref, err = govips.NewImageFromBuffer(raw)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode", err)
	}
	defer ref.Close()

	// Remainder of the factor not covered by shrink-on-load.
	if rest := sampleFactor / shrink; rest > 1 {
		if err := ref.Resize(1/float64(rest), govips.KernelNearest); err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode.resize", err)
		}
	}

	img, err := ref.ToImage(govips.NewDefaultExportParams())
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, "vips.decode.export", err)
	}
	return img, nil
}

func (v *Vips) drain(ctx context.Context, r io.Reader, op string) ([]byte, error) {
	buf, err := utils.DrainReader(ctx, r, v.cfg.ChunkSize)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryDecode, op+".drain", err)
	}
	raw := utils.CloneBytes(buf.Bytes())
	utils.ReleaseBuffer(buf)
	if len(raw) == 0 {
		return nil, apperrors.New(apperrors.CategoryDecode, op, apperrors.ErrEmptyInput)
	}
	return raw, nil
}

var _ core.Codec = (*Vips)(nil)
