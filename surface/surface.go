package surface

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/Skryldev/image-loader/core"
)

// ImageSurface is an in-memory display surface bound to a Looper.  It
// implements core.Target and records every write so tests and examples can
// observe deliveries.  SetImage and SetPlaceholder are meant to run on the
// looper; writes arriving from any other context are counted as violations
// rather than rejected, mirroring a UI toolkit's thread checker.
type ImageSurface struct {
	looper *Looper

	mu          sync.Mutex
	width       int
	height      int
	image       image.Image
	placeholder core.PlaceholderRef
	writes      int

	offLoopWrites int32
}

// NewImageSurface creates a surface of the given laid-out size.  Width and
// height of zero model a surface that has not been laid out yet.
func NewImageSurface(l *Looper, width, height int) *ImageSurface {
	return &ImageSurface{looper: l, width: width, height: height}
}

// Size returns the surface's current dimensions.
func (s *ImageSurface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Resize models a layout pass.
func (s *ImageSurface) Resize(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
}

// SetImage writes a decoded pixel buffer to the surface.
func (s *ImageSurface) SetImage(img image.Image) {
	s.checkContext()
	s.mu.Lock()
	s.image = img
	s.placeholder = nil
	s.writes++
	s.mu.Unlock()
}

// SetPlaceholder applies a placeholder reference to the surface.
func (s *ImageSurface) SetPlaceholder(ref core.PlaceholderRef) {
	s.checkContext()
	s.mu.Lock()
	s.placeholder = ref
	s.image = nil
	s.writes++
	s.mu.Unlock()
}

// Post runs fn on the surface's owning context.
func (s *ImageSurface) Post(fn func()) { s.looper.Post(fn) }

// Image returns the currently displayed image, or nil.
func (s *ImageSurface) Image() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image
}

// Placeholder returns the currently applied placeholder reference, or nil.
func (s *ImageSurface) Placeholder() core.PlaceholderRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.placeholder
}

// Writes returns how many times the surface content was mutated.
func (s *ImageSurface) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// OffLoopWrites returns how many mutations arrived outside the looper.
func (s *ImageSurface) OffLoopWrites() int {
	return int(atomic.LoadInt32(&s.offLoopWrites))
}

func (s *ImageSurface) checkContext() {
	if !s.looper.Dispatching() {
		atomic.AddInt32(&s.offLoopWrites, 1)
	}
}

var _ core.Target = (*ImageSurface)(nil)
