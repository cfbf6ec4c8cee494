package surface_test

import (
	"image"
	"sync"
	"testing"

	"github.com/Skryldev/image-loader/surface"
)

func TestLooper_FIFOOrder(t *testing.T) {
	l := surface.NewLooper(0)
	defer l.Stop()

	var mu sync.Mutex
	var order []int
	for i := 0; i < 100; i++ {
		i := i
		l.Post(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	l.Sync()

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 100 {
		t.Fatalf("executed %d closures, want 100", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("position %d: got %d (out of order)", i, got)
		}
	}
}

func TestLooper_StopDrainsPending(t *testing.T) {
	l := surface.NewLooper(128)

	var mu sync.Mutex
	ran := 0
	for i := 0; i < 50; i++ {
		l.Post(func() {
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}
	l.Stop()

	mu.Lock()
	defer mu.Unlock()
	if ran != 50 {
		t.Errorf("ran %d closures before shutdown, want 50", ran)
	}
}

func TestLooper_PostAfterStopDropped(t *testing.T) {
	l := surface.NewLooper(0)
	l.Stop()

	// Must not block or panic.
	l.Post(func() { t.Error("closure ran after stop") })
	l.Sync()
}

func TestLooper_Dispatching(t *testing.T) {
	l := surface.NewLooper(0)
	defer l.Stop()

	if l.Dispatching() {
		t.Error("Dispatching true outside a posted closure")
	}
	var inside bool
	l.Post(func() { inside = l.Dispatching() })
	l.Sync()
	if !inside {
		t.Error("Dispatching false inside a posted closure")
	}
}

func TestImageSurface_TracksWrites(t *testing.T) {
	l := surface.NewLooper(0)
	defer l.Stop()
	s := surface.NewImageSurface(l, 320, 240)

	if w, h := s.Size(); w != 320 || h != 240 {
		t.Errorf("size: got %dx%d, want 320x240", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	s.Post(func() { s.SetImage(img) })
	l.Sync()

	if s.Image() != img {
		t.Error("image not applied")
	}
	if s.Writes() != 1 {
		t.Errorf("writes: got %d, want 1", s.Writes())
	}
	if s.OffLoopWrites() != 0 {
		t.Errorf("off-loop writes: got %d, want 0", s.OffLoopWrites())
	}

	s.Post(func() { s.SetPlaceholder("ph") })
	l.Sync()
	if s.Placeholder() != "ph" {
		t.Error("placeholder not applied")
	}
	if s.Image() != nil {
		t.Error("placeholder must clear the image")
	}
}

func TestImageSurface_DetectsOffLoopWrite(t *testing.T) {
	l := surface.NewLooper(0)
	defer l.Stop()
	s := surface.NewImageSurface(l, 100, 100)

	// Mutating directly from the test goroutine is a context violation.
	s.SetImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))

	if s.OffLoopWrites() != 1 {
		t.Errorf("off-loop writes: got %d, want 1", s.OffLoopWrites())
	}
}

func TestImageSurface_Resize(t *testing.T) {
	l := surface.NewLooper(0)
	defer l.Stop()
	s := surface.NewImageSurface(l, 0, 0)

	if w, h := s.Size(); w != 0 || h != 0 {
		t.Errorf("un-laid-out surface: got %dx%d, want 0x0", w, h)
	}
	s.Resize(800, 600)
	if w, h := s.Size(); w != 800 || h != 600 {
		t.Errorf("after layout: got %dx%d, want 800x600", w, h)
	}
}
