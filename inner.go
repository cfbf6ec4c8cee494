package imageloader

import "github.com/Skryldev/image-loader/core"

// Inner exposes the underlying core.Engine for advanced use (e.g., direct
// registry access in tests).  Prefer the high-level API for normal usage.
func (l *Loader) Inner() *core.Engine { return l.inner }
