package shapeplan

import (
	"sync"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Font is a live instance of a face: the face scaled to a pixel size,
// optionally pinned to a variable-font instance via normalized design-space
// coordinates. Fonts carry per-backend lazily initialized state and are not
// safe for concurrent use; faces and plans are.
type Font struct {
	face   *Face
	ppem   fixed.Int26_6
	coords []int // normalized 2.14 coordinates, one per axis

	shaperData [numBuiltinShapers]fontDataSlot
	sfntBuf    sfnt.Buffer // scratch for glyph queries, not concurrent-safe
}

type fontDataSlot struct {
	once sync.Once
	data any
	ok   bool
}

// NewFont creates a font instance over face at a pixel size. A nil face is
// substituted by the shared empty face.
func NewFont(face *Face, pixelSize float64) *Font {
	if face == nil {
		face = EmptyFace()
	}
	return &Font{
		face: face,
		ppem: fixed.Int26_6(pixelSize * 64),
	}
}

// Face returns the font's underlying face.
func (f *Font) Face() *Face {
	return f.face
}

// PixelSize returns the font's size in fractional pixels per em.
func (f *Font) PixelSize() fixed.Int26_6 {
	return f.ppem
}

// SetNormalizedCoords pins the font to a variable-font instance. The
// coordinates are copied; axis order is the font's fvar order.
func (f *Font) SetNormalizedCoords(coords []int) {
	f.coords = append([]int(nil), coords...)
}

// NormalizedCoords returns the font's design-space coordinates, or nil for
// the default instance. The slice is shared; callers must not mutate it.
func (f *Font) NormalizedCoords() []int {
	return f.coords
}

// ensureShaperData memoizes a backend's per-font init in the font's slot
// for that backend. setup runs at most once per (font, backend).
func (f *Font) ensureShaperData(slot int, setup func(*Font) (any, bool)) bool {
	s := &f.shaperData[slot]
	s.once.Do(func() {
		s.data, s.ok = setup(f)
	})
	return s.ok
}
