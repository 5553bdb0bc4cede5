package shapeplan

import "golang.org/x/image/font"

// fallbackShaper is the backend of last resort. It accepts any face,
// including the empty one, and maps codepoints through the character map
// with nominal advances; no layout features are applied.
type fallbackShaper struct {
	slot int
}

func (sh *fallbackShaper) Name() string {
	return "fallback"
}

func (sh *fallbackShaper) EnsureFaceData(face *Face) bool {
	return face.ensureShaperData(sh.slot, func(*Face) (any, bool) {
		return nil, true
	})
}

func (sh *fallbackShaper) CompilePlan(plan *ShapePlan) (any, error) {
	// Nothing to precompute; the fallback ignores features entirely.
	return nil, nil
}

func (sh *fallbackShaper) EnsureFontData(font *Font) bool {
	return font.ensureShaperData(sh.slot, func(*Font) (any, bool) {
		return nil, true
	})
}

func (sh *fallbackShaper) Shape(plan *ShapePlan, fnt *Font, buf *Buffer, features []Feature) bool {
	items := buf.Items()
	sfntFont, err := fnt.face.sfnt()
	if err != nil {
		// Degenerate face: everything becomes .notdef with zero advance.
		for i := range items {
			items[i].Glyph = 0
		}
		buf.setGlyphsContent()
		return true
	}
	for i := range items {
		gi, err := sfntFont.GlyphIndex(&fnt.sfntBuf, items[i].Codepoint)
		if err != nil {
			gi = 0
		}
		items[i].Glyph = GlyphID(gi)
		adv, err := sfntFont.GlyphAdvance(&fnt.sfntBuf, gi, fnt.ppem, font.HintingNone)
		if err != nil {
			adv = 0
		}
		if plan.Props().Direction.IsVertical() {
			items[i].YAdvance = Position(adv)
		} else {
			items[i].XAdvance = Position(adv)
		}
	}
	buf.setGlyphsContent()
	return true
}
