package shapeplan

import "golang.org/x/text/unicode/bidi"

// ContentType tells whether a buffer holds codepoints or shaped glyphs.
type ContentType uint8

const (
	ContentInvalid ContentType = iota
	ContentUnicode             // codepoints, before shaping
	ContentGlyphs              // glyph IDs, after shaping
)

// GlyphID indexes a glyph in a face.
type GlyphID uint16

// Position is a glyph position value in 26.6 fixed-point pixels.
type Position = int32

// GlyphInfo is one buffer item. Before shaping only Codepoint and Cluster
// are meaningful; shaping fills in Glyph and the advances.
type GlyphInfo struct {
	Codepoint rune
	Cluster   int
	Glyph     GlyphID
	XAdvance  Position
	YAdvance  Position
}

// Buffer holds a run of text on its way through shaping. Buffers are
// reusable but not safe for concurrent use.
type Buffer struct {
	props     SegmentProperties
	content   ContentType
	items     []GlyphInfo
	immutable bool
}

// NewBuffer creates an empty buffer in unicode-content state with zero
// (invalid) segment properties.
func NewBuffer() *Buffer {
	return &Buffer{content: ContentUnicode}
}

// AddRunes appends codepoints; cluster values are the rune indices within
// the buffer.
func (b *Buffer) AddRunes(text []rune) {
	assert(!b.immutable, "buffer is immutable")
	assert(b.content == ContentUnicode, "buffer does not hold unicode content")
	base := len(b.items)
	for i, r := range text {
		b.items = append(b.items, GlyphInfo{Codepoint: r, Cluster: base + i})
	}
}

// AddString appends the codepoints of a string.
func (b *Buffer) AddString(s string) {
	b.AddRunes([]rune(s))
}

// Len returns the number of items in the buffer.
func (b *Buffer) Len() int {
	return len(b.items)
}

// ContentType reports whether the buffer holds codepoints or glyphs.
func (b *Buffer) ContentType() ContentType {
	return b.content
}

// Props returns the buffer's segment properties.
func (b *Buffer) Props() SegmentProperties {
	return b.props
}

// SetProps assigns segment properties for the buffered run.
func (b *Buffer) SetProps(props SegmentProperties) {
	assert(!b.immutable, "buffer is immutable")
	b.props = props
}

// Items returns the buffer's items. The slice is shared with the buffer.
func (b *Buffer) Items() []GlyphInfo {
	return b.items
}

// Reset clears contents and returns the buffer to unicode-content state.
// Segment properties are kept.
func (b *Buffer) Reset() {
	assert(!b.immutable, "buffer is immutable")
	b.items = b.items[:0]
	b.content = ContentUnicode
}

// MakeImmutable freezes the buffer; shaping an immutable buffer is a
// caller contract violation.
func (b *Buffer) MakeImmutable() {
	b.immutable = true
}

// IsImmutable returns true once the buffer has been frozen.
func (b *Buffer) IsImmutable() bool {
	return b.immutable
}

// setGlyphsContent flips the buffer to glyph content after a backend has
// filled in glyph IDs.
func (b *Buffer) setGlyphsContent() {
	b.content = ContentGlyphs
}

// GuessSegmentProperties fills in missing properties from buffer contents:
// an invalid direction is resolved from the first strong bidi class, LTR
// when none is found. Script and language are left as set.
func (b *Buffer) GuessSegmentProperties() {
	assert(!b.immutable, "buffer is immutable")
	if b.props.Direction.IsValid() {
		return
	}
	dir := DirectionLTR
	for _, item := range b.items {
		prop, _ := bidi.LookupRune(item.Codepoint)
		switch prop.Class() {
		case bidi.L:
			b.props.Direction = DirectionLTR
			return
		case bidi.R, bidi.AL:
			b.props.Direction = DirectionRTL
			return
		}
	}
	b.props.Direction = dir
}
