package shapeplan

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// Direction is the writing direction of a text segment.
type Direction uint8

const (
	DirectionInvalid Direction = iota
	DirectionLTR               // left-to-right
	DirectionRTL               // right-to-left
	DirectionTTB               // top-to-bottom
	DirectionBTT               // bottom-to-top
)

// IsValid returns true if d is not the invalid sentinel.
func (d Direction) IsValid() bool {
	return d >= DirectionLTR && d <= DirectionBTT
}

// IsHorizontal returns true for LTR and RTL.
func (d Direction) IsHorizontal() bool {
	return d == DirectionLTR || d == DirectionRTL
}

// IsVertical returns true for TTB and BTT.
func (d Direction) IsVertical() bool {
	return d == DirectionTTB || d == DirectionBTT
}

// Reverse returns the opposite direction, or the invalid sentinel for it.
func (d Direction) Reverse() Direction {
	switch d {
	case DirectionLTR:
		return DirectionRTL
	case DirectionRTL:
		return DirectionLTR
	case DirectionTTB:
		return DirectionBTT
	case DirectionBTT:
		return DirectionTTB
	}
	return DirectionInvalid
}

func (d Direction) String() string {
	switch d {
	case DirectionLTR:
		return "ltr"
	case DirectionRTL:
		return "rtl"
	case DirectionTTB:
		return "ttb"
	case DirectionBTT:
		return "btt"
	}
	return "invalid"
}

// DirectionFromBidi maps a resolved bidi direction onto a horizontal
// shaping direction. Mixed and neutral runs resolve to LTR.
func DirectionFromBidi(d bidi.Direction) Direction {
	if d == bidi.RightToLeft {
		return DirectionRTL
	}
	return DirectionLTR
}

// SegmentProperties describe a span of text to be shaped with a single
// plan: its script, language and writing direction. The zero value carries
// the invalid direction and is not acceptable for plan creation.
type SegmentProperties struct {
	Script    language.Script // ISO 15924 script identifier
	Language  language.Tag    // BCP 47 language tag
	Direction Direction
}

// Equal reports structural equality of two property sets.
func (p SegmentProperties) Equal(other SegmentProperties) bool {
	return p.Direction == other.Direction &&
		p.Script == other.Script &&
		p.Language == other.Language
}

func (p SegmentProperties) String() string {
	return fmt.Sprintf("{%s %s %s}", p.Script, p.Language, p.Direction)
}

// Props is a convenience constructor for segment properties from string
// forms, e.g. Props("Latn", "en", DirectionLTR). Unparsable script or
// language inputs resolve to their x/text defaults.
func Props(script, lang string, dir Direction) SegmentProperties {
	scr, err := language.ParseScript(script)
	if err != nil {
		tracer().Infof("cannot parse script %q: %v", script, err)
	}
	return SegmentProperties{
		Script:    scr,
		Language:  language.Make(lang),
		Direction: dir,
	}
}
