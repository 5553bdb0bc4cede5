package shapeplan

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag is a 4-byte OpenType identifier (feature, table or script tag).
type Tag uint32

// T creates a tag from a string, padding with spaces or cutting off after
// 4 bytes.
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(uint32(t[0])<<24 | uint32(t[1])<<16 | uint32(t[2])<<8 | uint32(t[3]))
}

func (t Tag) String() string {
	return string([]byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	})
}

// Sentinel range bounds for features that apply to the whole text.
const (
	FeatureGlobalStart = 0
	FeatureGlobalEnd   = int(^uint(0) >> 1)
)

// Feature is a request to force an OpenType feature to a value, optionally
// restricted to a sub-range of the text. The zero Start together with the
// FeatureGlobalEnd sentinel marks a global feature.
type Feature struct {
	Tag        Tag    // 4-letter feature tag
	Value      uint32 // value to set the feature to; 0 disables
	Start, End int    // codepoint range to apply the feature to
}

// GlobalFeature creates a feature override applying to the whole text.
func GlobalFeature(tag Tag, value uint32) Feature {
	return Feature{Tag: tag, Value: value, Start: FeatureGlobalStart, End: FeatureGlobalEnd}
}

// IsGlobal returns true if f spans the whole conceptual text range.
func (f Feature) IsGlobal() bool {
	return f.Start == FeatureGlobalStart && f.End == FeatureGlobalEnd
}

func (f Feature) String() string {
	sb := strings.Builder{}
	if f.Value == 0 {
		sb.WriteByte('-')
	}
	sb.WriteString(f.Tag.String())
	if !f.IsGlobal() {
		fmt.Fprintf(&sb, "[%d:%d]", f.Start, f.End)
	}
	if f.Value > 1 {
		fmt.Fprintf(&sb, "=%d", f.Value)
	}
	return sb.String()
}

// ParseFeature parses one feature entry following the hb-shape syntax:
//
//	"kern"       enable kerning globally
//	"+liga"      enable ligatures globally
//	"-liga"      disable ligatures globally
//	"liga=0"     dito
//	"aalt=2"     choose the second alternate
//	"smcp[3:5]"  small caps for codepoints 3 to 5 (exclusive)
func ParseFeature(item string) (Feature, error) {
	if item = strings.TrimSpace(item); item == "" {
		return Feature{}, errShaper("empty feature entry")
	}
	on := true
	if rest, found := strings.CutPrefix(item, "+"); found {
		item = rest
	} else if rest, found := strings.CutPrefix(item, "-"); found {
		item, on = rest, false
	}
	value := uint32(1)
	if tagPart, valPart, hasEqual := strings.Cut(item, "="); hasEqual {
		n, err := strconv.ParseUint(strings.TrimSpace(valPart), 10, 32)
		if err != nil {
			return Feature{}, errShaper(fmt.Sprintf("invalid feature value in %q", item))
		}
		item, value = tagPart, uint32(n)
	}
	start, end := FeatureGlobalStart, FeatureGlobalEnd
	if tagPart, rangePart, hasRange := strings.Cut(item, "["); hasRange {
		rangePart, ok := strings.CutSuffix(rangePart, "]")
		if !ok {
			return Feature{}, errShaper(fmt.Sprintf("unterminated feature range in %q", item))
		}
		lo, hi, hasColon := strings.Cut(rangePart, ":")
		if !hasColon {
			return Feature{}, errShaper(fmt.Sprintf("feature range %q needs start:end", rangePart))
		}
		var err error
		if start, err = strconv.Atoi(lo); err != nil {
			return Feature{}, errShaper(fmt.Sprintf("invalid feature range start in %q", item))
		}
		if end, err = strconv.Atoi(hi); err != nil {
			return Feature{}, errShaper(fmt.Sprintf("invalid feature range end in %q", item))
		}
		item = tagPart
	}
	if !on {
		value = 0
	}
	item = strings.TrimSpace(item)
	if len(item) != 4 {
		return Feature{}, errShaper(fmt.Sprintf("feature tag %q is not 4 characters", item))
	}
	return Feature{Tag: T(item), Value: value, Start: start, End: end}, nil
}

// ParseFeatureList parses a comma- or space-separated feature spec, e.g.
// "liga=1,kern=0,+rlig,-calt".
func ParseFeatureList(spec string) ([]Feature, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	out := make([]Feature, 0, len(parts))
	for _, p := range parts {
		f, err := ParseFeature(p)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}
