package shapeplan

import (
	"encoding/binary"
	"strings"

	"golang.org/x/image/font"
)

// Table tags the OpenType backend cares about.
var (
	tagCmap = T("cmap")
	tagGSUB = T("GSUB")
	tagGPOS = T("GPOS")
)

// otShaper is the OpenType layout backend. It accepts faces that carry a
// character map and at least one layout table, and is probed first in the
// default registry order.
type otShaper struct {
	slot int
}

// otFaceData is the backend's one-time per-face probe result.
type otFaceData struct {
	hasGSUB      bool
	hasGPOS      bool
	scriptCount  int // scripts listed in GSUB's ScriptList
	featureCount int // features listed in GSUB's FeatureList
}

// otPlanData is the backend's per-plan precompute: which layout tables the
// plan will drive, the OT script tag resolved from the segment script, and
// the merged global feature overrides.
type otPlanData struct {
	scriptTag      Tag
	applyGSUB      bool
	applyGPOS      bool
	globalFeatures []Feature
}

func (sh *otShaper) Name() string {
	return "ot"
}

func (sh *otShaper) EnsureFaceData(face *Face) bool {
	return face.ensureShaperData(sh.slot, func(f *Face) (any, bool) {
		if f.IsEmpty() || !f.HasTable(tagCmap) {
			return nil, false
		}
		data := &otFaceData{
			hasGSUB: f.HasTable(tagGSUB),
			hasGPOS: f.HasTable(tagGPOS),
		}
		if !data.hasGSUB && !data.hasGPOS {
			return nil, false
		}
		if data.hasGSUB {
			data.scriptCount, data.featureCount = layoutTableCounts(f.Table(tagGSUB))
		}
		tracer().Debugf("ot face data: GSUB=%v GPOS=%v scripts=%d",
			data.hasGSUB, data.hasGPOS, data.scriptCount)
		return data, true
	})
}

// layoutTableCounts reads the script and feature list lengths from a GSUB
// or GPOS table header. Malformed tables count as empty.
func layoutTableCounts(table []byte) (scripts, features int) {
	if len(table) < 10 {
		return 0, 0
	}
	scriptListOff := int(binary.BigEndian.Uint16(table[4:]))
	featureListOff := int(binary.BigEndian.Uint16(table[6:]))
	if scriptListOff+2 <= len(table) {
		scripts = int(binary.BigEndian.Uint16(table[scriptListOff:]))
	}
	if featureListOff+2 <= len(table) {
		features = int(binary.BigEndian.Uint16(table[featureListOff:]))
	}
	return scripts, features
}

// Default global features per HarfBuzz's common set; horizontal runs add
// the kerning/ligature group.
var otCommonFeatures = []Tag{
	T("ccmp"), T("locl"), T("mark"), T("mkmk"), T("rlig"),
}

var otHorizontalFeatures = []Tag{
	T("calt"), T("clig"), T("curs"), T("dist"), T("kern"), T("liga"), T("rclt"),
}

func (sh *otShaper) CompilePlan(plan *ShapePlan) (any, error) {
	faceData, _ := plan.Face().shaperFaceData(sh.slot).(*otFaceData)
	if faceData == nil {
		return nil, errShaper("ot backend has no face data")
	}
	props := plan.Props()
	data := &otPlanData{
		scriptTag: scriptTagForProps(props),
		applyGSUB: faceData.hasGSUB,
		applyGPOS: faceData.hasGPOS,
	}
	data.globalFeatures = make([]Feature, 0,
		len(otCommonFeatures)+len(otHorizontalFeatures)+len(plan.Features()))
	for _, tag := range otCommonFeatures {
		data.globalFeatures = append(data.globalFeatures, GlobalFeature(tag, 1))
	}
	if props.Direction.IsHorizontal() {
		for _, tag := range otHorizontalFeatures {
			data.globalFeatures = append(data.globalFeatures, GlobalFeature(tag, 1))
		}
	}
	for _, f := range plan.Features() {
		if f.IsGlobal() {
			data.globalFeatures = append(data.globalFeatures, f)
		}
	}
	return data, nil
}

// scriptTagForProps maps an ISO 15924 script identifier onto an OpenType
// script tag. OpenType tags are the lowercased ISO code; scripts without a
// usable code resolve to DFLT.
func scriptTagForProps(props SegmentProperties) Tag {
	code := props.Script.String()
	if len(code) != 4 || code == "Zzzz" {
		return T("DFLT")
	}
	return T(strings.ToLower(code))
}

func (sh *otShaper) EnsureFontData(font *Font) bool {
	return font.ensureShaperData(sh.slot, func(f *Font) (any, bool) {
		_, err := f.face.sfnt()
		return nil, err == nil
	})
}

func (sh *otShaper) Shape(plan *ShapePlan, fnt *Font, buf *Buffer, features []Feature) bool {
	sfntFont, err := fnt.face.sfnt()
	if err != nil {
		return false
	}
	items := buf.Items()
	for i := range items {
		gi, err := sfntFont.GlyphIndex(&fnt.sfntBuf, items[i].Codepoint)
		if err != nil {
			return false
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
