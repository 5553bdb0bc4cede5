package shapeplan

import (
	"testing"

	"github.com/npillmayer/shapeplan/internal/fontfix"
)

func layoutFace(t *testing.T) *Face {
	t.Helper()
	face, err := ParseFace(fontfix.LayoutFont())
	if err != nil {
		t.Fatalf("cannot parse layout fixture: %v", err)
	}
	return face
}

func plainFace(t *testing.T) *Face {
	t.Helper()
	face, err := ParseFace(fontfix.PlainFont())
	if err != nil {
		t.Fatalf("cannot parse plain fixture: %v", err)
	}
	return face
}

func TestChooseShaperDefaultOrder(t *testing.T) {
	if sh := chooseShaper(layoutFace(t), nil); sh == nil || sh.Name() != "ot" {
		t.Errorf("layout-capable face should select the ot backend, got %v", sh)
	}
	if sh := chooseShaper(plainFace(t), nil); sh == nil || sh.Name() != "fallback" {
		t.Errorf("plain face should fall through to the fallback backend, got %v", sh)
	}
	if sh := chooseShaper(EmptyFace(), nil); sh == nil || sh.Name() != "fallback" {
		t.Errorf("empty face should still get the fallback backend, got %v", sh)
	}
}

func TestChooseShaperAllowList(t *testing.T) {
	face := layoutFace(t)
	if sh := chooseShaper(face, []string{"fallback"}); sh == nil || sh.Name() != "fallback" {
		t.Errorf("allow-list should override default order, got %v", sh)
	}
	// unknown names are skipped silently, not an error
	if sh := chooseShaper(face, []string{"coretext", "ot"}); sh == nil || sh.Name() != "ot" {
		t.Errorf("unknown allow-list names should be skipped, got %v", sh)
	}
	// names match case-sensitively
	if sh := chooseShaper(face, []string{"OT"}); sh == nil || sh.Name() != "ot" {
		t.Errorf("case-mismatched allow-list entry should not match; default order applies, got %v", sh)
	}
	// nothing in the allow-list applicable: default order decides
	if sh := chooseShaper(plainFace(t), []string{"ot"}); sh == nil || sh.Name() != "fallback" {
		t.Errorf("inapplicable allow-list should fall back to default order, got %v", sh)
	}
}

func TestFaceProbeIsMemoized(t *testing.T) {
	face := layoutFace(t)
	sh := builtinShapers[0]
	if !sh.EnsureFaceData(face) {
		t.Fatal("ot probe should accept the layout fixture")
	}
	first := face.shaperFaceData(0)
	if !sh.EnsureFaceData(face) {
		t.Fatal("repeated probe should keep succeeding")
	}
	if face.shaperFaceData(0) != first {
		t.Error("face data must be computed once and reused")
	}
	data, ok := first.(*otFaceData)
	if !ok {
		t.Fatalf("unexpected face data type %T", first)
	}
	if !data.hasGSUB || !data.hasGPOS || data.scriptCount != 2 || data.featureCount != 5 {
		t.Errorf("probe misread the layout fixture: %+v", data)
	}
}

func TestShaperNamesOrder(t *testing.T) {
	names := ShaperNames()
	if len(names) != 2 || names[0] != "ot" || names[1] != "fallback" {
		t.Errorf("unexpected builtin order: %v", names)
	}
}

func TestBackendSlotLayout(t *testing.T) {
	if len(builtinShapers) != numBuiltinShapers {
		t.Fatalf("slot arrays sized for %d backends, registry lists %d",
			numBuiltinShapers, len(builtinShapers))
	}
	// every backend writes the slot matching its registry position
	face := layoutFace(t)
	if !builtinShapers[0].EnsureFaceData(face) {
		t.Fatal("ot probe should accept the layout fixture")
	}
	if _, ok := face.shaperFaceData(0).(*otFaceData); !ok {
		t.Errorf("ot backend must occupy slot 0, found %T", face.shaperFaceData(0))
	}
	if !builtinShapers[1].EnsureFaceData(face) {
		t.Fatal("fallback probe accepts any face")
	}
	if data := face.shaperFaceData(1); data != nil {
		t.Errorf("fallback backend must occupy slot 1 with nil data, found %T", data)
	}
}
