package shapeplan

import (
	"encoding/binary"
	"testing"

	"github.com/npillmayer/shapeplan/internal/fontfix"
)

func TestParseFaceTableDirectory(t *testing.T) {
	face, err := ParseFace(fontfix.LayoutFont())
	if err != nil {
		t.Fatalf("ParseFace failed: %v", err)
	}
	for _, tag := range []Tag{T("cmap"), T("GSUB"), T("GPOS")} {
		if !face.HasTable(tag) {
			t.Errorf("face should list table %s", tag)
		}
	}
	if face.HasTable(T("glyf")) {
		t.Error("face lists a table the fixture does not carry")
	}
	gsub := face.Table(T("GSUB"))
	if len(gsub) == 0 {
		t.Fatal("GSUB table bytes should be accessible")
	}
	if binary.BigEndian.Uint32(gsub) != 0x00010000 {
		t.Error("GSUB table bytes are misaligned")
	}
}

func TestParseFaceRejectsBadData(t *testing.T) {
	if _, err := ParseFace([]byte{0, 1}); err == nil {
		t.Error("short data should fail")
	}
	ttc := make([]byte, 16)
	copy(ttc, "ttcf")
	if _, err := ParseFace(ttc); err == nil {
		t.Error("font collections should be rejected")
	}
	junk := make([]byte, 16)
	copy(junk, "junk")
	if _, err := ParseFace(junk); err == nil {
		t.Error("unknown sfnt version should be rejected")
	}
	// directory entry pointing past the end of the data
	truncated := fontfix.Build([]fontfix.Table{{Tag: "cmap", Data: fontfix.Cmap()}})
	binary.BigEndian.PutUint32(truncated[12+12:], 0xFFFF)
	if _, err := ParseFace(truncated); err == nil {
		t.Error("out-of-bounds table record should be rejected")
	}
}

func TestFaceImmutabilityFlag(t *testing.T) {
	face, err := ParseFace(fontfix.PlainFont())
	if err != nil {
		t.Fatalf("ParseFace failed: %v", err)
	}
	if face.IsImmutable() {
		t.Error("fresh face should be mutable")
	}
	face.MakeImmutable()
	if !face.IsImmutable() {
		t.Error("face should be immutable after MakeImmutable")
	}
}

func TestEmptyFaceSingleton(t *testing.T) {
	if EmptyFace() != EmptyFace() {
		t.Error("EmptyFace must return a shared singleton")
	}
	if !EmptyFace().IsEmpty() || !EmptyFace().IsImmutable() {
		t.Error("empty face must be inert and immutable")
	}
	var nilFace *Face
	if !nilFace.IsEmpty() {
		t.Error("nil face should report empty")
	}
}

func TestFaceCloseReleasesCachedPlans(t *testing.T) {
	face, err := ParseFace(fontfix.LayoutFont())
	if err != nil {
		t.Fatalf("ParseFace failed: %v", err)
	}
	props := Props("Latn", "en", DirectionLTR)
	plan := NewCachedShapePlan(face, props, nil, nil, nil)
	if plan == EmptyShapePlan() {
		t.Fatal("expected a real plan")
	}
	if face.CachedPlanCount() != 1 {
		t.Fatalf("expected 1 cached plan, got %d", face.CachedPlanCount())
	}
	plan.Release() // caller's reference; the cache still holds one
	face.Close()
	if face.CachedPlanCount() != 0 {
		t.Errorf("close should empty the plan list, got %d", face.CachedPlanCount())
	}
}
