package shapeplan

import "testing"

func TestExecuteEmptyBufferSucceedsTrivially(t *testing.T) {
	face := layoutFace(t)
	props := Props("Latn", "en", DirectionLTR)
	plan := NewShapePlan(face, props, nil, nil, nil)
	fnt := NewFont(face, 16)
	buf := NewBuffer()
	buf.SetProps(props)
	if !plan.Execute(fnt, buf, nil) {
		t.Error("empty buffer must succeed without invoking any backend")
	}
	// even the inert plan succeeds on an empty buffer
	if !EmptyShapePlan().Execute(fnt, buf, nil) {
		t.Error("empty buffer must succeed regardless of plan validity")
	}
	plan.Release()
}

func TestExecuteInertPlanFails(t *testing.T) {
	face := layoutFace(t)
	props := Props("Latn", "en", DirectionLTR)
	fnt := NewFont(face, 16)
	buf := NewBuffer()
	buf.SetProps(props)
	buf.AddString("abc")
	if EmptyShapePlan().Execute(fnt, buf, nil) {
		t.Error("executing the inert plan must fail")
	}
	if buf.ContentType() != ContentUnicode {
		t.Error("failed execution must not touch buffer content state")
	}
}

func TestExecuteFallbackOnSyntheticFace(t *testing.T) {
	// the fixture is not sfnt-parsable glyph-wise, which the fallback
	// tolerates by mapping everything to .notdef
	face := plainFace(t)
	props := Props("Latn", "en", DirectionLTR)
	plan := NewShapePlan(face, props, nil, nil, []string{"fallback"})
	if plan == EmptyShapePlan() {
		t.Fatal("fallback build should not fail")
	}
	fnt := NewFont(face, 16)
	buf := NewBuffer()
	buf.SetProps(props)
	buf.AddString("hi")
	if !plan.Execute(fnt, buf, nil) {
		t.Fatal("fallback execution should succeed")
	}
	if buf.ContentType() != ContentGlyphs {
		t.Error("successful shaping must flip the buffer to glyph content")
	}
	for i, item := range buf.Items() {
		if item.Glyph != 0 {
			t.Errorf("item %d: degenerate face should map to .notdef, got %d", i, item.Glyph)
		}
	}
	plan.Release()
}

func TestExecuteOtBackendFailurePropagates(t *testing.T) {
	// the layout fixture probes fine at the directory level but cannot be
	// parsed for glyph access; the ot backend reports that as failure and
	// dispatch does not fall back to another backend
	face := layoutFace(t)
	props := Props("Latn", "en", DirectionLTR)
	plan := NewShapePlan(face, props, nil, nil, nil)
	if plan.ShaperName() != "ot" {
		t.Fatalf("fixture should resolve to the ot backend, got %q", plan.ShaperName())
	}
	fnt := NewFont(face, 16)
	buf := NewBuffer()
	buf.SetProps(props)
	buf.AddString("x")
	if plan.Execute(fnt, buf, nil) {
		t.Error("execution should propagate the backend's failure verbatim")
	}
	plan.Release()
}

func TestBufferBasics(t *testing.T) {
	buf := NewBuffer()
	buf.AddString("héllo")
	if buf.Len() != 5 {
		t.Fatalf("expected 5 items, got %d", buf.Len())
	}
	items := buf.Items()
	for i, item := range items {
		if item.Cluster != i {
			t.Errorf("item %d carries cluster %d", i, item.Cluster)
		}
	}
	if items[1].Codepoint != 'é' {
		t.Errorf("item 1 holds %q", items[1].Codepoint)
	}
	buf.Reset()
	if buf.Len() != 0 || buf.ContentType() != ContentUnicode {
		t.Error("reset should clear items and return to unicode content")
	}
}

func TestBufferGuessDirection(t *testing.T) {
	buf := NewBuffer()
	buf.AddString("שלום")
	buf.GuessSegmentProperties()
	if buf.Props().Direction != DirectionRTL {
		t.Errorf("Hebrew text should guess RTL, got %s", buf.Props().Direction)
	}

	buf2 := NewBuffer()
	buf2.AddString("hello")
	buf2.GuessSegmentProperties()
	if buf2.Props().Direction != DirectionLTR {
		t.Errorf("Latin text should guess LTR, got %s", buf2.Props().Direction)
	}

	buf3 := NewBuffer()
	buf3.AddString("123 …")
	buf3.GuessSegmentProperties()
	if buf3.Props().Direction != DirectionLTR {
		t.Errorf("neutral-only text should resolve to LTR, got %s", buf3.Props().Direction)
	}

	// an already valid direction is kept
	buf4 := NewBuffer()
	buf4.SetProps(Props("Latn", "en", DirectionRTL))
	buf4.AddString("hello")
	buf4.GuessSegmentProperties()
	if buf4.Props().Direction != DirectionRTL {
		t.Error("guessing must not override an explicit direction")
	}
}
