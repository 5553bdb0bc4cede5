package shapeplan

// Shaper is one of a small, closed set of interchangeable shaping backends.
// A backend exposes an applicability probe against a face, a one-time plan
// precompute step, per-font lazy initialization, and an execute entry point.
// The set is known at compile time; there is no plugin registration.
type Shaper interface {
	// Name returns the backend's stable identifier.
	Name() string
	// EnsureFaceData probes whether the backend can operate on face and, if
	// so, initializes the backend's per-face data. The result is computed
	// once per face and backend; repeated calls are cheap.
	EnsureFaceData(face *Face) bool
	// CompilePlan performs the backend's one-time, face- and
	// properties-specific precomputation for a freshly built plan. The
	// returned state is owned by the plan and never mutated afterwards.
	CompilePlan(plan *ShapePlan) (any, error)
	// EnsureFontData lazily initializes backend state for a live font
	// instance, distinct from the face-level data above.
	EnsureFontData(font *Font) bool
	// Shape runs the backend against a buffer. The boolean is the backend's
	// verbatim success result.
	Shape(plan *ShapePlan, font *Font, buf *Buffer, features []Feature) bool
}

// Builtin backends in default probe order. The OpenType backend is
// preferred wherever it applies; the fallback accepts any face.
var builtinShapers = [...]Shaper{
	&otShaper{slot: 0},
	&fallbackShaper{slot: 1},
}

// numBuiltinShapers sizes the per-face and per-font backend data slots.
// Kept as a literal: deriving it from len(builtinShapers) would make Face
// and Font recursively depend on the Shaper interface, which refers back
// to them. The guard below keeps it in sync with the backend list.
const numBuiltinShapers = 2

var _ = [1]struct{}{}[len(builtinShapers)-numBuiltinShapers]

// ShaperNames returns the identifiers of all built-in backends in their
// default probe order.
func ShaperNames() []string {
	names := make([]string, numBuiltinShapers)
	for i, sh := range builtinShapers {
		names[i] = sh.Name()
	}
	return names
}

// chooseShaper maps a face, and an optional ordered allow-list of backend
// names, to the first applicable backend. Allow-list names are matched
// case-sensitively; unknown names are skipped silently. With no allow-list,
// or none of its entries applicable, the builtin default order decides.
// Returns nil if no backend accepts the face.
func chooseShaper(face *Face, allowList []string) Shaper {
	for _, name := range allowList {
		for _, sh := range builtinShapers {
			if sh.Name() != name {
				continue
			}
			if sh.EnsureFaceData(face) {
				tracer().Debugf("shaper %q chosen from allow-list", name)
				return sh
			}
		}
	}
	for _, sh := range builtinShapers {
		if sh.EnsureFaceData(face) {
			return sh
		}
	}
	return nil
}

// ensureShaperData memoizes a backend's face probe in the face's slot for
// that backend. probe runs at most once per (face, backend).
func (f *Face) ensureShaperData(slot int, probe func(*Face) (any, bool)) bool {
	s := &f.shaperData[slot]
	s.once.Do(func() {
		s.data, s.ok = probe(f)
	})
	return s.ok
}

// shaperFaceData returns the memoized probe result for a backend slot.
func (f *Face) shaperFaceData(slot int) any {
	return f.shaperData[slot].data
}
