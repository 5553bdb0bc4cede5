package shapeplan

// planKey is the cache identity of a shape plan: segment properties plus
// deep copies of the caller's feature overrides and variation coordinates,
// plus the backend resolved for the combination. Keys are built once, at
// plan creation, and never mutated.
type planKey struct {
	props    SegmentProperties
	features []Feature // owned copy of the caller's overrides
	coords   []int     // owned copy of normalized variation coordinates
	shaper   Shaper    // chosen backend; nil if none is applicable
}

// newPlanKey copies the caller's inputs and resolves the backend. Backend
// selection runs here, before any cache interaction, so that lookups
// always compare fully resolved keys.
func newPlanKey(face *Face, props SegmentProperties, userFeatures []Feature,
	coords []int, allowList []string) planKey {
	//
	key := planKey{props: props}
	if len(userFeatures) > 0 {
		key.features = append([]Feature(nil), userFeatures...)
	}
	if len(coords) > 0 {
		key.coords = append([]int(nil), coords...)
	}
	key.shaper = chooseShaper(face, allowList)
	return key
}

// equal is the cache equivalence relation: properties, feature sequences
// (order-sensitive, element-wise), coordinate sequences and backend
// identity all have to match.
func (k planKey) equal(other planKey) bool {
	if !k.props.Equal(other.props) {
		return false
	}
	if len(k.features) != len(other.features) {
		return false
	}
	for i, f := range k.features {
		if f != other.features[i] {
			return false
		}
	}
	if len(k.coords) != len(other.coords) {
		return false
	}
	for i, c := range k.coords {
		if c != other.coords[i] {
			return false
		}
	}
	return k.shaper == other.shaper
}

// hasNonGlobalFeatures returns true if any override is range-restricted.
func (k planKey) hasNonGlobalFeatures() bool {
	for _, f := range k.features {
		if !f.IsGlobal() {
			return true
		}
	}
	return false
}

// dontCache decides cacheability: range-restricted overrides and
// variable-font instances are expected to differ per call and would grow
// the per-face list without ever hitting; the inert face caches nothing.
func (k planKey) dontCache(face *Face) bool {
	return k.hasNonGlobalFeatures() || len(k.coords) > 0 || face.IsEmpty()
}
