package shapeplan

// planNode is one entry of a face's cached-plan list. Nodes are prepended
// with a compare-and-swap on the face's head pointer and never removed or
// reordered until the face is closed.
type planNode struct {
	plan *ShapePlan // the node owns one reference
	next *planNode
}

// NewCachedShapePlan returns a plan for the given combination, reusing a
// previously built equivalent plan from the face's cache when possible.
// The caller owns the returned reference.
//
// Requests carrying range-restricted feature overrides or variation
// coordinates bypass the cache entirely and behave like [NewShapePlan].
// Concurrent callers racing on the same key all receive the same plan,
// except that concurrent first builds may each build privately — exactly
// one build wins the publish race, the losers' plans are discarded.
func NewCachedShapePlan(face *Face, props SegmentProperties, userFeatures []Feature,
	coords []int, allowList []string) *ShapePlan {
	//
	assert(props.Direction.IsValid(), "shape plan needs a valid direction")
	if face == nil {
		face = EmptyFace()
	}
	face.MakeImmutable()

	// Resolve the backend before touching the cache, so that lookups
	// compare fully resolved keys.
	key := newPlanKey(face, props, userFeatures, coords, allowList)
	dontCache := key.dontCache(face)

	for {
		head := face.plans.Load()
		if !dontCache {
			for node := head; node != nil; node = node.next {
				if node.plan.key.equal(key) {
					tracer().Debugf("shape plan fulfilled from cache")
					return node.plan.Retain()
				}
			}
		}

		plan := newPlanForKey(face, key)
		if dontCache || plan.isInert() {
			return plan
		}

		node := &planNode{plan: plan, next: head}
		if !face.plans.CompareAndSwap(head, node) {
			// Another goroutine published meanwhile; discard this build
			// and retry against the now-current list.
			plan.Release()
			continue
		}
		tracer().Debugf("shape plan inserted into cache")
		// One reference for the list entry, one for the caller.
		return plan.Retain()
	}
}
