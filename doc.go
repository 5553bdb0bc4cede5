/*
Package shapeplan provides plan caching and backend dispatch for text shaping.

A shape plan captures, for one immutable font face and one set of segment
properties (script, language, writing direction), which shaping backend will
run and what that backend precomputed for the combination. Plans are opaque
and reusable: repeated shaping calls with equivalent parameters reuse one
plan instead of re-resolving the backend every time.

The package API is centered around [NewShapePlan] and [NewCachedShapePlan]:
  - callers provide a [Face], [SegmentProperties], optional [Feature]
    overrides and optional normalized variation coordinates,
  - [NewCachedShapePlan] transparently deduplicates equivalent requests
    through a per-face, lock-free plan cache,
  - [ShapePlan.Execute] runs the plan's backend against a [Font] instance
    and a [Buffer].

Shaping itself — substitution, positioning, Unicode segmentation — is the
business of the backends; this package only selects among them, precomputes
once per plan, and shares the result safely across goroutines.

Plans are reference-counted. Cached plans live as long as their face; the
cache never evicts. Construction failures yield the shared inert plan from
[EmptyShapePlan], which fails execution gracefully and never enters a cache.
*/
package shapeplan

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer returns a trace sink for the shapeplan package namespace.
func tracer() tracing.Trace {
	return tracing.Select("opentype.shapeplan")
}

// errShaper wraps a message as a user-facing shaping error.
func errShaper(x string) error {
	return fmt.Errorf("shape plan: %s", x)
}

// assert panics when condition is false.
func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
