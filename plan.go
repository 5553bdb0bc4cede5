package shapeplan

import "sync/atomic"

// ShapePlan is an immutable, reference-counted description of how shaping
// will execute for one (face, properties, features, coordinates)
// combination: the resolved backend plus whatever that backend precomputed
// against the face. Once construction completes, no field changes except
// the reference count, which makes plans safe for unsynchronized
// concurrent use.
type ShapePlan struct {
	face       *Face   // non-owning; the face outlives its plans
	key        planKey // owned
	shaperData any     // backend precompute, owned and opaque
	refcount   atomic.Int32
	userData   userDataStore
}

// inertPlan is the shared sentinel returned when plan construction fails
// or inputs are degenerate. It is never allocated per failure, never
// enters a cache, its reference count never moves, and executing it fails.
var inertPlan = &ShapePlan{face: emptyFace}

// EmptyShapePlan returns the shared inert plan (never nil). Callers can
// detect build failure by comparing against it.
func EmptyShapePlan() *ShapePlan {
	return inertPlan
}

// NewShapePlan builds a fresh plan, never consulting or populating any
// cache. A nil face is substituted by the shared empty face; the face is
// frozen as a side effect, since plans must not observe face mutation.
// props carrying the invalid direction is a caller contract violation.
//
// On failure — no applicable backend, or the backend's precompute failing —
// the shared inert plan is returned.
func NewShapePlan(face *Face, props SegmentProperties, userFeatures []Feature,
	coords []int, allowList []string) *ShapePlan {
	//
	assert(props.Direction.IsValid(), "shape plan needs a valid direction")
	if face == nil {
		face = EmptyFace()
	}
	face.MakeImmutable()
	key := newPlanKey(face, props, userFeatures, coords, allowList)
	return newPlanForKey(face, key)
}

// newPlanForKey finishes construction for an already-resolved key.
func newPlanForKey(face *Face, key planKey) *ShapePlan {
	if key.shaper == nil {
		tracer().Infof("no applicable shaping backend for face")
		return inertPlan
	}
	plan := &ShapePlan{face: face, key: key}
	plan.refcount.Store(1)
	data, err := key.shaper.CompilePlan(plan)
	if err != nil {
		tracer().Errorf("backend %q failed to compile plan: %v", key.shaper.Name(), err)
		return inertPlan
	}
	plan.shaperData = data
	tracer().Debugf("built shape plan %s with shaper %q", key.props, key.shaper.Name())
	return plan
}

func (p *ShapePlan) isInert() bool {
	return p == inertPlan
}

// Face returns the face the plan was built against.
func (p *ShapePlan) Face() *Face {
	return p.face
}

// Props returns the segment properties the plan was built for.
func (p *ShapePlan) Props() SegmentProperties {
	return p.key.props
}

// Features returns the plan's owned feature overrides. The slice is
// shared; callers must not mutate it.
func (p *ShapePlan) Features() []Feature {
	return p.key.features
}

// NormalizedCoords returns the plan's owned variation coordinates, or nil.
func (p *ShapePlan) NormalizedCoords() []int {
	return p.key.coords
}

// ShaperData returns the backend's opaque precompute state.
func (p *ShapePlan) ShaperData() any {
	return p.shaperData
}

// ShaperName returns the identifier of the backend selected for this plan,
// or the empty string for the inert plan.
func (p *ShapePlan) ShaperName() string {
	if p.isInert() || p.key.shaper == nil {
		return ""
	}
	return p.key.shaper.Name()
}

// Retain increments the plan's reference count and returns the plan.
// Retaining the inert plan is a no-op.
func (p *ShapePlan) Retain() *ShapePlan {
	if p.isInert() {
		return p
	}
	p.refcount.Add(1)
	return p
}

// Release decrements the reference count; the last release destroys the
// plan's owned state and runs user-data destructors. Releasing the inert
// plan is a no-op.
func (p *ShapePlan) Release() {
	if p.isInert() {
		return
	}
	n := p.refcount.Add(-1)
	assert(n >= 0, "shape plan reference count went negative")
	if n == 0 {
		p.destroy()
	}
}

func (p *ShapePlan) destroy() {
	tracer().Debugf("destroying shape plan %s", p.key.props)
	p.userData.purge()
	p.shaperData = nil
}

// SetUserData attaches opaque data under key, with an optional destructor
// run when the plan is destroyed. With replace false, an existing entry
// for key wins and false is returned. The inert plan holds no user data.
func (p *ShapePlan) SetUserData(key any, data any, destroy func(), replace bool) bool {
	if p.isInert() {
		return false
	}
	return p.userData.set(key, data, destroy, replace)
}

// UserData returns the data attached under key, or nil.
func (p *ShapePlan) UserData(key any) any {
	if p.isInert() {
		return nil
	}
	return p.userData.get(key)
}

// Execute runs the plan's backend against a font instance and a buffer.
// The buffer must hold unicode content, must not be immutable, and must
// carry the plan's segment properties; the font must live on the plan's
// face. Violations are caller contract errors. Empty buffers succeed
// without invoking any backend; the inert plan always fails.
func (p *ShapePlan) Execute(fnt *Font, buf *Buffer, features []Feature) bool {
	if buf == nil || buf.Len() == 0 {
		return true
	}
	assert(!buf.IsImmutable(), "cannot shape into an immutable buffer")
	assert(buf.ContentType() == ContentUnicode, "buffer does not hold unicode content")
	if p.isInert() {
		return false
	}
	assert(fnt.Face() == p.face, "font face differs from the plan's face")
	assert(p.key.props.Equal(buf.Props()), "buffer properties differ from the plan's")
	tracer().Debugf("executing plan with shaper %q", p.key.shaper.Name())
	return p.key.shaper.EnsureFontData(fnt) &&
		p.key.shaper.Shape(p, fnt, buf, features)
}
