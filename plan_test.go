package shapeplan

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/shapeplan/internal/fontfix"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type PlanTestEnviron struct {
	suite.Suite
	face  *Face
	props SegmentProperties
}

// listen for 'go test' command --> run test methods
func TestPlanFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype.shapeplan")
	defer teardown()
	suite.Run(t, new(PlanTestEnviron))
}

// run once, before test suite methods
func (env *PlanTestEnviron) SetupSuite() {
	face, err := ParseFace(fontfix.LayoutFont())
	env.Require().NoError(err, "cannot parse layout fixture")
	env.face = face
	env.props = Props("Latn", "en", DirectionLTR)
}

// --- Tests -----------------------------------------------------------------

func (env *PlanTestEnviron) TestPlanBuildBasics() {
	plan := NewShapePlan(env.face, env.props, nil, nil, nil)
	env.NotSame(EmptyShapePlan(), plan, "expected a real plan")
	env.Equal("ot", plan.ShaperName())
	env.True(plan.Props().Equal(env.props))
	env.Same(env.face, plan.Face())
	env.True(env.face.IsImmutable(), "plan creation must freeze the face")
	env.NotNil(plan.ShaperData(), "ot backend should have precomputed plan data")
	plan.Release()
}

func (env *PlanTestEnviron) TestPlanBuildCopiesInputs() {
	features := []Feature{GlobalFeature(T("liga"), 1)}
	coords := []int{100, -200}
	plan := NewShapePlan(env.face, env.props, features, coords, nil)
	features[0].Value = 7 // caller mutates the original after creation
	coords[0] = 0
	env.Equal(uint32(1), plan.Features()[0].Value, "plan must own a deep copy of features")
	env.Equal(100, plan.NormalizedCoords()[0], "plan must own a deep copy of coords")
	plan.Release()
}

func (env *PlanTestEnviron) TestNilFaceSubstitutesEmptyFace() {
	plan := NewShapePlan(nil, env.props, nil, nil, nil)
	env.Same(EmptyFace(), plan.Face())
	env.Equal("fallback", plan.ShaperName())
	plan.Release()
}

func (env *PlanTestEnviron) TestInertPlanBehavior() {
	inert := EmptyShapePlan()
	env.Same(inert, EmptyShapePlan(), "inert plan must be a shared singleton")
	env.Equal("", inert.ShaperName())
	env.Same(inert, inert.Retain(), "retaining the inert plan is a no-op")
	inert.Release() // must not panic or free anything
	env.False(inert.SetUserData("k", 1, nil, true), "inert plan holds no user data")
	env.Nil(inert.UserData("k"))
}

func (env *PlanTestEnviron) TestReferenceCountingRoundtrip() {
	plan := NewShapePlan(env.face, env.props, nil, nil, nil)
	destroyed := false
	plan.SetUserData("probe", 42, func() { destroyed = true }, true)

	env.Same(plan, plan.Retain())
	plan.Release()
	env.False(destroyed, "plan must survive while references remain")
	env.Equal(42, plan.UserData("probe"), "observable state unchanged by retain/release")

	plan.Release() // last reference
	env.True(destroyed, "destroying the last reference must run destructors")
}

func (env *PlanTestEnviron) TestUserDataReplaceSemantics() {
	plan := NewShapePlan(env.face, env.props, nil, nil, nil)
	env.True(plan.SetUserData("k", "a", nil, false))
	env.False(plan.SetUserData("k", "b", nil, false), "existing entry wins without replace")
	env.Equal("a", plan.UserData("k"))
	env.True(plan.SetUserData("k", "b", nil, true))
	env.Equal("b", plan.UserData("k"))
	env.Nil(plan.UserData("missing"))
	plan.Release()
}

func (env *PlanTestEnviron) TestAllowListReachesPlan() {
	plan := NewShapePlan(env.face, env.props, nil, nil, []string{"fallback"})
	env.Equal("fallback", plan.ShaperName())
	plan.Release()
}
