package physics

import (
	"github.com/automoto/astrododge/gamemath"
	"github.com/solarlune/resolv"
)

// BodyID identifies a body for the lifetime of the world. IDs are never
// reused, so a stale ID can always be told apart from a live one.
type BodyID uint64

// Shape is the collision primitive of a body.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeSphere
)

// BodyOptions configures a new body.
type BodyOptions struct {
	Shape Shape
	// HalfExtents of a box; a sphere uses X as its radius.
	HalfExtents gamemath.Vec3

	Mass           float64
	Restitution    float64
	Friction       float64
	LinearDamping  float64
	AngularDamping float64

	Position gamemath.Vec3
	Tags     []string
	Data     any
}

// Body is a rigid body in the world. Bodies are created enabled.
type Body struct {
	id    BodyID
	world *World
	obj   *resolv.Object

	shape          Shape
	half           gamemath.Vec3
	mass           float64
	restitution    float64
	friction       float64
	linearDamping  float64
	angularDamping float64

	pos gamemath.Vec3
	rot gamemath.Vec3
	lin gamemath.Vec3
	ang gamemath.Vec3

	enabled  bool
	disposed bool

	Data any
}

func (b *Body) ID() BodyID { return b.id }

func (b *Body) Shape() Shape { return b.shape }

func (b *Body) HalfExtents() gamemath.Vec3 { return b.half }

func (b *Body) Mass() float64 { return b.mass }

func (b *Body) Restitution() float64 { return b.restitution }

func (b *Body) Friction() float64 { return b.friction }

func (b *Body) Position() gamemath.Vec3 { return b.pos }

// SetPosition teleports the body and refreshes its broadphase cells.
func (b *Body) SetPosition(p gamemath.Vec3) {
	b.pos = p
	b.sync()
}

func (b *Body) Rotation() gamemath.Vec3 { return b.rot }

func (b *Body) SetRotation(r gamemath.Vec3) { b.rot = r }

func (b *Body) LinearVelocity() gamemath.Vec3 { return b.lin }

func (b *Body) SetLinearVelocity(v gamemath.Vec3) { b.lin = v }

func (b *Body) AngularVelocity() gamemath.Vec3 { return b.ang }

func (b *Body) SetAngularVelocity(v gamemath.Vec3) { b.ang = v }

func (b *Body) Enabled() bool { return b.enabled && !b.disposed }

func (b *Body) Disposed() bool { return b.disposed }

// HasTag reports whether the body was created with the given resolv tag.
func (b *Body) HasTag(tag string) bool {
	return b.obj.HasTags(tag)
}

// Resize changes the collision extents, e.g. when a pooled asteroid is
// re-rolled with a new size.
func (b *Body) Resize(half gamemath.Vec3) {
	b.half = half
	b.sync()
}

// sync copies the body's planar bounds into its resolv object. Resolv works
// in a y-down space anchored at the world's top-left corner.
func (b *Body) sync() {
	cfg := b.world.cfg
	hx, hy := b.half.X, b.half.Y
	if b.shape == ShapeSphere {
		hy = hx
	}
	b.obj.X = (b.pos.X - hx - cfg.MinX) * cfg.Scale
	b.obj.Y = (cfg.MaxY - b.pos.Y - hy) * cfg.Scale
	b.obj.W = 2 * hx * cfg.Scale
	b.obj.H = 2 * hy * cfg.Scale
	if b.obj.Space != nil {
		b.obj.Update()
	}
}

func (b *Body) integrate(dt float64) {
	b.lin = b.lin.Scale(dampFactor(b.linearDamping, dt))
	b.ang = b.ang.Scale(dampFactor(b.angularDamping, dt))
	b.pos = b.pos.Add(b.lin.Scale(dt))
	b.rot = b.rot.Add(b.ang.Scale(dt))
	b.sync()
}

func dampFactor(damping, dt float64) float64 {
	if damping <= 0 {
		return 1
	}
	return gamemath.ApplyDamping(1, damping, dt)
}

// overlaps is the planar narrowphase.
func overlaps(a, b *Body) bool {
	switch {
	case a.shape == ShapeSphere && b.shape == ShapeSphere:
		return a.pos.DistXY(b.pos) < a.half.X+b.half.X
	case a.shape == ShapeBox && b.shape == ShapeBox:
		return abs(a.pos.X-b.pos.X) < a.half.X+b.half.X &&
			abs(a.pos.Y-b.pos.Y) < a.half.Y+b.half.Y
	case a.shape == ShapeSphere:
		return sphereBox(a, b)
	default:
		return sphereBox(b, a)
	}
}

func sphereBox(s, box *Body) bool {
	cx := gamemath.ClampFloat(s.pos.X, box.pos.X-box.half.X, box.pos.X+box.half.X)
	cy := gamemath.ClampFloat(s.pos.Y, box.pos.Y-box.half.Y, box.pos.Y+box.half.Y)
	return s.pos.DistXY(gamemath.V3(cx, cy, s.pos.Z)) < s.half.X
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
