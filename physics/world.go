// Package physics is a small rigid-body world for arcade actors. Bodies move
// at constant velocity (with optional damping), a resolv spatial hash provides
// the broadphase, and gameplay code subscribes to contacts between specific
// body pairs.
package physics

import (
	"time"

	"github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/tags"
	"github.com/rs/zerolog/log"
	"github.com/solarlune/resolv"
)

// Config bounds the world and controls stepping.
type Config struct {
	MinX, MaxX float64
	MinY, MaxY float64

	Scale    float64
	CellSize int

	FixedStep   time.Duration // 0 = one variable step per Step call
	MaxSubSteps int
}

// DefaultConfig builds a Config from the global tuning values.
func DefaultConfig() Config {
	return Config{
		MinX:        config.World.MinX,
		MaxX:        config.World.MaxX,
		MinY:        config.World.MinY,
		MaxY:        config.World.MaxY,
		Scale:       config.Physics.Scale,
		CellSize:    config.Physics.CellSize,
		FixedStep:   config.Physics.FixedStep,
		MaxSubSteps: config.Physics.MaxSubSteps,
	}
}

// ContactFunc is invoked once per step while the two bodies overlap. It must
// not dispose bodies synchronously; use World.AfterStep for that.
type ContactFunc func(a, b *Body)

// ContactHandle identifies a pair registration. The zero handle is never
// issued.
type ContactHandle uint64

type contact struct {
	handle ContactHandle
	a, b   *Body
	fn     ContactFunc
	active bool
}

// World owns every body and pair registration.
type World struct {
	cfg   Config
	space *resolv.Space

	bodies   map[BodyID]*Body
	nextBody BodyID

	contacts    map[ContactHandle]*contact
	order       []*contact
	nextContact ContactHandle

	afterStep   []func()
	accumulator time.Duration
	stepping    bool
	steps       uint64

	neighbours map[*Body]map[*resolv.Object]struct{}
}

func NewWorld(cfg Config) *World {
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.CellSize <= 0 {
		cfg.CellSize = 1
	}
	if cfg.MaxSubSteps <= 0 {
		cfg.MaxSubSteps = 1
	}
	w := int((cfg.MaxX - cfg.MinX) * cfg.Scale)
	h := int((cfg.MaxY - cfg.MinY) * cfg.Scale)
	return &World{
		cfg:        cfg,
		space:      resolv.NewSpace(w, h, cfg.CellSize, cfg.CellSize),
		bodies:     make(map[BodyID]*Body),
		contacts:   make(map[ContactHandle]*contact),
		neighbours: make(map[*Body]map[*resolv.Object]struct{}),
	}
}

// CreateBody allocates a body and adds it to the broadphase.
func (w *World) CreateBody(opts BodyOptions) *Body {
	w.nextBody++
	b := &Body{
		id:             w.nextBody,
		world:          w,
		shape:          opts.Shape,
		half:           opts.HalfExtents,
		mass:           opts.Mass,
		restitution:    opts.Restitution,
		friction:       opts.Friction,
		linearDamping:  opts.LinearDamping,
		angularDamping: opts.AngularDamping,
		pos:            opts.Position,
		enabled:        true,
		Data:           opts.Data,
	}
	b.obj = resolv.NewObject(0, 0, 1, 1, append([]string{tags.ResolvBody}, opts.Tags...)...)
	b.obj.Data = b
	b.sync()
	w.space.Add(b.obj)
	w.bodies[b.id] = b
	return b
}

// Enable puts a body back into the simulation.
func (w *World) Enable(b *Body) {
	if b == nil || b.disposed || b.enabled {
		return
	}
	b.enabled = true
	w.space.Add(b.obj)
	b.sync()
}

// Disable freezes a body in place and removes it from contact detection.
// Registrations involving it survive and resume when it is re-enabled.
func (w *World) Disable(b *Body) {
	if b == nil || b.disposed || !b.enabled {
		return
	}
	b.enabled = false
	if b.obj.Space != nil {
		w.space.Remove(b.obj)
	}
}

// Dispose frees a body and drops every registration involving it. Called
// during a step, the disposal is deferred to the post-step queue.
func (w *World) Dispose(b *Body) {
	if b == nil || b.disposed {
		return
	}
	if w.stepping {
		log.Debug().Uint64("body", uint64(b.id)).Msg("physics: dispose deferred to post-step")
		w.AfterStep(func() { w.Dispose(b) })
		return
	}
	var stale []ContactHandle
	for _, c := range w.order {
		if c.active && (c.a == b || c.b == b) {
			stale = append(stale, c.handle)
		}
	}
	for _, h := range stale {
		w.OffContact(h)
	}
	if b.obj.Space != nil {
		w.space.Remove(b.obj)
	}
	b.enabled = false
	b.disposed = true
	b.lin, b.ang = b.lin.Scale(0), b.ang.Scale(0)
	delete(w.bodies, b.id)
}

// Body looks up a live body by id.
func (w *World) Body(id BodyID) (*Body, bool) {
	b, ok := w.bodies[id]
	return b, ok
}

// BodyCount returns the number of live (not disposed) bodies.
func (w *World) BodyCount() int {
	return len(w.bodies)
}

// OnContact registers fn for contacts between a and b. Returns the zero
// handle if either body is missing or disposed.
func (w *World) OnContact(a, b *Body, fn ContactFunc) ContactHandle {
	if a == nil || b == nil || a.disposed || b.disposed || fn == nil {
		return 0
	}
	w.nextContact++
	c := &contact{handle: w.nextContact, a: a, b: b, fn: fn, active: true}
	w.contacts[c.handle] = c
	w.order = append(w.order, c)
	return c.handle
}

// OffContact drops a registration. Unknown handles are ignored.
func (w *World) OffContact(h ContactHandle) {
	c, ok := w.contacts[h]
	if !ok {
		return
	}
	c.active = false
	delete(w.contacts, h)
	if !w.stepping {
		w.compact()
	}
}

// HasContact reports whether a registration is still live.
func (w *World) HasContact(h ContactHandle) bool {
	_, ok := w.contacts[h]
	return ok
}

// ContactCount returns the number of live registrations.
func (w *World) ContactCount() int {
	return len(w.contacts)
}

// AfterStep queues fn to run once at the end of the next Step, after every
// contact callback of that step has been delivered.
func (w *World) AfterStep(fn func()) {
	w.afterStep = append(w.afterStep, fn)
}

// Steps returns how many sub-steps have been simulated.
func (w *World) Steps() uint64 {
	return w.steps
}

// Step advances the simulation by dt, then drains the post-step queue.
func (w *World) Step(dt time.Duration) {
	if w.cfg.FixedStep <= 0 {
		w.substep(dt)
	} else {
		w.accumulator += dt
		n := 0
		for w.accumulator >= w.cfg.FixedStep && n < w.cfg.MaxSubSteps {
			w.substep(w.cfg.FixedStep)
			w.accumulator -= w.cfg.FixedStep
			n++
		}
		if w.accumulator >= w.cfg.FixedStep {
			// Too far behind; drop the backlog rather than spiral.
			w.accumulator = 0
		}
	}
	w.drainAfterStep()
}

func (w *World) substep(dt time.Duration) {
	secs := dt.Seconds()
	w.stepping = true

	for _, b := range w.bodies {
		if b.enabled {
			b.integrate(secs)
		}
	}

	clear(w.neighbours)
	snapshot := append([]*contact(nil), w.order...)
	for _, c := range snapshot {
		if !c.active || !c.a.Enabled() || !c.b.Enabled() {
			continue
		}
		if w.touching(c.a, c.b) {
			c.fn(c.a, c.b)
		}
	}

	w.stepping = false
	w.steps++
	w.compact()
}

// touching runs the resolv broadphase (shared cells) before the planar
// narrowphase.
func (w *World) touching(a, b *Body) bool {
	near, ok := w.neighbours[a]
	if !ok {
		near = make(map[*resolv.Object]struct{})
		if a.obj.Space != nil {
			if check := a.obj.Check(0, 0, tags.ResolvBody); check != nil {
				for _, o := range check.ObjectsByTags(tags.ResolvBody) {
					near[o] = struct{}{}
				}
			}
		}
		w.neighbours[a] = near
	}
	if _, shared := near[b.obj]; !shared {
		return false
	}
	return overlaps(a, b)
}

func (w *World) drainAfterStep() {
	// Callbacks may queue more work; that runs in this drain too.
	for len(w.afterStep) > 0 {
		queue := w.afterStep
		w.afterStep = nil
		for _, fn := range queue {
			fn()
		}
	}
}

func (w *World) compact() {
	live := w.order[:0]
	for _, c := range w.order {
		if c.active {
			live = append(live, c)
		}
	}
	for i := len(live); i < len(w.order); i++ {
		w.order[i] = nil
	}
	w.order = live
}
