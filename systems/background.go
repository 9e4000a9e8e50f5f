package systems

import (
	"math/rand"
	"time"

	"github.com/automoto/astrododge/archetypes"
	"github.com/automoto/astrododge/components"
	"github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/gamemath"
	"github.com/yohamta/donburi"
)

// Background drifts decorative planets down the screen between waves.
type Background struct {
	world   donburi.World
	rng     *rand.Rand
	entries []*donburi.Entry
}

func NewBackground(w donburi.World, rng *rand.Rand) *Background {
	return &Background{world: w, rng: rng}
}

func (b *Background) Spawn() *donburi.Entry {
	cfg := config.Background
	r := cfg.Radius.Sample(b.rng)
	e := archetypes.Background.Spawn(b.world)
	components.Background.SetValue(e, components.BackgroundData{
		Position: gamemath.V3(gamemath.Symmetric(b.rng, config.World.MaxX-r), config.World.MaxY+r, -5),
		Velocity: gamemath.V3(0, -cfg.Speed, 0),
		Radius:   r,
		Color:    cfg.Color,
	})
	b.entries = append(b.entries, e)
	return e
}

// Update drifts every actor and removes the ones fully below the screen.
func (b *Background) Update(dt time.Duration) {
	live := b.entries[:0]
	for _, e := range b.entries {
		if !e.Valid() {
			continue
		}
		bg := components.Background.Get(e)
		bg.Position = bg.Position.Add(bg.Velocity.Scale(dt.Seconds()))
		if bg.Position.Y+bg.Radius < config.World.MinY {
			b.world.Remove(e.Entity())
			continue
		}
		live = append(live, e)
	}
	clear(b.entries[len(live):])
	b.entries = live
}

func (b *Background) Count() int { return len(b.entries) }

func (b *Background) Reset() {
	for _, e := range b.entries {
		if e.Valid() {
			b.world.Remove(e.Entity())
		}
	}
	b.entries = nil
}
