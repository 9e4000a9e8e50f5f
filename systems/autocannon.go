package systems

import (
	"time"

	"github.com/automoto/astrododge/components"
	"github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/gamemath"
	"github.com/automoto/astrododge/scheduler"
	"github.com/rs/zerolog/log"
)

// AutoCannon fires player shots straight up on a fixed interval while
// enabled.
type AutoCannon struct {
	player      PlayerState
	projectiles *ProjectileSystem
	timers      *scheduler.Group
	interval    time.Duration
	enabled     bool
	fired       int
}

func NewAutoCannon(player PlayerState, clock Clock, projectiles *ProjectileSystem) *AutoCannon {
	return &AutoCannon{
		player:      player,
		projectiles: projectiles,
		timers:      scheduler.NewGroup(clock),
		interval:    config.Powerups.AutoFireInterval,
	}
}

func (c *AutoCannon) Enable() {
	if c.enabled {
		return
	}
	c.enabled = true
	log.Debug().Dur("interval", c.interval).Msg("auto-cannon enabled")
	c.timers.After(c.interval, c.fire)
}

func (c *AutoCannon) Disable() {
	c.timers.CancelAll()
	c.enabled = false
}

func (c *AutoCannon) Enabled() bool { return c.enabled }

// Fired counts shots since construction.
func (c *AutoCannon) Fired() int { return c.fired }

func (c *AutoCannon) fire() {
	if !c.enabled {
		return
	}
	if body := c.player.CurrentBody(); body != nil {
		origin := body.Position().Add(gamemath.V3(0, config.Player.HalfHeight+config.Projectile.PlayerSize, 0))
		c.projectiles.Fire(origin, config.Projectile.PlayerSpeed, components.OwnerPlayer)
		c.fired++
	}
	c.timers.After(c.interval, c.fire)
}
