package scenes

import (
	"fmt"
	"time"

	cfg "github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/fonts"
	"github.com/automoto/astrododge/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
)

// hud collects gameplay events for the overlay. It never calls back into the
// session.
type hud struct {
	level         int
	announceScale float64
	practice      string
	health        float64
	maxHealth     float64
	shieldFill    float64
	bossHealth    float64
	bossVisible   bool
	score         int
	damageFlash   time.Duration
}

func (h *hud) Notify(ev systems.Event) {
	switch ev.Kind {
	case systems.EventAnnounce:
		h.level = ev.Level
		h.announceScale = ev.Value
	case systems.EventWaveStart:
		h.announceScale = 0
	case systems.EventPractice:
		h.practice = ""
		if ev.Value > 0 {
			h.practice = ev.Text
		}
	case systems.EventHealth:
		h.health, h.maxHealth = ev.Value, ev.Max
	case systems.EventDamage:
		h.damageFlash = 200 * time.Millisecond
	case systems.EventShieldTimer:
		h.shieldFill = ev.Value
	case systems.EventUFOPhase:
		h.bossVisible = ev.Text == cfg.UFO.BossModel
		h.bossHealth = float64(cfg.UFO.BossHealth)
	case systems.EventBossHit:
		h.bossHealth = ev.Value
		if ev.Value <= 0 {
			h.bossVisible = false
		}
	case systems.EventScore:
		h.score = int(ev.Value)
	}
}

func (h *hud) update(dt time.Duration) {
	h.damageFlash = max(0, h.damageFlash-dt)
}

func (h *hud) draw(screen *ebiten.Image) {
	m := cfg.HUD.Margin
	w := float64(screen.Bounds().Dx())

	if h.maxHealth > 0 {
		drawBar(screen, m, m, cfg.HUD.BarWidth, cfg.HUD.BarHeight, h.health/h.maxHealth, cfg.HUD.HealthColor)
	}
	if h.shieldFill > 0 {
		drawBar(screen, m, m+cfg.HUD.BarHeight+4, cfg.HUD.BarWidth, cfg.HUD.BarHeight/2, h.shieldFill, cfg.HUD.ShieldColor)
	}
	if h.bossVisible {
		bw := cfg.HUD.BarWidth * 1.5
		drawBar(screen, (w-bw)/2, m+24, bw, cfg.HUD.BarHeight, h.bossHealth/float64(cfg.UFO.BossHealth), cfg.HUD.BossColor)
	}

	small := fonts.Small.Get()
	score := fmt.Sprintf("SCORE %d", h.score)
	text.Draw(screen, score, small, int(w-m)-text.BoundString(small, score).Dx(), int(m)+10, cfg.HUD.TextColor)
	if h.level > 0 {
		text.Draw(screen, fmt.Sprintf("LEVEL %d", h.level), small, int(m), int(m+cfg.HUD.BarHeight*2+18), cfg.HUD.TextColor)
	}

	cy := float64(screen.Bounds().Dy()) / 3
	if h.announceScale > 0 {
		drawScaled(screen, fmt.Sprintf("LEVEL %d", h.level), fonts.Title.Get(), w/2, cy, h.announceScale, cfg.HUD.TextColor)
	}
	if h.practice != "" {
		drawCentered(screen, h.practice, fonts.Bold.Get(), int(cy)+60, cfg.HUD.TextColor)
	}
}

// flashing reports whether the screen edge should flash for recent damage.
func (h *hud) flashing() bool { return h.damageFlash > 0 }
