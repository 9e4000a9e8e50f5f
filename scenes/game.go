package scenes

import (
	"context"
	"image/color"
	"sync"
	"time"

	"github.com/automoto/astrododge/assets"
	"github.com/automoto/astrododge/components"
	cfg "github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/systems"
	"github.com/automoto/astrododge/tags"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog/log"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// GameScene runs one session: steering input, the gameplay pipeline and
// the vector renderers.
type GameScene struct {
	ecs          *ecs.ECS
	sceneChanger SceneChanger
	progress     *systems.ProgressStore
	session      *systems.Session
	input        *TiltInput
	hud          *hud
	once         sync.Once

	ctx    context.Context
	cancel context.CancelFunc

	ship, rock *assets.Pending
	shipModel  *assets.Model
}

func NewGameScene(sc SceneChanger, progress *systems.ProgressStore) *GameScene {
	return &GameScene{sceneChanger: sc, progress: progress}
}

func (gs *GameScene) Update() {
	gs.once.Do(gs.configure)
	gs.ecs.Update()

	if pollMenu() == menuBack {
		gs.leave(NewMenuScene(gs.sceneChanger, gs.progress))
		return
	}
	if gs.session.Over() || gs.session.Complete() {
		gs.leave(NewGameOverScene(gs.sceneChanger, gs.progress, Result{
			Level:    gs.session.Director.CurrentLevel() + 1,
			Score:    gs.session.Score(),
			Complete: gs.session.Complete(),
		}))
	}
}

func (gs *GameScene) Draw(screen *ebiten.Image) {
	// Always clear screen to prevent white flashes from OS window background
	screen.Fill(color.Black)

	if gs.ecs == nil {
		return
	}
	gs.ecs.Draw(screen)
}

func (gs *GameScene) configure() {
	gs.ctx, gs.cancel = context.WithCancel(context.Background())
	world := donburi.NewWorld()
	gs.ecs = ecs.NewECS(world)
	gs.input = &TiltInput{}
	gs.hud = &hud{}

	loader := assets.Embedded()
	gs.session = systems.NewSession(gs.ctx, world, systems.SessionOptions{
		Input:    gs.input,
		Notify:   systems.Notifiers{gs.hud, systems.NewLogNotifier()},
		Models:   loader,
		Progress: gs.progress,
	})
	gs.ship = loader.LoadAsync(gs.ctx, "models/ship.json")
	gs.rock = loader.LoadAsync(gs.ctx, "models/asteroid.json")
	gs.hud.health = float64(gs.session.Player.Health())
	gs.hud.maxHealth = float64(gs.session.Player.MaxHealth())

	gs.ecs.AddSystem(gs.updateInput)
	gs.ecs.AddSystem(gs.updateSession)

	gs.ecs.AddRenderer(layerDefault, gs.drawBackground)
	gs.ecs.AddRenderer(layerDefault, gs.drawActors)
	gs.ecs.AddRenderer(layerDefault, gs.drawPlayer)
	gs.ecs.AddRenderer(layerDefault, gs.drawHitboxes)
	gs.ecs.AddRenderer(layerDefault, gs.drawHUD)

	gs.session.Start()
}

func frameTime() time.Duration {
	return time.Second / time.Duration(ebiten.TPS())
}

func (gs *GameScene) updateInput(_ *ecs.ECS) {
	gs.input.Update(frameTime())
}

func (gs *GameScene) updateSession(_ *ecs.ECS) {
	gs.pollModels()
	dt := frameTime()
	gs.session.Update(dt)
	gs.hud.update(dt)
}

func (gs *GameScene) pollModels() {
	if gs.ship != nil {
		if m, done, err := gs.ship.Poll(); done {
			if err != nil {
				log.Warn().Err(err).Msg("ship model failed to load, using primitive")
				m = assets.Primitive("ship", cfg.White)
			}
			gs.shipModel = m
			gs.ship = nil
		}
	}
	if gs.rock != nil {
		if m, done, err := gs.rock.Poll(); done {
			if err != nil {
				log.Warn().Err(err).Msg("asteroid model failed to load, drawing circles")
			}
			gs.session.Asteroids.Model = m
			gs.rock = nil
		}
	}
}

func (gs *GameScene) leave(next interface{}) {
	gs.session.Dispose()
	gs.cancel()
	gs.sceneChanger.ChangeScene(next)
}

func (gs *GameScene) drawBackground(e *ecs.ECS, screen *ebiten.Image) {
	v := newView(screen)
	tags.Background.Each(e.World, func(entry *donburi.Entry) {
		bg := components.Background.Get(entry)
		x, y := v.point(bg.Position)
		vector.FillCircle(screen, x, y, v.length(bg.Radius), withAlpha(bg.Color, 0.5), true)
	})
}

func (gs *GameScene) drawActors(e *ecs.ECS, screen *ebiten.Image) {
	v := newView(screen)
	components.Actor.Each(e.World, func(entry *donburi.Entry) {
		actor := components.Actor.Get(entry)
		if !actor.Active || actor.Body == nil {
			return
		}
		pos := actor.Body.Position()

		if entry.HasComponent(components.Projectile) {
			shot := components.Projectile.Get(entry)
			x, y := v.point(pos)
			if shot.Glow > 0 {
				vector.FillCircle(screen, x, y, v.length(actor.Scale*2), withAlpha(shot.Color, shot.Glow*0.5), true)
			}
			vector.FillCircle(screen, x, y, v.length(actor.Scale), shot.Color, true)
			return
		}

		clr := cfg.Grey
		if actor.Model != nil {
			clr = actor.Model.Color
		}
		if entry.HasComponent(components.Flash) {
			if flash := components.Flash.Get(entry); flash.Remaining > 0 {
				clr = color.RGBA{R: uint8(255 * flash.R), G: uint8(255 * flash.G), B: uint8(255 * flash.B), A: 255}
			}
		}
		if actor.Model == nil {
			x, y := v.point(pos)
			vector.StrokeCircle(screen, x, y, v.length(actor.Scale), outlineWidth, clr, true)
			return
		}
		drawModel(screen, v, actor.Model, pos, actor.Scale, actor.Body.Rotation().Z, clr)
	})
}

func (gs *GameScene) drawPlayer(e *ecs.ECS, screen *ebiten.Image) {
	entry, ok := tags.Player.First(e.World)
	if !ok {
		return
	}
	v := newView(screen)
	p := components.Player.Get(entry)
	pos := p.Ship.Position()

	clr := cfg.White
	if flash := components.Flash.Get(entry); flash.Remaining > 0 {
		clr = cfg.HUD.FlashColor
	}
	if gs.shipModel != nil {
		drawModel(screen, v, gs.shipModel, pos, 1, p.Ship.Rotation().Z, clr)
	}
	if p.ShieldActive {
		x, y := v.point(pos)
		fill := max(gs.hud.shieldFill, 0.3)
		vector.StrokeCircle(screen, x, y, v.length(cfg.Player.ShieldRadius), outlineWidth, withAlpha(cfg.HUD.ShieldColor, fill), true)
	}
}

func (gs *GameScene) drawHitboxes(e *ecs.ECS, screen *ebiten.Image) {
	if !cfg.Debug.ShowHitboxes {
		return
	}
	v := newView(screen)
	components.Actor.Each(e.World, func(entry *donburi.Entry) {
		drawBody(screen, v, components.Actor.Get(entry).Body, cfg.Red)
	})
	if entry, ok := tags.Player.First(e.World); ok {
		p := components.Player.Get(entry)
		drawBody(screen, v, p.Ship, cfg.Red)
		drawBody(screen, v, p.Shield, cfg.Cyan)
	}
}

func (gs *GameScene) drawHUD(_ *ecs.ECS, screen *ebiten.Image) {
	if gs.hud.flashing() {
		w, h := float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy())
		vector.StrokeRect(screen, 0, 0, w, h, 6, cfg.HUD.FlashColor, false)
	}
	gs.hud.draw(screen)
}
