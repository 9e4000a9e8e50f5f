package main

import (
	"image"

	"github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/fonts"
	"github.com/automoto/astrododge/logging"
	"github.com/automoto/astrododge/scenes"
	"github.com/automoto/astrododge/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds image.Rectangle
	scene  Scene
}

// ChangeScene switches to a new scene
func (g *Game) ChangeScene(scene interface{}) {
	g.scene = scene.(Scene)
}

func NewGame(progress *systems.ProgressStore) *Game {
	g := &Game{
		bounds: image.Rectangle{},
	}

	if config.Debug.SkipMenu {
		g.scene = scenes.NewGameScene(g, progress)
	} else {
		g.scene = scenes.NewMenuScene(g, progress)
	}

	return g
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.C.Width, config.C.Height)
	return config.C.Width, config.C.Height
}

func main() {
	if err := config.Load("."); err != nil {
		logging.Setup(config.Debug.LogLevel, true)
		log.Fatal().Err(err).Msg("could not load configuration")
	}
	logging.Setup(config.Debug.LogLevel, config.Debug.PrettyLogs)

	if err := fonts.LoadDefaults(); err != nil {
		log.Fatal().Err(err).Msg("could not load fonts")
	}

	ebiten.SetWindowSize(config.C.Width, config.C.Height)
	ebiten.SetWindowTitle("Astrododge")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeOnlyFullscreenEnabled)

	// Initialize persistence and load saved progress
	progress, err := systems.OpenProgressStore("astrododge")
	if err != nil {
		log.Warn().Err(err).Msg("could not initialize persistence")
	}
	if _, err := progress.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load saved progress")
	}

	if err := ebiten.RunGame(NewGame(progress)); err != nil {
		log.Fatal().Err(err).Msg("game exited with error")
	}
}
