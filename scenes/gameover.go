package scenes

import (
	"fmt"
	"image/color"
	"sync"

	cfg "github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/fonts"
	"github.com/automoto/astrododge/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// Result is how a session ended.
type Result struct {
	Level    int
	Score    int
	Complete bool
}

// GameOverScene displays the game over screen
type GameOverScene struct {
	ecs          *ecs.ECS
	sceneChanger SceneChanger
	progress     *systems.ProgressStore
	result       Result
	selected     int
	once         sync.Once
}

// NewGameOverScene creates a new game over scene
func NewGameOverScene(sc SceneChanger, progress *systems.ProgressStore, result Result) *GameOverScene {
	return &GameOverScene{sceneChanger: sc, progress: progress, result: result}
}

func (gs *GameOverScene) Update() {
	gs.once.Do(gs.configure)
	gs.ecs.Update()
}

func (gs *GameOverScene) Draw(screen *ebiten.Image) {
	// Always clear screen to prevent white flashes from OS window background
	screen.Fill(color.Black)

	if gs.ecs == nil {
		return
	}
	gs.ecs.Draw(screen)
}

func (gs *GameOverScene) configure() {
	gs.ecs = ecs.NewECS(donburi.NewWorld())
	gs.ecs.AddSystem(gs.updateGameOver)
	gs.ecs.AddRenderer(layerDefault, gs.drawGameOver)
}

func (gs *GameOverScene) updateGameOver(_ *ecs.ECS) {
	action := pollMenu()
	gs.selected = menuCursor(gs.selected, len(cfg.GameOver.MenuOptions), action)

	switch action {
	case menuSelect:
		if gs.selected == 0 {
			gs.sceneChanger.ChangeScene(NewGameScene(gs.sceneChanger, gs.progress))
			return
		}
		gs.sceneChanger.ChangeScene(NewMenuScene(gs.sceneChanger, gs.progress))
	case menuBack:
		gs.sceneChanger.ChangeScene(NewMenuScene(gs.sceneChanger, gs.progress))
	}
}

func (gs *GameOverScene) drawGameOver(_ *ecs.ECS, screen *ebiten.Image) {
	width := float64(screen.Bounds().Dx())
	height := float64(screen.Bounds().Dy())
	vector.FillRect(screen, 0, 0, float32(width), float32(height), cfg.GameOver.BackgroundColor, false)

	title := "GAME OVER"
	if gs.result.Complete {
		title = "ALL LEVELS CLEARED"
	}
	drawCentered(screen, title, fonts.Title.Get(), int(cfg.GameOver.TitleY), cfg.GameOver.TitleColor)

	summary := fmt.Sprintf("Level %d   Score %d", gs.result.Level, gs.result.Score)
	drawCentered(screen, summary, fonts.Regular.Get(), int(cfg.GameOver.TitleY)+50, cfg.GameOver.TextColorNormal)
	if saved := gs.progress.Progress(); saved.GamesPlayed > 0 {
		best := fmt.Sprintf("Best: level %d, score %d", saved.BestLevel, saved.BestScore)
		drawCentered(screen, best, fonts.Small.Get(), int(cfg.GameOver.TitleY)+80, cfg.GameOver.TextColorNormal)
	}

	menuFont := fonts.Bold.Get()
	for i, option := range cfg.GameOver.MenuOptions {
		y := cfg.GameOver.MenuStartY + float64(i)*(cfg.GameOver.MenuItemHeight+cfg.GameOver.MenuItemGap)
		textColor := cfg.GameOver.TextColorNormal
		if i == gs.selected {
			textColor = cfg.GameOver.TextColorSelected
		}
		drawCentered(screen, option, menuFont, int(y+cfg.GameOver.MenuItemHeight), textColor)
	}
}
