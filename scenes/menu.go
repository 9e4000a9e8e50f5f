package scenes

import (
	"fmt"
	"image/color"
	"os"
	"sync"

	cfg "github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/fonts"
	"github.com/automoto/astrododge/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

const layerDefault ecs.LayerID = 0

// SceneChanger allows scenes to trigger transitions
type SceneChanger interface {
	ChangeScene(scene interface{})
}

// MenuScene displays the main menu
type MenuScene struct {
	ecs          *ecs.ECS
	sceneChanger SceneChanger
	progress     *systems.ProgressStore
	selected     int
	once         sync.Once
}

// NewMenuScene creates a new menu scene
func NewMenuScene(sc SceneChanger, progress *systems.ProgressStore) *MenuScene {
	return &MenuScene{sceneChanger: sc, progress: progress}
}

func (ms *MenuScene) Update() {
	ms.once.Do(ms.configure)
	ms.ecs.Update()
}

func (ms *MenuScene) Draw(screen *ebiten.Image) {
	// Always clear screen to prevent white flashes from OS window background
	screen.Fill(color.Black)

	if ms.ecs == nil {
		return
	}
	ms.ecs.Draw(screen)
}

func (ms *MenuScene) configure() {
	ms.ecs = ecs.NewECS(donburi.NewWorld())
	ms.ecs.AddSystem(ms.updateMenu)
	ms.ecs.AddRenderer(layerDefault, ms.drawMenu)
}

func (ms *MenuScene) updateMenu(_ *ecs.ECS) {
	action := pollMenu()
	ms.selected = menuCursor(ms.selected, len(cfg.Menu.MenuOptions), action)

	switch action {
	case menuSelect:
		if ms.selected == 0 {
			ms.sceneChanger.ChangeScene(NewGameScene(ms.sceneChanger, ms.progress))
			return
		}
		os.Exit(0)
	case menuBack:
		os.Exit(0)
	}
}

func (ms *MenuScene) drawMenu(_ *ecs.ECS, screen *ebiten.Image) {
	width := float64(screen.Bounds().Dx())
	height := float64(screen.Bounds().Dy())

	vector.FillRect(screen, 0, 0, float32(width), float32(height), cfg.Menu.BackgroundColor, false)
	drawCentered(screen, "ASTRODODGE", fonts.Title.Get(), int(cfg.Menu.TitleY), cfg.Menu.TitleColor)

	if saved := ms.progress.Progress(); saved.GamesPlayed > 0 {
		best := fmt.Sprintf("Best: level %d, score %d", saved.BestLevel, saved.BestScore)
		drawCentered(screen, best, fonts.Regular.Get(), int(cfg.Menu.TitleY)+50, cfg.Menu.TextColorNormal)
	}

	menuFont := fonts.Bold.Get()
	for i, option := range cfg.Menu.MenuOptions {
		y := cfg.Menu.MenuStartY + float64(i)*(cfg.Menu.MenuItemHeight+cfg.Menu.MenuItemGap)
		textColor := cfg.Menu.TextColorNormal
		if i == ms.selected {
			textColor = cfg.Menu.TextColorSelected
		}
		drawCentered(screen, option, menuFont, int(y+cfg.Menu.MenuItemHeight), textColor)
	}

	hint := "Arrows/A-D: steer   Enter: select   Esc: quit"
	hintFont := fonts.Small.Get()
	x := (screen.Bounds().Dx() - text.BoundString(hintFont, hint).Dx()) / 2
	text.Draw(screen, hint, hintFont, x, int(height)-12, cfg.Menu.TextColorNormal)
}
