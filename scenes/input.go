package scenes

import (
	"time"

	cfg "github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/gamemath"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var (
	leftKeys   = []ebiten.Key{ebiten.KeyLeft, ebiten.KeyA}
	rightKeys  = []ebiten.Key{ebiten.KeyRight, ebiten.KeyD}
	upKeys     = []ebiten.Key{ebiten.KeyUp, ebiten.KeyW}
	downKeys   = []ebiten.Key{ebiten.KeyDown, ebiten.KeyS}
	selectKeys = []ebiten.Key{ebiten.KeyEnter, ebiten.KeySpace}
	backKeys   = []ebiten.Key{ebiten.KeyEscape}
)

// Reusable slice for gamepad IDs to avoid allocations
var gamepadIDs []ebiten.GamepadID

// TiltInput turns held keys or the left stick into a steering tilt in
// [-1, 1]. Keys ease toward full deflection; a stick past the deadzone is
// used as-is.
type TiltInput struct {
	tilt float64
}

// Update must run once per frame before the session reads Tilt.
func (in *TiltInput) Update(dt time.Duration) {
	if stick, ok := stickTilt(); ok {
		in.tilt = stick
		return
	}

	target := 0.0
	if anyPressed(leftKeys) {
		target--
	}
	if anyPressed(rightKeys) {
		target++
	}

	step := cfg.Input.TiltRate * dt.Seconds()
	switch {
	case in.tilt < target:
		in.tilt = min(target, in.tilt+step)
	case in.tilt > target:
		in.tilt = max(target, in.tilt-step)
	}
}

func (in *TiltInput) Tilt() float64 { return in.tilt }

func (in *TiltInput) Reset() { in.tilt = 0 }

func stickTilt() (float64, bool) {
	gamepadIDs = ebiten.AppendGamepadIDs(gamepadIDs[:0])
	for _, id := range gamepadIDs {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		h := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if h < -cfg.Input.AnalogDeadzone || h > cfg.Input.AnalogDeadzone {
			return gamemath.ClampFloat(h, -1, 1), true
		}
	}
	return 0, false
}

func anyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

// menuAction is one edge-triggered menu command.
type menuAction int

const (
	menuNone menuAction = iota
	menuUp
	menuDown
	menuSelect
	menuBack
)

// pollMenu reports the first menu command pressed this frame, from the
// keyboard or any standard-layout gamepad.
func pollMenu() menuAction {
	switch {
	case anyJustPressed(upKeys):
		return menuUp
	case anyJustPressed(downKeys):
		return menuDown
	case anyJustPressed(selectKeys):
		return menuSelect
	case anyJustPressed(backKeys):
		return menuBack
	}

	gamepadIDs = ebiten.AppendGamepadIDs(gamepadIDs[:0])
	for _, id := range gamepadIDs {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		switch {
		case inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonLeftTop):
			return menuUp
		case inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonLeftBottom):
			return menuDown
		case inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom):
			return menuSelect
		case inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightRight):
			return menuBack
		}
	}
	return menuNone
}

func anyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

// menuCursor moves a wrap-around selection.
func menuCursor(selected, n int, action menuAction) int {
	if n == 0 {
		return 0
	}
	switch action {
	case menuUp:
		return (selected - 1 + n) % n
	case menuDown:
		return (selected + 1) % n
	}
	return selected
}
