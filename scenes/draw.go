package scenes

import (
	"image/color"

	"github.com/automoto/astrododge/assets"
	cfg "github.com/automoto/astrododge/config"
	"github.com/automoto/astrododge/gamemath"
	"github.com/automoto/astrododge/physics"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

const outlineWidth = 2

// view maps world units onto the screen. World Y grows upward.
type view struct {
	scale      float64
	minX, maxY float64
}

func newView(screen *ebiten.Image) view {
	w := float64(screen.Bounds().Dx())
	return view{
		scale: w / (cfg.World.MaxX - cfg.World.MinX),
		minX:  cfg.World.MinX,
		maxY:  cfg.World.MaxY,
	}
}

func (v view) point(p gamemath.Vec3) (float32, float32) {
	return float32((p.X - v.minX) * v.scale), float32((v.maxY - p.Y) * v.scale)
}

func (v view) length(l float64) float32 {
	return float32(l * v.scale)
}

// drawModel strokes a model's closed outline around pos.
func drawModel(screen *ebiten.Image, v view, m *assets.Model, pos gamemath.Vec3, scale, angle float64, clr color.Color) {
	if m == nil || len(m.Outline) < 2 {
		return
	}
	at := func(i int) (float32, float32) {
		p := m.Outline[i%len(m.Outline)]
		local := gamemath.V3(p[0]*scale, p[1]*scale, 0).RotateXY(angle)
		return v.point(pos.Add(local))
	}
	for i := range m.Outline {
		x0, y0 := at(i)
		x1, y1 := at(i + 1)
		vector.StrokeLine(screen, x0, y0, x1, y1, outlineWidth, clr, true)
	}
}

// drawBody outlines a body's collision shape.
func drawBody(screen *ebiten.Image, v view, b *physics.Body, clr color.Color) {
	if b == nil || !b.Enabled() {
		return
	}
	x, y := v.point(b.Position())
	half := b.HalfExtents()
	if b.Shape() == physics.ShapeSphere {
		vector.StrokeCircle(screen, x, y, v.length(half.X), 1, clr, true)
		return
	}
	w, h := v.length(half.X), v.length(half.Y)
	vector.StrokeRect(screen, x-w, y-h, 2*w, 2*h, 1, clr, false)
}

// drawBar fills a horizontal gauge. ratio is clamped to [0, 1].
func drawBar(screen *ebiten.Image, x, y, w, h float64, ratio float64, fill color.Color) {
	vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), cfg.HUD.BarBackColor, false)
	vector.FillRect(screen, float32(x), float32(y), float32(w*gamemath.Clamp01(ratio)), float32(h), fill, false)
}

// drawCentered draws s horizontally centred on the screen with its baseline
// at y.
func drawCentered(screen *ebiten.Image, s string, face font.Face, y int, clr color.Color) {
	bounds := text.BoundString(face, s)
	x := (screen.Bounds().Dx() - bounds.Dx()) / 2
	text.Draw(screen, s, face, x, y, clr)
}

// drawScaled draws s centred on (cx, cy) at the given scale.
func drawScaled(screen *ebiten.Image, s string, face font.Face, cx, cy, scale float64, clr color.Color) {
	if scale <= 0 {
		return
	}
	bounds := text.BoundString(face, s)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(bounds.Dx())/2, float64(bounds.Dy())/2)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(cx, cy)
	op.ColorScale.ScaleWithColor(clr)
	text.DrawWithOptions(screen, s, face, op)
}

func withAlpha(c color.RGBA, a float64) color.RGBA {
	f := gamemath.Clamp01(a)
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: uint8(float64(c.A) * f),
	}
}
