package gamemath

import "github.com/tanema/gween/ease"

// Smoothstep eases with 3t²-2t³ over the elapsed/duration ratio clamped to
// [0,1]. It satisfies ease.TweenFunc so it can drive a gween.Tween.
var Smoothstep ease.TweenFunc = func(t, b, c, d float32) float32 {
	if d <= 0 {
		return b + c
	}
	x := Clamp01(float64(t / d))
	return b + c*float32(SmoothstepRatio(x))
}

// SmoothstepRatio applies the smoothstep curve to an already clamped ratio.
func SmoothstepRatio(x float64) float64 {
	return x * x * (3 - 2*x)
}

func Clamp01(x float64) float64 {
	return ClampFloat(x, 0, 1)
}

// ClampFloat limits v to [lo, hi].
func ClampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
