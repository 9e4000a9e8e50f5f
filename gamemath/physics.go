package gamemath

import "math/rand"

// ApplyDamping scales a speed component down by damping per second.
func ApplyDamping(speed, damping, dt float64) float64 {
	if damping <= 0 {
		return speed
	}
	f := 1 - damping*dt
	if f < 0 {
		return 0
	}
	return speed * f
}

// Range is an inclusive min/max pair used for randomised tunables.
type Range struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max"`
}

// Sample returns a uniform value in [Min, Max).
func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Symmetric returns a uniform value in [-v, v).
func Symmetric(rng *rand.Rand, v float64) float64 {
	return (rng.Float64()*2 - 1) * v
}
