package engine

import (
	"math"
	"time"
)

const (
	SpinDuration     = 5 * time.Second
	SpinBaseRotation = 1800.0
)

// Spin is one wheel animation. The angle only ever feeds the display; the
// result comes from TotalRotation once the spin is done.
type Spin struct {
	TotalRotation float64
	Duration      time.Duration
}

// NewSpin plans five full turns plus a uniform extra in [0, 360).
func NewSpin(rnd Rand) Spin {
	return Spin{
		TotalRotation: SpinBaseRotation + rnd.Float64()*360,
		Duration:      SpinDuration,
	}
}

func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// Progress is the linear fraction of the spin elapsed, clamped to [0, 1].
func (s Spin) Progress(elapsed time.Duration) float64 {
	if s.Duration <= 0 || elapsed >= s.Duration {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(s.Duration)
}

// AngleAt is the wheel rotation in degrees after elapsed time.
func (s Spin) AngleAt(elapsed time.Duration) float64 {
	return s.TotalRotation * EaseOutCubic(s.Progress(elapsed))
}

func (s Spin) Done(elapsed time.Duration) bool {
	return s.Progress(elapsed) >= 1
}
