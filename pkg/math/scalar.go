package math

import "math"

// Pi as float32.
const Pi = float32(math.Pi)

// Abs returns |x|.
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float32) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Damp returns the exponential smoothing factor for rate over dt.
// Blending by it is frame-rate independent: x += (target - x) * Damp(rate, dt).
func Damp(rate, dt float32) float32 {
	return 1 - float32(math.Exp(float64(-rate*dt)))
}

// WrapAngle wraps an angle to (-Pi, Pi].
func WrapAngle(a float32) float32 {
	w := float32(math.Remainder(float64(a), 2*math.Pi))
	if w <= -Pi {
		w += 2 * Pi
	}
	return w
}

// LerpAngle interpolates between two angles along the shorter arc.
func LerpAngle(from, to, t float32) float32 {
	return from + WrapAngle(to-from)*t
}

// SnapAngle rounds an angle to the nearest multiple of step.
func SnapAngle(a, step float32) float32 {
	return float32(math.Round(float64(a/step))) * step
}
