package anim

import "math"

// Easing maps normalized time in [0,1] to normalized progress in [0,1].
type Easing func(t float64) float64

// Linear progresses at constant speed.
func Linear(t float64) float64 { return t }

// EaseOut decelerates into the target.
func EaseOut(t float64) float64 { return 1 - (1-t)*(1-t) }

// EaseInOut accelerates, then decelerates.
func EaseInOut(t float64) float64 { return t * t * (3 - 2*t) }

// EaseOutExpo front-loads almost all of the movement.
func EaseOutExpo(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

// ByName returns the easing for a settings name. Unknown names fall
// back to EaseOut.
func ByName(name string) Easing {
	switch name {
	case "linear":
		return Linear
	case "ease-in-out":
		return EaseInOut
	case "ease-out-expo":
		return EaseOutExpo
	default:
		return EaseOut
	}
}
