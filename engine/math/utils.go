package math

import (
	m "math"

	"golang.org/x/exp/constraints"
)

/** @brief The multiplier used to convert degrees to radians. */
const DegToRadMultiplier float32 = m.Pi / 180.0

/** @brief The multiplier used to convert radians to degrees. */
const RadToDegMultiplier float32 = 180.0 / m.Pi

// Clamp returns the value of val, limited by min and max.
func Clamp[T constraints.Ordered](val, low, high T) T {
	if val < low {
		return low
	}
	if val > high {
		return high
	}
	return val
}

/**
 * @brief Converts the provided degrees to radians.
 */
func DegToRad(degrees float32) float32 {
	return degrees * DegToRadMultiplier
}

/**
 * @brief Converts the provided radians to degrees.
 */
func RadToDeg(radians float32) float32 {
	return radians * RadToDegMultiplier
}

func Sin(x float32) float32 {
	return float32(m.Sin(float64(x)))
}

func Cos(x float32) float32 {
	return float32(m.Cos(float64(x)))
}

func Tan(x float32) float32 {
	return float32(m.Tan(float64(x)))
}

func Sqrt(x float32) float32 {
	return float32(m.Sqrt(float64(x)))
}

func Abs(x float32) float32 {
	return abs(x)
}

func Asin(x float32) float32 {
	return float32(m.Asin(float64(x)))
}

func Atan2(y, x float32) float32 {
	return float32(m.Atan2(float64(y), float64(x)))
}
