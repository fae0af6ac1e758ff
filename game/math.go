package game

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// HorizontalDistance returns the distance between two positions ignoring the
// vertical axis.
func HorizontalDistance(from, to mgl64.Vec3) float64 {
	dx, dz := to.X()-from.X(), to.Z()-from.Z()
	return math.Sqrt(dx*dx + dz*dz)
}

// Round64 will round a float64 to a given precision.
func Round64(val float64, precision int) float64 {
	pwr := math.Pow(10, float64(precision))
	return math.Round(val*pwr) / pwr
}

// Round32 will round a float32 to a given precision.
func Round32(val float32, precision int) float32 {
	pwr := math32.Pow(10, float32(precision))
	return math32.Round(val*pwr) / pwr
}

// WrapDegrees normalizes an angle in degrees to the [0, 360) range.
func WrapDegrees(deg float32) float32 {
	deg = math32.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}

// DirectionVector returns a direction vector from the given yaw and pitch
// values, both in degrees.
func DirectionVector(yaw, pitch float32) mgl64.Vec3 {
	yawRad, pitchRad := float64(mgl32.DegToRad(yaw)), float64(mgl32.DegToRad(pitch))
	y := -math.Sin(pitchRad)
	xz := math.Cos(pitchRad)
	x := -xz * math.Sin(yawRad)
	z := xz * math.Cos(yawRad)
	return mgl64.Vec3{x, y, z}.Normalize()
}

// Vec32To64 converts a 32-bit vector to a 64-bit one.
func Vec32To64(vec3 mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(vec3[0]), float64(vec3[1]), float64(vec3[2])}
}

// Vec64To32 converts a 64-bit vector to a 32-bit one.
func Vec64To32(vec3 mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(vec3[0]), float32(vec3[1]), float32(vec3[2])}
}

// AbsInt64 will return the absolute value of an int64.
func AbsInt64(a int64) int64 {
	if a < 0 {
		a = -a
	}

	return a
}
