package gaze

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Point3 is a position in scene space.
type Point3 = mgl64.Vec3

// RestingYaw corrects for the eye mesh, which initially looks left rather than
// down the z axis.
const RestingYaw = math.Pi / 2

// Angles is the orientation of an eye in radians.
type Angles struct {
	Yaw   float64
	Pitch float64
}

// Compute returns the yaw and pitch that turn an eye at center towards target.
// The target depth is used as-is; eye centers are expected to sit on z=0.
func Compute(center, target Point3) Angles {
	dz := target.Z()
	return Angles{
		Yaw:   ratioAngle(target.X()-center.X(), dz) + RestingYaw,
		Pitch: -ratioAngle(target.Y()-center.Y(), dz),
	}
}

// ratioAngle is atan(opposite/adjacent). 0/0 looks straight ahead.
func ratioAngle(opposite, adjacent float64) float64 {
	if opposite == 0 && adjacent == 0 {
		return 0
	}
	return math.Atan(opposite / adjacent)
}
