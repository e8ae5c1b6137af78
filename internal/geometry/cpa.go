package geometry

import "math"

// CPA computes the distance and time of the closest point of approach
// between two vessels under straight-line, constant-velocity projection.
//
// When there is effectively no relative motion, tcpa is +Inf and dcpa is the
// current separation. A negative tcpa means the closest point already
// passed; callers interpret the sign, it is not clamped here.
func CPA(osPos Position, osVel Velocity, tsPos Position, tsVel Velocity) (dcpa, tcpa float64) {
	rx := tsPos.X - osPos.X
	ry := tsPos.Y - osPos.Y
	vx := tsVel.VX - osVel.VX
	vy := tsVel.VY - osVel.VY

	relSpeedSq := vx*vx + vy*vy
	if relSpeedSq < Epsilon {
		return math.Hypot(rx, ry), math.Inf(1)
	}

	tcpa = -(rx*vx + ry*vy) / relSpeedSq
	dcpa = math.Hypot(rx+vx*tcpa, ry+vy*tcpa)
	return dcpa, tcpa
}
