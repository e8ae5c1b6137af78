// Package geometry provides the planar navigation math used by the
// encounter classifier and risk assessor: angle normalization, bearings,
// heading/velocity conversion, and bearing rate.
//
// Positions live in an arbitrary local tangent plane in meters, shared by
// all vessels. Headings are degrees in [0, 360), clockwise from the plane's
// north axis (+Y).
package geometry

import "math"

// Epsilon guards divisions by near-zero range or relative speed.
const Epsilon = 1e-6

const degPerRad = 180 / math.Pi

// Position is a point in the local tangent plane, meters.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Velocity is a planar velocity vector, m/s.
type Velocity struct {
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

// NormalizeAngle reduces an angle in degrees to [-180, 180).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a+180, 360)
	if a < 0 {
		a += 360
	}
	return a - 180
}

// NormalizeAngle360 reduces an angle in degrees to [0, 360).
func NormalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// RelativeBearing returns the bearing of the target from own ship relative
// to own ship's heading, degrees in [0, 360). 0 means the target is dead
// ahead.
func RelativeBearing(osPos Position, osHeadingDeg float64, tsPos Position) float64 {
	dx := tsPos.X - osPos.X
	dy := tsPos.Y - osPos.Y
	absolute := math.Atan2(dx, dy) * degPerRad
	return NormalizeAngle360(absolute - osHeadingDeg)
}

// Distance returns the Euclidean distance between two positions, meters.
func Distance(p1, p2 Position) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// RelativeVelocity returns the target's velocity relative to own ship.
func RelativeVelocity(osVel, tsVel Velocity) Velocity {
	return Velocity{VX: tsVel.VX - osVel.VX, VY: tsVel.VY - osVel.VY}
}

// HeadingToVelocity converts a heading in degrees and a speed into a
// velocity vector. A zero speed yields the zero vector for any heading.
func HeadingToVelocity(headingDeg, speed float64) Velocity {
	rad := headingDeg / degPerRad
	return Velocity{VX: speed * math.Sin(rad), VY: speed * math.Cos(rad)}
}

// VelocityToHeadingSpeed converts a velocity vector into heading degrees in
// [0, 360) and speed. When the speed is near zero the direction is
// undefined and heading 0 is returned by convention.
func VelocityToHeadingSpeed(v Velocity) (headingDeg, speed float64) {
	speed = math.Hypot(v.VX, v.VY)
	if speed < Epsilon {
		return 0, speed
	}
	headingDeg = NormalizeAngle360(math.Atan2(v.VX, v.VY) * degPerRad)
	return headingDeg, speed
}

// AspectAngle returns the bearing of own ship as seen from the target,
// relative to the target's heading, degrees in [0, 360). 0 means own ship
// is dead ahead of the target, 180 means own ship is astern of it.
func AspectAngle(tsHeadingDeg float64, osPos, tsPos Position) float64 {
	dx := osPos.X - tsPos.X
	dy := osPos.Y - tsPos.Y
	absolute := math.Atan2(dx, dy) * degPerRad
	return NormalizeAngle360(absolute - tsHeadingDeg)
}

// BearingRate returns the rate of change of the target's bearing from own
// ship in degrees per second. A near-zero rate with decreasing range is the
// classic collision indicator. When the ships are coincident the rate is 0
// rather than blowing up on the |r|^2 division.
func BearingRate(osPos Position, osVel Velocity, tsPos Position, tsVel Velocity) float64 {
	dx := tsPos.X - osPos.X
	dy := tsPos.Y - osPos.Y
	rangeSq := dx*dx + dy*dy
	if rangeSq < Epsilon {
		return 0
	}
	dvx := tsVel.VX - osVel.VX
	dvy := tsVel.VY - osVel.VY
	// (r x v_rel) / |r|^2, rad/s
	cross := dx*dvy - dy*dvx
	return cross / rangeSq * degPerRad
}
