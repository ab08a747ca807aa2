package main

import (
	"github.com/go-gl/mathgl/mgl64"
)

/*

vector helpers.
mgl64.Vec2 covers the usual algebra (add, sub, scale, dot, length,
normalize); only the few operations it lacks live here.

*/

// distance between two points.
func distance(a, b mgl64.Vec2) float64 {
	return b.Sub(a).Len()
}

// squared distance between two points.
func distanceSq(a, b mgl64.Vec2) float64 {
	return b.Sub(a).LenSqr()
}

// perpendicular rotates v a quarter turn in the positive rotational sense,
// (x, y) -> (y, -x).
func perpendicular(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{v.Y(), -v.X()}
}
