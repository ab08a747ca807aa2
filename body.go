package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// particle is a point mass. acc holds the acceleration computed on the
// previous step; velocity-Verlet needs it to finish the velocity update.
type particle struct {
	pos  mgl64.Vec2
	vel  mgl64.Vec2
	acc  mgl64.Vec2
	mass float64
}

func (p particle) String() string {
	return fmt.Sprintf("m: %.4f\np: [%.4f, %.4f]\nv: [%.4f, %.4f]\n",
		p.mass, p.pos.X(), p.pos.Y(), p.vel.X(), p.vel.Y())
}
