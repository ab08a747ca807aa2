package main

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

/*

initial distribution section.
synthesizes a fresh particle set for a chosen scenario, position
distribution and velocity distribution.

*/

type scenario int

const (
	scenarioOneCluster scenario = iota
	scenarioTwoClusters
	scenarioClusterAndBlackHole
)

type positionDistribution int

const (
	positionUniformDisk positionDistribution = iota
	positionUniformSquare
	positionGalaxy
)

type velocityDistribution int

const (
	velocityRandom velocityDistribution = iota
	velocityRotating
	velocityGalaxy
)

const (
	centralBodyMass = 1000.0
	blackHoleMass   = 2000.0

	// scale of the half-Cauchy radial profile of the galaxy distribution
	cauchyGamma = 0.25
)

// distributor generates particle sets. It owns its random state; seed it
// once at construction and nothing else touches it.
type distributor struct {
	uniform distuv.Uniform
	cauchy  distuv.Cauchy
}

func newDistributor(seed uint64) *distributor {
	src := rand.NewSource(seed)
	return &distributor{
		uniform: distuv.Uniform{Min: 0, Max: 1, Src: src},
		cauchy:  distuv.Cauchy{Mu: 0, Gamma: cauchyGamma, Src: src},
	}
}

// create builds the particle set for a scenario. n is the total particle
// count across the whole scenario.
func (d *distributor) create(
	sc scenario,
	posDist positionDistribution,
	velDist velocityDistribution,
	n int,
	maxSpeed float64,
	centralBody bool) []particle {

	switch sc {
	case scenarioTwoClusters:
		first := d.cluster(mgl64.Vec2{-0.3, -0.3}, mgl64.Vec2{0.3 * maxSpeed, 0.2 * maxSpeed}, 0.25,
			posDist, velDist, n/2, maxSpeed, centralBody)
		second := d.cluster(mgl64.Vec2{0.3, 0.3}, mgl64.Vec2{-0.3 * maxSpeed, -0.2 * maxSpeed}, 0.25,
			posDist, velDist, n-n/2, maxSpeed, centralBody)
		return append(first, second...)

	case scenarioClusterAndBlackHole:
		particles := d.cluster(mgl64.Vec2{-0.3, -0.3}, mgl64.Vec2{0.3 * maxSpeed, 0.2 * maxSpeed}, 0.25,
			posDist, velDist, n-1, maxSpeed, centralBody)
		return append(particles, particle{
			pos:  mgl64.Vec2{0.3, 0.3},
			vel:  mgl64.Vec2{-0.3 * maxSpeed, -0.2 * maxSpeed},
			mass: blackHoleMass,
		})

	default: // scenarioOneCluster
		particles := d.positions(posDist, n, centralBody)
		d.velocities(particles, velDist, maxSpeed)
		return particles
	}
}

// positions generates n particles in the unit square centered at the
// origin, optionally prepending a heavy central body at rest.
func (d *distributor) positions(posDist positionDistribution, n int, centralBody bool) []particle {
	particles := make([]particle, 0, n)
	if centralBody && n > 0 {
		particles = append(particles, particle{mass: centralBodyMass})
	}

	for len(particles) < n {
		var pos mgl64.Vec2
		switch posDist {
		case positionGalaxy:
			pos = d.galaxyVec()
		case positionUniformSquare:
			pos = d.uniformVec().Sub(mgl64.Vec2{0.5, 0.5})
		default: // positionUniformDisk
			// rejection sample the square until inside radius 1/2
			for {
				pos = d.uniformVec().Sub(mgl64.Vec2{0.5, 0.5})
				if pos.Len() < 0.5 {
					break
				}
			}
		}
		particles = append(particles, particle{pos: pos, mass: 1})
	}
	return particles
}

// velocities assigns a velocity to every particle in place.
//
// The galaxy (Keplerian) distribution sorts particles by distance from
// the origin and gives each one the circular-orbit speed for the total
// mass closer to the origin than itself. The prefix sum is inclusive, so
// each particle's own mass counts toward its "enclosed" mass; the bias
// is O(1/n) and the 2D shell theorem is an approximation to begin with.
func (d *distributor) velocities(particles []particle, velDist velocityDistribution, maxSpeed float64) {
	var enclosedMass []float64
	if velDist == velocityGalaxy {
		sort.Slice(particles, func(i, j int) bool {
			return particles[i].pos.LenSqr() < particles[j].pos.LenSqr()
		})
		enclosedMass = make([]float64, len(particles))
		sum := 0.0
		for i := range particles {
			sum += particles[i].mass
			enclosedMass[i] = sum
		}
	}

	for i := range particles {
		switch velDist {
		case velocityRandom:
			dir := d.uniformVec().Sub(mgl64.Vec2{0.5, 0.5}).Normalize()
			particles[i].vel = dir.Mul(maxSpeed * d.uniform.Rand())

		case velocityGalaxy:
			dist := particles[i].pos.Len()
			if dist <= 0.00001 {
				particles[i].vel = mgl64.Vec2{}
				break
			}
			speed := math.Sqrt(gConst * enclosedMass[i] / dist)
			// slow down particles near the center with heuristic factor
			speed *= dist / (dist + 0.005)
			particles[i].vel = perpendicular(particles[i].pos).Normalize().Mul(speed)

		default: // velocityRotating
			particles[i].vel = mgl64.Vec2{
				2 * maxSpeed * particles[i].pos.Y(),
				-2 * maxSpeed * particles[i].pos.X(),
			}
		}
	}
}

// cluster generates n particles under unit-radius conventions, then
// scales them to radius, moves them to center and adds a bulk velocity.
func (d *distributor) cluster(
	center, bulkVelocity mgl64.Vec2,
	radius float64,
	posDist positionDistribution,
	velDist velocityDistribution,
	n int,
	maxSpeed float64,
	centralBody bool) []particle {

	particles := d.positions(posDist, n, centralBody)
	d.velocities(particles, velDist, maxSpeed)
	for i := range particles {
		particles[i].pos = particles[i].pos.Mul(2 * radius).Add(center)
		particles[i].vel = particles[i].vel.Add(bulkVelocity)
	}
	return particles
}

// uniformVec samples (U, U) with U ~ U(0,1).
func (d *distributor) uniformVec() mgl64.Vec2 {
	return mgl64.Vec2{d.uniform.Rand(), d.uniform.Rand()}
}

// galaxyVec samples a radius from a Cauchy profile truncated to [-1, 1]
// and a uniform angle, giving a dense core with long sparse arms.
func (d *distributor) galaxyVec() mgl64.Vec2 {
	for {
		r := d.cauchy.Rand()
		if math.Abs(r) > 1 {
			continue
		}
		sin, cos := math.Sincos(2 * math.Pi * d.uniform.Rand())
		return mgl64.Vec2{0.5 * r * cos, 0.5 * r * sin}
	}
}
