package main

import (
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

/*

simulation driver section.
owns the particle set and integrator state, advances one velocity-Verlet
step per frame with one of five interchangeable acceleration kernels.

*/

// gravitational constant, used consistently across the simulation.
const gConst = 1.0

// softening. epsLo is the lower clamp on pair distance squared in the
// pairwise kernels; epsHi the upper clamp on inverse distance squared in
// tree queries. distFloor is the matching floor on plain distances.
const (
	epsLo = 1e-4
	epsHi = 1e4
)

const distFloor = 1e-2 // sqrt(epsLo)

// defaults
const (
	defaultBodies   = 10000
	defaultDt       = 1e-6
	defaultTheta    = 0.5
	defaultMaxSpeed = 250.0
)

// debugLog enables debug-level diagnostics (dropped particles etc.).
var debugLog bool

type kernel int

// acceleration kernels, distinguished only by algorithm and
// parallelization strategy.
const (
	kernelBruteForce kernel = iota
	kernelBruteForceThreads
	kernelBruteForceTasks
	kernelBarnesHut
	kernelBarnesHutThreads
)

type runState int

const (
	statePaused runState = iota
	stateRunning
	stateExiting
)

// simulation owns the particle set and all integration parameters. All
// mutable state is confined to the loop goroutine; the threaded kernels
// fan out read-only over the particles and write disjoint slices of the
// acceleration vector.
type simulation struct {
	particles []particle
	dist      *distributor

	nBodies  int
	scenario scenario
	posDist  positionDistribution
	velDist  velocityDistribution
	maxSpeed float64

	krnl       kernel
	state      runState
	renderTree bool
	dt         float64
	theta      float64
	workers    int
	maxFrames  int // stop after this many frames; 0 means run until exiting

	area       squareArea
	frameCount int

	commands chan command
}

func newSimulation(n int, dist *distributor) *simulation {
	if n < 1 {
		n = 1
	}
	workers := runtime.NumCPU() / 2 // leave room for the renderer
	if workers < 1 {
		workers = 1
	}
	return &simulation{
		dist:     dist,
		nBodies:  n,
		scenario: scenarioOneCluster,
		posDist:  positionUniformDisk,
		velDist:  velocityRotating,
		maxSpeed: defaultMaxSpeed,
		krnl:     kernelBruteForceThreads,
		state:    statePaused,
		dt:       defaultDt,
		theta:    defaultTheta,
		workers:  workers,
		area:     squareArea{corner: mgl64.Vec2{-1, -1}, side: 2},
		commands: make(chan command, 64),
	}
}

// Commands is the channel the input layer feeds. Commands take effect at
// the next iteration of the frame loop, in arrival order.
func (s *simulation) Commands() chan<- command {
	return s.commands
}

// restart regenerates the particle set for the current scenario and
// resets the frame counter.
func (s *simulation) restart() {
	s.particles = s.dist.create(s.scenario, s.posDist, s.velDist, s.nBodies, s.maxSpeed, true)
	s.frameCount = 0
	s.renderTree = false
	s.state = stateRunning
}

// run drives the frame loop until an exit command arrives or maxFrames
// (when non-zero) frames have been simulated: poll input,
// advance one step if running, emit a snapshot, report once a second.
func (s *simulation) run(r renderer) {
	s.restart()
	s.state = statePaused

	titleStamp := time.Now()
	titleFrames := 0

	for s.state != stateExiting {
		s.drainCommands()

		if s.state == stateRunning {
			s.step()
			titleFrames++
			if s.maxFrames > 0 && s.frameCount >= s.maxFrames {
				s.state = stateExiting
			}
		} else if s.state == statePaused {
			time.Sleep(16 * time.Millisecond)
		}

		var root *treeNode
		if s.renderTree {
			root = s.buildTree()
			root.calculateCenterOfMass()
		}
		r.render(s.snapshot(root))

		if time.Since(titleStamp) >= time.Second {
			r.updateTitle(len(s.particles), titleFrames)
			titleStamp = time.Now()
			titleFrames = 0
		}
	}
}

// step advances the simulation one velocity-Verlet step:
// positions from the retained accelerations, fresh accelerations from
// the selected kernel, then velocities from the average of both.
func (s *simulation) step() {
	halfDtSq := 0.5 * s.dt * s.dt
	for i := range s.particles {
		p := &s.particles[i]
		p.pos = p.pos.Add(p.vel.Mul(s.dt)).Add(p.acc.Mul(halfDtSq))
	}

	accelerations := make([]mgl64.Vec2, len(s.particles))
	switch s.krnl {
	case kernelBruteForce:
		s.bruteForce(accelerations)
	case kernelBruteForceTasks:
		s.bruteForceTasks(accelerations)
	case kernelBarnesHut:
		s.barnesHut(accelerations)
	case kernelBarnesHutThreads:
		s.barnesHutThreads(accelerations)
	default:
		s.bruteForceThreads(accelerations)
	}

	for i := range s.particles {
		p := &s.particles[i]
		p.vel = p.vel.Add(p.acc.Add(accelerations[i]).Mul(0.5 * s.dt))
		p.acc = accelerations[i]
	}

	s.frameCount++
}

// bruteForce is the exact O(n²) kernel. It walks each pair once and
// applies the force to both particles.
func (s *simulation) bruteForce(accelerations []mgl64.Vec2) {
	for i := 0; i < len(s.particles)-1; i++ {
		posI := s.particles[i].pos
		massI := s.particles[i].mass

		for j := i + 1; j < len(s.particles); j++ {
			posJ := s.particles[j].pos
			massJ := s.particles[j].mass

			distSq := distanceSq(posI, posJ)
			if distSq < epsLo {
				distSq = epsLo
			}
			force := posJ.Sub(posI).Normalize().Mul(gConst * massI * massJ / distSq)
			accelerations[i] = accelerations[i].Add(force.Mul(1 / massI))
			accelerations[j] = accelerations[j].Sub(force.Mul(1 / massJ))
		}
	}
}

// bruteForceChunk computes the full acceleration for particles
// [chunkStart, chunkEnd) by iterating over all other particles. No
// symmetry shortcut; cross-chunk writes would race.
func (s *simulation) bruteForceChunk(accelerations []mgl64.Vec2, chunkStart, chunkEnd int) {
	for i := chunkStart; i < chunkEnd; i++ {
		posI := s.particles[i].pos

		var acceleration mgl64.Vec2
		for j := range s.particles {
			if i == j {
				continue
			}
			posJ := s.particles[j].pos
			distSq := distanceSq(posI, posJ)
			if distSq < epsLo {
				distSq = epsLo
			}
			acceleration = acceleration.Add(
				posJ.Sub(posI).Normalize().Mul(gConst * s.particles[j].mass / distSq))
		}
		accelerations[i] = accelerations[i].Add(acceleration)
	}
}

// bruteForceThreads partitions the particles into contiguous chunks, one
// goroutine each. Chunks write disjoint index ranges of the shared
// acceleration vector, so no synchronization beyond the join is needed.
func (s *simulation) bruteForceThreads(accelerations []mgl64.Vec2) {
	wg := sync.WaitGroup{}
	for _, c := range chunks(len(s.particles), s.workers) {
		wg.Add(1)
		go func(chunkStart, chunkEnd int) {
			s.bruteForceChunk(accelerations, chunkStart, chunkEnd)
			wg.Done()
		}(c[0], c[1])
	}
	wg.Wait()
}

// bruteForceTasks is the same partitioning and kernel as
// bruteForceThreads, but each chunk is an independent task collected via
// a completion channel. Semantically equivalent; kept for benchmarking
// spawn-vs-collect overheads.
func (s *simulation) bruteForceTasks(accelerations []mgl64.Vec2) {
	cs := chunks(len(s.particles), s.workers)
	done := make(chan struct{}, len(cs))
	for _, c := range cs {
		go func(chunkStart, chunkEnd int) {
			s.bruteForceChunk(accelerations, chunkStart, chunkEnd)
			done <- struct{}{}
		}(c[0], c[1])
	}
	for range cs {
		<-done
	}
}

// barnesHut builds a fresh tree, rolls up the mass statistics and
// queries it once per particle. O(n log n) for well-distributed sets.
func (s *simulation) barnesHut(accelerations []mgl64.Vec2) {
	root := s.buildTree()
	root.calculateCenterOfMass()
	for i := range s.particles {
		accelerations[i] = root.acceleration(&s.particles[i], s.theta)
	}
}

// barnesHutThreads builds and rolls up serially, then fans the per-
// particle queries out over the worker chunks. The tree is read-only
// during queries, so no locking is required.
func (s *simulation) barnesHutThreads(accelerations []mgl64.Vec2) {
	root := s.buildTree()
	root.calculateCenterOfMass()

	wg := sync.WaitGroup{}
	for _, c := range chunks(len(s.particles), s.workers) {
		wg.Add(1)
		go func(chunkStart, chunkEnd int) {
			for i := chunkStart; i < chunkEnd; i++ {
				accelerations[i] = accelerations[i].Add(root.acceleration(&s.particles[i], s.theta))
			}
			wg.Done()
		}(c[0], c[1])
	}
	wg.Wait()
}

// buildTree refits the root area every 10 frames, then inserts every
// particle into a fresh root. Particles that drifted outside the area
// since the last refit are dropped by the tree for this frame.
func (s *simulation) buildTree() *treeNode {
	if s.frameCount%10 == 0 {
		s.area = s.particleBounds()
	}

	root := newTree(s.area)
	for i := range s.particles {
		root.insert(&s.particles[i])
	}
	return root
}

// particleBounds is the axis-aligned bounding square of the particle
// set: top-left at the coordinate minima, side the larger extent.
func (s *simulation) particleBounds() squareArea {
	if len(s.particles) == 0 {
		return s.area
	}
	stats := calculateStats(s.particles)
	side := stats[0].max - stats[0].min
	if dy := stats[1].max - stats[1].min; dy > side {
		side = dy
	}
	if side < distFloor {
		// degenerate bounds (single or coincident particles)
		side = distFloor
	}
	// min + (max-min) can round below max; grow the side until the
	// extreme particles are covered (boundaries count as inside)
	for stats[0].min+side < stats[0].max || stats[1].min+side < stats[1].max {
		side = math.Nextafter(side, math.Inf(1))
	}
	return squareArea{
		corner: mgl64.Vec2{stats[0].min, stats[1].min},
		side:   side,
	}
}

// snapshot copies the end-of-step particle state for the renderer.
func (s *simulation) snapshot(root *treeNode) *frameJob {
	bodies := make([]particle, len(s.particles))
	copy(bodies, s.particles)
	return &frameJob{
		Frame:  s.frameCount,
		Bodies: bodies,
		Tree:   root,
	}
}

// chunks partitions [0, n) into at most workers roughly equal contiguous
// ranges. The partition is deterministic for a given (n, workers).
func chunks(n, workers int) [][2]int {
	if workers < 1 {
		workers = 1
	}
	size := (n + workers - 1) / workers
	var out [][2]int
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		out = append(out, [2]int{lo, hi})
	}
	return out
}
