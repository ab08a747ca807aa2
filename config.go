package main

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

/*

configuration section.
an optional INI file supplies the simulation parameters; flag values
applied afterwards adjust them.

*/

const exampleConfigFile = `[Simulation]

# Number of bodies to simulate.
Bodies = 10000

# Integrator step. May be negative to run time backwards.
Step = 0.000001

# Barnes-Hut opening-angle threshold in [0, 1].
# Smaller is more accurate and slower.
Theta = 0.5

# Largest generated speed, and the scale of cluster bulk velocities.
MaxSpeed = 250.0

# One of: brute-force, brute-force-threads, brute-force-tasks,
# barnes-hut, barnes-hut-threads.
Kernel = brute-force-threads

# One of: one-cluster, two-clusters, cluster-and-black-hole.
Scenario = one-cluster

# One of: uniform-disk, uniform-square, galaxy.
Positions = uniform-disk

# One of: random, rotating, galaxy.
Velocities = rotating

# Sqlite file to record frame snapshots into. Empty disables recording.
# Record = frames.sqlite
`

type config struct {
	Simulation struct {
		Bodies     int
		Step       float64
		Theta      float64
		MaxSpeed   float64
		Kernel     string
		Scenario   string
		Positions  string
		Velocities string
		Record     string
	}
}

func defaultConfig() *config {
	cfg := &config{}
	cfg.Simulation.Bodies = defaultBodies
	cfg.Simulation.Step = defaultDt
	cfg.Simulation.Theta = defaultTheta
	cfg.Simulation.MaxSpeed = defaultMaxSpeed
	cfg.Simulation.Kernel = "brute-force-threads"
	cfg.Simulation.Scenario = "one-cluster"
	cfg.Simulation.Positions = "uniform-disk"
	cfg.Simulation.Velocities = "rotating"
	return cfg
}

// readConfig merges the file at fname into the defaults.
func readConfig(fname string) (*config, error) {
	cfg := defaultConfig()
	if err := gcfg.ReadFileInto(cfg, fname); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseKernel(s string) (kernel, error) {
	switch s {
	case "brute-force":
		return kernelBruteForce, nil
	case "brute-force-threads":
		return kernelBruteForceThreads, nil
	case "brute-force-tasks":
		return kernelBruteForceTasks, nil
	case "barnes-hut":
		return kernelBarnesHut, nil
	case "barnes-hut-threads":
		return kernelBarnesHutThreads, nil
	}
	return 0, fmt.Errorf("unknown kernel %q", s)
}

func parseScenario(s string) (scenario, error) {
	switch s {
	case "one-cluster":
		return scenarioOneCluster, nil
	case "two-clusters":
		return scenarioTwoClusters, nil
	case "cluster-and-black-hole":
		return scenarioClusterAndBlackHole, nil
	}
	return 0, fmt.Errorf("unknown scenario %q", s)
}

func parsePositions(s string) (positionDistribution, error) {
	switch s {
	case "uniform-disk":
		return positionUniformDisk, nil
	case "uniform-square":
		return positionUniformSquare, nil
	case "galaxy":
		return positionGalaxy, nil
	}
	return 0, fmt.Errorf("unknown position distribution %q", s)
}

func parseVelocities(s string) (velocityDistribution, error) {
	switch s {
	case "random":
		return velocityRandom, nil
	case "rotating":
		return velocityRotating, nil
	case "galaxy":
		return velocityGalaxy, nil
	}
	return 0, fmt.Errorf("unknown velocity distribution %q", s)
}
