// implements an interactive 2d n-body simulation.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

func main() {
	configFile := flag.String("config", "", "simulation config file to load")
	example := flag.Bool("example-config", false, "print an example config file and exit")
	numBodies := flag.Int("n", 0, "number of bodies (overrides config)")
	frames := flag.Int("frames", 0, "frames to simulate before exiting; 0 runs until an exit command")
	seed := flag.Uint64("seed", 0, "distribution seed; 0 seeds from the clock")
	record := flag.String("record", "", "sqlite file to record frames into (overrides config)")
	logPath := flag.String("log", "", "location to write log statements to; default is stderr")
	paused := flag.Bool("paused", false, "start paused and wait for a run command")
	flag.BoolVar(&debugLog, "debug", false, "log debug diagnostics")
	flag.Parse()

	if *example {
		fmt.Print(exampleConfigFile)
		return
	}

	if *logPath != "" {
		lf, err := os.Create(*logPath)
		if err != nil {
			log.Fatalln(err)
		}
		log.SetOutput(lf)
		defer lf.Close()
	}

	cfg := defaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = readConfig(*configFile)
		if err != nil {
			log.Fatalln(err)
		}
	}
	if *numBodies > 0 {
		cfg.Simulation.Bodies = *numBodies
	}
	if *record != "" {
		cfg.Simulation.Record = *record
	}

	krnl, err := parseKernel(cfg.Simulation.Kernel)
	if err != nil {
		log.Fatalln(err)
	}
	sc, err := parseScenario(cfg.Simulation.Scenario)
	if err != nil {
		log.Fatalln(err)
	}
	posDist, err := parsePositions(cfg.Simulation.Positions)
	if err != nil {
		log.Fatalln(err)
	}
	velDist, err := parseVelocities(cfg.Simulation.Velocities)
	if err != nil {
		log.Fatalln(err)
	}

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	sim := newSimulation(cfg.Simulation.Bodies, newDistributor(*seed))
	sim.krnl = krnl
	sim.scenario = sc
	sim.posDist = posDist
	sim.velDist = velDist
	sim.dt = cfg.Simulation.Step
	sim.theta = cfg.Simulation.Theta
	sim.maxSpeed = cfg.Simulation.MaxSpeed
	sim.maxFrames = *frames

	fmt.Printf("bodies: %d\nstep: %g\ntheta: %.1f\nkernel: %s\nscenario: %s\nworkers: %d\n",
		cfg.Simulation.Bodies,
		cfg.Simulation.Step,
		cfg.Simulation.Theta,
		cfg.Simulation.Kernel,
		cfg.Simulation.Scenario,
		sim.workers)

	if !*paused {
		sim.Commands() <- cmdRun
	}

	start := time.Now()
	if cfg.Simulation.Record != "" {
		db, err := openRecorder(cfg.Simulation.Record)
		if err != nil {
			log.Fatalln(err)
		}
		rend := newChannelRenderer(32)
		wg := &sync.WaitGroup{}
		wg.Add(1)
		go frameToSqlite(db, wg, rend.ch)

		sim.run(rend)

		rend.close()
		wg.Wait()
		if err := createIndices(db); err != nil {
			log.Fatalln(err)
		}
		db.Close()
	} else {
		sim.run(consoleRenderer{})
	}

	fmt.Printf("\nDone. Took %s\n", time.Since(start).Truncate(time.Second))
}
