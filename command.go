package main

/*

command section.
the discrete command stream the input layer feeds into the driver. the
mapping from keystrokes to commands is the windowing layer's concern;
the driver accepts any command at any frame.

*/

type command int

const (
	cmdRun command = iota
	cmdPause
	cmdExit

	cmdUseBruteForce
	cmdUseBruteForceThreads
	cmdUseBruteForceTasks
	cmdUseBarnesHut
	cmdUseBarnesHutThreads

	cmdScenarioOneCluster
	cmdScenarioTwoClusters
	cmdScenarioClusterAndBlackHole

	cmdMoreBodies
	cmdFewerBodies
	cmdSpeedUp
	cmdSlowDown
	cmdReverse
	cmdIncreaseTheta
	cmdDecreaseTheta
	cmdToggleTreeOverlay
)

// drainCommands applies every command queued since the last loop
// iteration, in arrival order, without blocking.
func (s *simulation) drainCommands() {
	for {
		select {
		case cmd := <-s.commands:
			s.apply(cmd)
		default:
			return
		}
	}
}

func (s *simulation) apply(cmd command) {
	switch cmd {
	case cmdRun:
		s.state = stateRunning
	case cmdPause:
		s.state = statePaused
	case cmdExit:
		s.state = stateExiting

	case cmdUseBruteForce:
		s.krnl = kernelBruteForce
	case cmdUseBruteForceThreads:
		s.krnl = kernelBruteForceThreads
	case cmdUseBruteForceTasks:
		s.krnl = kernelBruteForceTasks
	case cmdUseBarnesHut:
		s.krnl = kernelBarnesHut
	case cmdUseBarnesHutThreads:
		s.krnl = kernelBarnesHutThreads

	case cmdScenarioOneCluster:
		s.setScenario(scenarioOneCluster)
	case cmdScenarioTwoClusters:
		s.setScenario(scenarioTwoClusters)
	case cmdScenarioClusterAndBlackHole:
		s.setScenario(scenarioClusterAndBlackHole)

	case cmdMoreBodies:
		s.nBodies += 1000
		s.restart()
	case cmdFewerBodies:
		if s.nBodies > 1000 {
			s.nBodies -= 1000
		}
		if s.nBodies < 1000 {
			s.nBodies = 1000
		}
		s.restart()

	case cmdSpeedUp:
		s.dt *= 1.1
	case cmdSlowDown:
		s.dt *= 0.9
	case cmdReverse:
		s.dt = -s.dt

	case cmdIncreaseTheta:
		s.theta += 0.1
		if s.theta > 1 {
			s.theta = 1
		}
	case cmdDecreaseTheta:
		s.theta -= 0.1
		if s.theta < 0 {
			s.theta = 0
		}

	case cmdToggleTreeOverlay:
		s.renderTree = !s.renderTree
	}
}

func (s *simulation) setScenario(sc scenario) {
	s.scenario = sc
	s.restart()
}
