package aviary

// Catch is Surround with a fleeing target: after the drones move, the
// target moves directly away from the swarm centroid at a fixed speed,
// clamped to the arena. Spaces, rewards and episode-end conditions are
// inherited from Surround.
type Catch struct {
	*Surround
	targetSpeed float64
}

// NewCatch builds the fleeing-target scenario. speed is the target's
// displacement per step in arena units.
func NewCatch(agents []string, targetID string, size, maxSteps int, speed float64) *Catch {
	return &Catch{
		Surround:    NewSurround(agents, targetID, size, maxSteps),
		targetSpeed: speed,
	}
}

func (sc *Catch) Transition(s *State, actions map[string]Vec3) (map[string]Vec3, map[string]Vec3) {
	next, _ := sc.Surround.Transition(s, actions)
	if len(next) == 0 {
		return next, nil
	}

	var centroid Vec3
	for _, pos := range next {
		centroid = centroid.Add(pos)
	}
	centroid = centroid.Scale(1 / float64(len(next)))

	target := s.TargetPos[sc.targetID]
	dir := target.Sub(centroid).Unit()
	if dir == (Vec3{}) {
		// Swarm centroid sits exactly on the target: flee in a random
		// direction rather than freezing.
		dir = Vec3{s.Rand.NormFloat64(), s.Rand.NormFloat64(), s.Rand.NormFloat64()}.Unit()
	}

	lo, hi := sc.bounds()
	moved := target.Add(dir.Scale(sc.targetSpeed)).Clamp(lo, hi)
	return next, map[string]Vec3{sc.targetID: moved}
}
