package aviary

const (
	// actionScale converts a unit velocity command into arena units per step.
	actionScale = 0.2
	// collisionDist is the inter-agent distance treated as a crash.
	collisionDist = 0.2
	// groundLevel — a drone below this altitude has hit the ground.
	groundLevel = 0.05
	// crashPenalty is applied to both reward objectives when the
	// episode ends in a crash.
	crashPenalty = -10.0
)

// Surround is the static-target task: the swarm must close in on a
// fixed target without touching it, each other, or the ground. Rewards
// are two-objective — potential-based progress toward the target, and
// distance to the nearest other drone.
type Surround struct {
	agents   []string
	targetID string
	size     int
	maxSteps int
}

// NewSurround builds the scenario for the given ordered agent list.
func NewSurround(agents []string, targetID string, size, maxSteps int) *Surround {
	return &Surround{
		agents:   append([]string(nil), agents...),
		targetID: targetID,
		size:     size,
		maxSteps: maxSteps,
	}
}

// TargetID returns the name of the scenario's single target.
func (sc *Surround) TargetID() string {
	return sc.targetID
}

func (sc *Surround) bounds() (lo, hi Vec3) {
	f := float64(sc.size)
	return Vec3{-f, -f, 0}, Vec3{f, f, f}
}

func (sc *Surround) positionBounds(count int) (low, high []float64) {
	lo, hi := sc.bounds()
	for i := 0; i < count; i++ {
		low = append(low, lo.Slice()...)
		high = append(high, hi.Slice()...)
	}
	return low, high
}

// ObservationSpace covers own position, target position and every
// other drone's position, in that order.
func (sc *Surround) ObservationSpace(string) Box {
	low, high := sc.positionBounds(1 + 1 + len(sc.agents) - 1)
	return NewBox(low, high)
}

// ActionSpace is a unit XYZ velocity command.
func (sc *Surround) ActionSpace(string) Box {
	return UniformBox(3, -1, 1)
}

// RewardSpace bounds the two objectives; the crash penalty sets the floor.
func (sc *Surround) RewardSpace(string) Box {
	diag := Vec3{}.Distance(Vec3{2 * float64(sc.size), 2 * float64(sc.size), float64(sc.size)})
	return NewBox([]float64{crashPenalty, crashPenalty}, []float64{diag, diag})
}

// Transition integrates each clamped velocity command and keeps the
// drones inside the arena. The target never moves.
func (sc *Surround) Transition(s *State, actions map[string]Vec3) (map[string]Vec3, map[string]Vec3) {
	lo, hi := sc.bounds()
	next := make(map[string]Vec3, len(actions))
	for name, act := range actions {
		cmd := act.Clamp(Vec3{-1, -1, -1}, Vec3{1, 1, 1})
		next[name] = s.AgentPos[name].Add(cmd.Scale(actionScale)).Clamp(lo, hi)
	}
	return next, nil
}

// crashed reports whether any active drone hit the ground, the target,
// or another drone. One crash ends the episode for the whole swarm.
func (sc *Surround) crashed(s *State) bool {
	target := s.TargetPos[sc.targetID]
	for i, a := range s.Agents {
		pa := s.AgentPos[a]
		if pa[2] < groundLevel {
			return true
		}
		if pa.Distance(target) < ClosenessThreshold {
			return true
		}
		for _, b := range s.Agents[i+1:] {
			if pa.Distance(s.AgentPos[b]) < collisionDist {
				return true
			}
		}
	}
	return false
}

// nearestOther returns the distance from agent to the closest other
// drone, or the arena diagonal when it flies alone.
func (sc *Surround) nearestOther(s *State, agent string) float64 {
	lo, hi := sc.bounds()
	best := lo.Distance(hi)
	pa := s.AgentPos[agent]
	for _, other := range sc.agents {
		if other == agent {
			continue
		}
		if d := pa.Distance(s.AgentPos[other]); d < best {
			best = d
		}
	}
	return best
}

func (sc *Surround) Observations(s *State) map[string][]float64 {
	out := make(map[string][]float64, len(s.Agents))
	target := s.TargetPos[sc.targetID]
	for _, a := range s.Agents {
		obs := make([]float64, 0, 3*(len(sc.agents)+1))
		obs = append(obs, s.AgentPos[a].Slice()...)
		obs = append(obs, target.Slice()...)
		for _, other := range sc.agents {
			if other != a {
				obs = append(obs, s.AgentPos[other].Slice()...)
			}
		}
		out[a] = obs
	}
	return out
}

func (sc *Surround) Rewards(s *State) map[string][]float64 {
	out := make(map[string][]float64, len(s.Agents))
	crashed := sc.crashed(s)
	for _, a := range s.Agents {
		if crashed {
			out[a] = []float64{crashPenalty, crashPenalty}
			continue
		}
		prev := s.PrevPos[a].Distance(s.PrevTarget[sc.targetID])
		cur := s.AgentPos[a].Distance(s.TargetPos[sc.targetID])
		out[a] = []float64{prev - cur, sc.nearestOther(s, a)}
	}
	return out
}

func (sc *Surround) Terminations(s *State) map[string]bool {
	crashed := sc.crashed(s)
	out := make(map[string]bool, len(s.Agents))
	for _, a := range s.Agents {
		out[a] = crashed
	}
	return out
}

func (sc *Surround) Truncations(s *State) map[string]bool {
	over := s.Timestep >= sc.maxSteps
	out := make(map[string]bool, len(s.Agents))
	for _, a := range s.Agents {
		out[a] = over
	}
	return out
}

func (sc *Surround) Infos(s *State) map[string]Info {
	out := make(map[string]Info, len(s.Agents))
	target := s.TargetPos[sc.targetID]
	for _, a := range s.Agents {
		out[a] = Info{"distance_to_target": s.AgentPos[a].Distance(target)}
	}
	return out
}
