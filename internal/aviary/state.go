package aviary

import (
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// ClosenessThreshold is the distance below which an agent counts as
// having reached (or collided with) a target.
const ClosenessThreshold = 0.1

// Vec3 is an XYZ position or displacement in arena units.
type Vec3 [3]float64

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Clamp limits each component to [lo[i], hi[i]].
func (v Vec3) Clamp(lo, hi Vec3) Vec3 {
	out := v
	for i := range out {
		if out[i] < lo[i] {
			out[i] = lo[i]
		}
		if out[i] > hi[i] {
			out[i] = hi[i]
		}
	}
	return out
}

// Distance returns the Euclidean distance between v and o.
func (v Vec3) Distance(o Vec3) float64 {
	d := v.Sub(o)
	return floats.Norm(d[:], 2)
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return floats.Norm(v[:], 2)
}

// Unit returns v scaled to length 1, or the zero vector if v is zero.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return v.Scale(1 / n)
}

func (v Vec3) Slice() []float64 {
	return []float64{v[0], v[1], v[2]}
}

// Vec3FromSlice converts the first three elements of s into a Vec3.
func Vec3FromSlice(s []float64) Vec3 {
	var v Vec3
	copy(v[:], s)
	return v
}

// State holds the mutable per-episode data of an aviary environment.
// It is created by the environment and passed to scenario hooks; only
// the owning environment mutates it between hook calls.
type State struct {
	Timestep int

	// Possible is the full agent list, immutable after construction.
	// Agents is the currently-active subset and shrinks as agents
	// terminate or truncate.
	Possible []string
	Agents   []string

	// AgentPos/TargetPos are the positions after the latest step.
	// PrevPos/PrevTarget reflect positions as of the prior step — they
	// are only overwritten at the next step boundary, which is what
	// potential-based reward shaping relies on.
	AgentPos   map[string]Vec3
	PrevPos    map[string]Vec3
	TargetPos  map[string]Vec3
	PrevTarget map[string]Vec3

	// Size is the arena side length.
	Size int

	// Rand is reseeded on every Reset for scenario-driven randomness.
	Rand *rand.Rand
}

// Active reports whether name is in the currently-active agent list.
func (s *State) Active(name string) bool {
	for _, a := range s.Agents {
		if a == name {
			return true
		}
	}
	return false
}

// AtTarget reports whether the agent is within ClosenessThreshold of
// the named target.
func (s *State) AtTarget(agent, target string) bool {
	return s.AgentPos[agent].Distance(s.TargetPos[target]) < ClosenessThreshold
}

// shift moves the current agent and target positions into the previous
// maps. Called once per step, before the new positions are applied.
func (s *State) shift() {
	s.PrevPos = clonePositions(s.AgentPos)
	s.PrevTarget = clonePositions(s.TargetPos)
}

// removeInactive drops every agent whose done flag is set from the
// active list, preserving order.
func (s *State) removeInactive(done map[string]bool) {
	kept := s.Agents[:0]
	for _, a := range s.Agents {
		if !done[a] {
			kept = append(kept, a)
		}
	}
	s.Agents = kept
}

func clonePositions(src map[string]Vec3) map[string]Vec3 {
	dst := make(map[string]Vec3, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
