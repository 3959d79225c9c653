package main

import (
	"fmt"
	"math/rand"

	"github.com/swarmlab/crazyrl/internal/aviary"
)

// policyFunc maps the latest per-agent observations to one action per
// currently-active agent.
type policyFunc func(env aviary.ParallelEnv, obs map[string][]float64) map[string]aviary.Vec3

// holdOffDist keeps the greedy policy from flying straight into the
// target: touching it ends the episode as a crash.
const holdOffDist = 0.4

func newPolicy(name string, seed int64) (policyFunc, error) {
	switch name {
	case "random":
		rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- benchmark rollouts
		return func(env aviary.ParallelEnv, _ map[string][]float64) map[string]aviary.Vec3 {
			actions := make(map[string]aviary.Vec3)
			for _, a := range env.Agents() {
				actions[a] = aviary.Vec3FromSlice(env.ActionSpace(a).Sample(rng))
			}
			return actions
		}, nil
	case "greedy":
		// Fly toward the target position read from the observation
		// (elements 3..5), hovering once close enough.
		return func(env aviary.ParallelEnv, obs map[string][]float64) map[string]aviary.Vec3 {
			actions := make(map[string]aviary.Vec3)
			for _, a := range env.Agents() {
				o := obs[a]
				if len(o) < 6 {
					actions[a] = aviary.Vec3{}
					continue
				}
				to := aviary.Vec3FromSlice(o[3:6]).Sub(aviary.Vec3FromSlice(o[0:3]))
				if to.Norm() < holdOffDist {
					actions[a] = aviary.Vec3{}
					continue
				}
				actions[a] = to.Unit()
			}
			return actions
		}, nil
	default:
		return nil, fmt.Errorf("unknown policy %q (supported: greedy, random)", name)
	}
}
