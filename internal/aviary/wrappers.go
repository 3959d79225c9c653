package aviary

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// LinearizeReward collapses listed agents' reward vectors into a single
// scalar (a length-1 vector) by a fixed weighted dot product, applied
// at every step boundary. Agents absent from the weight map keep their
// vector reward unchanged — partial weighting is deliberate, so a
// training loop can scalarize some agents and leave others
// multi-objective. Everything else about the wrapped environment's
// contract is preserved.
type LinearizeReward struct {
	ParallelEnv
	weights map[string][]float64
}

// NewLinearizeReward validates each weight vector against the agent's
// reward space and wraps env.
func NewLinearizeReward(env ParallelEnv, weights map[string][]float64) (*LinearizeReward, error) {
	for agent, w := range weights {
		dim := env.RewardSpace(agent).Dim()
		if len(w) != dim {
			return nil, fmt.Errorf("%w: agent %q has %d weights for a %d-objective reward",
				ErrBadWeights, agent, len(w), dim)
		}
	}
	return &LinearizeReward{ParallelEnv: env, weights: weights}, nil
}

func (w *LinearizeReward) Step(actions map[string]Vec3) (
	map[string][]float64, map[string][]float64, map[string]bool, map[string]bool, map[string]Info, error,
) {
	obs, rewards, terminations, truncations, infos, err := w.ParallelEnv.Step(actions)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	for agent, vec := range rewards {
		wts, ok := w.weights[agent]
		if !ok {
			continue
		}
		rewards[agent] = []float64{floats.Dot(wts, vec)}
	}
	return obs, rewards, terminations, truncations, infos, nil
}

// normStat is a Welford running mean/variance accumulator.
type normStat struct {
	count float64
	mean  float64
	m2    float64
}

func (n *normStat) update(x float64) {
	n.count++
	delta := x - n.mean
	n.mean += delta / n.count
	n.m2 += delta * (x - n.mean)
}

func (n *normStat) std() float64 {
	if n.count < 2 {
		return 1
	}
	return math.Sqrt(n.m2 / n.count)
}

// NormalizeReward rescales selected reward components of one agent by a
// running standard-deviation estimate, so objectives with very
// different magnitudes can be mixed. Statistics accumulate across
// resets; other agents and components pass through untouched.
type NormalizeReward struct {
	ParallelEnv
	agent   string
	indices []int
	stats   map[int]*normStat
	epsilon float64
}

// NewNormalizeReward wraps env, normalizing the given reward component
// indices for agent.
func NewNormalizeReward(env ParallelEnv, agent string, indices []int) *NormalizeReward {
	stats := make(map[int]*normStat, len(indices))
	for _, i := range indices {
		stats[i] = &normStat{}
	}
	return &NormalizeReward{
		ParallelEnv: env,
		agent:       agent,
		indices:     append([]int(nil), indices...),
		stats:       stats,
		epsilon:     1e-8,
	}
}

func (w *NormalizeReward) Step(actions map[string]Vec3) (
	map[string][]float64, map[string][]float64, map[string]bool, map[string]bool, map[string]Info, error,
) {
	obs, rewards, terminations, truncations, infos, err := w.ParallelEnv.Step(actions)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	if vec, ok := rewards[w.agent]; ok {
		for _, i := range w.indices {
			if i < 0 || i >= len(vec) {
				continue
			}
			st := w.stats[i]
			st.update(vec[i])
			vec[i] /= st.std() + w.epsilon
		}
	}
	return obs, rewards, terminations, truncations, infos, nil
}
