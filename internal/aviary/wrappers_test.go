package aviary

import (
	"errors"
	"math"
	"testing"
)

// scriptedEnv replays a fixed reward sequence, cycling when exhausted.
type scriptedEnv struct {
	agents []string
	seq    []map[string][]float64
	calls  int
}

func (e *scriptedEnv) Reset(int64) (map[string][]float64, map[string]Info, error) {
	e.calls = 0
	return map[string][]float64{}, map[string]Info{}, nil
}

func (e *scriptedEnv) Step(map[string]Vec3) (
	map[string][]float64, map[string][]float64, map[string]bool, map[string]bool, map[string]Info, error,
) {
	rewards := make(map[string][]float64)
	for agent, vec := range e.seq[e.calls%len(e.seq)] {
		rewards[agent] = append([]float64(nil), vec...)
	}
	e.calls++
	return map[string][]float64{}, rewards, map[string]bool{}, map[string]bool{}, map[string]Info{}, nil
}

func (e *scriptedEnv) Render()      {}
func (e *scriptedEnv) Close() error { return nil }

func (e *scriptedEnv) Agents() []string         { return e.agents }
func (e *scriptedEnv) PossibleAgents() []string { return e.agents }

func (e *scriptedEnv) ObservationSpace(string) Box { return UniformBox(3, -3, 3) }
func (e *scriptedEnv) ActionSpace(string) Box      { return UniformBox(3, -1, 1) }
func (e *scriptedEnv) RewardSpace(string) Box      { return UniformBox(3, -10, 10) }

// --- LinearizeReward ---

func TestLinearizeReward_WeightedDotProduct(t *testing.T) {
	env := &scriptedEnv{
		agents: []string{"agent_0", "agent_1"},
		seq: []map[string][]float64{{
			"agent_0": {1, 2, 3},
			"agent_1": {1, 2, 3},
		}},
	}
	w, err := NewLinearizeReward(env, map[string][]float64{
		"agent_0": {0.2, 0.6, 1.0 / 3},
	})
	if err != nil {
		t.Fatalf("NewLinearizeReward: %v", err)
	}

	_, rewards, _, _, _, err := w.Step(nil)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	got := rewards["agent_0"]
	if len(got) != 1 {
		t.Fatalf("weighted agent should get a scalar reward, got %v", got)
	}
	if math.Abs(got[0]-2.4) > 1e-9 {
		t.Fatalf("expected dot product 2.4, got %v", got[0])
	}

	// agent_1 has no weights and keeps its vector reward unchanged.
	pass := rewards["agent_1"]
	if len(pass) != 3 || pass[0] != 1 || pass[1] != 2 || pass[2] != 3 {
		t.Fatalf("unweighted agent should pass through, got %v", pass)
	}
}

func TestLinearizeReward_RejectsWrongWeightLength(t *testing.T) {
	env := &scriptedEnv{agents: []string{"agent_0"}}
	_, err := NewLinearizeReward(env, map[string][]float64{"agent_0": {0.5}})
	if !errors.Is(err, ErrBadWeights) {
		t.Fatalf("expected ErrBadWeights, got %v", err)
	}
}

// --- NormalizeReward ---

func TestNormalizeReward_ScalesByRunningStd(t *testing.T) {
	env := &scriptedEnv{
		agents: []string{"agent_0"},
		seq: []map[string][]float64{
			{"agent_0": {0, 5}},
			{"agent_0": {10, 5}},
		},
	}
	w := NewNormalizeReward(env, "agent_0", []int{0})

	_, rewards, _, _, _, err := w.Step(nil)
	if err != nil {
		t.Fatalf("Step 1: %v", err)
	}
	if math.Abs(rewards["agent_0"][0]-0) > 1e-6 {
		t.Fatalf("first normalized reward should stay ~0, got %v", rewards["agent_0"][0])
	}
	if rewards["agent_0"][1] != 5 {
		t.Fatalf("unselected component must pass through, got %v", rewards["agent_0"][1])
	}

	_, rewards, _, _, _, err = w.Step(nil)
	if err != nil {
		t.Fatalf("Step 2: %v", err)
	}
	// Welford over {0, 10}: mean 5, population std 5, so 10 -> ~2.
	if math.Abs(rewards["agent_0"][0]-2) > 1e-6 {
		t.Fatalf("expected ~2 after normalization, got %v", rewards["agent_0"][0])
	}
}

func TestNormalizeReward_IgnoresOutOfRangeIndices(t *testing.T) {
	env := &scriptedEnv{
		agents: []string{"agent_0"},
		seq:    []map[string][]float64{{"agent_0": {1, 2}}},
	}
	w := NewNormalizeReward(env, "agent_0", []int{5})
	_, rewards, _, _, _, err := w.Step(nil)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if rewards["agent_0"][0] != 1 || rewards["agent_0"][1] != 2 {
		t.Fatalf("out-of-range index must leave the vector alone, got %v", rewards["agent_0"])
	}
}

func TestNormalizeReward_OtherAgentsUntouched(t *testing.T) {
	env := &scriptedEnv{
		agents: []string{"agent_0", "agent_1"},
		seq: []map[string][]float64{{
			"agent_0": {4, 4},
			"agent_1": {4, 4},
		}},
	}
	w := NewNormalizeReward(env, "agent_0", []int{0, 1})
	_, rewards, _, _, _, err := w.Step(nil)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if rewards["agent_1"][0] != 4 || rewards["agent_1"][1] != 4 {
		t.Fatalf("other agents must pass through, got %v", rewards["agent_1"])
	}
}
