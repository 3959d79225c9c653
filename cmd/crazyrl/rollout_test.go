package main

import (
	"math"
	"strings"
	"testing"

	"github.com/swarmlab/crazyrl/internal/aviary"
	"github.com/swarmlab/crazyrl/internal/config"
)

func TestScalarize(t *testing.T) {
	if got := scalarize(nil); got != 0 {
		t.Fatalf("empty vector should scalarize to 0, got %v", got)
	}
	if got := scalarize([]float64{3.5}); got != 3.5 {
		t.Fatalf("scalar reward should pass through, got %v", got)
	}
	if got := scalarize([]float64{1, 2, 3}); math.Abs(got-2) > 1e-12 {
		t.Fatalf("vector reward should average, got %v", got)
	}
}

func TestMeanAgentReturn(t *testing.T) {
	if got := meanAgentReturn(runResult{}); got != 0 {
		t.Fatalf("no agents should mean 0, got %v", got)
	}
	res := runResult{returns: map[string]float64{"agent_0": 2, "agent_1": 4}}
	if got := meanAgentReturn(res); math.Abs(got-3) > 1e-12 {
		t.Fatalf("expected mean return 3, got %v", got)
	}
}

func TestSummarize(t *testing.T) {
	agg := summarize([]runResult{
		{steps: 10, crashed: true, returns: map[string]float64{"a": 1}},
		{steps: 30, crashed: false, returns: map[string]float64{"a": 3}},
	})
	if agg.runs != 2 {
		t.Fatalf("expected 2 runs, got %d", agg.runs)
	}
	if math.Abs(agg.crashRate-0.5) > 1e-12 {
		t.Fatalf("expected crash rate 0.5, got %v", agg.crashRate)
	}
	if math.Abs(agg.meanSteps-20) > 1e-12 {
		t.Fatalf("expected 20 mean steps, got %v", agg.meanSteps)
	}
	if math.Abs(agg.meanReturn-2) > 1e-12 {
		t.Fatalf("expected mean return 2, got %v", agg.meanReturn)
	}
}

func TestSummarize_Empty(t *testing.T) {
	agg := summarize(nil)
	if agg.runs != 0 || agg.crashRate != 0 || agg.meanSteps != 0 {
		t.Fatalf("empty batch should aggregate to zeros, got %+v", agg)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Fatalf("expected first 8 characters, got %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Fatalf("short ids should pass through, got %q", got)
	}
}

func TestEndLabel(t *testing.T) {
	if got := endLabel(runResult{crashed: true}); got != "crash" {
		t.Fatalf("expected crash, got %q", got)
	}
	if got := endLabel(runResult{}); got != "time-limit" {
		t.Fatalf("expected time-limit, got %q", got)
	}
}

func TestNewPolicy_UnknownName(t *testing.T) {
	if _, err := newPolicy("oracle", 1); err == nil {
		t.Fatal("unknown policy names must be rejected")
	}
}

func TestGreedyPolicy_FliesTowardTarget(t *testing.T) {
	sc := config.Default()
	env, err := aviary.New(sc.Task(), sc.EnvConfig(nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	obs, _, err := env.Reset(1)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	policy, err := newPolicy("greedy", 1)
	if err != nil {
		t.Fatalf("newPolicy: %v", err)
	}

	actions := policy(env, obs)
	if len(actions) != len(env.Agents()) {
		t.Fatalf("expected one action per active agent, got %d", len(actions))
	}
	// agent_0 starts at (0, 0, 1) under a target at (1, 1, 2.5): the
	// greedy action points up and toward (+x, +y).
	a := actions["agent_0"]
	if a[0] <= 0 || a[1] <= 0 || a[2] <= 0 {
		t.Fatalf("greedy action should point at the target, got %v", a)
	}
	if math.Abs(a.Norm()-1) > 1e-9 {
		t.Fatalf("greedy action should be a unit vector, got norm %v", a.Norm())
	}
}

func TestRunEpisode_ReachesAnEnd(t *testing.T) {
	sc := config.Default()
	env, err := aviary.New(sc.Task(), sc.EnvConfig(nil))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	policy, err := newPolicy("greedy", 7)
	if err != nil {
		t.Fatalf("newPolicy: %v", err)
	}

	res, err := runEpisode(env, policy, 7, sc.MaxSteps)
	if err != nil {
		t.Fatalf("runEpisode: %v", err)
	}
	if res.steps == 0 {
		t.Fatal("episode should take at least one step")
	}
	if res.steps > sc.MaxSteps+1 {
		t.Fatalf("episode ran past the step cap: %d", res.steps)
	}
	if len(res.returns) == 0 {
		t.Fatal("episode should accumulate returns")
	}
	if res.id == "" {
		t.Fatal("runs should carry an id")
	}
}

func TestBuildReport_Layout(t *testing.T) {
	sc := config.Default()
	report := buildReport(sc, "greedy", 42, 1, []runResult{
		{runIndex: 1, id: "deadbeefcafe", seed: 42, steps: 12, crashed: true,
			returns: map[string]float64{"agent_0": -1}},
	})
	for _, want := range []string{
		"=== CrazyRL rollout report ===",
		"scenario=surround",
		"run 1 [deadbeef]",
		"end=crash",
		"--- aggregate ---",
		"crash_rate=1.00",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}
