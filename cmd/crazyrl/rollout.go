package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"github.com/swarmlab/crazyrl/internal/aviary"
	"github.com/swarmlab/crazyrl/internal/config"
)

// runResult captures one headless episode.
type runResult struct {
	runIndex  int
	id        string
	seed      int64
	steps     int
	crashed   bool // episode ended by termination, not the time limit
	returns   map[string]float64
	finalDist map[string]float64
}

// aggregate summarizes a batch of runs.
type aggregate struct {
	runs       int
	crashRate  float64
	meanSteps  float64
	meanReturn float64
}

func newRolloutCmd() *cobra.Command {
	var configPath string
	var policyName string
	var runs int
	var seedBase int64
	var seedStep int64
	var copyOut bool

	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Run headless episodes and print a per-run and aggregate report",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRollout(configPath, policyName, runs, seedBase, seedStep, copyOut)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "scenario YAML file (built-in surround demo when empty)")
	cmd.Flags().StringVar(&policyName, "policy", "greedy", "policy driving the swarm (greedy, random)")
	cmd.Flags().IntVar(&runs, "runs", 5, "number of episodes")
	cmd.Flags().Int64Var(&seedBase, "seed-base", 42, "seed for run 1")
	cmd.Flags().Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "also copy the report to the clipboard")
	return cmd
}

func runRollout(configPath, policyName string, runs int, seedBase, seedStep int64, copyOut bool) error {
	if runs <= 0 {
		return fmt.Errorf("--runs must be > 0")
	}
	sc := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		sc = loaded
	}
	policy, err := newPolicy(policyName, seedBase)
	if err != nil {
		return err
	}

	cfg := sc.EnvConfig(nil)
	// Rollouts are headless regardless of the file's render mode.
	cfg.RenderMode = aviary.ModeNone

	base, err := aviary.New(sc.Task(), cfg)
	if err != nil {
		return err
	}
	var env aviary.ParallelEnv = base
	if len(sc.Weights) > 0 {
		env, err = aviary.NewLinearizeReward(base, sc.Weights)
		if err != nil {
			return err
		}
	}
	defer env.Close()

	results := make([]runResult, 0, runs)
	for i := 0; i < runs; i++ {
		res, err := runEpisode(env, policy, seedBase+int64(i)*seedStep, sc.MaxSteps)
		if err != nil {
			return err
		}
		res.runIndex = i + 1
		results = append(results, res)
	}

	report := buildReport(sc, policyName, seedBase, seedStep, results)
	fmt.Print(report)
	if copyOut {
		if err := clipboard.WriteAll(report); err != nil {
			return fmt.Errorf("copy report: %w", err)
		}
	}
	return nil
}

// runEpisode drives one episode to its end. maxSteps is only a safety
// cap on top of the scenario's own truncation.
func runEpisode(env aviary.ParallelEnv, policy policyFunc, seed int64, maxSteps int) (runResult, error) {
	res := runResult{
		id:        uuid.NewString(),
		seed:      seed,
		returns:   make(map[string]float64),
		finalDist: make(map[string]float64),
	}
	obs, _, err := env.Reset(seed)
	if err != nil {
		return res, err
	}
	for len(env.Agents()) > 0 && res.steps <= maxSteps {
		nextObs, rewards, terminations, _, infos, err := env.Step(policy(env, obs))
		if err != nil {
			return res, err
		}
		res.steps++
		for agent, vec := range rewards {
			res.returns[agent] += scalarize(vec)
		}
		for agent, info := range infos {
			res.finalDist[agent] = info["distance_to_target"]
		}
		for _, done := range terminations {
			if done {
				res.crashed = true
			}
		}
		obs = nextObs
	}
	return res, nil
}

// scalarize collapses a reward vector to one number: already-linearized
// rewards pass through, vector rewards average their components.
func scalarize(vec []float64) float64 {
	if len(vec) == 0 {
		return 0
	}
	if len(vec) == 1 {
		return vec[0]
	}
	return floats.Sum(vec) / float64(len(vec))
}

// meanAgentReturn averages one run's episodic returns across agents.
func meanAgentReturn(res runResult) float64 {
	if len(res.returns) == 0 {
		return 0
	}
	var sum float64
	for _, r := range res.returns {
		sum += r
	}
	return sum / float64(len(res.returns))
}

func summarize(results []runResult) aggregate {
	agg := aggregate{runs: len(results)}
	if agg.runs == 0 {
		return agg
	}
	crashes := 0
	for _, res := range results {
		if res.crashed {
			crashes++
		}
		agg.meanSteps += float64(res.steps)
		agg.meanReturn += meanAgentReturn(res)
	}
	agg.crashRate = float64(crashes) / float64(agg.runs)
	agg.meanSteps /= float64(agg.runs)
	agg.meanReturn /= float64(agg.runs)
	return agg
}

func endLabel(res runResult) string {
	if res.crashed {
		return "crash"
	}
	return "time-limit"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func buildReport(sc *config.Scenario, policyName string, seedBase, seedStep int64, results []runResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== CrazyRL rollout report ===\n")
	fmt.Fprintf(&b, "scenario=%s agents=%d policy=%s runs=%d seed_base=%d seed_step=%d\n\n",
		sc.Kind, len(sc.Agents), policyName, len(results), seedBase, seedStep)

	for _, res := range results {
		fmt.Fprintf(&b, "run %d [%s] seed=%d steps=%d end=%s mean_return=%.3f\n",
			res.runIndex, shortID(res.id), res.seed, res.steps, endLabel(res), meanAgentReturn(res))
	}

	agg := summarize(results)
	fmt.Fprintf(&b, "\n--- aggregate ---\n")
	fmt.Fprintf(&b, "runs=%d crash_rate=%.2f mean_steps=%.1f mean_return=%.3f\n",
		agg.runs, agg.crashRate, agg.meanSteps, agg.meanReturn)
	return b.String()
}
