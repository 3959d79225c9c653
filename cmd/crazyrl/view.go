package main

import (
	"github.com/spf13/cobra"

	"github.com/swarmlab/crazyrl/internal/aviary"
	"github.com/swarmlab/crazyrl/internal/config"
	"github.com/swarmlab/crazyrl/internal/render"
)

func newViewCmd() *cobra.Command {
	var configPath string
	var policyName string
	var seed int64

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Run a scenario in the 3D viewer window, restarting the episode when it ends",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runView(configPath, policyName, seed)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "scenario YAML file (built-in surround demo when empty)")
	cmd.Flags().StringVar(&policyName, "policy", "greedy", "policy driving the swarm (greedy, random)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "episode seed (incremented on each restart)")
	return cmd
}

func runView(configPath, policyName string, seed int64) error {
	sc := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		sc = loaded
	}
	policy, err := newPolicy(policyName, seed)
	if err != nil {
		return err
	}

	viewer := render.NewViewer()
	cfg := sc.EnvConfig(viewer)
	// The view command always renders, whatever the file says.
	cfg.RenderMode = aviary.ModeHuman

	env, err := aviary.New(sc.Task(), cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	obs, _, err := env.Reset(seed)
	if err != nil {
		return err
	}
	episodeSeed := seed

	step := func() error {
		if len(env.Agents()) == 0 {
			episodeSeed++
			o, _, err := env.Reset(episodeSeed)
			if err != nil {
				return err
			}
			obs = o
			return nil
		}
		o, _, _, _, _, err := env.Step(policy(env, obs))
		if err != nil {
			return err
		}
		obs = o
		return nil
	}
	return viewer.Run(step)
}
