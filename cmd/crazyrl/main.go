package main

import (
	"log"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "crazyrl",
		Short: "CrazyRL is a multi-objective drone-swarm RL benchmark with a 3D viewer and headless rollout reports.",
	}
	rootCmd.AddCommand(newViewCmd(), newRolloutCmd())
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
