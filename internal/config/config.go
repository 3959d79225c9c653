// Package config loads scenario definitions for the crazyrl CLI from
// YAML files and turns them into aviary environments.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/swarmlab/crazyrl/internal/aviary"
)

// Agent is one drone entry: its name, an optional physical drone
// address (ignored in simulation) and its initial XYZ position.
type Agent struct {
	Name    string    `yaml:"name"`
	DroneID int       `yaml:"drone_id"`
	Pos     []float64 `yaml:"pos"`
}

// Target is the scenario's single target.
type Target struct {
	ID  string    `yaml:"id"`
	Pos []float64 `yaml:"pos"`
}

// Scenario is a full scenario definition as stored on disk.
type Scenario struct {
	Kind        string               `yaml:"scenario"`
	Size        int                  `yaml:"size"`
	RenderMode  string               `yaml:"render_mode"`
	MaxSteps    int                  `yaml:"max_steps"`
	TargetSpeed float64              `yaml:"target_speed"`
	Agents      []Agent              `yaml:"agents"`
	Target      Target               `yaml:"target"`
	Weights     map[string][]float64 `yaml:"weights"`
}

// Default returns the built-in two-drone surround demo used when no
// config file is given.
func Default() *Scenario {
	sc := &Scenario{
		Agents: []Agent{
			{Name: "agent_0", Pos: []float64{0, 0, 1}},
			{Name: "agent_1", Pos: []float64{1, 1, 1}},
		},
		Target: Target{ID: "target", Pos: []float64{1, 1, 2.5}},
	}
	sc.applyDefaults()
	return sc
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a scenario definition.
func Parse(raw []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario config: %w", err)
	}
	sc.applyDefaults()
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) applyDefaults() {
	if sc.Kind == "" {
		sc.Kind = "surround"
	}
	if sc.Size == 0 {
		sc.Size = 3
	}
	if sc.MaxSteps == 0 {
		sc.MaxSteps = 200
	}
	if sc.TargetSpeed == 0 {
		sc.TargetSpeed = 0.15
	}
	if sc.Target.ID == "" {
		sc.Target.ID = "target"
	}
}

func (sc *Scenario) validate() error {
	switch sc.Kind {
	case "surround", "catch":
	default:
		return fmt.Errorf("scenario config: unknown scenario %q", sc.Kind)
	}
	switch aviary.RenderMode(sc.RenderMode) {
	case aviary.ModeNone, aviary.ModeHuman, aviary.ModeReal:
	default:
		return fmt.Errorf("scenario config: %w: %q", aviary.ErrInvalidRenderMode, sc.RenderMode)
	}
	if len(sc.Agents) == 0 {
		return fmt.Errorf("scenario config: no agents")
	}
	seen := make(map[string]bool, len(sc.Agents))
	for _, a := range sc.Agents {
		if a.Name == "" {
			return fmt.Errorf("scenario config: agent with empty name")
		}
		if seen[a.Name] {
			return fmt.Errorf("scenario config: duplicate agent %q", a.Name)
		}
		seen[a.Name] = true
		if len(a.Pos) != 3 {
			return fmt.Errorf("scenario config: agent %q position must have 3 components, has %d", a.Name, len(a.Pos))
		}
	}
	if len(sc.Target.Pos) != 3 {
		return fmt.Errorf("scenario config: target position must have 3 components, has %d", len(sc.Target.Pos))
	}
	for name := range sc.Weights {
		if !seen[name] {
			return fmt.Errorf("scenario config: weights for unknown agent %q", name)
		}
	}
	if sc.Size < 0 || sc.MaxSteps < 0 || sc.TargetSpeed < 0 {
		return fmt.Errorf("scenario config: size, max_steps and target_speed must be non-negative")
	}
	return nil
}

// AgentNames returns the agent names in file order.
func (sc *Scenario) AgentNames() []string {
	names := make([]string, len(sc.Agents))
	for i, a := range sc.Agents {
		names[i] = a.Name
	}
	return names
}

// DroneIDs returns the physical drone addresses in file order, or nil
// when none were set.
func (sc *Scenario) DroneIDs() []int {
	any := false
	ids := make([]int, len(sc.Agents))
	for i, a := range sc.Agents {
		ids[i] = a.DroneID
		if a.DroneID != 0 {
			any = true
		}
	}
	if !any {
		return nil
	}
	return ids
}

// Task builds the aviary scenario described by the file.
func (sc *Scenario) Task() aviary.Scenario {
	switch sc.Kind {
	case "catch":
		return aviary.NewCatch(sc.AgentNames(), sc.Target.ID, sc.Size, sc.MaxSteps, sc.TargetSpeed)
	default:
		return aviary.NewSurround(sc.AgentNames(), sc.Target.ID, sc.Size, sc.MaxSteps)
	}
}

// EnvConfig assembles the environment construction parameters.
// renderer may be nil for headless modes.
func (sc *Scenario) EnvConfig(renderer aviary.FrameRenderer) aviary.Config {
	initPos := make(map[string]aviary.Vec3, len(sc.Agents))
	for _, a := range sc.Agents {
		initPos[a.Name] = aviary.Vec3FromSlice(a.Pos)
	}
	return aviary.Config{
		Agents:        sc.AgentNames(),
		DroneIDs:      sc.DroneIDs(),
		TargetID:      sc.Target.ID,
		InitAgentPos:  initPos,
		InitTargetPos: map[string]aviary.Vec3{sc.Target.ID: aviary.Vec3FromSlice(sc.Target.Pos)},
		Size:          sc.Size,
		RenderMode:    aviary.RenderMode(sc.RenderMode),
		Renderer:      renderer,
	}
}
