// Package aviary implements a multi-objective, multi-agent drone-swarm
// environment: a parallel step/reset/render/close lifecycle over
// per-agent position state, with task behaviour supplied by a Scenario.
package aviary

import (
	"fmt"
	"math/rand"
)

// RenderMode selects how (and whether) an environment presents itself.
type RenderMode string

const (
	// ModeNone runs fully headless.
	ModeNone RenderMode = ""
	// ModeHuman draws one frame per step into the configured renderer.
	ModeHuman RenderMode = "human"
	// ModeReal is accepted for parity with field deployments, where the
	// drone IDs address physical hardware. In this package it behaves
	// like ModeNone.
	ModeReal RenderMode = "real"
)

// Scene is a renderer-facing snapshot of one frame: everything the
// viewer needs to draw, nothing it can mutate back into the episode.
type Scene struct {
	Agents  map[string]Vec3
	Targets map[string]Vec3
	Size    int
}

// FrameRenderer receives one Scene per rendered frame. Implementations
// own the window resources; Close must be idempotent.
type FrameRenderer interface {
	Frame(Scene)
	Close() error
}

// Config carries the construction parameters of an environment.
type Config struct {
	// Agents is the ordered possible-agent list, immutable afterwards.
	Agents []string
	// DroneIDs are physical drone addresses, one per agent. Ignored
	// outside real deployments; may be empty.
	DroneIDs []int
	// TargetID optionally names the one target that maps to a physical
	// drone in ModeReal.
	TargetID string

	InitAgentPos  map[string]Vec3
	InitTargetPos map[string]Vec3

	// Size is the arena side length.
	Size int

	RenderMode RenderMode
	// Renderer is required in ModeHuman and unused otherwise.
	Renderer FrameRenderer
}

// Env is the environment lifecycle state machine. It owns the episode
// state and the rendering resources; all task behaviour comes from the
// Scenario. Env is not safe for concurrent use — one environment drives
// one renderer, sequentially.
type Env struct {
	scenario Scenario
	mode     RenderMode
	renderer FrameRenderer

	state         *State
	initAgentPos  map[string]Vec3
	initTargetPos map[string]Vec3
	droneIDs      []int
	targetID      string

	// Space caches, populated on first access per agent and never
	// invalidated: spaces are static for the environment's lifetime.
	obsSpaces map[string]Box
	actSpaces map[string]Box
	rewSpaces map[string]Box

	closed bool
}

// New validates cfg and builds an environment around scenario.
func New(scenario Scenario, cfg Config) (*Env, error) {
	switch cfg.RenderMode {
	case ModeNone, ModeHuman, ModeReal:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRenderMode, cfg.RenderMode)
	}
	if len(cfg.Agents) == 0 {
		return nil, fmt.Errorf("%w: no agents", ErrInvalidConfig)
	}
	for _, a := range cfg.Agents {
		if _, ok := cfg.InitAgentPos[a]; !ok {
			return nil, fmt.Errorf("%w: no initial position for agent %q", ErrInvalidConfig, a)
		}
	}
	if len(cfg.InitAgentPos) != len(cfg.Agents) {
		return nil, fmt.Errorf("%w: initial positions keyed by unknown agents", ErrInvalidConfig)
	}
	if len(cfg.DroneIDs) != 0 && len(cfg.DroneIDs) != len(cfg.Agents) {
		return nil, fmt.Errorf("%w: %d drone IDs for %d agents", ErrInvalidConfig, len(cfg.DroneIDs), len(cfg.Agents))
	}
	if cfg.RenderMode == ModeHuman && cfg.Renderer == nil {
		return nil, fmt.Errorf("%w: render mode %q needs a renderer", ErrInvalidConfig, ModeHuman)
	}

	possible := append([]string(nil), cfg.Agents...)
	e := &Env{
		scenario:      scenario,
		mode:          cfg.RenderMode,
		renderer:      cfg.Renderer,
		initAgentPos:  clonePositions(cfg.InitAgentPos),
		initTargetPos: clonePositions(cfg.InitTargetPos),
		droneIDs:      append([]int(nil), cfg.DroneIDs...),
		targetID:      cfg.TargetID,
		obsSpaces:     make(map[string]Box),
		actSpaces:     make(map[string]Box),
		rewSpaces:     make(map[string]Box),
	}
	e.state = &State{
		Possible:   possible,
		Agents:     append([]string(nil), possible...),
		AgentPos:   clonePositions(cfg.InitAgentPos),
		PrevPos:    clonePositions(cfg.InitAgentPos),
		TargetPos:  clonePositions(cfg.InitTargetPos),
		PrevTarget: clonePositions(cfg.InitTargetPos),
		Size:       cfg.Size,
		Rand:       rand.New(rand.NewSource(0)), // #nosec G404 -- simulation only
	}
	return e, nil
}

// Reset reinitializes the episode: timestep zeroed, active agents
// restored to the full possible list, positions and targets back to
// their initial values. Callable any number of times.
func (e *Env) Reset(seed int64) (map[string][]float64, map[string]Info, error) {
	s := e.state
	s.Timestep = 0
	s.Agents = append(s.Agents[:0], s.Possible...)
	s.AgentPos = clonePositions(e.initAgentPos)
	s.PrevPos = clonePositions(e.initAgentPos)
	s.TargetPos = clonePositions(e.initTargetPos)
	s.PrevTarget = clonePositions(e.initTargetPos)
	s.Rand = rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation only

	obs := e.scenario.Observations(s)
	infos := e.scenario.Infos(s)

	if e.mode == ModeHuman {
		e.renderFrame()
	}
	return obs, infos, nil
}

// Step advances one timestep. actions must contain exactly one entry
// per currently-active agent; anything else is a caller contract
// violation and fails fast. Episode-end flags are evaluated before
// rewards so that reward logic can rely on them being derived from the
// post-transition positions.
func (e *Env) Step(actions map[string]Vec3) (
	map[string][]float64, map[string][]float64, map[string]bool, map[string]bool, map[string]Info, error,
) {
	if err := e.validateActions(actions); err != nil {
		return nil, nil, nil, nil, nil, err
	}
	s := e.state
	s.Timestep++

	newAgents, newTargets := e.scenario.Transition(s, actions)
	s.shift()
	for name, pos := range newAgents {
		s.AgentPos[name] = pos
	}
	for name, pos := range newTargets {
		s.TargetPos[name] = pos
	}

	if e.mode == ModeHuman {
		e.renderFrame()
	}

	terminations := e.scenario.Terminations(s)
	truncations := e.scenario.Truncations(s)
	rewards := e.scenario.Rewards(s)
	observations := e.scenario.Observations(s)
	infos := e.scenario.Infos(s)

	done := make(map[string]bool, len(s.Agents))
	for _, a := range s.Agents {
		done[a] = terminations[a] || truncations[a]
	}
	s.removeInactive(done)

	return observations, rewards, terminations, truncations, infos, nil
}

func (e *Env) validateActions(actions map[string]Vec3) error {
	for _, a := range e.state.Agents {
		if _, ok := actions[a]; !ok {
			return fmt.Errorf("%w: missing action for active agent %q", ErrBadActions, a)
		}
	}
	if len(actions) != len(e.state.Agents) {
		for name := range actions {
			if !e.state.Active(name) {
				return fmt.Errorf("%w: action for unknown or inactive agent %q", ErrBadActions, name)
			}
		}
	}
	return nil
}

// Render draws one frame. No-op outside ModeHuman.
func (e *Env) Render() {
	if e.mode == ModeHuman {
		e.renderFrame()
	}
}

func (e *Env) renderFrame() {
	if e.renderer == nil || e.closed {
		return
	}
	e.renderer.Frame(Scene{
		Agents:  clonePositions(e.state.AgentPos),
		Targets: clonePositions(e.state.TargetPos),
		Size:    e.state.Size,
	})
}

// Close releases the rendering resources, if any were configured.
// Safe to call repeatedly and when nothing was allocated.
func (e *Env) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if e.renderer != nil {
		return e.renderer.Close()
	}
	return nil
}

// Agents returns the currently-active agent list.
func (e *Env) Agents() []string {
	return append([]string(nil), e.state.Agents...)
}

// PossibleAgents returns the full agent list fixed at construction.
func (e *Env) PossibleAgents() []string {
	return append([]string(nil), e.state.Possible...)
}

// Timestep returns the number of steps taken since the last Reset.
func (e *Env) Timestep() int {
	return e.state.Timestep
}

// GlobalState concatenates every possible agent's observation into one
// flat vector, in possible-agent order.
func (e *Env) GlobalState() []float64 {
	obs := e.scenario.Observations(e.state)
	var out []float64
	for _, a := range e.state.Possible {
		out = append(out, obs[a]...)
	}
	return out
}

// ObservationSpace returns the agent's observation space, computed once
// per agent and cached for the lifetime of the environment.
func (e *Env) ObservationSpace(agent string) Box {
	if b, ok := e.obsSpaces[agent]; ok {
		return b
	}
	b := e.scenario.ObservationSpace(agent)
	e.obsSpaces[agent] = b
	return b
}

// ActionSpace returns the agent's action space, memoized like
// ObservationSpace.
func (e *Env) ActionSpace(agent string) Box {
	if b, ok := e.actSpaces[agent]; ok {
		return b
	}
	b := e.scenario.ActionSpace(agent)
	e.actSpaces[agent] = b
	return b
}

// RewardSpace returns the agent's reward space, memoized like
// ObservationSpace.
func (e *Env) RewardSpace(agent string) Box {
	if b, ok := e.rewSpaces[agent]; ok {
		return b
	}
	b := e.scenario.RewardSpace(agent)
	e.rewSpaces[agent] = b
	return b
}
