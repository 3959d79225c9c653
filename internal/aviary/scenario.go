package aviary

// Info is the per-agent diagnostic payload returned alongside
// observations from Reset and Step.
type Info map[string]float64

// Scenario supplies everything task-specific about an aviary
// environment: spaces, the transition function, rewards, episode-end
// conditions and diagnostics. The environment owns the episode state
// and calls these hooks in a fixed order; a scenario holds only its own
// immutable parameters. Because every method is required, a scenario
// missing a hook fails to compile instead of failing at run time.
type Scenario interface {
	ObservationSpace(agent string) Box
	ActionSpace(agent string) Box
	RewardSpace(agent string) Box

	// Transition maps per-agent actions onto new agent positions and,
	// optionally, new target positions (nil leaves targets in place).
	// It must not mutate s; the environment applies the result.
	Transition(s *State, actions map[string]Vec3) (agents, targets map[string]Vec3)

	// Per-agent computations over the post-transition state. The
	// environment evaluates Terminations and Truncations before
	// Rewards, so reward logic may assume the episode-end flags were
	// derived from the same positions it sees.
	Observations(s *State) map[string][]float64
	Rewards(s *State) map[string][]float64
	Terminations(s *State) map[string]bool
	Truncations(s *State) map[string]bool
	Infos(s *State) map[string]Info
}

// ParallelEnv is the caller-facing multi-agent environment contract:
// an action map in, five per-agent maps out. *Env implements it, and
// the reward wrappers wrap it.
type ParallelEnv interface {
	Reset(seed int64) (map[string][]float64, map[string]Info, error)
	Step(actions map[string]Vec3) (
		obs map[string][]float64,
		rewards map[string][]float64,
		terminations map[string]bool,
		truncations map[string]bool,
		infos map[string]Info,
		err error,
	)
	Render()
	Close() error

	Agents() []string
	PossibleAgents() []string
	ObservationSpace(agent string) Box
	ActionSpace(agent string) Box
	RewardSpace(agent string) Box
}
