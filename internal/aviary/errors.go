package aviary

import "errors"

// Construction and caller-contract failures. None of these are
// retried anywhere; they propagate straight to the caller.
var (
	// ErrInvalidRenderMode is returned by New for a render mode outside
	// {ModeNone, ModeHuman, ModeReal}.
	ErrInvalidRenderMode = errors.New("aviary: invalid render mode")

	// ErrInvalidConfig is returned by New when agents, positions or
	// drone IDs disagree.
	ErrInvalidConfig = errors.New("aviary: invalid configuration")

	// ErrBadActions is returned by Step when the action map is missing
	// an active agent or names an unknown or inactive one.
	ErrBadActions = errors.New("aviary: malformed action mapping")

	// ErrBadWeights is returned when linearization weights do not match
	// an agent's reward space.
	ErrBadWeights = errors.New("aviary: malformed reward weights")
)
