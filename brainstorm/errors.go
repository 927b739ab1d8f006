package brainstorm

import "errors"

var (
	// ErrSessionNotFound covers unknown and expired sessions alike: the
	// canonical existence probe is the phase key, which vanishes with the TTL.
	ErrSessionNotFound  = errors.New("session not found")
	ErrForbidden        = errors.New("operation restricted to the session admin")
	ErrInvalidState     = errors.New("operation not valid in current session phase")
	ErrNotInSession     = errors.New("user has not joined the session")
	ErrRateLimited      = errors.New("idea submission rate limit exceeded")
	ErrNoVotesRemaining = errors.New("no votes remaining")
	ErrAlreadyVoted     = errors.New("already voted for this target")
	ErrTargetNotFound   = errors.New("vote target not found")
)
