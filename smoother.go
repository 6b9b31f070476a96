package mimica

import "time"

// DefaultSmoothInterval is the minimum time between two committed expression changes.
const DefaultSmoothInterval = 400 * time.Millisecond

// State is the expression currently shown to the user.
type State struct {
	Label      Label
	Confidence float64
	Changed    time.Time
}

// Smoother debounces the classifier output to avoid label flicker.
// It is not safe for concurrent use.
type Smoother struct {
	interval time.Duration
	state    State
}

// NewSmoother creates a smoother in the neutral state, stamped with now.
func NewSmoother(interval time.Duration, now time.Time) *Smoother {
	return &Smoother{
		interval: interval,
		state:    State{Label: Neutral, Changed: now},
	}
}

// Observe commits the result only when more than the configured interval
// has elapsed since the last commit. It returns the committed state.
func (s *Smoother) Observe(r Result, now time.Time) State {
	if now.Sub(s.state.Changed) > s.interval {
		s.state = State{
			Label:      r.Label,
			Confidence: r.Confidence,
			Changed:    now,
		}
	}
	return s.state
}

// Lost resets the state to neutral right away, as no face is present in the frame.
// The change timestamp is left untouched.
func (s *Smoother) Lost() State {
	s.state.Label = Neutral
	s.state.Confidence = 0
	return s.state
}

// State returns the committed state.
func (s *Smoother) State() State {
	return s.state
}
