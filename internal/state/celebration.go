package state

import "log/slog"

// Phase is the celebration sub-state. It lives outside the AppState snapshot
// because it has its own transition rules and a parallel celebrated-timezones
// set, and its changes must not fan out through the snapshot diff.
type Phase string

const (
	// PhaseCounting means the countdown is still running.
	PhaseCounting Phase = "counting"
	// PhaseCelebrating means the target was just reached and the live
	// celebration animation is playing.
	PhaseCelebrating Phase = "celebrating"
	// PhaseCelebrated means the celebration has settled.
	PhaseCelebrated Phase = "celebrated"
)

// transitions is the closed table of legal phase changes. Everything not
// listed is rejected. counting may jump straight to celebrated when the user
// switches into a timezone whose target has already passed.
var transitions = map[Phase][]Phase{
	PhaseCounting:    {PhaseCelebrating, PhaseCelebrated},
	PhaseCelebrating: {PhaseCelebrated},
	PhaseCelebrated:  {PhaseCounting},
}

// Celebration returns the current celebration phase.
func (s *Store) Celebration() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.celebration
}

// SetCelebration attempts a phase transition. Illegal transitions are
// rejected with a logged warning and leave the phase unchanged; celebration
// transitions are legitimately attempted speculatively by racing callers
// (timezone switch vs. tick completion), so rejection must not panic or
// propagate an error.
func (s *Store) SetCelebration(next Phase) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.celebration == next {
		return false
	}
	for _, allowed := range transitions[s.celebration] {
		if allowed == next {
			s.celebration = next
			return true
		}
	}
	slog.Warn("invalid celebration transition rejected",
		"from", string(s.celebration),
		"to", string(next),
	)
	return false
}

// HasCelebrated reports whether the given timezone has already reached the
// target during this session.
func (s *Store) HasCelebrated(tz string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.celebrated[tz]
	return ok
}

// MarkCelebrated records that the given timezone has reached the target, so
// switching back to it later does not replay the celebration.
func (s *Store) MarkCelebrated(tz string) {
	s.mu.Lock()
	s.celebrated[tz] = struct{}{}
	s.mu.Unlock()
}

// ResetCelebration clears the celebrated-timezones set. Called only on an
// explicit reset, such as leaving the celebrated phase.
func (s *Store) ResetCelebration() {
	s.mu.Lock()
	s.celebrated = make(map[string]struct{})
	s.mu.Unlock()
}
