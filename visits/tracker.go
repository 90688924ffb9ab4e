// Package visits implements the per-client visit counter carried in the
// session cookie: the count goes up at most once per day, no matter how
// often the home page is loaded.
package visits

import "time"

// State is the visit counter for one client session. A zero State means the
// session has never been tracked.
type State struct {
	LastVisit time.Time
	Visits    int
}

// Tracked reports whether the session has recorded a visit before.
func (s State) Tracked() bool {
	return !s.LastVisit.IsZero()
}

// Track applies one request to the state and reports whether it changed.
// A fresh session starts at one visit. A tracked session is bumped only when
// at least one whole day has elapsed since the stored visit; otherwise the
// state is returned untouched so the caller can skip the session write.
//
// Comparison happens at seconds precision: sub-second components of both
// timestamps are ignored.
func Track(s State, now time.Time) (State, bool) {
	if !s.Tracked() {
		return State{LastVisit: now.Truncate(time.Second), Visits: 1}, true
	}
	elapsed := now.Truncate(time.Second).Sub(s.LastVisit.Truncate(time.Second))
	if elapsed < 24*time.Hour {
		return s, false
	}
	return State{LastVisit: now.Truncate(time.Second), Visits: s.Visits + 1}, true
}
