package visits

import (
	"time"

	"github.com/gorilla/sessions"
)

// Session value keys. Values stay primitive (int, string) because the cookie
// store gob-encodes them.
const (
	visitsKey    = "visits"
	lastVisitKey = "last_visit"
)

// FromSession decodes the visit state stored in a gorilla session. Missing
// or malformed values yield a zero (fresh) state rather than an error — a
// corrupted cookie just restarts the counter.
func FromSession(sess *sessions.Session) State {
	var s State
	if v, ok := sess.Values[visitsKey].(int); ok {
		s.Visits = v
	}
	raw, ok := sess.Values[lastVisitKey].(string)
	if !ok {
		return State{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return State{}
	}
	s.LastVisit = t
	return s
}

// ToSession writes the visit state into a gorilla session. The timestamp is
// stored at seconds precision.
func ToSession(s State, sess *sessions.Session) {
	sess.Values[visitsKey] = s.Visits
	sess.Values[lastVisitKey] = s.LastVisit.Truncate(time.Second).Format(time.RFC3339)
}
