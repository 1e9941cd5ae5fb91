// Package collections implements the domain collections: Exercises,
// Workouts and FoodDiary. Each presents one API over both persistence
// modes, delegating to the offline or remote storage backend according to
// the current session, and maintains an in-memory materialized view with
// pure derived groupings.
package collections

import "errors"

// errRemoteDisabled surfaces when an online-mode operation runs in a build
// with no remote backend configured.
var errRemoteDisabled = errors.New("remote backend not configured")

// status carries the only user-visible signals a collection exposes: a
// loading flag and the last error message. Operations re-raise errors to
// the caller after recording them here.
type status struct {
	loading   bool
	lastError string
}

func (s *status) begin() {
	s.loading = true
	s.lastError = ""
}

func (s *status) done() {
	s.loading = false
}

func (s *status) fail(err error) error {
	s.lastError = err.Error()
	s.loading = false
	return err
}

// Loading reports whether an operation is in flight.
func (s *status) Loading() bool { return s.loading }

// LastError returns the message recorded by the most recent failure, or "".
func (s *status) LastError() string { return s.lastError }
