package engine

import "github.com/google/uuid"

// newRunID mints a correlation identifier for a single solver invocation,
// threaded through diagnostics and logging so a signer/planner call can be
// traced end to end.
func newRunID() string {
	return uuid.NewString()
}
