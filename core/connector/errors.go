package connector

import "fmt"

// ValidationError marks a payload that must not reach reconciliation:
// empty, structurally unexpected, or an anti-bot challenge response.
type ValidationError struct {
	Source string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("connector: invalid payload from %s: %s", e.Source, e.Reason)
}

// TransientError marks a network-level failure worth retrying within the
// cycle: connection errors, timeouts, upstream 5xx, rate limiting.
type TransientError struct {
	Source string
	Err    error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("connector: transient failure fetching %s: %v", e.Source, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}
