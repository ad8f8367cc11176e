package sync

// Result reports the outcome of a sync attempt. Attempts that could
// not run (disabled, busy) are skipped, not failed; Reason explains
// skips and failures.
type Result struct {
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Success is a completed sync.
func Success() Result {
	return Result{OK: true}
}

// Skip is an attempt that deliberately did not run.
func Skip(reason string) Result {
	return Result{OK: true, Skipped: true, Reason: reason}
}

// Failure is an attempt that ran and could not complete.
func Failure(reason string) Result {
	return Result{OK: false, Reason: reason}
}
