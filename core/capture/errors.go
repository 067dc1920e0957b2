package capture

import "fmt"

// UnavailableError marks a capture capability that cannot be constructed,
// typically because its credential is absent. Callers check it once at
// wiring time instead of guarding every invocation.
type UnavailableError struct {
	Reason string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("speech capture unavailable: %s", e.Reason)
}
