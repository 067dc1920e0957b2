package dialogue

import "fmt"

// ValidationError reports a malformed input or configuration the dialogue
// cannot proceed with. It is raised at call boundaries, never mid-turn.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
