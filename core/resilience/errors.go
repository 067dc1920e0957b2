package resilience

import (
	"encoding/json"
	"fmt"
)

// StatusError is returned by producers for status-coded remote failures so
// Call can route them through the retry policy. Detail carries any diagnostic
// extracted from the response body.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("remote call failed with status %d", e.Status)
	}
	return fmt.Sprintf("remote call failed with status %d: %s", e.Status, e.Detail)
}

// FallbackError is returned by producers when the remote service itself
// declared degradation (e.g. responded with fallback:true). Call converts it
// into a fallback Result immediately, without retrying.
type FallbackError struct {
	Reason string
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("service declared fallback: %s", e.Reason)
}

// ConfigurationError marks an essential call that cannot ever succeed as
// configured, most commonly a missing credential. It halts only the dependent
// feature and is surfaced at most once per session.
type ConfigurationError struct {
	Feature string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured: %s", e.Feature, e.Reason)
}

// ErrorDetail pulls a human-readable diagnostic out of a JSON error body.
// Services disagree on the shape, so the common ones are tried in order and
// a failure to parse yields the empty string rather than an error.
func ErrorDetail(body []byte) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &nested); err == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}

	var flat struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &flat); err == nil {
		if flat.Error != "" {
			return flat.Error
		}
		return flat.Message
	}

	return ""
}
