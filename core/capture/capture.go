package capture

import "context"

// Code classifies a failed capture attempt. The dialogue surfaces these as
// guidance text and stays retryable; they are never hard errors.
type Code string

const (
	CodeNoSpeech         Code = "no-speech"
	CodePermissionDenied Code = "permission-denied"
	CodeNetwork          Code = "network"
	CodeOther            Code = "other"
)

// Result is the tagged outcome of one capture invocation: exactly one
// transcript or one error code.
type Result struct {
	Transcript string
	Code       Code
}

func Transcript(transcript string) Result { return Result{Transcript: transcript} }

func Failure(code Code) Result { return Result{Code: code} }

// Failed reports whether the invocation produced an error code instead of a
// transcript.
func (r Result) Failed() bool { return r.Code != "" }

// Client captures one spoken response per Listen invocation.
//
// Listen blocks until a transcript or an error code is available, or until
// the context is cancelled (reported as CodeOther). Stop aborts an active
// Listen; it is safe to call with none active.
type Client interface {
	Listen(ctx context.Context) Result
	Stop()
}
