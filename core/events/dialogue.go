package events

const (
	// KindSynthesisStarted identifies the start of a speech synthesis call.
	KindSynthesisStarted Kind = "synthesis.started"
	// KindSynthesisEnded identifies the resolution of a synthesis call,
	// successful or degraded.
	KindSynthesisEnded Kind = "synthesis.ended"
	// KindListening identifies the session waiting on a spoken response.
	KindListening Kind = "capture.listening"
	// KindTranscription identifies a captured user utterance.
	KindTranscription Kind = "capture.transcription"
	// KindCaptureFailed identifies a capture error the user can retry.
	KindCaptureFailed Kind = "capture.failed"
	// KindActionApplied identifies a resolved action mutating the session.
	KindActionApplied Kind = "turn.action_applied"
	// KindTurnAdvanced identifies progression to the next configuration step.
	KindTurnAdvanced Kind = "turn.advanced"
	// KindPlaybackStopped identifies the audio channel going quiet.
	KindPlaybackStopped Kind = "playback.stopped"
	// KindSessionCompleted identifies exhaustion of the step sequence.
	KindSessionCompleted Kind = "session.completed"
	// KindSessionStopped identifies an explicit stop back to idle.
	KindSessionStopped Kind = "session.stopped"
)

// SynthesisStarted marks a synthesis request being issued for the given text.
type SynthesisStarted struct {
	Base
	Text string
}

func NewSynthesisStarted(text string) SynthesisStarted {
	return SynthesisStarted{Base: NewBase(KindSynthesisStarted), Text: text}
}

// SynthesisEnded marks the resolution of a synthesis request. Degraded is
// true when the gateway fell back and no audio was produced.
type SynthesisEnded struct {
	Base
	Degraded bool
	Reason   string
}

func NewSynthesisEnded(degraded bool, reason string) SynthesisEnded {
	return SynthesisEnded{Base: NewBase(KindSynthesisEnded), Degraded: degraded, Reason: reason}
}

// Listening marks the session awaiting a spoken response for a turn.
type Listening struct {
	Base
	TurnToken string
}

func NewListening(turnToken string) Listening {
	return Listening{Base: NewBase(KindListening), TurnToken: turnToken}
}

// Transcription carries a captured utterance.
type Transcription struct {
	Base
	Transcript string
}

func NewTranscription(transcript string) Transcription {
	return Transcription{Base: NewBase(KindTranscription), Transcript: transcript}
}

// CaptureFailed carries the capture error code and the guidance shown to the
// user. The session stays in Listening and the turn is retryable.
type CaptureFailed struct {
	Base
	Code     string
	Guidance string
}

func NewCaptureFailed(code, guidance string) CaptureFailed {
	return CaptureFailed{Base: NewBase(KindCaptureFailed), Code: code, Guidance: guidance}
}

// ActionApplied marks an action having been executed against the session.
type ActionApplied struct {
	Base
	Action   string
	Feedback string
}

func NewActionApplied(action, feedback string) ActionApplied {
	return ActionApplied{Base: NewBase(KindActionApplied), Action: action, Feedback: feedback}
}

// TurnAdvanced marks progression onto the step with the given index.
type TurnAdvanced struct {
	Base
	StepIndex int
}

func NewTurnAdvanced(stepIndex int) TurnAdvanced {
	return TurnAdvanced{Base: NewBase(KindTurnAdvanced), StepIndex: stepIndex}
}

// PlaybackStopped marks the exclusive audio channel going quiet.
type PlaybackStopped struct{ Base }

func NewPlaybackStopped() PlaybackStopped {
	return PlaybackStopped{Base: NewBase(KindPlaybackStopped)}
}

// SessionCompleted marks the configuration sequence being exhausted.
type SessionCompleted struct{ Base }

func NewSessionCompleted() SessionCompleted {
	return SessionCompleted{Base: NewBase(KindSessionCompleted)}
}

// SessionStopped marks an explicit stop transitioning the session to idle.
type SessionStopped struct{ Base }

func NewSessionStopped() SessionStopped {
	return SessionStopped{Base: NewBase(KindSessionStopped)}
}
