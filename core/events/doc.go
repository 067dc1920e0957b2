// Package events defines the typed dialogue event contract.
//
// Event kinds are grouped by namespace:
//
//   - synthesis.*: speech synthesis lifecycle (started, ended; a resolution
//     may be degraded, meaning the gateway fell back and no audio exists).
//   - capture.*: spoken-response capture (listening, transcription, failed;
//     a failed capture leaves the session retryable).
//   - turn.*: classification and execution outcomes (action_applied,
//     advanced).
//   - playback.*: the exclusive audio output channel (stopped).
//   - session.*: session lifecycle boundaries (completed, stopped).
//
// Events are observational: consuming or ignoring them never changes the
// behavior of the turn state machine.
package events
