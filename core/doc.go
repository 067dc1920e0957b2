// Package dialogue is the voice-first turn engine of voxaide. It runs one
// turn at a time: voice a prompt, capture a single reply, interpret it into
// an action, apply the action to the session, and voice the feedback.
//
// The package owns the session state and the turn cycle; everything with a
// wire or a device behind it (speech capture, synthesis, news, text
// simplification, the profile store) is injected through options so the
// engine runs the same against real services and test fakes.
package dialogue
