// Package speech provides the voice capture collaborator: a cancellable live
// transcription stream plus a periodic audio-level signal, gated by an
// authorization step. The production implementation records PCM through an
// external recorder command and transcribes against a Whisper-compatible
// HTTP endpoint; Scripted is a deterministic source for tests and demo mode.
package speech

import (
	"context"
	"errors"
)

// AuthorizationStatus is the outcome of the microphone/speech consent check.
type AuthorizationStatus int

const (
	AuthorizationUndetermined AuthorizationStatus = iota
	AuthorizationGranted
	AuthorizationDenied
	AuthorizationRestricted
)

var (
	// ErrNotAuthorized is returned by StartTranscription without a prior
	// granted authorization.
	ErrNotAuthorized = errors.New("speech capture not authorized")

	// ErrUnavailable is returned when no recorder is present on this system.
	ErrUnavailable = errors.New("speech recognizer unavailable")
)

// TranscriptEvent is one element of the live transcription stream. Text
// carries the full transcript so far (each event replaces the previous one).
// A non-nil Err terminates the stream; the channel is closed right after.
type TranscriptEvent struct {
	Text       string
	Final      bool
	Confidence float64
	Err        error
}

// Source is the speech collaborator consumed by the journal controller.
type Source interface {
	// RequestAuthorization resolves the consent and availability gate.
	RequestAuthorization(ctx context.Context) (AuthorizationStatus, error)

	// StartTranscription begins a capture session and returns its event
	// stream. The stream closes on StopTranscription, context cancellation
	// or a terminal error event.
	StartTranscription(ctx context.Context) (<-chan TranscriptEvent, error)

	// StopTranscription ends the active capture session, if any.
	StopTranscription()

	// Available reports whether capture can work on this system at all.
	Available() bool

	// AudioLevel returns the current input level in [0, 1].
	AudioLevel() float64
}
