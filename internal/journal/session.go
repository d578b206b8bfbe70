package journal

import (
	"strings"
	"time"

	"github.com/daybook-app/daybook/internal/camera"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/speech"
)

// editingSession holds the state of the compose surface. targetID is empty
// when composing a new entry and set when re-editing an existing one.
// Pending attachments live only in memory until the entry is saved.
type editingSession struct {
	targetID string
	draft    string
	focused  bool
	pending  []models.Attachment

	// At most one capture surface is open at a time: opening one tears
	// down the other. setRecording and setCamera keep that invariant.
	recording *recordingSession
	camera    *cameraSession
}

func (s *editingSession) setRecording(r *recordingSession) {
	s.recording = r
	s.camera = nil
}

func (s *editingSession) setCamera(c *cameraSession) {
	s.camera = c
	s.recording = nil
}

func (s *editingSession) clearCapture() {
	s.recording = nil
	s.camera = nil
}

// empty reports whether the session has nothing worth keeping: a
// whitespace-only draft and no pending attachments.
func (s *editingSession) empty() bool {
	return strings.TrimSpace(s.draft) == "" && len(s.pending) == 0
}

// recordingSession tracks one dictation. active flips to false when the
// recording stops or fails; duration, levels and transcript survive a stop
// so the user can still confirm the text afterwards.
type recordingSession struct {
	active     bool
	duration   time.Duration
	levels     *levelRing
	transcript string
	status     speech.AuthorizationStatus
	events     <-chan speech.TranscriptEvent
	stop       func()
}

func newRecordingSession() *recordingSession {
	return &recordingSession{
		active: true,
		levels: seededLevelRing(),
	}
}

// cameraStage tracks where the camera flow is: the options sheet, waiting
// on an authorization prompt, or an in-flight capture.
type cameraStage int

const (
	cameraStageOptions cameraStage = iota
	cameraStageAuthorizing
	cameraStageCapturing
	cameraStageScanning
)

// captureKind distinguishes the two camera flows.
type captureKind int

const (
	capturePhoto captureKind = iota
	captureScan
)

type cameraSession struct {
	stage  cameraStage
	kind   captureKind
	status camera.AuthorizationStatus
}
