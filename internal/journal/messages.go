package journal

import (
	"github.com/daybook-app/daybook/internal/camera"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/speech"
)

// Intent messages. The key handler translates raw terminal input into
// these; tests dispatch them directly.

type startEditingMsg struct{}

type editorTextChangedMsg struct{ text string }

type setEditorFocusMsg struct{ focused bool }

type saveEntryMsg struct{}

type cancelEditingMsg struct{}

// dismissKeyboardMsg closes the compose surface: it saves when the session
// carries text or attachments, and cancels when it carries neither.
type dismissKeyboardMsg struct{}

type micTappedMsg struct{}

type stopRecordingMsg struct{}

type cancelRecordingMsg struct{}

type confirmRecordingMsg struct{}

type cameraTappedMsg struct{}

type takePhotoTappedMsg struct{}

type scanDocumentTappedMsg struct{}

type cameraCancelledMsg struct{}

type removePendingAttachmentMsg struct{ id string }

type entryTappedMsg struct{ id string }

type deleteEntryMsg struct{ id string }

type archiveInboxItemMsg struct{ id string }

type deleteInboxItemMsg struct{ id string }

// Completion messages delivered by effect commands.

type entriesLoadedMsg struct {
	entries []models.JournalEntry
	err     error
}

type streakLoadedMsg struct {
	streak int
	err    error
}

type statsLoadedMsg struct {
	entries int
	words   int
	err     error
}

type inboxLoadedMsg struct {
	items []models.InboxItem
	err   error
}

type entrySavedMsg struct{ err error }

type entryDeletedMsg struct{ err error }

type inboxChangedMsg struct{ err error }

// Recording completions carry the generation they belong to. A completion
// whose generation no longer matches the controller's counter belongs to an
// abandoned session and is dropped.

type speechAuthMsg struct {
	gen    int
	status speech.AuthorizationStatus
	err    error
}

type recordingStartedMsg struct {
	gen    int
	events <-chan speech.TranscriptEvent
	// stop ends this specific session at the source. Completion handlers
	// need it because a start that lost a replacement race is no longer
	// the source's current session, so the process-wide StopTranscription
	// cannot reach it.
	stop func()
	err  error
}

type recordingTickMsg struct{ gen int }

type transcriptMsg struct {
	gen   int
	event speech.TranscriptEvent
	ok    bool
}

// Camera completions are tagged the same way.

type cameraAuthMsg struct {
	gen    int
	kind   captureKind
	status camera.AuthorizationStatus
	err    error
}

type photoCapturedMsg struct {
	gen  int
	data []byte
	err  error
}

type documentScannedMsg struct {
	gen   int
	pages [][]byte
	err   error
}
