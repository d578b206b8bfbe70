// Package journal implements the daily journal screen: today's entry list,
// the streak counter, the inbox review surface and the compose surface with
// dictation and camera capture. The Controller is a bubbletea model; every
// state change happens in Update in response to a typed message, and all
// storage and device work runs in commands that report back with completion
// messages. Update is the only writer of controller state, so no locking is
// needed anywhere in this package.
package journal

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/daybook-app/daybook/internal/camera"
	"github.com/daybook-app/daybook/internal/config"
	"github.com/daybook-app/daybook/internal/logging"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/speech"
	"github.com/daybook-app/daybook/internal/storage"
)

// tab selects which list the main screen shows.
type tab int

const (
	tabJournal tab = iota
	tabInbox
)

// Controller is the top-level model for the journal screen.
type Controller struct {
	store  storage.Storage
	speech speech.Source
	camera camera.Source
	log    logging.Logger

	timeout time.Duration
	now     func() time.Time

	keys  KeyMap
	input textarea.Model

	entries []models.JournalEntry
	streak  int
	loading bool
	errMsg  string

	totalEntries int
	totalWords   int

	inbox    []models.InboxItem
	inboxCur int

	session *editingSession
	detail  *detailController

	activeTab tab
	cursor    int

	// scrollTicket increments after a successful save so the view scrolls
	// the fresh entry into sight.
	scrollTicket int

	// recGen and camGen tag the effects of the current recording and
	// camera sessions. Tearing a session down bumps the counter, so any
	// still-in-flight completion from the old session arrives stale and
	// is dropped. This is also what keeps exactly one tick chain alive.
	recGen int
	camGen int

	width  int
	height int
}

// NewController builds the journal screen around its collaborators. The
// returned controller is ready to hand to tea.NewProgram.
func NewController(store storage.Storage, speechSource speech.Source, cameraSource camera.Source, cfg *config.Config, log logging.Logger) *Controller {
	input := textarea.New()
	input.Placeholder = "What happened today?"
	input.CharLimit = 0
	input.ShowLineNumbers = false
	input.SetHeight(5)

	return &Controller{
		store:   store,
		speech:  speechSource,
		camera:  cameraSource,
		log:     log,
		timeout: cfg.StorageTimeout,
		now:     time.Now,
		keys:    DefaultKeyMap,
		input:   input,
		loading: true,
	}
}

// Init implements tea.Model. Kicks off the initial loads.
func (c *Controller) Init() tea.Cmd {
	return tea.Batch(c.loadEntriesCmd(), c.loadStreakCmd(), c.loadStatsCmd(), c.loadInboxCmd())
}

// Update implements tea.Model.
func (c *Controller) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		c.width = msg.Width
		c.height = msg.Height
		c.input.SetWidth(max(20, c.width-4))
		if c.detail != nil {
			c.detail.setSize(c.width, c.height)
		}
		return c, nil

	case tea.KeyMsg:
		return c.handleKey(msg)

	// Detail modal messages.
	case detailEditMsg, detailTitleChangedMsg, detailContentChangedMsg,
		detailSaveMsg, detailDeleteMsg, detailCloseMsg,
		detailSavedMsg, detailDeletedMsg:
		return c.routeDetail(msg)

	// Load completions.
	case entriesLoadedMsg:
		c.loading = false
		if msg.err != nil {
			c.log.Error(context.Background(), "load entries failed", "error", msg.err)
			c.errMsg = "could not load entries"
			return c, nil
		}
		c.entries = msg.entries
		c.errMsg = ""
		if c.cursor >= len(c.entries) {
			c.cursor = max(0, len(c.entries)-1)
		}
		return c, nil

	case streakLoadedMsg:
		if msg.err != nil {
			c.log.Warn(context.Background(), "streak calculation failed", "error", msg.err)
			c.streak = 0
			return c, nil
		}
		c.streak = msg.streak
		return c, nil

	case statsLoadedMsg:
		if msg.err != nil {
			c.log.Warn(context.Background(), "stats load failed", "error", msg.err)
			return c, nil
		}
		c.totalEntries = msg.entries
		c.totalWords = msg.words
		return c, nil

	case inboxLoadedMsg:
		if msg.err != nil {
			c.log.Error(context.Background(), "load inbox failed", "error", msg.err)
			c.errMsg = "could not load inbox"
			return c, nil
		}
		c.inbox = msg.items
		if c.inboxCur >= len(c.inbox) {
			c.inboxCur = max(0, len(c.inbox)-1)
		}
		return c, nil

	// Editing lifecycle.
	case startEditingMsg:
		return c.handleStartEditing()

	case editorTextChangedMsg:
		if c.session == nil {
			return c, nil
		}
		c.session.draft = msg.text
		return c, nil

	case setEditorFocusMsg:
		return c.handleEditorFocus(msg.focused)

	case saveEntryMsg:
		return c, c.saveSession()

	case dismissKeyboardMsg:
		if c.session == nil {
			return c, nil
		}
		if c.session.empty() {
			c.destroySession()
			return c, nil
		}
		return c, c.saveSession()

	case cancelEditingMsg:
		c.destroySession()
		return c, nil

	case entrySavedMsg:
		return c.handleEntrySaved(msg)

	case removePendingAttachmentMsg:
		if c.session == nil {
			return c, nil
		}
		kept := c.session.pending[:0]
		for _, att := range c.session.pending {
			if att.ID != msg.id {
				kept = append(kept, att)
			}
		}
		c.session.pending = kept
		return c, nil

	// List operations.
	case entryTappedMsg:
		for i := range c.entries {
			if c.entries[i].ID == msg.id {
				c.detail = newDetailController(c.entries[i], c.store, c.timeout, c.log)
				c.detail.setSize(c.width, c.height)
				return c, nil
			}
		}
		return c, nil

	case deleteEntryMsg:
		for i := range c.entries {
			if c.entries[i].ID == msg.id {
				return c, c.deleteEntryCmd(msg.id)
			}
		}
		return c, nil

	case entryDeletedMsg:
		if msg.err != nil {
			c.log.Error(context.Background(), "delete entry failed", "error", msg.err)
			c.errMsg = "could not delete entry"
			return c, nil
		}
		c.loading = true
		return c, tea.Batch(c.loadEntriesCmd(), c.loadStreakCmd(), c.loadStatsCmd())

	// Inbox operations.
	case archiveInboxItemMsg:
		return c, c.archiveInboxCmd(msg.id)

	case deleteInboxItemMsg:
		return c, c.deleteInboxCmd(msg.id)

	case inboxChangedMsg:
		if msg.err != nil {
			c.log.Error(context.Background(), "inbox update failed", "error", msg.err)
			c.errMsg = "could not update inbox"
			return c, nil
		}
		return c, c.loadInboxCmd()

	// Recording sub-machine.
	case micTappedMsg:
		return c.handleMicTapped()
	case speechAuthMsg:
		return c.handleSpeechAuth(msg)
	case recordingStartedMsg:
		return c.handleRecordingStarted(msg)
	case recordingTickMsg:
		return c.handleRecordingTick(msg)
	case transcriptMsg:
		return c.handleTranscript(msg)
	case stopRecordingMsg:
		return c.handleStopRecording()
	case cancelRecordingMsg:
		return c.handleCancelRecording()
	case confirmRecordingMsg:
		return c.handleConfirmRecording()

	// Camera sub-machine.
	case cameraTappedMsg:
		return c.handleCameraTapped()
	case takePhotoTappedMsg:
		return c.beginCapture(capturePhoto)
	case scanDocumentTappedMsg:
		return c.beginCapture(captureScan)
	case cameraAuthMsg:
		return c.handleCameraAuth(msg)
	case photoCapturedMsg:
		return c.handlePhotoCaptured(msg)
	case documentScannedMsg:
		return c.handleDocumentScanned(msg)
	case cameraCancelledMsg:
		return c.handleCameraCancelled()
	}

	return c, nil
}

func (c *Controller) handleStartEditing() (tea.Model, tea.Cmd) {
	if c.session != nil {
		return c, nil
	}
	c.session = &editingSession{focused: true}
	c.errMsg = ""
	c.input.Reset()
	return c, c.input.Focus()
}

func (c *Controller) handleEditorFocus(focused bool) (tea.Model, tea.Cmd) {
	if c.session == nil {
		return c, nil
	}
	c.session.focused = focused
	if focused {
		return c, c.input.Focus()
	}
	c.input.Blur()
	// Blurring an untouched session with no capture surface open abandons
	// it outright.
	if c.session.empty() && c.session.recording == nil && c.session.camera == nil {
		c.destroySession()
	}
	return c, nil
}

// destroySession tears down any open capture surface and discards the
// editing session. Safe to call when no session exists.
func (c *Controller) destroySession() {
	c.teardownCapture()
	c.session = nil
	c.input.Reset()
	c.input.Blur()
}

// teardownCapture closes whatever capture surface is open and invalidates
// its in-flight effects by bumping the generation counters.
func (c *Controller) teardownCapture() {
	if c.session == nil {
		return
	}
	if c.session.recording != nil {
		c.recGen++
		c.stopRecordingSource(c.session.recording)
	}
	if c.session.camera != nil {
		c.camGen++
	}
	c.session.clearCapture()
}

// saveSession persists the compose surface. A session with neither text nor
// attachments is discarded instead of saved.
func (c *Controller) saveSession() tea.Cmd {
	s := c.session
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(s.draft)
	if trimmed == "" && len(s.pending) == 0 {
		c.destroySession()
		return nil
	}
	c.teardownCapture()
	if s.targetID != "" {
		return c.updateEntryContentCmd(s.targetID, trimmed)
	}
	entry := models.NewJournalEntry("", trimmed, s.pending)
	return c.createEntryCmd(entry)
}

func (c *Controller) handleEntrySaved(msg entrySavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// The draft survives a failed save so nothing the user wrote is
		// lost.
		c.log.Error(context.Background(), "save entry failed", "error", msg.err)
		c.errMsg = "could not save entry"
		return c, nil
	}
	c.session = nil
	c.input.Reset()
	c.input.Blur()
	c.errMsg = ""
	c.scrollTicket++
	c.loading = true
	return c, tea.Batch(c.loadEntriesCmd(), c.loadStreakCmd(), c.loadStatsCmd())
}

// withTimeout bounds one storage or authorization effect.
func (c *Controller) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

func (c *Controller) loadEntriesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.withTimeout()
		defer cancel()
		entries, err := c.store.FetchTodayEntries(ctx)
		return entriesLoadedMsg{entries: entries, err: err}
	}
}

func (c *Controller) loadStreakCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.withTimeout()
		defer cancel()
		streak, err := c.store.CalculateStreak(ctx)
		return streakLoadedMsg{streak: streak, err: err}
	}
}

func (c *Controller) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.withTimeout()
		defer cancel()
		count, err := c.store.TotalEntryCount(ctx)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		words, err := c.store.TotalWordCount(ctx)
		return statsLoadedMsg{entries: count, words: words, err: err}
	}
}

func (c *Controller) loadInboxCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.withTimeout()
		defer cancel()
		items, err := c.store.FetchActiveInboxItems(ctx)
		return inboxLoadedMsg{items: items, err: err}
	}
}

func (c *Controller) createEntryCmd(entry models.JournalEntry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.withTimeout()
		defer cancel()
		return entrySavedMsg{err: c.store.CreateEntry(ctx, entry)}
	}
}

func (c *Controller) updateEntryContentCmd(id, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.withTimeout()
		defer cancel()
		return entrySavedMsg{err: c.store.UpdateEntryContent(ctx, id, content)}
	}
}

func (c *Controller) deleteEntryCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.withTimeout()
		defer cancel()
		return entryDeletedMsg{err: c.store.DeleteEntry(ctx, id)}
	}
}

func (c *Controller) archiveInboxCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.withTimeout()
		defer cancel()
		return inboxChangedMsg{err: c.store.ArchiveInboxItem(ctx, id)}
	}
}

func (c *Controller) deleteInboxCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.withTimeout()
		defer cancel()
		return inboxChangedMsg{err: c.store.DeleteInboxItem(ctx, id)}
	}
}

func (c *Controller) routeDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if c.detail == nil {
		return c, nil
	}
	cmd := c.detail.update(msg)
	if c.detail.closed {
		changed := c.detail.changed
		c.detail = nil
		if changed {
			c.loading = true
			return c, tea.Batch(cmd, c.loadEntriesCmd(), c.loadStreakCmd(), c.loadStatsCmd())
		}
	}
	return c, cmd
}
