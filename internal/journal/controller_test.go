package journal

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-app/daybook/internal/camera"
	"github.com/daybook-app/daybook/internal/config"
	"github.com/daybook-app/daybook/internal/logging"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/speech"
	"github.com/daybook-app/daybook/internal/storage"
)

func newTestController(t *testing.T) (*Controller, *storage.Memory, *speech.Scripted, *camera.Fake) {
	t.Helper()
	store := storage.NewMemory()
	speechSource := &speech.Scripted{Auth: speech.AuthorizationGranted}
	cameraSource := &camera.Fake{
		Status:     camera.AuthorizationGranted,
		HasCamera:  true,
		HasScanner: true,
	}
	cfg := &config.Config{StorageTimeout: 5 * time.Second}
	c := NewController(store, speechSource, cameraSource, cfg, logging.Nop())
	t.Cleanup(speechSource.StopTranscription)
	return c, store, speechSource, cameraSource
}

// dispatch runs one message through Update and returns the resulting
// command without executing it.
func dispatch(c *Controller, msg tea.Msg) tea.Cmd {
	_, cmd := c.Update(msg)
	return cmd
}

// deliver executes a command tree synchronously and feeds every produced
// message back into the controller. Only suitable for flows that
// terminate, i.e. storage round trips; recording ticks reschedule forever
// and are driven by hand instead.
func deliver(t *testing.T, c *Controller, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			deliver(t, c, sub)
		}
		return
	}
	_, next := c.Update(msg)
	deliver(t, c, next)
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func seedEntry(t *testing.T, store *storage.Memory, content string) models.JournalEntry {
	t.Helper()
	entry := models.NewJournalEntry("", content, nil)
	require.NoError(t, store.CreateEntry(context.Background(), entry))
	return entry
}

func TestInitLoadsEntriesStreakAndInbox(t *testing.T) {
	c, store, _, _ := newTestController(t)
	seedEntry(t, store, "first thing this morning")
	seedEntry(t, store, "lunch notes")

	require.True(t, c.loading)
	deliver(t, c, c.Init())

	assert.False(t, c.loading)
	assert.Len(t, c.entries, 2)
	assert.Equal(t, 1, c.streak)
	assert.Equal(t, 2, c.totalEntries)
	assert.Equal(t, 6, c.totalWords)
}

func TestLoadFailureKeepsStaleList(t *testing.T) {
	c, store, _, _ := newTestController(t)
	seedEntry(t, store, "already loaded")
	deliver(t, c, c.loadEntriesCmd())
	require.Len(t, c.entries, 1)

	store.FailWith("FetchTodayEntries", errors.New("disk gone"))
	deliver(t, c, c.loadEntriesCmd())

	assert.Len(t, c.entries, 1, "stale list must survive a failed reload")
	assert.NotEmpty(t, c.errMsg)
}

func TestStreakFailureResetsToZeroSilently(t *testing.T) {
	c, store, _, _ := newTestController(t)
	seedEntry(t, store, "x")
	deliver(t, c, c.loadStreakCmd())
	require.Equal(t, 1, c.streak)

	store.FailWith("CalculateStreak", errors.New("boom"))
	deliver(t, c, c.loadStreakCmd())

	assert.Zero(t, c.streak)
	assert.Empty(t, c.errMsg)
}

func TestStartEditingCreatesFocusedEmptySession(t *testing.T) {
	c, _, _, _ := newTestController(t)

	dispatch(c, startEditingMsg{})

	require.NotNil(t, c.session)
	assert.True(t, c.session.focused)
	assert.Empty(t, c.session.draft)
	assert.Empty(t, c.session.pending)
	assert.Empty(t, c.session.targetID)
}

func TestSaveEntryTrimsWhitespace(t *testing.T) {
	c, store, _, _ := newTestController(t)

	dispatch(c, startEditingMsg{})
	dispatch(c, editorTextChangedMsg{text: "  went for a run  \n"})
	deliver(t, c, dispatch(c, saveEntryMsg{}))

	assert.Nil(t, c.session)
	entries, err := store.FetchTodayEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "went for a run", entries[0].Content)
}

func TestSaveEntryWithNothingToKeepDiscardsSession(t *testing.T) {
	c, store, _, _ := newTestController(t)

	dispatch(c, startEditingMsg{})
	dispatch(c, editorTextChangedMsg{text: "   \n\t"})
	cmd := dispatch(c, saveEntryMsg{})

	assert.Nil(t, cmd)
	assert.Nil(t, c.session)
	entries, err := store.FetchTodayEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveEntryWithOnlyAttachmentPersists(t *testing.T) {
	c, store, _, _ := newTestController(t)

	dispatch(c, startEditingMsg{})
	att := models.NewAttachment(models.AttachmentKindImage, []byte("jpeg"), []byte("thumb"), "image/jpeg")
	c.session.pending = append(c.session.pending, att)
	deliver(t, c, dispatch(c, saveEntryMsg{}))

	assert.Nil(t, c.session)
	entries, err := store.FetchTodayEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Content)
	require.Len(t, entries[0].Attachments, 1)
	assert.Equal(t, models.AttachmentKindImage, entries[0].Attachments[0].Kind)
}

func TestSaveSuccessRefreshesListStreakAndScroll(t *testing.T) {
	c, _, _, _ := newTestController(t)

	dispatch(c, startEditingMsg{})
	dispatch(c, editorTextChangedMsg{text: "a fine day"})
	before := c.scrollTicket
	deliver(t, c, dispatch(c, saveEntryMsg{}))

	assert.Equal(t, before+1, c.scrollTicket)
	assert.Len(t, c.entries, 1)
	assert.Equal(t, 1, c.streak)
	assert.Equal(t, 1, c.totalEntries)
	assert.False(t, c.loading)
}

func TestSaveFailurePreservesDraft(t *testing.T) {
	c, store, _, _ := newTestController(t)
	store.FailWith("CreateEntry", errors.New("readonly fs"))

	dispatch(c, startEditingMsg{})
	dispatch(c, editorTextChangedMsg{text: "do not lose this"})
	deliver(t, c, dispatch(c, saveEntryMsg{}))

	require.NotNil(t, c.session)
	assert.Equal(t, "do not lose this", c.session.draft)
	assert.NotEmpty(t, c.errMsg)
}

func TestDismissKeyboardSavesWhenContentExists(t *testing.T) {
	c, store, _, _ := newTestController(t)

	dispatch(c, startEditingMsg{})
	dispatch(c, editorTextChangedMsg{text: "quick note"})
	deliver(t, c, dispatch(c, dismissKeyboardMsg{}))

	assert.Nil(t, c.session)
	entries, err := store.FetchTodayEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDismissKeyboardCancelsEmptySession(t *testing.T) {
	c, store, _, _ := newTestController(t)

	dispatch(c, startEditingMsg{})
	cmd := dispatch(c, dismissKeyboardMsg{})

	assert.Nil(t, cmd)
	assert.Nil(t, c.session)
	entries, err := store.FetchTodayEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCancelEditingIsIdempotent(t *testing.T) {
	c, _, _, _ := newTestController(t)

	dispatch(c, startEditingMsg{})
	dispatch(c, editorTextChangedMsg{text: "unsaved"})
	dispatch(c, cancelEditingMsg{})
	assert.Nil(t, c.session)

	dispatch(c, cancelEditingMsg{})
	assert.Nil(t, c.session)
}

func TestBlurDestroysUntouchedSessionOnly(t *testing.T) {
	c, _, _, _ := newTestController(t)

	dispatch(c, startEditingMsg{})
	dispatch(c, setEditorFocusMsg{focused: false})
	assert.Nil(t, c.session, "blurring an empty session abandons it")

	dispatch(c, startEditingMsg{})
	dispatch(c, editorTextChangedMsg{text: "keep me"})
	dispatch(c, setEditorFocusMsg{focused: false})
	require.NotNil(t, c.session)
	assert.False(t, c.session.focused)
	assert.Equal(t, "keep me", c.session.draft)
}

func TestRemovePendingAttachment(t *testing.T) {
	c, _, _, _ := newTestController(t)

	dispatch(c, startEditingMsg{})
	first := models.NewAttachment(models.AttachmentKindImage, []byte("a"), nil, "image/jpeg")
	second := models.NewAttachment(models.AttachmentKindScan, []byte("b"), nil, "image/jpeg")
	c.session.pending = append(c.session.pending, first, second)

	dispatch(c, removePendingAttachmentMsg{id: first.ID})
	require.Len(t, c.session.pending, 1)
	assert.Equal(t, second.ID, c.session.pending[0].ID)

	dispatch(c, removePendingAttachmentMsg{id: "no-such-id"})
	assert.Len(t, c.session.pending, 1)
}

func TestDeleteEntryReloadsList(t *testing.T) {
	c, store, _, _ := newTestController(t)
	entry := seedEntry(t, store, "short lived")
	deliver(t, c, c.loadEntriesCmd())
	require.Len(t, c.entries, 1)

	deliver(t, c, dispatch(c, deleteEntryMsg{id: entry.ID}))

	assert.Empty(t, c.entries)
}

func TestDeleteUnknownEntryIsNoop(t *testing.T) {
	c, store, _, _ := newTestController(t)
	seedEntry(t, store, "stays")
	deliver(t, c, c.loadEntriesCmd())

	cmd := dispatch(c, deleteEntryMsg{id: "not-in-list"})

	assert.Nil(t, cmd)
	assert.Len(t, c.entries, 1)
}

func TestEntryTappedOpensDetailForKnownEntryOnly(t *testing.T) {
	c, store, _, _ := newTestController(t)
	entry := seedEntry(t, store, "tap me")
	deliver(t, c, c.loadEntriesCmd())

	dispatch(c, entryTappedMsg{id: "unknown"})
	assert.Nil(t, c.detail)

	dispatch(c, entryTappedMsg{id: entry.ID})
	require.NotNil(t, c.detail)
	assert.Equal(t, entry.ID, c.detail.entry.ID)
}

func TestInboxArchiveRemovesItemFromActiveList(t *testing.T) {
	c, store, _, _ := newTestController(t)
	item := models.NewInboxItem("call the dentist")
	require.NoError(t, store.CreateInboxItem(context.Background(), item))
	deliver(t, c, c.loadInboxCmd())
	require.Len(t, c.inbox, 1)

	deliver(t, c, dispatch(c, archiveInboxItemMsg{id: item.ID}))

	assert.Empty(t, c.inbox)
}

func TestInboxDeleteFailureSurfacesError(t *testing.T) {
	c, store, _, _ := newTestController(t)
	item := models.NewInboxItem("flaky")
	require.NoError(t, store.CreateInboxItem(context.Background(), item))
	deliver(t, c, c.loadInboxCmd())
	store.FailWith("DeleteInboxItem", errors.New("locked"))

	deliver(t, c, dispatch(c, deleteInboxItemMsg{id: item.ID}))

	assert.NotEmpty(t, c.errMsg)
	assert.Len(t, c.inbox, 1)
}

func TestViewRendersWithoutSession(t *testing.T) {
	c, store, _, _ := newTestController(t)
	seedEntry(t, store, "render me please")
	deliver(t, c, c.Init())
	dispatch(c, tea.WindowSizeMsg{Width: 80, Height: 24})

	out := c.View()

	assert.Contains(t, out, "Daybook")
	assert.Contains(t, out, "render me please")
}
