package journal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daybook-app/daybook/internal/speech"
)

// grantRecording walks a fresh mic tap through authorization and stream
// start, so the recording is live and its generation is current.
func grantRecording(t *testing.T, c *Controller) *recordingSession {
	t.Helper()
	dispatch(c, micTappedMsg{})
	require.NotNil(t, c.session.recording)
	cmd := dispatch(c, speechAuthMsg{gen: c.recGen, status: speech.AuthorizationGranted})
	require.NotNil(t, cmd, "granted auth must start the stream and the tick chain")
	events, err := c.speech.StartTranscription(context.Background())
	require.NoError(t, err)
	dispatch(c, recordingStartedMsg{gen: c.recGen, events: events})
	return c.session.recording
}

func TestMicTappedSeedsPlaceholderWaveform(t *testing.T) {
	c, _, _, _ := newTestController(t)
	dispatch(c, startEditingMsg{})

	dispatch(c, micTappedMsg{})

	rec := c.session.recording
	require.NotNil(t, rec)
	assert.True(t, rec.active)
	assert.Zero(t, rec.duration)
	assert.Equal(t, levelCapacity, rec.levels.len())
	for _, v := range rec.levels.values() {
		assert.GreaterOrEqual(t, v, 0.1)
		assert.LessOrEqual(t, v, 0.3)
	}
}

func TestMicTappedWithoutSessionIsNoop(t *testing.T) {
	c, _, _, _ := newTestController(t)

	cmd := dispatch(c, micTappedMsg{})

	assert.Nil(t, cmd)
	assert.Nil(t, c.session)
}

func TestDeniedAuthorizationDeactivatesRecording(t *testing.T) {
	c, _, _, _ := newTestController(t)
	dispatch(c, startEditingMsg{})
	dispatch(c, micTappedMsg{})

	cmd := dispatch(c, speechAuthMsg{gen: c.recGen, status: speech.AuthorizationDenied})

	assert.Nil(t, cmd, "a denied recording must schedule no further effects")
	rec := c.session.recording
	require.NotNil(t, rec)
	assert.False(t, rec.active)
	assert.NotEmpty(t, c.errMsg)
}

func TestRecordingTickAdvancesDurationAndSamplesLevel(t *testing.T) {
	c, _, speechSource, _ := newTestController(t)
	speechSource.Levels = []float64{0.75}
	dispatch(c, startEditingMsg{})
	rec := grantRecording(t, c)

	cmd := dispatch(c, recordingTickMsg{gen: c.recGen})

	require.NotNil(t, cmd, "a live tick reschedules itself")
	assert.Equal(t, 100*time.Millisecond, rec.duration)
	values := rec.levels.values()
	assert.Equal(t, 0.75, values[len(values)-1])
}

func TestLevelRingStaysBounded(t *testing.T) {
	c, _, _, _ := newTestController(t)
	dispatch(c, startEditingMsg{})
	rec := grantRecording(t, c)

	for i := 0; i < 50; i++ {
		dispatch(c, recordingTickMsg{gen: c.recGen})
	}

	assert.Equal(t, levelCapacity, rec.levels.len())
	assert.Equal(t, 5*time.Second, rec.duration)
}

func TestTranscriptEventsReplaceNotAppend(t *testing.T) {
	c, _, _, _ := newTestController(t)
	dispatch(c, startEditingMsg{})
	rec := grantRecording(t, c)

	dispatch(c, transcriptMsg{gen: c.recGen, event: speech.TranscriptEvent{Text: "hello"}, ok: true})
	dispatch(c, transcriptMsg{gen: c.recGen, event: speech.TranscriptEvent{Text: "hello there"}, ok: true})

	assert.Equal(t, "hello there", rec.transcript)
}

func TestSecondMicTapLeavesSingleLiveSession(t *testing.T) {
	c, _, speechSource, _ := newTestController(t)
	dispatch(c, startEditingMsg{})
	grantRecording(t, c)
	staleGen := c.recGen

	// Tap again while the first recording is still live.
	second := grantRecording(t, c)
	require.NotEqual(t, staleGen, c.recGen)
	_, stops := speechSource.Sessions()
	assert.Positive(t, stops, "the first session's recorder must be stopped")

	// The first session's tick chain dies on arrival.
	cmd := dispatch(c, recordingTickMsg{gen: staleGen})
	assert.Nil(t, cmd)
	assert.Zero(t, second.duration)

	// The replacement's tick chain is alive.
	cmd = dispatch(c, recordingTickMsg{gen: c.recGen})
	assert.NotNil(t, cmd)
	assert.Equal(t, 100*time.Millisecond, second.duration)

	// And a stale transcript cannot leak into the new session.
	dispatch(c, transcriptMsg{gen: staleGen, event: speech.TranscriptEvent{Text: "ghost"}, ok: true})
	assert.Empty(t, second.transcript)
}

func TestReorderedStaleStartDoesNotLeakRecorder(t *testing.T) {
	c, _, speechSource, _ := newTestController(t)
	dispatch(c, startEditingMsg{})

	// First mic tap, authorized. Capture its start command without
	// running it — command delivery order is not guaranteed, so it may
	// execute after a replacement's own start.
	dispatch(c, micTappedMsg{})
	staleGen := c.recGen
	dispatch(c, speechAuthMsg{gen: staleGen, status: speech.AuthorizationGranted})
	staleStart := c.startTranscriptionCmd(staleGen)

	// Second mic tap replaces the session; its start runs first and is
	// accepted.
	dispatch(c, micTappedMsg{})
	liveGen := c.recGen
	dispatch(c, speechAuthMsg{gen: liveGen, status: speech.AuthorizationGranted})
	liveMsg := c.startTranscriptionCmd(liveGen)().(recordingStartedMsg)
	dispatch(c, liveMsg)

	// The delayed first start now executes. Its source-level setup tears
	// down the accepted stream, so the accepted session ends without an
	// error event.
	staleMsg := staleStart().(recordingStartedMsg)
	dispatch(c, transcriptMsg{gen: liveGen, ok: false})
	require.False(t, c.session.recording.active)

	// Dropping the stale completion must still stop the session it
	// opened — nobody else will ever consume or stop that stream.
	dispatch(c, staleMsg)
	select {
	case _, ok := <-staleMsg.events:
		assert.False(t, ok, "the orphaned stream must be closed, not live")
	case <-time.After(time.Second):
		t.Fatal("orphaned recorder session was never stopped")
	}

	// And stopping the (already inactive) surface still reaches the
	// source, so no termination path skips the recorder.
	_, stopsBefore := speechSource.Sessions()
	dispatch(c, stopRecordingMsg{})
	_, stopsAfter := speechSource.Sessions()
	assert.Greater(t, stopsAfter, stopsBefore)
}

func TestStopRecordingKeepsTranscriptAndDuration(t *testing.T) {
	c, _, speechSource, _ := newTestController(t)
	dispatch(c, startEditingMsg{})
	rec := grantRecording(t, c)
	dispatch(c, recordingTickMsg{gen: c.recGen})
	dispatch(c, transcriptMsg{gen: c.recGen, event: speech.TranscriptEvent{Text: "dictated words"}, ok: true})

	dispatch(c, stopRecordingMsg{})

	assert.False(t, rec.active)
	assert.Equal(t, "dictated words", rec.transcript)
	assert.Equal(t, 100*time.Millisecond, rec.duration)
	_, stops := speechSource.Sessions()
	assert.Positive(t, stops)

	// Ticks from the stopped session no longer advance anything.
	cmd := dispatch(c, recordingTickMsg{gen: c.recGen})
	assert.Nil(t, cmd)
	assert.Equal(t, 100*time.Millisecond, rec.duration)
}

func TestConfirmRecordingMergesIntoEmptyDraft(t *testing.T) {
	c, _, _, _ := newTestController(t)
	dispatch(c, startEditingMsg{})
	grantRecording(t, c)
	dispatch(c, transcriptMsg{gen: c.recGen, event: speech.TranscriptEvent{Text: "hello there"}, ok: true})

	dispatch(c, confirmRecordingMsg{})

	assert.Nil(t, c.session.recording)
	assert.Equal(t, "hello there", c.session.draft)
}

func TestConfirmRecordingAppendsAfterSpace(t *testing.T) {
	c, _, _, _ := newTestController(t)
	dispatch(c, startEditingMsg{})
	dispatch(c, editorTextChangedMsg{text: "Notes:"})
	grantRecording(t, c)
	dispatch(c, transcriptMsg{gen: c.recGen, event: speech.TranscriptEvent{Text: "hello there"}, ok: true})

	dispatch(c, confirmRecordingMsg{})

	assert.Equal(t, "Notes: hello there", c.session.draft)
}

func TestConfirmRecordingWithEmptyTranscriptLeavesDraftAlone(t *testing.T) {
	c, _, _, _ := newTestController(t)
	dispatch(c, startEditingMsg{})
	dispatch(c, editorTextChangedMsg{text: "untouched"})
	grantRecording(t, c)

	dispatch(c, confirmRecordingMsg{})

	assert.Nil(t, c.session.recording)
	assert.Equal(t, "untouched", c.session.draft)
}

func TestCancelRecordingDiscardsEverything(t *testing.T) {
	c, _, speechSource, _ := newTestController(t)
	dispatch(c, startEditingMsg{})
	dispatch(c, editorTextChangedMsg{text: "draft stays"})
	grantRecording(t, c)
	dispatch(c, transcriptMsg{gen: c.recGen, event: speech.TranscriptEvent{Text: "discarded"}, ok: true})

	dispatch(c, cancelRecordingMsg{})

	assert.Nil(t, c.session.recording)
	assert.Equal(t, "draft stays", c.session.draft)
	_, stops := speechSource.Sessions()
	assert.Positive(t, stops)
}

func TestTerminalTranscriptErrorStopsRecording(t *testing.T) {
	c, _, _, _ := newTestController(t)
	dispatch(c, startEditingMsg{})
	rec := grantRecording(t, c)
	dispatch(c, recordingTickMsg{gen: c.recGen})
	dispatch(c, transcriptMsg{gen: c.recGen, event: speech.TranscriptEvent{Text: "partial"}, ok: true})
	liveGen := c.recGen

	cmd := dispatch(c, transcriptMsg{gen: liveGen, event: speech.TranscriptEvent{Err: errors.New("recorder died")}, ok: true})

	assert.Nil(t, cmd)
	assert.False(t, rec.active)
	assert.Equal(t, "partial", rec.transcript, "fields survive the failure")
	assert.Equal(t, 100*time.Millisecond, rec.duration)
	assert.NotEmpty(t, c.errMsg)

	// The failed session's effects are invalidated.
	assert.Nil(t, dispatch(c, recordingTickMsg{gen: liveGen}))
}

func TestStreamCloseWithoutErrorActsLikeStop(t *testing.T) {
	c, _, _, _ := newTestController(t)
	dispatch(c, startEditingMsg{})
	rec := grantRecording(t, c)
	dispatch(c, transcriptMsg{gen: c.recGen, event: speech.TranscriptEvent{Text: "kept"}, ok: true})

	cmd := dispatch(c, transcriptMsg{gen: c.recGen, ok: false})

	assert.Nil(t, cmd)
	assert.False(t, rec.active)
	assert.Equal(t, "kept", rec.transcript)
}

func TestFailedStreamStartDeactivatesRecording(t *testing.T) {
	c, _, _, _ := newTestController(t)
	dispatch(c, startEditingMsg{})
	dispatch(c, micTappedMsg{})

	dispatch(c, recordingStartedMsg{gen: c.recGen, err: errors.New("no recorder")})

	rec := c.session.recording
	require.NotNil(t, rec)
	assert.False(t, rec.active)
	assert.NotEmpty(t, c.errMsg)
}

func TestSaveWhileRecordingStopsRecorderFirst(t *testing.T) {
	c, _, speechSource, _ := newTestController(t)
	dispatch(c, startEditingMsg{})
	dispatch(c, editorTextChangedMsg{text: "saved mid-recording"})
	grantRecording(t, c)

	deliver(t, c, dispatch(c, saveEntryMsg{}))

	assert.Nil(t, c.session)
	_, stops := speechSource.Sessions()
	assert.Positive(t, stops)
}
