package journal

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/daybook-app/daybook/internal/speech"
)

// recordingTickInterval drives duration accounting and waveform sampling
// while a recording is live.
const recordingTickInterval = 100 * time.Millisecond

// handleMicTapped opens a fresh recording session. A mic tap while another
// recording (or a camera surface) is open tears the old one down first, so
// there is never more than one live session.
func (c *Controller) handleMicTapped() (tea.Model, tea.Cmd) {
	if c.session == nil {
		return c, nil
	}
	c.teardownCapture()
	c.recGen++
	c.session.setRecording(newRecordingSession())
	c.errMsg = ""
	return c, c.requestSpeechAuthCmd(c.recGen)
}

func (c *Controller) requestSpeechAuthCmd(gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.withTimeout()
		defer cancel()
		status, err := c.speech.RequestAuthorization(ctx)
		return speechAuthMsg{gen: gen, status: status, err: err}
	}
}

// currentRecording returns the live recording session the generation
// belongs to, or nil when the completion is stale.
func (c *Controller) currentRecording(gen int) *recordingSession {
	if gen != c.recGen || c.session == nil || c.session.recording == nil {
		return nil
	}
	return c.session.recording
}

func (c *Controller) handleSpeechAuth(msg speechAuthMsg) (tea.Model, tea.Cmd) {
	rec := c.currentRecording(msg.gen)
	if rec == nil {
		return c, nil
	}
	rec.status = msg.status
	if msg.err != nil || msg.status != speech.AuthorizationGranted {
		if msg.err != nil {
			c.log.Error(context.Background(), "speech authorization failed", "error", msg.err)
		}
		rec.active = false
		c.errMsg = "microphone access is not available"
		return c, nil
	}
	return c, tea.Batch(c.startTranscriptionCmd(msg.gen), scheduleRecordingTick(msg.gen))
}

// startTranscriptionCmd opens the transcript stream. The stream outlives
// any single command, so it runs under its own cancellable context; the
// cancel travels with the completion as the session's stop handle. Both
// source implementations end a session and close its stream when the
// context handed to StartTranscription is cancelled.
func (c *Controller) startTranscriptionCmd(gen int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		events, err := c.speech.StartTranscription(ctx)
		if err != nil {
			cancel()
			return recordingStartedMsg{gen: gen, err: err}
		}
		return recordingStartedMsg{gen: gen, events: events, stop: cancel}
	}
}

func scheduleRecordingTick(gen int) tea.Cmd {
	return tea.Tick(recordingTickInterval, func(time.Time) tea.Msg {
		return recordingTickMsg{gen: gen}
	})
}

// waitForTranscript blocks on the event stream and feeds the next event
// back into the update loop. Re-issued after every event until the stream
// closes.
func waitForTranscript(gen int, events <-chan speech.TranscriptEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		return transcriptMsg{gen: gen, event: event, ok: ok}
	}
}

func (c *Controller) handleRecordingStarted(msg recordingStartedMsg) (tea.Model, tea.Cmd) {
	rec := c.currentRecording(msg.gen)
	if rec == nil {
		// This start lost a replacement race: its session was torn down
		// before the completion arrived, or — when command delivery
		// reordered it after the replacement's own start — it is running
		// with no one left to consume it. Nobody else holds its stop
		// handle, so the recorder stays open unless it is stopped here.
		if msg.stop != nil {
			msg.stop()
		}
		return c, nil
	}
	if msg.err != nil {
		c.log.Error(context.Background(), "start transcription failed", "error", msg.err)
		rec.active = false
		c.errMsg = "could not start recording"
		return c, nil
	}
	rec.events = msg.events
	rec.stop = msg.stop
	return c, waitForTranscript(msg.gen, msg.events)
}

// handleRecordingTick advances the duration and samples the microphone
// level. A stale tick is swallowed without rescheduling, which is what
// ends an abandoned session's tick chain.
func (c *Controller) handleRecordingTick(msg recordingTickMsg) (tea.Model, tea.Cmd) {
	rec := c.currentRecording(msg.gen)
	if rec == nil || !rec.active {
		return c, nil
	}
	rec.duration += recordingTickInterval
	rec.levels.push(c.speech.AudioLevel())
	return c, scheduleRecordingTick(msg.gen)
}

func (c *Controller) handleTranscript(msg transcriptMsg) (tea.Model, tea.Cmd) {
	rec := c.currentRecording(msg.gen)
	if rec == nil {
		return c, nil
	}
	if !msg.ok {
		// Stream ended without a terminal error, e.g. the recorder hit
		// EOF. Same shape as a manual stop.
		rec.active = false
		return c, nil
	}
	if msg.event.Err != nil {
		c.log.Error(context.Background(), "transcription failed", "error", msg.event.Err)
		c.recGen++
		c.stopRecordingSource(rec)
		rec.active = false
		c.errMsg = "recording failed"
		return c, nil
	}
	// Each event carries the full transcript so far, so replace rather
	// than append.
	rec.transcript = msg.event.Text
	return c, waitForTranscript(msg.gen, rec.events)
}

// stopRecordingSource ends the session's capture at the source. The
// process-wide StopTranscription covers the source's current session; the
// per-session handle covers one that lost a replacement race and is no
// longer current. Stopping an already-ended session is a no-op at both
// levels, so every termination path calls this unconditionally.
func (c *Controller) stopRecordingSource(rec *recordingSession) {
	c.speech.StopTranscription()
	if rec.stop != nil {
		rec.stop()
	}
}

// handleStopRecording ends the capture but keeps duration, levels and
// transcript so the user can still confirm the dictated text. The source
// is stopped even when the session already went inactive on its own: the
// surface's lifecycle, not the stream's, decides when the recorder is done.
func (c *Controller) handleStopRecording() (tea.Model, tea.Cmd) {
	if c.session == nil || c.session.recording == nil {
		return c, nil
	}
	rec := c.session.recording
	c.recGen++
	c.stopRecordingSource(rec)
	rec.active = false
	return c, nil
}

func (c *Controller) handleCancelRecording() (tea.Model, tea.Cmd) {
	if c.session == nil || c.session.recording == nil {
		return c, nil
	}
	c.recGen++
	c.stopRecordingSource(c.session.recording)
	c.session.clearCapture()
	return c, nil
}

// handleConfirmRecording merges the transcript into the draft and closes
// the recording surface. A draft that already has text gets the transcript
// appended after a single space.
func (c *Controller) handleConfirmRecording() (tea.Model, tea.Cmd) {
	if c.session == nil || c.session.recording == nil {
		return c, nil
	}
	rec := c.session.recording
	c.recGen++
	c.stopRecordingSource(rec)
	c.session.clearCapture()

	transcript := strings.TrimSpace(rec.transcript)
	if transcript == "" {
		return c, nil
	}
	if c.session.draft == "" {
		c.session.draft = transcript
	} else {
		c.session.draft += " " + transcript
	}
	c.input.SetValue(c.session.draft)
	return c, nil
}
