package journal

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey routes raw terminal input to the surface that owns it and
// translates it into intent messages. All state changes still go through
// Update, so the key layer stays a thin mapping.
func (c *Controller) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return c, tea.Quit
	}
	if c.detail != nil {
		return c.handleDetailKeys(msg)
	}
	if c.session != nil {
		return c.handleComposeKeys(msg)
	}
	return c.handleListKeys(msg)
}

func (c *Controller) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, c.keys.Quit):
		return c, tea.Quit
	case key.Matches(msg, c.keys.Tab):
		if c.activeTab == tabJournal {
			c.activeTab = tabInbox
		} else {
			c.activeTab = tabJournal
		}
		return c, nil
	case key.Matches(msg, c.keys.NewEntry):
		return c.Update(startEditingMsg{})
	}

	if c.activeTab == tabInbox {
		return c.handleInboxKeys(msg)
	}

	switch {
	case key.Matches(msg, c.keys.Up):
		if c.cursor > 0 {
			c.cursor--
		}
	case key.Matches(msg, c.keys.Down):
		if c.cursor < len(c.entries)-1 {
			c.cursor++
		}
	case key.Matches(msg, c.keys.Open):
		if c.cursor < len(c.entries) {
			return c.Update(entryTappedMsg{id: c.entries[c.cursor].ID})
		}
	case key.Matches(msg, c.keys.Delete):
		if c.cursor < len(c.entries) {
			return c.Update(deleteEntryMsg{id: c.entries[c.cursor].ID})
		}
	}
	return c, nil
}

func (c *Controller) handleInboxKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, c.keys.Up):
		if c.inboxCur > 0 {
			c.inboxCur--
		}
	case key.Matches(msg, c.keys.Down):
		if c.inboxCur < len(c.inbox)-1 {
			c.inboxCur++
		}
	case key.Matches(msg, c.keys.Archive):
		if c.inboxCur < len(c.inbox) {
			return c.Update(archiveInboxItemMsg{id: c.inbox[c.inboxCur].ID})
		}
	case key.Matches(msg, c.keys.Delete):
		if c.inboxCur < len(c.inbox) {
			return c.Update(deleteInboxItemMsg{id: c.inbox[c.inboxCur].ID})
		}
	}
	return c, nil
}

func (c *Controller) handleComposeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An open capture surface owns the keyboard.
	if c.session.recording != nil {
		switch {
		case key.Matches(msg, c.keys.Confirm):
			return c.Update(confirmRecordingMsg{})
		case key.Matches(msg, c.keys.Stop):
			return c.Update(stopRecordingMsg{})
		case key.Matches(msg, c.keys.Dismiss):
			return c.Update(cancelRecordingMsg{})
		}
		return c, nil
	}
	if c.session.camera != nil {
		if c.session.camera.stage == cameraStageOptions {
			switch msg.String() {
			case "p":
				return c.Update(takePhotoTappedMsg{})
			case "s":
				return c.Update(scanDocumentTappedMsg{})
			}
		}
		if key.Matches(msg, c.keys.Dismiss) {
			return c.Update(cameraCancelledMsg{})
		}
		return c, nil
	}

	switch {
	case key.Matches(msg, c.keys.Dismiss):
		return c.Update(dismissKeyboardMsg{})
	case key.Matches(msg, c.keys.Save):
		return c.Update(saveEntryMsg{})
	case key.Matches(msg, c.keys.Record):
		return c.Update(micTappedMsg{})
	case key.Matches(msg, c.keys.Camera):
		return c.Update(cameraTappedMsg{})
	case key.Matches(msg, c.keys.Remove):
		if n := len(c.session.pending); n > 0 {
			return c.Update(removePendingAttachmentMsg{id: c.session.pending[n-1].ID})
		}
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	c.session.draft = c.input.Value()
	return c, cmd
}

func (c *Controller) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := c.detail
	if d.editing {
		switch {
		case key.Matches(msg, c.keys.Dismiss):
			return c.routeDetail(detailCloseMsg{})
		case key.Matches(msg, c.keys.Save):
			return c.routeDetail(detailSaveMsg{})
		case key.Matches(msg, c.keys.Tab):
			return c, d.toggleFocus()
		}
		var cmd tea.Cmd
		if d.focus == detailFocusTitle {
			d.titleInput, cmd = d.titleInput.Update(msg)
			d.titleDraft = d.titleInput.Value()
		} else {
			d.contentInput, cmd = d.contentInput.Update(msg)
			d.contentDraft = d.contentInput.Value()
		}
		return c, cmd
	}
	switch {
	case key.Matches(msg, c.keys.Dismiss), key.Matches(msg, c.keys.Quit):
		return c.routeDetail(detailCloseMsg{})
	case key.Matches(msg, c.keys.Edit):
		return c.routeDetail(detailEditMsg{})
	case key.Matches(msg, c.keys.Delete):
		return c.routeDetail(detailDeleteMsg{})
	}
	return c, nil
}
