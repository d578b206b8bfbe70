package journal

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/daybook-app/daybook/internal/logging"
	"github.com/daybook-app/daybook/internal/models"
	"github.com/daybook-app/daybook/internal/storage"
)

// Detail modal messages.

type detailEditMsg struct{}

type detailTitleChangedMsg struct{ text string }

type detailContentChangedMsg struct{ text string }

type detailSaveMsg struct{}

type detailDeleteMsg struct{}

type detailCloseMsg struct{}

type detailSavedMsg struct {
	entry models.JournalEntry
	err   error
}

type detailDeletedMsg struct{ err error }

// detailFocus selects which editor field receives input while editing.
type detailFocus int

const (
	detailFocusContent detailFocus = iota
	detailFocusTitle
)

// detailController drives the entry detail modal: read the full entry,
// edit its title and content, or delete it. It works on a copy of the
// entry, so backing out of an edit leaves the list untouched. The parent
// watches closed/changed after each update to decide whether to dismiss
// the modal and refresh its lists.
type detailController struct {
	store   storage.Storage
	log     logging.Logger
	timeout time.Duration

	entry models.JournalEntry

	editing      bool
	focus        detailFocus
	titleDraft   string
	contentDraft string
	titleInput   textinput.Model
	contentInput textarea.Model

	errMsg  string
	closed  bool
	changed bool

	width  int
	height int
}

func newDetailController(entry models.JournalEntry, store storage.Storage, timeout time.Duration, log logging.Logger) *detailController {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 0

	content := textarea.New()
	content.CharLimit = 0
	content.ShowLineNumbers = false
	content.SetHeight(8)

	return &detailController{
		store:        store,
		log:          log,
		timeout:      timeout,
		entry:        entry,
		titleInput:   title,
		contentInput: content,
	}
}

func (d *detailController) setSize(width, height int) {
	d.width = width
	d.height = height
	d.titleInput.Width = max(20, width-8)
	d.contentInput.SetWidth(max(20, width-8))
}

func (d *detailController) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case detailEditMsg:
		d.editing = true
		d.errMsg = ""
		d.focus = detailFocusContent
		d.titleDraft = d.entry.Title
		d.contentDraft = d.entry.Content
		d.titleInput.SetValue(d.titleDraft)
		d.contentInput.SetValue(d.contentDraft)
		d.titleInput.Blur()
		return d.contentInput.Focus()

	case detailTitleChangedMsg:
		if !d.editing {
			return nil
		}
		d.titleDraft = msg.text
		return nil

	case detailContentChangedMsg:
		if !d.editing {
			return nil
		}
		d.contentDraft = msg.text
		return nil

	case detailSaveMsg:
		if !d.editing {
			return nil
		}
		content := strings.TrimSpace(d.contentDraft)
		if content == "" && len(d.entry.Attachments) == 0 {
			d.errMsg = "an entry needs text or an attachment"
			return nil
		}
		entry := d.entry
		entry.Title = strings.TrimSpace(d.titleDraft)
		entry.Content = content
		return d.saveCmd(entry)

	case detailSavedMsg:
		if msg.err != nil {
			d.log.Error(context.Background(), "save entry detail failed", "error", msg.err)
			d.errMsg = "could not save changes"
			return nil
		}
		d.entry = msg.entry
		d.editing = false
		d.errMsg = ""
		d.changed = true
		return nil

	case detailDeleteMsg:
		return d.deleteCmd()

	case detailDeletedMsg:
		if msg.err != nil {
			d.log.Error(context.Background(), "delete entry failed", "error", msg.err)
			d.errMsg = "could not delete entry"
			return nil
		}
		d.changed = true
		d.closed = true
		return nil

	case detailCloseMsg:
		// Esc backs out of an in-progress edit before closing the modal.
		if d.editing {
			d.editing = false
			d.errMsg = ""
			return nil
		}
		d.closed = true
		return nil
	}
	return nil
}

func (d *detailController) saveCmd(entry models.JournalEntry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		err := d.store.UpdateEntry(ctx, entry)
		return detailSavedMsg{entry: entry, err: err}
	}
}

func (d *detailController) deleteCmd() tea.Cmd {
	id := d.entry.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		return detailDeletedMsg{err: d.store.DeleteEntry(ctx, id)}
	}
}

func (d *detailController) toggleFocus() tea.Cmd {
	if d.focus == detailFocusContent {
		d.focus = detailFocusTitle
		d.contentInput.Blur()
		return d.titleInput.Focus()
	}
	d.focus = detailFocusContent
	d.titleInput.Blur()
	return d.contentInput.Focus()
}
