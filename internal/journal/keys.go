package journal

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the journal screen.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	NewEntry key.Binding
	Open     key.Binding
	Delete   key.Binding
	Tab      key.Binding

	Save    key.Binding
	Dismiss key.Binding
	Record  key.Binding
	Camera  key.Binding
	Remove  key.Binding // Drop the most recent pending attachment.

	Confirm key.Binding // Merge the transcript into the draft.
	Stop    key.Binding // Stop recording, keep the transcript.

	Archive key.Binding // Inbox: mark the item done.

	Edit key.Binding // Detail: start editing.
	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NewEntry: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new entry"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "open"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "switch view"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "save"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "done"),
	),
	Record: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "record"),
	),
	Camera: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("C-o", "camera"),
	),
	Remove: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("C-x", "drop attachment"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "use transcript"),
	),
	Stop: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("Space", "stop"),
	),
	Archive: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "archive"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
