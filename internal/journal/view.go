package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/daybook-app/daybook/internal/models"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	streakStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	boxStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	recordingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

var waveformRunes = []rune("▁▂▃▄▅▆▇█")

// View implements tea.Model.
func (c *Controller) View() string {
	if c.detail != nil {
		return c.detail.view()
	}

	var b strings.Builder
	b.WriteString(c.viewHeader())
	b.WriteString("\n\n")

	if c.activeTab == tabInbox {
		b.WriteString(c.viewInbox())
	} else {
		b.WriteString(c.viewEntries())
	}

	if c.session != nil {
		b.WriteString("\n")
		b.WriteString(c.viewCompose())
	}

	if c.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(c.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(faintStyle.Render(c.viewHelp()))
	return b.String()
}

func (c *Controller) viewHeader() string {
	title := headerStyle.Render("Daybook · " + c.now().Format("Monday, January 2"))
	streak := ""
	if c.streak > 0 {
		streak = streakStyle.Render(fmt.Sprintf("  🔥 %d-day streak", c.streak))
	}
	stats := faintStyle.Render(fmt.Sprintf("  %d entries · %d words", c.totalEntries, c.totalWords))
	return title + streak + stats
}

func (c *Controller) viewEntries() string {
	if c.loading {
		return faintStyle.Render("loading…") + "\n"
	}
	if len(c.entries) == 0 {
		return faintStyle.Render("No entries yet today. Press n to write one.") + "\n"
	}

	var b strings.Builder
	for i, entry := range c.entries {
		line := entryLine(entry)
		if i == c.cursor {
			line = selectedStyle.Render("› " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func entryLine(entry models.JournalEntry) string {
	label := entry.Title
	if label == "" {
		label = snippet(entry.Content, 60)
	}
	if label == "" {
		label = "(no text)"
	}
	suffix := ""
	if n := len(entry.Attachments); n > 0 {
		suffix = fmt.Sprintf("  📎%d", n)
	}
	return fmt.Sprintf("%s  %s%s", entry.CreatedAt.Format("15:04"), label, suffix)
}

func snippet(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func (c *Controller) viewInbox() string {
	if len(c.inbox) == 0 {
		return faintStyle.Render("Inbox is empty.") + "\n"
	}
	var b strings.Builder
	for i, item := range c.inbox {
		line := snippet(item.Content, 70)
		if i == c.inboxCur {
			line = selectedStyle.Render("› " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (c *Controller) viewCompose() string {
	var b strings.Builder
	b.WriteString(c.input.View())
	b.WriteString("\n")

	if n := len(c.session.pending); n > 0 {
		chips := make([]string, 0, n)
		for _, att := range c.session.pending {
			chips = append(chips, fmt.Sprintf("[%s]", att.Kind))
		}
		b.WriteString(faintStyle.Render("attached: " + strings.Join(chips, " ")))
		b.WriteString("\n")
	}

	if rec := c.session.recording; rec != nil {
		b.WriteString(c.viewRecording(rec))
	}
	if cam := c.session.camera; cam != nil {
		b.WriteString(viewCameraSheet(cam))
	}
	return boxStyle.Render(b.String())
}

func (c *Controller) viewRecording(rec *recordingSession) string {
	var b strings.Builder
	if rec.active {
		b.WriteString(recordingStyle.Render("● recording "))
	} else {
		b.WriteString(faintStyle.Render("■ stopped "))
	}
	b.WriteString(formatDuration(rec.duration))
	b.WriteString("  ")
	b.WriteString(waveform(rec.levels.values()))
	b.WriteString("\n")
	if rec.transcript != "" {
		b.WriteString(faintStyle.Render(snippet(rec.transcript, 70)))
		b.WriteString("\n")
	}
	return b.String()
}

func viewCameraSheet(cam *cameraSession) string {
	switch cam.stage {
	case cameraStageOptions:
		return "p: take photo   s: scan document   esc: cancel\n"
	case cameraStageAuthorizing:
		return faintStyle.Render("waiting for camera access…") + "\n"
	case cameraStageScanning:
		return faintStyle.Render("scanning…") + "\n"
	default:
		return faintStyle.Render("capturing…") + "\n"
	}
}

func waveform(levels []float64) string {
	var b strings.Builder
	for _, level := range levels {
		idx := int(level * float64(len(waveformRunes)))
		if idx >= len(waveformRunes) {
			idx = len(waveformRunes) - 1
		}
		if idx < 0 {
			idx = 0
		}
		b.WriteRune(waveformRunes[idx])
	}
	return b.String()
}

func formatDuration(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func (c *Controller) viewHelp() string {
	if c.session != nil {
		if c.session.recording != nil {
			return "Enter use transcript · Space stop · Esc discard"
		}
		if c.session.camera != nil {
			return "Esc close camera"
		}
		return "C-s save · C-r record · C-o camera · Esc done"
	}
	if c.activeTab == tabInbox {
		return "a archive · d delete · Tab journal · q quit"
	}
	return "n new · Enter open · d delete · Tab inbox · q quit"
}

func (d *detailController) view() string {
	var b strings.Builder
	title := d.entry.Title
	if title == "" {
		title = "Untitled entry"
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(faintStyle.Render(fmt.Sprintf("%s · %d words",
		d.entry.CreatedAt.Format("Monday, January 2 15:04"), d.entry.WordCount())))
	b.WriteString("\n\n")

	if d.editing {
		b.WriteString(d.titleInput.View())
		b.WriteString("\n")
		b.WriteString(d.contentInput.View())
		b.WriteString("\n")
	} else {
		b.WriteString(d.entry.Content)
		b.WriteString("\n")
		if n := len(d.entry.Attachments); n > 0 {
			b.WriteString(faintStyle.Render(fmt.Sprintf("\n%d attachment(s)", n)))
			b.WriteString("\n")
		}
	}

	if d.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(d.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if d.editing {
		b.WriteString(faintStyle.Render("C-s save · Tab switch field · Esc back"))
	} else {
		b.WriteString(faintStyle.Render("e edit · d delete · Esc close"))
	}
	return boxStyle.Width(max(20, d.width-2)).Render(b.String())
}
