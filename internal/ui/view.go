package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/smokyabdulrahman/solat/internal/tracker"
)

// View renders the current frame, or the top panel when one is open.
func (m Model) View() string {
	vc := viewContext{
		styles: m.styles,
		width:  m.width,
		height: m.height,
		zone:   m.catalog.Describe(m.zone),
		muted:  m.tracker.Muted(),
	}
	if top, ok := m.panels.Top(); ok {
		return top.View(vc)
	}
	return m.renderMain(vc)
}

func (m Model) renderMain(vc viewContext) string {
	s := m.styles
	f := m.frame

	var b strings.Builder

	title := s.Header.Render("Solat")
	if vc.muted {
		title += " " + s.WarningText.Render("[muted]")
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(s.MutedText.Render(" Location Zone: " + vc.zone))
	b.WriteString("\n\n")

	if !f.Now.IsZero() {
		clock := f.Now.Format(m.clockLayout())
		line := " " + s.Text.Render("Current time: "+clock)
		if f.Hijri != "" {
			line += s.FaintText.Render("    Hijri: " + f.Hijri)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(m.renderCountdown(f))
	b.WriteString("\n")

	if len(f.Prayers) > 0 {
		b.WriteString(m.renderPrayers(f))
		b.WriteString("\n")
	}

	if m.status != "" && (m.loading || !f.Now.After(m.statusUntil)) {
		b.WriteString(" " + s.FaintText.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.Footer.Render(m.help.View(m.keys)))

	return b.String()
}

func (m Model) renderCountdown(f tracker.Frame) string {
	s := m.styles
	switch f.Status {
	case tracker.StatusCountdown:
		return s.Countdown.Render(f.Text)
	case tracker.StatusError:
		return s.Countdown.Foreground(lipgloss.Color(s.theme.Danger)).Render(f.Text)
	case tracker.StatusDayDone, tracker.StatusNoTomorrow, tracker.StatusNoData:
		return s.Countdown.Foreground(lipgloss.Color(s.theme.Warning)).Render(f.Text)
	default:
		return s.Countdown.Render("")
	}
}

func (m Model) renderPrayers(f tracker.Frame) string {
	s := m.styles

	rows := []string{" " + s.Text.Bold(true).Render(f.Heading)}
	for i, p := range f.Prayers {
		line := fmt.Sprintf("   %-8s %s", p.Name, p.Time.Format(m.timeFormat))
		if f.HasNext && p.Key == f.Next.Key {
			line = s.Selected.Render(line + " ")
		} else if p.Time.Before(f.Now) {
			line = s.FaintText.Render(line)
		} else {
			line = s.Text.Render(line)
		}
		rows = append(rows, line)

		if i == 0 && !f.Syuruk.IsZero() {
			rows = append(rows, s.FaintText.Render(fmt.Sprintf("   %-8s %s", "Syuruk", f.Syuruk.Format(m.timeFormat))))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// clockLayout adds seconds to the prayer time layout for the wall clock.
func (m Model) clockLayout() string {
	switch m.timeFormat {
	case "3:04 PM":
		return "3:04:05 PM"
	case "15:04":
		return "15:04:05"
	default:
		return m.timeFormat
	}
}
