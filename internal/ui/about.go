package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type aboutPanel struct {
	version  string
	apiURL   string
	cacheDir string
}

func (p aboutPanel) ID() panelID { return panelAbout }

func (p aboutPanel) Update(msg tea.KeyMsg, keys keyMap) (panel, tea.Cmd, bool) {
	if key.Matches(msg, keys.Escape) || key.Matches(msg, keys.Confirm) || key.Matches(msg, keys.About) {
		return p, nil, true
	}
	return p, nil, false
}

func (p aboutPanel) View(vc viewContext) string {
	s := vc.styles
	row := func(k, v string) string {
		return fmt.Sprintf("%s %s", s.MutedText.Render(fmt.Sprintf("%-10s", k)), s.Text.Render(v))
	}

	lines := []string{
		s.Header.Render("solat " + p.version),
		"",
		s.Text.Render("Prayer times for Malaysia from the waktusolat.app API,"),
		s.Text.Render("based on JAKIM zone schedules."),
		"",
		row("API", p.apiURL),
		row("Cache", p.cacheDir),
		row("Zone", vc.zone),
		"",
		s.FaintText.Render("esc close"),
	}
	return renderPanel(vc, strings.Join(lines, "\n"))
}

type errorPanel struct {
	title   string
	message string
}

func newErrorPanel(title string, err error) errorPanel {
	return errorPanel{title: title, message: err.Error()}
}

func (p errorPanel) ID() panelID { return panelError }

func (p errorPanel) Update(msg tea.KeyMsg, keys keyMap) (panel, tea.Cmd, bool) {
	if key.Matches(msg, keys.Escape) || key.Matches(msg, keys.Confirm) {
		return p, nil, true
	}
	return p, nil, false
}

func (p errorPanel) View(vc viewContext) string {
	s := vc.styles
	content := strings.Join([]string{
		s.DangerText.Render(p.title),
		"",
		s.Text.Width(56).Render(p.message),
		"",
		s.FaintText.Render("enter/esc dismiss"),
	}, "\n")
	return renderPanel(vc, content)
}
