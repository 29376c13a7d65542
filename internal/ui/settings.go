package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// zoneRequestMsg asks the model to switch to the zone named by state and
// district. With an empty district, state holds a zone code.
type zoneRequestMsg struct {
	state    string
	district string
}

// toggleMuteMsg asks the model to flip the notification mute flag.
type toggleMuteMsg struct{}

const (
	fieldState = iota
	fieldDistrict
	fieldMute
	fieldCount
)

type settingsPanel struct {
	state    textinput.Model
	district textinput.Model
	focus    int
}

func newSettingsPanel() *settingsPanel {
	state := textinput.New()
	state.Placeholder = "State or zone code (e.g. Kelantan, KTN01)"
	state.CharLimit = 64
	state.Width = 44
	state.Prompt = ""
	state.Focus()

	district := textinput.New()
	district.Placeholder = "District (leave empty for a zone code)"
	district.CharLimit = 96
	district.Width = 44
	district.Prompt = ""

	return &settingsPanel{state: state, district: district}
}

func (p *settingsPanel) ID() panelID { return panelSettings }

func (p *settingsPanel) Update(msg tea.KeyMsg, keys keyMap) (panel, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Escape):
		return p, nil, true
	case key.Matches(msg, keys.Tab):
		p.setFocus((p.focus + 1) % fieldCount)
		return p, nil, false
	case key.Matches(msg, keys.ShiftTab):
		p.setFocus((p.focus + fieldCount - 1) % fieldCount)
		return p, nil, false
	}

	if p.focus == fieldMute {
		if key.Matches(msg, keys.Confirm) || key.Matches(msg, keys.Toggle) {
			return p, func() tea.Msg { return toggleMuteMsg{} }, false
		}
		return p, nil, false
	}

	if key.Matches(msg, keys.Confirm) {
		req := zoneRequestMsg{
			state:    strings.TrimSpace(p.state.Value()),
			district: strings.TrimSpace(p.district.Value()),
		}
		if req.state == "" {
			return p, nil, false
		}
		return p, func() tea.Msg { return req }, false
	}

	var cmd tea.Cmd
	if p.focus == fieldState {
		p.state, cmd = p.state.Update(msg)
	} else {
		p.district, cmd = p.district.Update(msg)
	}
	return p, cmd, false
}

func (p *settingsPanel) setFocus(field int) {
	p.focus = field
	p.state.Blur()
	p.district.Blur()
	switch field {
	case fieldState:
		p.state.Focus()
	case fieldDistrict:
		p.district.Focus()
	}
}

func (p *settingsPanel) View(vc viewContext) string {
	s := vc.styles
	label := func(field int, text string) string {
		if p.focus == field {
			return s.AccentText.Render("> " + text)
		}
		return s.MutedText.Render("  " + text)
	}

	check := "[ ]"
	if vc.muted {
		check = "[x]"
	}

	var b strings.Builder
	b.WriteString(s.Header.Render("Settings"))
	b.WriteString("\n\n")
	b.WriteString(s.MutedText.Render("Current zone: "))
	b.WriteString(s.Text.Render(vc.zone))
	b.WriteString("\n\n")
	b.WriteString(label(fieldState, "State"))
	b.WriteString("\n    ")
	b.WriteString(p.state.View())
	b.WriteString("\n")
	b.WriteString(label(fieldDistrict, "District"))
	b.WriteString("\n    ")
	b.WriteString(p.district.View())
	b.WriteString("\n\n")
	b.WriteString(label(fieldMute, check+" Mute notifications"))
	b.WriteString("\n\n")
	b.WriteString(s.FaintText.Render("tab next field · enter apply · esc close"))

	return renderPanel(vc, b.String())
}
