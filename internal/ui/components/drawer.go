// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/playground-tui/internal/settings"
	"github.com/jeranaias/playground-tui/internal/ui/styles"
)

// =============================================================================
// FIELDS
// =============================================================================

type drawerField int

const (
	fieldAgent drawerField = iota
	fieldModel
	fieldTemperature
	fieldTopP
	fieldTopK
	fieldRole
	fieldContent
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Agent type", "Model", "Temperature", "Top P", "Top K", "Role", "Content",
}

// fieldNames maps numeric fields to settings.SetFromString names.
var fieldNames = map[drawerField]string{
	fieldTemperature: settings.FieldTemperature,
	fieldTopP:        settings.FieldTopP,
	fieldTopK:        settings.FieldTopK,
}

func (f drawerField) isSelect() bool {
	return f == fieldAgent || f == fieldModel || f == fieldRole
}

// =============================================================================
// SETTINGS DRAWER
// =============================================================================

// SettingsDrawer edits the shared generation settings. Select fields cycle
// with left/right; numeric and text fields commit when focus leaves them.
// Invalid input keeps the previous value and shows the error next to the
// field.
type SettingsDrawer struct {
	theme    *styles.Theme
	settings *settings.Settings
	open     bool
	focus    drawerField
	inputs   [fieldCount]textinput.Model
	errs     map[drawerField]string
	width    int
}

// NewSettingsDrawer creates a closed drawer over s. The drawer writes to
// s directly.
func NewSettingsDrawer(theme *styles.Theme, s *settings.Settings) *SettingsDrawer {
	d := &SettingsDrawer{theme: theme, settings: s, errs: make(map[drawerField]string), width: 40}

	placeholders := map[drawerField]string{
		fieldTemperature: "0.7",
		fieldTopP:        "0.7",
		fieldTopK:        "0.0",
		fieldContent:     "You are a...",
	}
	for f, ph := range placeholders {
		ti := textinput.New()
		ti.Placeholder = ph
		ti.Prompt = ""
		ti.CharLimit = 16
		if f == fieldContent {
			ti.CharLimit = 2000
		}
		d.inputs[f] = ti
	}
	d.sync()
	return d
}

// sync copies the current settings into the text inputs.
func (d *SettingsDrawer) sync() {
	d.inputs[fieldTemperature].SetValue(formatFloat(d.settings.Temperature))
	d.inputs[fieldTopP].SetValue(formatFloat(d.settings.TopP))
	d.inputs[fieldTopK].SetValue(formatFloat(d.settings.TopK))
	d.inputs[fieldContent].SetValue(d.settings.SystemContent)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SetWidth sets the drawer width.
func (d *SettingsDrawer) SetWidth(w int) { d.width = w }

// IsOpen reports whether the drawer is visible.
func (d *SettingsDrawer) IsOpen() bool { return d.open }

// Open shows the drawer with focus on the first field.
func (d *SettingsDrawer) Open() tea.Cmd {
	d.open = true
	d.sync()
	d.focus = fieldAgent
	return nil
}

// Close commits the focused field and hides the drawer.
func (d *SettingsDrawer) Close() {
	d.commit()
	d.inputs[d.focus].Blur()
	d.open = false
}

// Toggle opens or closes the drawer.
func (d *SettingsDrawer) Toggle() tea.Cmd {
	if d.open {
		d.Close()
		return nil
	}
	return d.Open()
}

// FocusedLabel returns the label of the focused field.
func (d *SettingsDrawer) FocusedLabel() string { return fieldLabels[d.focus] }

// FieldError returns the validation error for the field labelled label.
func (d *SettingsDrawer) FieldError(label string) string {
	for f, l := range fieldLabels {
		if l == label {
			return d.errs[drawerField(f)]
		}
	}
	return ""
}

// Update handles keys while the drawer is open.
func (d *SettingsDrawer) Update(msg tea.Msg) tea.Cmd {
	if !d.open {
		return nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if !d.focus.isSelect() {
			var cmd tea.Cmd
			d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
			return cmd
		}
		return nil
	}

	switch key.String() {
	case "esc":
		d.Close()
		return nil
	case "tab", "down", "enter":
		return d.move(1)
	case "shift+tab", "up":
		return d.move(-1)
	case "left", "right":
		if d.focus.isSelect() {
			delta := 1
			if key.String() == "left" {
				delta = -1
			}
			switch d.focus {
			case fieldAgent:
				d.settings.CycleAgentType(delta)
			case fieldModel:
				d.settings.CycleModel(delta)
			case fieldRole:
				d.settings.CycleSystemRole(delta)
			}
			return nil
		}
	}

	if d.focus.isSelect() {
		return nil
	}
	var cmd tea.Cmd
	d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
	return cmd
}

func (d *SettingsDrawer) move(delta int) tea.Cmd {
	d.commit()
	d.inputs[d.focus].Blur()
	d.focus = drawerField((int(d.focus) + delta + int(fieldCount)) % int(fieldCount))
	if !d.focus.isSelect() {
		return d.inputs[d.focus].Focus()
	}
	return nil
}

// commit applies the focused text field to the settings.
func (d *SettingsDrawer) commit() {
	f := d.focus
	switch {
	case fieldNames[f] != "":
		if err := d.settings.SetFromString(fieldNames[f], d.inputs[f].Value()); err != nil {
			d.errs[f] = err.Error()
			return
		}
		delete(d.errs, f)
		d.sync()
	case f == fieldContent:
		_ = d.settings.SetSystemMessage(string(d.settings.SystemRole), d.inputs[f].Value())
	}
}

// View renders the drawer.
func (d *SettingsDrawer) View() string {
	if !d.open {
		return ""
	}
	t := d.theme
	s := d.settings

	valueWidth := d.width - 20
	if valueWidth < 8 {
		valueWidth = 8
	}

	row := func(f drawerField, value string) string {
		v := value
		if f.isSelect() {
			v = "< " + value + " >"
		} else {
			d.inputs[f].Width = valueWidth
			v = d.inputs[f].View()
		}
		style := t.DrawerValue
		if f == d.focus {
			style = t.DrawerValueActive
		}
		line := t.DrawerLabel.Render(fieldLabels[f]) + style.Render(v)
		if e := d.errs[f]; e != "" {
			line += "\n" + t.ErrorStyle.Render("  "+e)
		}
		return line
	}

	var b strings.Builder
	b.WriteString(t.DrawerTitle.Render("Configuration"))
	b.WriteString("\n")
	b.WriteString(t.DrawerLegend.Render("Settings"))
	b.WriteString("\n")
	b.WriteString(row(fieldAgent, s.AgentType) + "\n")
	if desc := s.AgentDescription(); desc != "" {
		b.WriteString(t.DrawerHint.Render("  "+desc) + "\n")
	}
	b.WriteString(row(fieldModel, s.Model) + "\n")
	b.WriteString(row(fieldTemperature, "") + "\n")
	b.WriteString(row(fieldTopP, "") + "\n")
	b.WriteString(row(fieldTopK, "") + "\n")
	b.WriteString(t.DrawerLegend.Render("Messages"))
	b.WriteString("\n")
	b.WriteString(row(fieldRole, string(s.SystemRole)) + "\n")
	b.WriteString(row(fieldContent, "") + "\n\n")
	b.WriteString(t.DrawerHint.Render("tab/arrows move, left/right change, esc close"))

	return t.Drawer.Copy().Width(d.width - 2).Render(b.String())
}
