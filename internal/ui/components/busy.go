// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/playground-tui/internal/ui/styles"
)

// =============================================================================
// BUSY INDICATOR
// =============================================================================

const (
	// DotInterval is how often a dot is added to the thinking label.
	DotInterval = 500 * time.Millisecond

	// MaxDots is the longest ellipsis before it wraps back to none.
	MaxDots = 3
)

// DotTickMsg advances the ellipsis. Ticks from a previous run are ignored.
type DotTickMsg struct {
	run int
}

// BusyIndicator is the single "waiting for the assistant" marker: a
// spinner plus an ellipsis that grows every DotInterval. It is shown in
// place of the pending assistant message.
type BusyIndicator struct {
	spinner spinner.Model
	theme   *styles.Theme
	label   string
	dots    int
	run     int
	active  bool
	started time.Time
}

// NewBusyIndicator creates an inactive indicator.
func NewBusyIndicator(theme *styles.Theme) BusyIndicator {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	return BusyIndicator{spinner: s, theme: theme, label: "Thinking"}
}

// Start activates the indicator and schedules its ticks.
func (b *BusyIndicator) Start() tea.Cmd {
	b.active = true
	b.dots = 0
	b.run++
	b.started = time.Now()
	return tea.Batch(b.spinner.Tick, dotTick(b.run))
}

// Stop deactivates the indicator. Outstanding ticks become no-ops.
func (b *BusyIndicator) Stop() {
	b.active = false
	b.dots = 0
}

// Active reports whether the indicator is running.
func (b BusyIndicator) Active() bool { return b.active }

// Dots returns the current ellipsis length (0..MaxDots).
func (b BusyIndicator) Dots() int { return b.dots }

// Elapsed is the time since Start.
func (b BusyIndicator) Elapsed() time.Duration {
	if b.started.IsZero() {
		return 0
	}
	return time.Since(b.started)
}

func dotTick(run int) tea.Cmd {
	return tea.Tick(DotInterval, func(time.Time) tea.Msg { return DotTickMsg{run: run} })
}

// Update handles spinner and dot ticks.
func (b BusyIndicator) Update(msg tea.Msg) (BusyIndicator, tea.Cmd) {
	if !b.active {
		return b, nil
	}
	switch msg := msg.(type) {
	case DotTickMsg:
		if msg.run != b.run {
			return b, nil
		}
		b.dots = (b.dots + 1) % (MaxDots + 1)
		return b, dotTick(b.run)
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)
		return b, cmd
	}
	return b, nil
}

// View renders the indicator, or nothing when inactive.
func (b BusyIndicator) View() string {
	if !b.active {
		return ""
	}
	dots := strings.Repeat(".", b.dots) + strings.Repeat(" ", MaxDots-b.dots)
	return b.theme.Spinner.Render(b.spinner.View()) + " " +
		b.theme.ThinkingText.Render(b.label) +
		b.theme.ThinkingDots.Render(dots)
}
