package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/moznion/go-optional"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true)

	// PaneTitleStyle for the thought and chat pane headings.
	PaneTitleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// FormatPriceWithColor formats a price with an indicator based on comparison
// with the previous price.
func FormatPriceWithColor(current, previous float64) string {
	priceStr := fmt.Sprintf("%.2f", current)

	if previous == 0 {
		return priceStr
	}

	if current > previous {
		return priceStr + " ▲"
	} else if current < previous {
		return priceStr + " ▼"
	}

	return priceStr
}

// FormatChange renders a 24h change percentage. A missing change is shown as
// a dash rather than a made-up number.
func FormatChange(change optional.Option[float64]) string {
	value, err := change.Take()
	if err != nil {
		return "—"
	}

	if value >= 0 {
		return fmt.Sprintf("+%.2f%%", value)
	}

	return fmt.Sprintf("%.2f%%", value)
}
