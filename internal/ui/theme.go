package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/helvetius/vanaclock/internal/vanadiel"
)

// Weekday colors follow the in-game element of each day.
var weekdayColors = map[vanadiel.Weekday]lipgloss.Color{
	vanadiel.Firesday:     lipgloss.Color("#FF2D2D"),
	vanadiel.Earthsday:    lipgloss.Color("#FF9F0A"),
	vanadiel.Watersday:    lipgloss.Color("#0A84FF"),
	vanadiel.Windsday:     lipgloss.Color("#34C759"),
	vanadiel.Iceday:       lipgloss.Color("#64D2FF"),
	vanadiel.Lightningday: lipgloss.Color("#BF5AF2"),
	vanadiel.Lightsday:    lipgloss.Color("#F2F2F7"),
	vanadiel.Darksday:     lipgloss.Color("#8E8E93"),
}

// Moon phase colors: waxing phases run brighter than their waning twins, and
// nothing collides with the Windsday green.
var moonPhaseColors = map[string]lipgloss.Color{
	"New Moon":        lipgloss.Color("#8A4BFF"),
	"Waxing Crescent": lipgloss.Color("#D4AF37"),
	"Waning Crescent": lipgloss.Color("#B89B3C"),
	"First Quarter":   lipgloss.Color("#4FD6FF"),
	"Last Quarter":    lipgloss.Color("#3BB6DB"),
	"Waxing Gibbous":  lipgloss.Color("#6F7CFF"),
	"Waning Gibbous":  lipgloss.Color("#5661C7"),
	"Full Moon":       lipgloss.Color("#E9EEF5"),
}

type styleSet struct {
	Title    lipgloss.Style
	Panel    lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Disabled lipgloss.Style
	Warning  lipgloss.Style
	Status   lipgloss.Style
	Key      lipgloss.Style
}

func defaultStyles() styleSet {
	return styleSet{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CBA6F7")),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#585B70")).Padding(0, 1),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#A6ADC8")),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9E2AF")),
		Disabled: lipgloss.NewStyle().Faint(true),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("#94E2D5")),
		Key:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89B4FA")),
	}
}

func weekdayStyle(w vanadiel.Weekday) lipgloss.Style {
	c, ok := weekdayColors[w]
	if !ok {
		c = lipgloss.Color("#F2F2F7")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

func moonPhaseStyle(phase string) lipgloss.Style {
	c, ok := moonPhaseColors[phase]
	if !ok {
		c = lipgloss.Color("#A6ADC8")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

// moonDirGlyph renders the waxing/waning arrow shown next to the percent.
func moonDirGlyph(dir vanadiel.MoonDirection) string {
	if dir == vanadiel.Waxing {
		return "▲"
	}
	return "▼"
}
