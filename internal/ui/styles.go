package ui

import (
	"github.com/charmbracelet/lipgloss"

	"futuredecide/internal/engine"
)

type palette struct {
	accent lipgloss.Color
	soft   lipgloss.Color
}

var palettes = map[engine.Theme]palette{
	engine.ThemeBlue:   {accent: lipgloss.Color("#3b82f6"), soft: lipgloss.Color("#93c5fd")},
	engine.ThemePurple: {accent: lipgloss.Color("#8b5cf6"), soft: lipgloss.Color("#c4b5fd")},
	engine.ThemeCyan:   {accent: lipgloss.Color("#06b6d4"), soft: lipgloss.Color("#67e8f9")},
}

type styles struct {
	title     lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	result    lipgloss.Style
	cursor    lipgloss.Style
	picked    lipgloss.Style
	used      lipgloss.Style
	muted     lipgloss.Style
	pointer   lipgloss.Style
	slice     lipgloss.Style
	modal     lipgloss.Style
	status    lipgloss.Style
}

func newStyles(theme engine.Theme) styles {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[engine.ThemeBlue]
	}
	muted := lipgloss.Color("#6b7280")
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(p.accent),
		tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(muted),
		activeTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(p.accent),
		result:    lipgloss.NewStyle().Bold(true).Foreground(p.accent).Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(p.soft),
		cursor:    lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		picked:    lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Background(p.accent).Bold(true),
		used:      lipgloss.NewStyle().Foreground(muted).Strikethrough(true),
		muted:     lipgloss.NewStyle().Foreground(muted),
		pointer:   lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		slice:     lipgloss.NewStyle().Width(6).Align(lipgloss.Center).Border(lipgloss.NormalBorder()).BorderForeground(p.soft),
		modal:     lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(p.accent).Padding(1, 2),
		status:    lipgloss.NewStyle().Foreground(p.soft),
	}
}
