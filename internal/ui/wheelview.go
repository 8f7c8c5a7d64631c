package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"futuredecide/internal/engine"
)

const (
	stripSlices = 7
	sliceWidth  = 8
)

// renderStrip lays the slices nearest the pointer side by side, the way
// they would pass under it on the round wheel.
func (m Model) renderStrip(angle float64) string {
	mapping := m.state.Wheel.Mapping()
	n := len(mapping)
	if n == 0 {
		return ""
	}
	count := min(n, stripSlices)
	center := engine.SliceUnderPointer(angle, n)

	cells := make([]string, 0, count)
	for pos := range count {
		idx := ((center+pos-count/2)%n + n) % n
		value := mapping[idx]
		style := m.styles.slice
		switch {
		case pos == count/2:
			style = style.Inherit(m.styles.picked)
		case m.state.Wheel.IsUsed(value):
			style = style.Inherit(m.styles.used)
		}
		cells = append(cells, style.Render(strconv.Itoa(value)))
	}

	pointer := strings.Repeat(" ", (count/2)*sliceWidth+sliceWidth/2-1) + m.styles.pointer.Render("▼")
	return pointer + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
