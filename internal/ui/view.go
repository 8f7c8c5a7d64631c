package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"futuredecide/internal/engine"
)

const listWindow = 12

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("FutureDecide"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.mode == modeWheel {
		b.WriteString(m.renderWheelMode())
	} else {
		b.WriteString(m.renderPoolMode(m.mode.picker()))
	}

	if modal := m.renderOverlay(); modal != "" {
		b.WriteString("\n")
		b.WriteString(modal)
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.status.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderTabs() string {
	labels := []string{"Wheel", "Tasks", "Punishments"}
	tabs := make([]string, 0, len(labels))
	for i, label := range labels {
		if mode(i) == m.mode {
			tabs = append(tabs, m.styles.activeTab.Render(label))
			continue
		}
		tabs = append(tabs, m.styles.tab.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderWheelMode() string {
	w := m.state.Wheel
	r := w.Range()
	var b strings.Builder

	info := fmt.Sprintf("Range %s · %d numbers · no-replacement %s", rangeLabel(r), r.Total(), onOff(w.NoReplacement()))
	if r.Total() > engine.MaxVisible {
		info += fmt.Sprintf(" · %d of %d slices shown", engine.MaxVisible, r.Total())
	}
	b.WriteString(m.styles.muted.Render(info))
	b.WriteString("\n\n")
	b.WriteString(m.renderStrip(m.angle))
	b.WriteString("\n\n")

	switch {
	case m.spinning:
		b.WriteString(m.styles.muted.Render("Spinning..."))
	case m.hasNumber:
		b.WriteString(m.styles.result.Render(strconv.Itoa(m.lastNumber)))
	default:
		b.WriteString(m.styles.muted.Render("No spin yet"))
	}
	b.WriteString("\n\n")

	used := w.Used()
	labels := make([]string, len(used))
	for i, v := range used {
		labels[i] = strconv.Itoa(v)
	}
	b.WriteString(m.renderUsed(labels, w.NoReplacement(), w.AvailableCount()))
	return b.String()
}

func (m Model) renderPoolMode(p engine.Picker) string {
	pool, err := m.state.Pool(p)
	if err != nil {
		return err.Error()
	}
	var b strings.Builder
	items := pool.Items()

	header := fmt.Sprintf("%d %ss · no-replacement %s", len(items), pickerNoun(p), onOff(pool.NoReplacement()))
	b.WriteString(m.styles.muted.Render(header))
	b.WriteString("\n\n")

	if len(items) == 0 {
		b.WriteString(m.styles.muted.Render(fmt.Sprintf("No %ss yet. Press %s to add one.", pickerNoun(p), m.cfg.Keys.Add)))
		b.WriteString("\n")
	}
	start, end := listBounds(m.cursor, len(items), listWindow)
	for i := start; i < end; i++ {
		item := items[i]
		cursor := "  "
		if i == m.cursor && !m.focusUsed {
			cursor = m.styles.cursor.Render("> ")
		}
		text := item
		switch {
		case m.shuffling == p:
			text = m.styles.muted.Render(item)
		case m.highlight != "" && item == m.highlight:
			text = m.styles.picked.Render(item)
		case pool.IsUsed(item):
			text = m.styles.used.Render(item)
		}
		b.WriteString(cursor + text + "\n")
	}

	b.WriteString("\n")
	if last, ok := m.lastItem[p]; ok {
		b.WriteString("Last pick: ")
		b.WriteString(m.styles.result.Render(last))
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderUsed(pool.Used(), pool.NoReplacement(), len(pool.Available())))
	return b.String()
}

func (m Model) renderUsed(labels []string, noReplacement bool, available int) string {
	var b strings.Builder
	title := fmt.Sprintf("Used (%d) · %d available", len(labels), available)
	if !noReplacement {
		title += " · not tracking"
	}
	if m.focusUsed {
		b.WriteString(m.styles.cursor.Render(title))
	} else {
		b.WriteString(m.styles.muted.Render(title))
	}
	b.WriteString("\n")

	if len(labels) == 0 {
		b.WriteString(m.styles.muted.Render("  none"))
		return b.String()
	}
	start, end := listBounds(m.usedCursor, len(labels), listWindow)
	parts := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		if m.focusUsed && i == m.usedCursor {
			parts = append(parts, m.styles.picked.Render(labels[i]))
			continue
		}
		parts = append(parts, m.styles.used.Render(labels[i]))
	}
	b.WriteString("  " + strings.Join(parts, "  "))
	if end < len(labels) {
		b.WriteString(m.styles.muted.Render(fmt.Sprintf("  +%d more", len(labels)-end)))
	}
	return b.String()
}

func (m Model) renderOverlay() string {
	switch m.overlay {
	case overlayInput:
		title := "Add " + pickerNoun(m.mode.picker())
		if m.purpose == inputRange {
			title = "Wheel range"
		}
		return m.styles.modal.Render(m.styles.title.Render(title) + "\n\n" + m.input.View() +
			"\n\n" + m.styles.muted.Render(m.cfg.Keys.Confirm+" save · "+m.cfg.Keys.Cancel+" cancel"))
	case overlayConfirm:
		total := m.pending.Total()
		body := fmt.Sprintf("You're creating a wheel with %d numbers. For better performance and visibility, "+
			"the wheel samples %d visible slices. The result will still cover the full range.",
			total, min(engine.MaxVisible, total))
		return m.styles.modal.Render(m.styles.title.Render("Large Range Detected") + "\n\n" +
			lipgloss.NewStyle().Width(60).Render(body) + "\n\n" +
			m.styles.muted.Render(m.cfg.Keys.Confirm+"/y continue · "+m.cfg.Keys.Cancel+"/n keep current range"))
	case overlayImport:
		return m.styles.modal.Render(m.styles.title.Render("Import "+pickerNoun(m.mode.picker())+"s") + "\n\n" +
			m.area.View() + "\n\n" +
			m.styles.muted.Render(m.cfg.Keys.SubmitImport+" import · "+m.cfg.Keys.PasteClipboard+" paste · "+m.cfg.Keys.Cancel+" cancel"))
	case overlayNotice:
		return m.styles.modal.Render(m.notice + "\n\n" + m.styles.muted.Render(m.cfg.Keys.Confirm+" ok"))
	}
	return ""
}

// listBounds returns a window of at most size entries that contains cursor.
func listBounds(cursor, n, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := cursor - size/2
	start = max(0, min(start, n-size))
	return start, start + size
}
