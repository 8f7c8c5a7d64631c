package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"futuredecide/internal/config"
)

type keyMap struct {
	Quit           key.Binding
	NextMode       key.Binding
	PrevMode       key.Binding
	Up             key.Binding
	Down           key.Binding
	Pick           key.Binding
	Add            key.Binding
	Delete         key.Binding
	Undo           key.Binding
	Reset          key.Binding
	NoReplacement  key.Binding
	FocusUsed      key.Binding
	EditRange      key.Binding
	QuickRange     key.Binding
	Import         key.Binding
	Export         key.Binding
	CopyExport     key.Binding
	Theme          key.Binding
	Help           key.Binding
	Confirm        key.Binding
	Cancel         key.Binding
	SubmitImport   key.Binding
	PasteClipboard key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:           bind(k.Quit, "quit"),
		NextMode:       bind(k.NextMode, "next picker"),
		PrevMode:       bind(k.PrevMode, "prev picker"),
		Up:             bind(k.Up, "up", "up"),
		Down:           bind(k.Down, "down", "down"),
		Pick:           bind(k.Pick, "spin / pick", " "),
		Add:            bind(k.Add, "add item"),
		Delete:         bind(k.Delete, "remove / restore"),
		Undo:           bind(k.Undo, "undo"),
		Reset:          bind(k.Reset, "reset used"),
		NoReplacement:  bind(k.NoReplacement, "no-replacement"),
		FocusUsed:      bind(k.FocusUsed, "focus used"),
		EditRange:      bind(k.EditRange, "edit range"),
		QuickRange:     bind(k.QuickRange, "quick range"),
		Import:         bind(k.Import, "import"),
		Export:         bind(k.Export, "export file"),
		CopyExport:     bind(k.CopyExport, "copy export"),
		Theme:          bind(k.Theme, "theme"),
		Help:           bind(k.Help, "more"),
		Confirm:        bind(k.Confirm, "confirm"),
		Cancel:         bind(k.Cancel, "cancel"),
		SubmitImport:   bind(k.SubmitImport, "import"),
		PasteClipboard: bind(k.PasteClipboard, "paste clipboard"),
	}
}

// bind matches the configured key plus fixed aliases; help shows only the
// configured key.
func bind(configured, desc string, aliases ...string) key.Binding {
	keys := append([]string{configured}, aliases...)
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(configured, desc))
}

// forMode enables the bindings that make sense for the active picker.
func (k keyMap) forMode(wheel bool) keyMap {
	k.EditRange.SetEnabled(wheel)
	k.QuickRange.SetEnabled(wheel)
	k.Add.SetEnabled(!wheel)
	k.Import.SetEnabled(!wheel)
	k.Export.SetEnabled(!wheel)
	k.CopyExport.SetEnabled(!wheel)
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pick, k.NextMode, k.Add, k.EditRange, k.Undo, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pick, k.NextMode, k.PrevMode, k.Up, k.Down},
		{k.Add, k.Delete, k.FocusUsed, k.EditRange, k.QuickRange},
		{k.Undo, k.Reset, k.NoReplacement, k.Theme},
		{k.Import, k.Export, k.CopyExport, k.Help, k.Quit},
	}
}
