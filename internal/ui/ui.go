package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"futuredecide/internal/config"
	"futuredecide/internal/engine"
)

type Service interface {
	Apply(ctx context.Context, cmd engine.Command) (engine.Outcome, error)
	State() *engine.State
	NewSpin() engine.Spin
	Export(p engine.Picker) ([]byte, error)
}

type Logger interface {
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
}

type mode int

const (
	modeWheel mode = iota
	modeTask
	modePunishment
	modeCount
)

func (md mode) picker() engine.Picker {
	switch md {
	case modeTask:
		return engine.PickerTask
	case modePunishment:
		return engine.PickerPunishment
	default:
		return engine.PickerWheel
	}
}

type overlay int

const (
	overlayNone overlay = iota
	overlayInput
	overlayConfirm
	overlayImport
	overlayNotice
)

type inputPurpose int

const (
	inputAddItem inputPurpose = iota
	inputRange
)

type spinFrameMsg struct{ at time.Time }

type shuffleDoneMsg struct{ picker engine.Picker }

type highlightClearMsg struct{ seq int }

const highlightDuration = 2 * time.Second

type Model struct {
	ctx    context.Context
	svc    Service
	log    Logger
	cfg    config.Config
	keys   keyMap
	help   help.Model
	styles styles
	state  *engine.State

	mode         mode
	overlay      overlay
	noticeReturn overlay
	purpose      inputPurpose
	input        textinput.Model
	area         textarea.Model
	pending      engine.Range
	notice       string
	status       string

	focusUsed  bool
	cursor     int
	usedCursor int
	quick      int

	spinning  bool
	spin      engine.Spin
	spinStart time.Time
	angle     float64
	shuffling engine.Picker

	lastNumber   int
	hasNumber    bool
	lastItem     map[engine.Picker]string
	highlight    string
	highlightSeq int

	now       func() time.Time
	readClip  func() (string, error)
	writeClip func(string) error
	writeFile func(path string, data []byte) error
}

func New(ctx context.Context, svc Service, cfg config.Config, log Logger) Model {
	ti := textinput.New()
	ti.CharLimit = engine.MaxItemLength
	ti.Width = 40

	ta := textarea.New()
	ta.Placeholder = `["First item", "Second item"]`
	ta.SetWidth(60)
	ta.SetHeight(8)

	if log == nil {
		log = nopLogger{}
	}
	state := svc.State()
	return Model{
		ctx:       ctx,
		svc:       svc,
		log:       log,
		cfg:       cfg,
		keys:      newKeyMap(cfg.Keys).forMode(true),
		help:      help.New(),
		styles:    newStyles(state.Theme),
		state:     state,
		mode:      modeWheel,
		input:     ti,
		area:      ta,
		status:    fmt.Sprintf("Press %s to spin, %s to switch pickers.", cfg.Keys.Pick, cfg.Keys.NextMode),
		quick:     quickIndex(state.Wheel.Range()),
		lastItem:  map[engine.Picker]string{},
		now:       time.Now,
		readClip:  clipboard.ReadAll,
		writeClip: clipboard.WriteAll,
		writeFile: writeExport,
	}
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}

func Run(ctx context.Context, svc Service, cfg config.Config, log Logger) error {
	program := tea.NewProgram(New(ctx, svc, cfg, log), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.overlay {
		case overlayInput:
			return m.updateInput(msg)
		case overlayConfirm:
			return m.updateConfirm(msg)
		case overlayImport:
			return m.updateImport(msg)
		case overlayNotice:
			return m.updateNotice(msg)
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.input.Width = max(20, msg.Width-10)
		m.area.SetWidth(max(20, msg.Width-10))
	case spinFrameMsg:
		return m.stepSpin(msg.at)
	case shuffleDoneMsg:
		return m.finishShuffle(msg.picker)
	case highlightClearMsg:
		if msg.seq == m.highlightSeq {
			m.highlight = ""
		}
	default:
		var cmd tea.Cmd
		switch m.overlay {
		case overlayInput:
			m.input, cmd = m.input.Update(msg)
		case overlayImport:
			m.area, cmd = m.area.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) busy() bool {
	return m.spinning || m.shuffling != ""
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	if m.busy() && key.Matches(msg, k.Pick, k.Delete, k.Undo, k.Reset, k.NoReplacement,
		k.Add, k.EditRange, k.QuickRange, k.Import) {
		return m, nil
	}

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.NextMode):
		return m.switchMode((m.mode + 1) % modeCount), nil
	case key.Matches(msg, k.PrevMode):
		return m.switchMode((m.mode + modeCount - 1) % modeCount), nil
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Theme):
		out, err := m.apply(engine.CycleTheme{})
		if err != nil {
			m.status = fmt.Sprintf("theme failed: %v", err)
			return m, nil
		}
		m.styles = newStyles(m.state.Theme)
		m.status = "Theme: " + string(out.Theme)
	case key.Matches(msg, k.Up):
		m.moveCursor(-1)
	case key.Matches(msg, k.Down):
		m.moveCursor(1)
	case key.Matches(msg, k.FocusUsed):
		m.focusUsed = !m.focusUsed
		m.usedCursor = 0
		if m.focusUsed {
			m.status = fmt.Sprintf("Used list: %s or %s restores the highlighted entry", m.cfg.Keys.Pick, m.cfg.Keys.Delete)
		} else {
			m.status = ""
		}
	case key.Matches(msg, k.Pick):
		if m.focusUsed {
			return m.restoreUsed()
		}
		if m.mode == modeWheel {
			return m.startSpin()
		}
		return m.startShuffle()
	case key.Matches(msg, k.Delete):
		if m.focusUsed {
			return m.restoreUsed()
		}
		return m.removeItem()
	case key.Matches(msg, k.Undo):
		return m.undo()
	case key.Matches(msg, k.Reset):
		return m.reset()
	case key.Matches(msg, k.NoReplacement):
		return m.toggleNoReplacement()
	case key.Matches(msg, k.Add):
		return m.openInput(inputAddItem, "")
	case key.Matches(msg, k.EditRange):
		r := m.state.Wheel.Range()
		return m.openInput(inputRange, fmt.Sprintf("%d-%d", r.Min, r.Max))
	case key.Matches(msg, k.QuickRange):
		m.quick = (m.quick + 1) % len(engine.QuickRanges)
		return m.setRange(engine.QuickRanges[m.quick])
	case key.Matches(msg, k.Import):
		m.overlay = overlayImport
		m.area.Reset()
		return m, m.area.Focus()
	case key.Matches(msg, k.Export):
		return m.exportFile()
	case key.Matches(msg, k.CopyExport):
		return m.copyExport()
	}
	return m, nil
}

func (m *Model) apply(cmd engine.Command) (engine.Outcome, error) {
	out, err := m.svc.Apply(m.ctx, cmd)
	m.state = m.svc.State()
	return out, err
}

func (m Model) switchMode(next mode) Model {
	m.mode = next
	m.keys = newKeyMap(m.cfg.Keys).forMode(next == modeWheel)
	m.focusUsed = false
	m.cursor = 0
	m.usedCursor = 0
	m.status = ""
	return m
}

func (m Model) showNotice(text string) Model {
	m.noticeReturn = m.overlay
	m.overlay = overlayNotice
	m.notice = text
	return m
}

func (m *Model) moveCursor(delta int) {
	if m.focusUsed {
		m.usedCursor = clampCursor(m.usedCursor+delta, m.usedLen())
		return
	}
	if m.mode == modeWheel {
		return
	}
	m.cursor = clampCursor(m.cursor+delta, len(m.items()))
}

func (m Model) items() []string {
	pool, err := m.state.Pool(m.mode.picker())
	if err != nil {
		return nil
	}
	return pool.Items()
}

func (m Model) usedLen() int {
	if m.mode == modeWheel {
		return len(m.state.Wheel.Used())
	}
	pool, err := m.state.Pool(m.mode.picker())
	if err != nil {
		return 0
	}
	return len(pool.Used())
}

func (m Model) frameTick() tea.Cmd {
	frame := time.Duration(m.cfg.UI.SpinFrameMS) * time.Millisecond
	return tea.Tick(frame, func(t time.Time) tea.Msg {
		return spinFrameMsg{at: t}
	})
}

func (m Model) startSpin() (tea.Model, tea.Cmd) {
	if !m.state.Wheel.CanSpin() {
		return m.showNotice("All numbers have been used! Reset the wheel to continue."), nil
	}
	m.spin = m.svc.NewSpin()
	m.spinStart = m.now()
	m.spinning = true
	m.angle = 0
	m.status = "Spinning..."
	return m, m.frameTick()
}

func (m Model) stepSpin(at time.Time) (tea.Model, tea.Cmd) {
	if !m.spinning {
		return m, nil
	}
	elapsed := at.Sub(m.spinStart)
	m.angle = m.spin.AngleAt(elapsed)
	if !m.spin.Done(elapsed) {
		return m, m.frameTick()
	}

	m.spinning = false
	m.angle = m.spin.TotalRotation
	out, err := m.apply(engine.FinishSpin{Angle: m.spin.TotalRotation})
	if errors.Is(err, engine.ErrWheelExhausted) {
		return m.showNotice("All numbers have been used! Reset the wheel to continue."), nil
	}
	if err != nil {
		m.status = fmt.Sprintf("spin failed: %v", err)
		return m, nil
	}
	m.lastNumber = out.Number
	m.hasNumber = true
	m.status = fmt.Sprintf("Landed on %d", out.Number)
	m.log.Info("wheel spun", "number", out.Number, "range", rangeLabel(m.state.Wheel.Range()))
	return m, nil
}

func (m Model) shuffleDelay(p engine.Picker) time.Duration {
	ms := m.cfg.UI.TaskShuffleMS
	if p == engine.PickerPunishment {
		ms = m.cfg.UI.PunishmentShuffleMS
	}
	return time.Duration(ms) * time.Millisecond
}

func (m Model) startShuffle() (tea.Model, tea.Cmd) {
	p := m.mode.picker()
	pool, err := m.state.Pool(p)
	if err != nil {
		return m, nil
	}
	if len(pool.Available()) == 0 {
		return m.showNotice(exhaustedNotice(p)), nil
	}
	m.shuffling = p
	m.status = "Shuffling..."
	return m, tea.Tick(m.shuffleDelay(p), func(time.Time) tea.Msg {
		return shuffleDoneMsg{picker: p}
	})
}

func (m Model) finishShuffle(p engine.Picker) (tea.Model, tea.Cmd) {
	if m.shuffling != p {
		return m, nil
	}
	m.shuffling = ""
	out, err := m.apply(engine.SelectItem{Picker: p})
	if errors.Is(err, engine.ErrPoolExhausted) {
		return m.showNotice(exhaustedNotice(p)), nil
	}
	if err != nil {
		m.status = fmt.Sprintf("pick failed: %v", err)
		return m, nil
	}
	m.lastItem[p] = out.Item
	m.highlight = out.Item
	m.highlightSeq++
	m.status = "Picked: " + out.Item
	m.log.Info("item picked", "picker", p, "item", out.Item)

	seq := m.highlightSeq
	return m, tea.Tick(highlightDuration, func(time.Time) tea.Msg {
		return highlightClearMsg{seq: seq}
	})
}

func (m Model) removeItem() (tea.Model, tea.Cmd) {
	if m.mode == modeWheel {
		return m, nil
	}
	out, err := m.apply(engine.RemoveItem{Picker: m.mode.picker(), Index: m.cursor})
	if err != nil {
		m.status = fmt.Sprintf("remove failed: %v", err)
		return m, nil
	}
	if out.Changed {
		m.status = fmt.Sprintf("Removed %q", out.Item)
	}
	m.cursor = clampCursor(m.cursor, len(m.items()))
	return m, nil
}

func (m Model) restoreUsed() (tea.Model, tea.Cmd) {
	var cmd engine.Command
	if m.mode == modeWheel {
		used := m.state.Wheel.Used()
		if len(used) == 0 {
			m.status = "Nothing to restore"
			return m, nil
		}
		cmd = engine.RestoreNumber{Value: used[clampCursor(m.usedCursor, len(used))]}
	} else {
		cmd = engine.RestoreItem{Picker: m.mode.picker(), Index: m.usedCursor}
	}

	out, err := m.apply(cmd)
	switch {
	case err != nil:
		m.status = fmt.Sprintf("restore failed: %v", err)
	case !out.Changed:
		m.status = "Nothing to restore"
	case m.mode == modeWheel:
		m.status = fmt.Sprintf("Restored %d", out.Number)
	default:
		m.status = fmt.Sprintf("Restored %q", out.Item)
	}
	m.usedCursor = clampCursor(m.usedCursor, m.usedLen())
	return m, nil
}

func (m Model) undo() (tea.Model, tea.Cmd) {
	var cmd engine.Command = engine.UndoWheel{}
	if m.mode != modeWheel {
		cmd = engine.UndoItem{Picker: m.mode.picker()}
	}
	out, err := m.apply(cmd)
	switch {
	case err != nil:
		m.status = fmt.Sprintf("undo failed: %v", err)
	case !out.Changed:
		m.status = "Nothing to undo"
	case m.mode == modeWheel:
		m.status = fmt.Sprintf("Released %d", out.Number)
	default:
		m.status = fmt.Sprintf("Released %q", out.Item)
	}
	m.usedCursor = clampCursor(m.usedCursor, m.usedLen())
	return m, nil
}

func (m Model) reset() (tea.Model, tea.Cmd) {
	var cmd engine.Command = engine.ResetWheel{}
	if m.mode != modeWheel {
		cmd = engine.ResetItems{Picker: m.mode.picker()}
	}
	if _, err := m.apply(cmd); err != nil {
		m.status = fmt.Sprintf("reset failed: %v", err)
		return m, nil
	}
	if m.mode == modeWheel {
		m.hasNumber = false
		m.angle = 0
	}
	m.usedCursor = 0
	m.status = "Used list cleared"
	return m, nil
}

func (m Model) toggleNoReplacement() (tea.Model, tea.Cmd) {
	p := m.mode.picker()
	enabled := !m.state.NoReplacement(p)
	if _, err := m.apply(engine.SetNoReplacement{Picker: p, Enabled: enabled}); err != nil {
		m.status = fmt.Sprintf("toggle failed: %v", err)
		return m, nil
	}
	m.status = "No-replacement " + onOff(enabled)
	return m, nil
}

func (m Model) openInput(purpose inputPurpose, value string) (tea.Model, tea.Cmd) {
	m.overlay = overlayInput
	m.purpose = purpose
	if purpose == inputRange {
		m.input.Placeholder = "min-max"
	} else {
		m.input.Placeholder = pickerNoun(m.mode.picker()) + " text"
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m *Model) closeInput() {
	m.overlay = overlayNone
	m.input.SetValue("")
	m.input.Blur()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeInput()
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		value := m.input.Value()
		m.closeInput()
		if m.purpose == inputRange {
			return m.submitRange(value)
		}
		return m.submitItem(value)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) submitItem(text string) (tea.Model, tea.Cmd) {
	out, err := m.apply(engine.AddItem{Picker: m.mode.picker(), Text: text})
	if err != nil {
		m.status = fmt.Sprintf("save failed: %v", err)
		return m, nil
	}
	if !out.Changed {
		m.status = fmt.Sprintf("Items must be 1-%d characters", engine.MaxItemLength)
		return m, nil
	}
	m.cursor = clampCursor(len(m.items())-1, len(m.items()))
	m.status = "Added " + pickerNoun(m.mode.picker())
	return m, nil
}

var rangePattern = regexp.MustCompile(`^\s*(-?\d+)\s*(?:\.\.|-|,|\s)\s*(-?\d+)\s*$`)

// parseRange accepts "1-20", "1..20", "1,20" and "1 20".
func parseRange(text string) (engine.Range, error) {
	match := rangePattern.FindStringSubmatch(text)
	if match == nil {
		return engine.Range{}, fmt.Errorf("%w: %q", engine.ErrInvalidRange, text)
	}
	lo, err := strconv.Atoi(match[1])
	if err != nil {
		return engine.Range{}, fmt.Errorf("%w: %v", engine.ErrInvalidRange, err)
	}
	hi, err := strconv.Atoi(match[2])
	if err != nil {
		return engine.Range{}, fmt.Errorf("%w: %v", engine.ErrInvalidRange, err)
	}
	return engine.Range{Min: lo, Max: hi}, nil
}

func (m Model) submitRange(text string) (tea.Model, tea.Cmd) {
	r, err := parseRange(text)
	if err != nil {
		return m.showNotice("Enter a range like 1-100."), nil
	}
	return m.setRange(r)
}

func (m Model) setRange(r engine.Range) (tea.Model, tea.Cmd) {
	_, err := m.apply(engine.SetRange{Range: r})
	switch {
	case errors.Is(err, engine.ErrConfirmationRequired):
		m.pending = r
		m.overlay = overlayConfirm
	case errors.Is(err, engine.ErrInvalidRange) && r.Min <= r.Max:
		return m.showNotice("That range is too wide to spin."), nil
	case errors.Is(err, engine.ErrInvalidRange):
		return m.showNotice("The minimum must not be greater than the maximum."), nil
	case err != nil:
		m.status = fmt.Sprintf("range failed: %v", err)
	default:
		m.angle = 0
		m.hasNumber = false
		m.usedCursor = 0
		m.status = "Range set to " + rangeLabel(r)
	}
	return m, nil
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm), msg.String() == "y":
		m.overlay = overlayNone
		if _, err := m.apply(engine.ConfirmLargeRange{Range: m.pending}); err != nil {
			m.status = fmt.Sprintf("range failed: %v", err)
			return m, nil
		}
		m.angle = 0
		m.hasNumber = false
		m.usedCursor = 0
		m.status = "Range set to " + rangeLabel(m.pending)
		m.log.Info("large range confirmed", "range", rangeLabel(m.pending))
	case key.Matches(msg, m.keys.Cancel), msg.String() == "n":
		m.overlay = overlayNone
		m.status = "Kept range " + rangeLabel(m.state.Wheel.Range())
	}
	return m, nil
}

func (m Model) updateImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.overlay = overlayNone
		m.area.Blur()
		m.status = "Import cancelled"
		return m, nil
	case key.Matches(msg, m.keys.SubmitImport):
		return m.submitImport(m.area.Value())
	case key.Matches(msg, m.keys.PasteClipboard):
		text, err := m.readClip()
		if err != nil {
			m.status = fmt.Sprintf("paste failed: %v", err)
			return m, nil
		}
		m.area.SetValue(text)
		return m, nil
	default:
		var cmd tea.Cmd
		m.area, cmd = m.area.Update(msg)
		return m, cmd
	}
}

func (m Model) submitImport(text string) (tea.Model, tea.Cmd) {
	p := m.mode.picker()
	out, err := m.apply(engine.ImportItems{Picker: p, Text: text})
	switch {
	case errors.Is(err, engine.ErrInvalidJSON):
		return m.showNotice("Invalid JSON. Please check your input."), nil
	case errors.Is(err, engine.ErrInvalidFormat):
		return m.showNotice("Invalid format. Please provide an array of strings."), nil
	case err != nil:
		m.status = fmt.Sprintf("import failed: %v", err)
		return m, nil
	}
	m.overlay = overlayNone
	m.area.Blur()
	m.cursor = clampCursor(m.cursor, len(m.items()))
	m.status = fmt.Sprintf("Imported %d items", out.Imported)
	m.log.Info("items imported", "picker", p, "count", out.Imported)
	return m, nil
}

func (m Model) updateNotice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Confirm, m.keys.Cancel) {
		m.overlay = m.noticeReturn
		m.noticeReturn = overlayNone
		m.notice = ""
	}
	return m, nil
}

func (m Model) exportFile() (tea.Model, tea.Cmd) {
	p := m.mode.picker()
	data, err := m.svc.Export(p)
	if err != nil {
		m.status = fmt.Sprintf("export failed: %v", err)
		return m, nil
	}
	path := filepath.Join(m.cfg.UI.ExportDir, engine.ExportFileName(p))
	if err := m.writeFile(path, data); err != nil {
		m.status = fmt.Sprintf("export failed: %v", err)
		m.log.Warn("export failed", "path", path, "err", err)
		return m, nil
	}
	m.status = fmt.Sprintf("Exported %d items to %s", len(m.items()), path)
	return m, nil
}

func (m Model) copyExport() (tea.Model, tea.Cmd) {
	data, err := m.svc.Export(m.mode.picker())
	if err != nil {
		m.status = fmt.Sprintf("export failed: %v", err)
		return m, nil
	}
	if err := m.writeClip(string(data)); err != nil {
		m.status = fmt.Sprintf("copy failed: %v", err)
		return m, nil
	}
	m.status = fmt.Sprintf("Copied %d items to the clipboard", len(m.items()))
	return m, nil
}

func writeExport(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func quickIndex(r engine.Range) int {
	for i, q := range engine.QuickRanges {
		if q == r {
			return i
		}
	}
	return len(engine.QuickRanges) - 1
}

func exhaustedNotice(p engine.Picker) string {
	if p == engine.PickerPunishment {
		return "All punishments have been used! Reset to continue."
	}
	return "All tasks have been used! Reset to continue."
}

func pickerNoun(p engine.Picker) string {
	switch p {
	case engine.PickerTask:
		return "task"
	case engine.PickerPunishment:
		return "punishment"
	default:
		return "number"
	}
}

func rangeLabel(r engine.Range) string {
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
