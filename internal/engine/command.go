package engine

import "fmt"

// Command is one user intent routed to State.Apply.
type Command interface {
	Name() string
}

type SetRange struct{ Range Range }

type ConfirmLargeRange struct{ Range Range }

type FinishSpin struct{ Angle float64 }

type UndoWheel struct{}

type ResetWheel struct{}

type RestoreNumber struct{ Value int }

type CycleTheme struct{}

type SetNoReplacement struct {
	Picker  Picker
	Enabled bool
}

type AddItem struct {
	Picker Picker
	Text   string
}

type RemoveItem struct {
	Picker Picker
	Index  int
}

type SelectItem struct{ Picker Picker }

type UndoItem struct{ Picker Picker }

type ResetItems struct{ Picker Picker }

type RestoreItem struct {
	Picker Picker
	Index  int
}

type ImportItems struct {
	Picker Picker
	Text   string
}

func (SetRange) Name() string          { return "set_range" }
func (ConfirmLargeRange) Name() string { return "confirm_large_range" }
func (FinishSpin) Name() string        { return "finish_spin" }
func (UndoWheel) Name() string         { return "undo_wheel" }
func (ResetWheel) Name() string        { return "reset_wheel" }
func (RestoreNumber) Name() string     { return "restore_number" }
func (CycleTheme) Name() string        { return "cycle_theme" }
func (SetNoReplacement) Name() string  { return "set_no_replacement" }
func (AddItem) Name() string           { return "add_item" }
func (RemoveItem) Name() string        { return "remove_item" }
func (SelectItem) Name() string        { return "select_item" }
func (UndoItem) Name() string          { return "undo_item" }
func (ResetItems) Name() string        { return "reset_items" }
func (RestoreItem) Name() string       { return "restore_item" }
func (ImportItems) Name() string       { return "import_items" }

// Outcome reports what a command did. Changed is set whenever persisted
// state was mutated.
type Outcome struct {
	Changed  bool
	Number   int
	Item     string
	Imported int
	Theme    Theme
}

// Apply runs cmd against the state. Failed commands leave the state as it was.
func (s *State) Apply(cmd Command, rnd Rand) (Outcome, error) {
	switch c := cmd.(type) {
	case SetRange:
		if err := s.Wheel.SetRange(c.Range); err != nil {
			return Outcome{}, err
		}
		return Outcome{Changed: true}, nil
	case ConfirmLargeRange:
		if err := s.Wheel.ConfirmLargeRange(c.Range); err != nil {
			return Outcome{}, err
		}
		return Outcome{Changed: true}, nil
	case FinishSpin:
		n, err := s.Wheel.Finish(c.Angle, rnd)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Changed: s.Wheel.NoReplacement(), Number: n}, nil
	case UndoWheel:
		n, ok := s.Wheel.Undo()
		return Outcome{Changed: ok, Number: n}, nil
	case ResetWheel:
		s.Wheel.Reset()
		return Outcome{Changed: true}, nil
	case RestoreNumber:
		return Outcome{Changed: s.Wheel.Restore(c.Value), Number: c.Value}, nil
	case CycleTheme:
		s.Theme = s.Theme.Next()
		return Outcome{Changed: true, Theme: s.Theme}, nil
	case SetNoReplacement:
		if c.Picker == PickerWheel {
			s.Wheel.SetNoReplacement(c.Enabled)
			return Outcome{Changed: true}, nil
		}
		pool, err := s.Pool(c.Picker)
		if err != nil {
			return Outcome{}, err
		}
		pool.SetNoReplacement(c.Enabled)
		return Outcome{Changed: true}, nil
	}
	return s.applyPool(cmd, rnd)
}

func (s *State) applyPool(cmd Command, rnd Rand) (Outcome, error) {
	var picker Picker
	switch c := cmd.(type) {
	case AddItem:
		picker = c.Picker
	case RemoveItem:
		picker = c.Picker
	case SelectItem:
		picker = c.Picker
	case UndoItem:
		picker = c.Picker
	case ResetItems:
		picker = c.Picker
	case RestoreItem:
		picker = c.Picker
	case ImportItems:
		picker = c.Picker
	default:
		return Outcome{}, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
	pool, err := s.Pool(picker)
	if err != nil {
		return Outcome{}, err
	}

	switch c := cmd.(type) {
	case AddItem:
		return Outcome{Changed: pool.Add(c.Text)}, nil
	case RemoveItem:
		item, ok := pool.Remove(c.Index)
		return Outcome{Changed: ok, Item: item}, nil
	case SelectItem:
		item, err := pool.Select(rnd)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Changed: pool.NoReplacement(), Item: item}, nil
	case UndoItem:
		item, ok := pool.Undo()
		return Outcome{Changed: ok, Item: item}, nil
	case ResetItems:
		pool.Reset()
		return Outcome{Changed: true}, nil
	case RestoreItem:
		item, ok := pool.Restore(c.Index)
		return Outcome{Changed: ok, Item: item}, nil
	case ImportItems:
		items, err := Import(c.Text)
		if err != nil {
			return Outcome{}, err
		}
		pool.Replace(items)
		return Outcome{Changed: true, Imported: len(items)}, nil
	}
	return Outcome{}, fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
}
