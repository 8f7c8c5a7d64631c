package engine

import (
	"fmt"
	"strings"
)

// Picker names one of the three independent selectors.
type Picker string

const (
	PickerWheel      Picker = "wheel"
	PickerTask       Picker = "task"
	PickerPunishment Picker = "punishment"
)

// Pickers lists the selectors in display order.
var Pickers = []Picker{PickerWheel, PickerTask, PickerPunishment}

// ParsePicker accepts singular and plural names, case-insensitively.
func ParsePicker(name string) (Picker, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "wheel", "number", "numbers":
		return PickerWheel, nil
	case "task", "tasks":
		return PickerTask, nil
	case "punishment", "punishments":
		return PickerPunishment, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPicker, name)
	}
}

// State holds every picker. There is no package-level instance; callers pass
// the state to whatever needs it.
type State struct {
	Wheel       *Wheel
	Tasks       *Pool
	Punishments *Pool
	Theme       Theme
}

// NewState returns fresh-start defaults: a 1-20 wheel, empty pools, blue.
func NewState() *State {
	return &State{
		Wheel:       NewWheel(DefaultRange, nil, false),
		Tasks:       NewPool(nil, nil, false),
		Punishments: NewPool(nil, nil, false),
		Theme:       ThemeBlue,
	}
}

// Clone returns a deep copy, including the session's large-range confirmation.
func (s *State) Clone() *State {
	return &State{
		Wheel:       s.Wheel.clone(),
		Tasks:       s.Tasks.clone(),
		Punishments: s.Punishments.clone(),
		Theme:       s.Theme,
	}
}

// Pool returns the string pool behind a picker.
func (s *State) Pool(p Picker) (*Pool, error) {
	switch p {
	case PickerTask:
		return s.Tasks, nil
	case PickerPunishment:
		return s.Punishments, nil
	default:
		return nil, fmt.Errorf("%w: %q has no item pool", ErrInvalidPicker, p)
	}
}

// NoReplacement reports the mode flag of any picker.
func (s *State) NoReplacement(p Picker) bool {
	if p == PickerWheel {
		return s.Wheel.NoReplacement()
	}
	pool, err := s.Pool(p)
	if err != nil {
		return false
	}
	return pool.NoReplacement()
}

// SeedEmpty fills empty pools with the built-in samples and reports which
// pickers were seeded.
func (s *State) SeedEmpty() []Picker {
	var seeded []Picker
	if s.Tasks.Len() == 0 {
		s.Tasks.Replace(SampleTasks())
		seeded = append(seeded, PickerTask)
	}
	if s.Punishments.Len() == 0 {
		s.Punishments.Replace(SamplePunishments())
		seeded = append(seeded, PickerPunishment)
	}
	return seeded
}
