package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"futuredecide/internal/engine"
)

var ErrMalformed = errors.New("malformed state document")

// Document is the persisted shape of every picker. Field names match the
// record the browser build kept in localStorage, so exported state moves
// between the two unchanged.
type Document struct {
	WheelMin                *int     `json:"wheelMin,omitempty"`
	WheelMax                *int     `json:"wheelMax,omitempty"`
	UsedNumbers             []int    `json:"usedNumbers"`
	Tasks                   []string `json:"tasks"`
	UsedTasks               []string `json:"usedTasks"`
	Punishments             []string `json:"punishments"`
	UsedPunishments         []string `json:"usedPunishments"`
	Theme                   string   `json:"theme"`
	NoReplacementWheel      bool     `json:"noReplacementWheel"`
	NoReplacementTask       bool     `json:"noReplacementTask"`
	NoReplacementPunishment bool     `json:"noReplacementPunishment"`
}

func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc, nil
}

func (d Document) Encode() ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode state document: %w", err)
	}
	return data, nil
}

// DocumentFromState snapshots s for persistence.
func DocumentFromState(s *engine.State) Document {
	r := s.Wheel.Range()
	return Document{
		WheelMin:                &r.Min,
		WheelMax:                &r.Max,
		UsedNumbers:             nonNilInts(s.Wheel.Used()),
		Tasks:                   nonNilStrings(s.Tasks.Items()),
		UsedTasks:               nonNilStrings(s.Tasks.Used()),
		Punishments:             nonNilStrings(s.Punishments.Items()),
		UsedPunishments:         nonNilStrings(s.Punishments.Used()),
		Theme:                   string(s.Theme),
		NoReplacementWheel:      s.Wheel.NoReplacement(),
		NoReplacementTask:       s.Tasks.NoReplacement(),
		NoReplacementPunishment: s.Punishments.NoReplacement(),
	}
}

// State rebuilds picker state, substituting defaults for absent fields. A
// stored range with min above max falls back to the default range.
func (d Document) State() *engine.State {
	r := engine.DefaultRange
	if d.WheelMin != nil {
		r.Min = *d.WheelMin
	}
	if d.WheelMax != nil {
		r.Max = *d.WheelMax
	}
	if !r.Valid() {
		r = engine.DefaultRange
	}
	return &engine.State{
		Wheel:       engine.NewWheel(r, d.UsedNumbers, d.NoReplacementWheel),
		Tasks:       engine.NewPool(d.Tasks, d.UsedTasks, d.NoReplacementTask),
		Punishments: engine.NewPool(d.Punishments, d.UsedPunishments, d.NoReplacementPunishment),
		Theme:       engine.ParseTheme(d.Theme),
	}
}

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
