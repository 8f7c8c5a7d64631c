package engine

import (
	"math"
	"math/bits"
	"slices"
)

// MaxVisible is the most slices a wheel ever draws. Ranges with at least this
// many values need an explicit confirmation before they are built.
const MaxVisible = 120

// Range is an inclusive integer domain.
type Range struct {
	Min int
	Max int
}

// DefaultRange is the wheel's range on a fresh start.
var DefaultRange = Range{Min: 1, Max: 20}

// QuickRanges are the presets offered next to the min/max inputs.
var QuickRanges = []Range{
	{Min: 1, Max: 6},
	{Min: 1, Max: 10},
	{Min: 1, Max: 20},
	{Min: 1, Max: 50},
	{Min: 1, Max: 100},
	{Min: 1, Max: 1000},
}

// Valid reports whether r is ordered and its size fits in an int.
func (r Range) Valid() bool {
	return r.Min <= r.Max && uint64(r.Max)-uint64(r.Min) < math.MaxInt
}

func (r Range) Total() int {
	return r.Max - r.Min + 1
}

func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Large reports whether building this range needs a sampling confirmation.
func (r Range) Large() bool {
	return r.Total() >= MaxVisible
}

// BuildMapping returns the visible slices for [lo, hi]. Slice i shows
// lo + floor(i*total/visible); with more than MaxVisible values several slices
// share a value.
func BuildMapping(lo, hi int) []int {
	r := Range{Min: lo, Max: hi}
	if !r.Valid() {
		return nil
	}
	total := r.Total()
	visible := min(total, MaxVisible)
	mapping := make([]int, visible)
	for i := range visible {
		// i < visible keeps the high word below the divisor.
		h, l := bits.Mul64(uint64(i), uint64(total))
		q, _ := bits.Div64(h, l, uint64(visible))
		mapping[i] = lo + int(q)
	}
	return mapping
}

// NormalizeAngle folds any angle into [0, 360).
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(math.Mod(angle, 360)+360, 360)
	if a >= 360 {
		return 0
	}
	return a
}

// Availability is an indexed view of the values still eligible for a spin.
type Availability interface {
	Len() int
	At(i int) int
}

// SliceUnderPointer returns the mapping index sitting under the fixed pointer
// once the wheel has rotated clockwise by angle degrees.
func SliceUnderPointer(angle float64, n int) int {
	if n <= 0 {
		return 0
	}
	sliceAngle := 360 / float64(n)
	idx := int(math.Floor((360-NormalizeAngle(angle))/sliceAngle)) % n
	if idx < 0 {
		idx += n
	}
	return idx
}

// SelectFromAngle maps a normalized final angle to a value. Small ranges pick
// the slice under the pointer; sampled ranges ignore slice identity and index
// into the available values by the angle's fraction of a full turn. It
// reports false when a sampled range has nothing available.
func SelectFromAngle(angle float64, mapping []int, total int, available Availability) (int, bool) {
	if total <= MaxVisible {
		if len(mapping) == 0 {
			return 0, false
		}
		return mapping[SliceUnderPointer(angle, len(mapping))], true
	}
	n := available.Len()
	if n == 0 {
		return 0, false
	}
	pos := math.Floor(angle / 360 * float64(n))
	if pos < 0 || pos >= float64(n) {
		return available.At(0), true
	}
	idx := int(pos)
	if idx >= n {
		idx = 0
	}
	return available.At(idx), true
}

// Wheel is the numeric picker: a range, its visible mapping and the numbers
// consumed while no-replacement mode is on.
type Wheel struct {
	rng           Range
	mapping       []int
	used          []int
	usedSet       map[int]struct{}
	noReplacement bool
	confirmed     bool
}

// NewWheel restores a wheel from persisted values. A persisted range counts
// as already confirmed; used numbers outside the range are dropped.
func NewWheel(r Range, used []int, noReplacement bool) *Wheel {
	if !r.Valid() {
		r = DefaultRange
	}
	w := &Wheel{
		rng:           r,
		mapping:       BuildMapping(r.Min, r.Max),
		usedSet:       map[int]struct{}{},
		noReplacement: noReplacement,
		confirmed:     r.Large(),
	}
	for _, v := range used {
		w.markUsed(v)
	}
	return w
}

func (w *Wheel) clone() *Wheel {
	c := *w
	c.mapping = slices.Clone(w.mapping)
	c.used = slices.Clone(w.used)
	c.usedSet = make(map[int]struct{}, len(w.usedSet))
	for v := range w.usedSet {
		c.usedSet[v] = struct{}{}
	}
	return &c
}

func (w *Wheel) Range() Range { return w.rng }

func (w *Wheel) Mapping() []int { return slices.Clone(w.mapping) }

// Used returns consumed numbers in the order they were drawn.
func (w *Wheel) Used() []int { return slices.Clone(w.used) }

func (w *Wheel) IsUsed(v int) bool {
	_, ok := w.usedSet[v]
	return ok
}

func (w *Wheel) NoReplacement() bool { return w.noReplacement }

func (w *Wheel) SetNoReplacement(on bool) { w.noReplacement = on }

// NeedsConfirmation reports whether building r would sample an unconfirmed
// large range.
func (w *Wheel) NeedsConfirmation(r Range) bool {
	return r.Large() && !w.confirmed
}

// SetRange rebuilds the wheel for r. A large range that has not been
// confirmed this session returns ErrConfirmationRequired and leaves the wheel
// untouched.
func (w *Wheel) SetRange(r Range) error {
	if !r.Valid() {
		return ErrInvalidRange
	}
	if w.NeedsConfirmation(r) {
		return ErrConfirmationRequired
	}
	w.rng = r
	w.mapping = BuildMapping(r.Min, r.Max)
	kept := w.used[:0]
	for _, v := range w.used {
		if r.Contains(v) {
			kept = append(kept, v)
			continue
		}
		delete(w.usedSet, v)
	}
	w.used = kept
	return nil
}

// ConfirmLargeRange accepts sampling for the rest of the session and builds r.
func (w *Wheel) ConfirmLargeRange(r Range) error {
	if !r.Valid() {
		return ErrInvalidRange
	}
	w.confirmed = true
	return w.SetRange(r)
}

// AvailableCount is the number of values a spin can still land on.
func (w *Wheel) AvailableCount() int {
	if !w.noReplacement {
		return w.rng.Total()
	}
	return w.rng.Total() - len(w.used)
}

func (w *Wheel) CanSpin() bool {
	return w.AvailableCount() > 0
}

// Finish turns a spin's final angle into a result, recording it as used when
// no-replacement mode is on. A pointer landing on a used slice is redrawn
// uniformly from the available numbers.
func (w *Wheel) Finish(finalAngle float64, rnd Rand) (int, error) {
	if !w.CanSpin() {
		return 0, ErrWheelExhausted
	}
	view := w.availability()
	selected, ok := SelectFromAngle(NormalizeAngle(finalAngle), w.mapping, w.rng.Total(), view)
	if !ok {
		return 0, ErrWheelExhausted
	}
	if w.noReplacement && w.IsUsed(selected) {
		selected = view.At(rnd.IntN(view.Len()))
	}
	if w.noReplacement {
		w.markUsed(selected)
	}
	return selected, nil
}

// Undo releases the most recently drawn number.
func (w *Wheel) Undo() (int, bool) {
	if len(w.used) == 0 {
		return 0, false
	}
	last := w.used[len(w.used)-1]
	w.used = w.used[:len(w.used)-1]
	delete(w.usedSet, last)
	return last, true
}

// Reset clears every used number and the large-range confirmation.
func (w *Wheel) Reset() {
	w.used = nil
	w.usedSet = map[int]struct{}{}
	w.confirmed = false
}

// Restore releases one specific used number.
func (w *Wheel) Restore(v int) bool {
	if !w.IsUsed(v) {
		return false
	}
	delete(w.usedSet, v)
	w.used = slices.DeleteFunc(w.used, func(u int) bool { return u == v })
	return true
}

func (w *Wheel) markUsed(v int) {
	if !w.rng.Contains(v) || w.IsUsed(v) {
		return
	}
	w.used = append(w.used, v)
	w.usedSet[v] = struct{}{}
}

func (w *Wheel) availability() Availability {
	if !w.noReplacement || len(w.used) == 0 {
		return fullRange{rng: w.rng}
	}
	sorted := slices.Clone(w.used)
	slices.Sort(sorted)
	return gappedRange{rng: w.rng, skip: sorted}
}

type fullRange struct {
	rng Range
}

func (f fullRange) Len() int     { return f.rng.Total() }
func (f fullRange) At(i int) int { return f.rng.Min + i }

// gappedRange is the range minus a sorted set of skipped values, indexed
// without materializing it.
type gappedRange struct {
	rng  Range
	skip []int
}

func (g gappedRange) Len() int { return g.rng.Total() - len(g.skip) }

func (g gappedRange) At(i int) int {
	v := g.rng.Min + i
	for _, s := range g.skip {
		if s > v {
			break
		}
		v++
	}
	return v
}
