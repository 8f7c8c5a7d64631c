package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand always draws the same index and fraction.
type fixedRand struct {
	index    int
	fraction float64
}

func (f fixedRand) IntN(n int) int   { return f.index % n }
func (f fixedRand) Float64() float64 { return f.fraction }

type values []int

func (v values) Len() int     { return len(v) }
func (v values) At(i int) int { return v[i] }

func collect(view Availability) []int {
	out := make([]int, view.Len())
	for i := range out {
		out[i] = view.At(i)
	}
	return out
}

func TestBuildMappingSmallRangeIsBijective(t *testing.T) {
	for _, r := range []Range{{1, 1}, {1, 10}, {-5, 5}, {1, 119}, {0, 119}} {
		mapping := BuildMapping(r.Min, r.Max)
		require.Len(t, mapping, r.Total(), "range %v", r)
		for i, v := range mapping {
			assert.Equal(t, r.Min+i, v, "range %v slice %d", r, i)
		}
	}
}

func TestBuildMappingLargeRangeSamples(t *testing.T) {
	for _, r := range []Range{{1, 121}, {1, 240}, {1, 1000}, {-500, 999}} {
		mapping := BuildMapping(r.Min, r.Max)
		require.Len(t, mapping, MaxVisible)
		assert.Equal(t, r.Min, mapping[0])
		for i := 1; i < len(mapping); i++ {
			assert.GreaterOrEqual(t, mapping[i], mapping[i-1])
			assert.True(t, r.Contains(mapping[i]))
		}
	}
}

func TestBuildMappingExactMultipleSpacing(t *testing.T) {
	mapping := BuildMapping(1, 240)
	for i, v := range mapping {
		assert.Equal(t, 1+2*i, v)
	}
}

func TestBuildMappingRejectsReversedRange(t *testing.T) {
	assert.Nil(t, BuildMapping(10, 1))
}

func TestBuildMappingHugeRangeStaysOrdered(t *testing.T) {
	for _, r := range []Range{{1, 1 << 62}, {math.MinInt / 4, math.MaxInt / 4}, {0, math.MaxInt - 1}} {
		require.True(t, r.Valid(), "range %v", r)
		mapping := BuildMapping(r.Min, r.Max)
		require.Len(t, mapping, MaxVisible)
		assert.Equal(t, r.Min, mapping[0])
		for i := 1; i < len(mapping); i++ {
			assert.Greater(t, mapping[i], mapping[i-1], "range %v slice %d", r, i)
			assert.True(t, r.Contains(mapping[i]), "range %v slice %d", r, i)
		}
	}
}

func TestRangeValidRejectsOverflowingTotal(t *testing.T) {
	assert.False(t, Range{math.MinInt, math.MaxInt}.Valid())
	assert.False(t, Range{-1, math.MaxInt}.Valid())
	assert.False(t, Range{0, math.MaxInt}.Valid())
	assert.True(t, Range{0, math.MaxInt - 1}.Valid())
	assert.Equal(t, math.MaxInt, Range{0, math.MaxInt - 1}.Total())
	assert.Nil(t, BuildMapping(math.MinInt, math.MaxInt))
}

func TestWheelRejectsOverflowingRange(t *testing.T) {
	huge := Range{math.MinInt, math.MaxInt}
	w := NewWheel(huge, nil, false)
	assert.Equal(t, DefaultRange, w.Range())

	assert.ErrorIs(t, w.SetRange(huge), ErrInvalidRange)
	assert.ErrorIs(t, w.ConfirmLargeRange(huge), ErrInvalidRange)
	assert.Equal(t, DefaultRange, w.Range())
}

func TestWheelSpinsAcrossLargestRange(t *testing.T) {
	r := Range{0, math.MaxInt - 1}
	w := NewWheel(DefaultRange, nil, true)
	require.NoError(t, w.ConfirmLargeRange(r))

	got, err := w.Finish(180, fixedRand{})
	require.NoError(t, err)
	assert.True(t, r.Contains(got))
	assert.Equal(t, []int{got}, w.Used())
	assert.True(t, w.CanSpin())
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{360, 0},
		{1800, 0},
		{1890, 90},
		{-90, 270},
		{359.5, 359.5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizeAngle(tt.in), 1e-9, "angle %v", tt.in)
	}
}

func TestSelectFromAngleSmallRangeUsesPointer(t *testing.T) {
	mapping := BuildMapping(1, 10)

	got, ok := SelectFromAngle(0, mapping, 10, nil)
	require.True(t, ok)
	assert.Equal(t, 1, got)

	// 36 degree slices: a 10 degree turn puts the last slice under the pointer.
	got, _ = SelectFromAngle(10, mapping, 10, nil)
	assert.Equal(t, 10, got)

	got, _ = SelectFromAngle(90, mapping, 10, nil)
	assert.Equal(t, 8, got)
}

func TestSelectFromAngleIsTotalOverSmallRange(t *testing.T) {
	mapping := BuildMapping(3, 17)
	for angle := 0.0; angle < 360; angle += 0.25 {
		got, ok := SelectFromAngle(angle, mapping, len(mapping), nil)
		require.True(t, ok)
		assert.True(t, Range{3, 17}.Contains(got), "angle %v gave %d", angle, got)
	}
}

func TestSelectFromAngleLargeRangeIndexesAvailable(t *testing.T) {
	r := Range{1, 1000}
	mapping := BuildMapping(r.Min, r.Max)
	available := values{5, 10, 15, 20}

	got, ok := SelectFromAngle(0, mapping, r.Total(), available)
	require.True(t, ok)
	assert.Equal(t, 5, got)

	got, _ = SelectFromAngle(180, mapping, r.Total(), available)
	assert.Equal(t, 15, got)

	got, _ = SelectFromAngle(359.999, mapping, r.Total(), available)
	assert.Equal(t, 20, got)

	_, ok = SelectFromAngle(90, mapping, r.Total(), values{})
	assert.False(t, ok)
}

func TestWheelSetRangeRequiresConfirmationForLargeRanges(t *testing.T) {
	w := NewWheel(DefaultRange, nil, false)
	assert.False(t, w.NeedsConfirmation(Range{1, 119}))
	assert.True(t, w.NeedsConfirmation(Range{1, 120}))

	err := w.SetRange(Range{1, 120})
	require.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Equal(t, DefaultRange, w.Range())
	assert.Len(t, w.Mapping(), 20)

	require.NoError(t, w.ConfirmLargeRange(Range{1, 120}))
	assert.Equal(t, Range{1, 120}, w.Range())
	assert.False(t, w.NeedsConfirmation(Range{1, 5000}))

	// Confirmation sticks for later rebuilds in the same session.
	require.NoError(t, w.SetRange(Range{1, 5000}))
	assert.Len(t, w.Mapping(), MaxVisible)
}

func TestWheelSetRangeRejectsReversedRange(t *testing.T) {
	w := NewWheel(DefaultRange, nil, false)
	assert.ErrorIs(t, w.SetRange(Range{10, 1}), ErrInvalidRange)
	assert.Equal(t, DefaultRange, w.Range())
}

func TestWheelSetRangeDropsUsedNumbersOutsideRange(t *testing.T) {
	w := NewWheel(Range{1, 20}, []int{3, 15, 7}, true)
	require.NoError(t, w.SetRange(Range{1, 10}))
	assert.Equal(t, []int{3, 7}, w.Used())
	assert.False(t, w.IsUsed(15))
}

func TestWheelFinishRecordsUsedNumbers(t *testing.T) {
	w := NewWheel(Range{1, 10}, nil, true)

	got, err := w.Finish(0, fixedRand{})
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.Equal(t, []int{1}, w.Used())

	// Landing on the used slice again redraws from what is left.
	got, err = w.Finish(360, fixedRand{index: 0})
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Equal(t, []int{1, 2}, w.Used())
}

func TestWheelFinishWithoutNoReplacementKeepsUsedEmpty(t *testing.T) {
	w := NewWheel(Range{1, 10}, nil, false)
	for range 5 {
		got, err := w.Finish(0, fixedRand{})
		require.NoError(t, err)
		assert.Equal(t, 1, got)
	}
	assert.Empty(t, w.Used())
}

func TestWheelNeverRepeatsUnderNoReplacement(t *testing.T) {
	for _, r := range []Range{{1, 12}, {1, 500}} {
		w := NewWheel(r, nil, true)
		rnd := NewRand(42)
		seen := map[int]bool{}
		for range r.Total() {
			got, err := w.Finish(NewSpin(rnd).TotalRotation, rnd)
			require.NoError(t, err)
			require.False(t, seen[got], "range %v repeated %d", r, got)
			seen[got] = true
		}
		_, err := w.Finish(1900, rnd)
		assert.ErrorIs(t, err, ErrWheelExhausted)
		assert.Len(t, seen, r.Total())
	}
}

func TestWheelSampledSelectionSkipsUsedNumbers(t *testing.T) {
	w := NewWheel(Range{1, 200}, []int{1, 2, 3}, true)
	got, err := w.Finish(0, fixedRand{})
	require.NoError(t, err)
	assert.Equal(t, 4, got)
}

func TestWheelAvailability(t *testing.T) {
	w := NewWheel(Range{1, 6}, []int{3, 5}, true)
	assert.Equal(t, []int{1, 2, 4, 6}, collect(w.availability()))
	assert.Equal(t, 4, w.AvailableCount())

	w.SetNoReplacement(false)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, collect(w.availability()))
}

func TestWheelUndoIsInverseOfFinish(t *testing.T) {
	w := NewWheel(Range{1, 50}, []int{9, 4}, true)
	before := w.Used()

	_, err := w.Finish(123.4, fixedRand{index: 7})
	require.NoError(t, err)
	require.Len(t, w.Used(), 3)

	undone, ok := w.Undo()
	require.True(t, ok)
	assert.False(t, w.IsUsed(undone))
	assert.Equal(t, before, w.Used())
}

func TestWheelUndoTargetsInsertionOrder(t *testing.T) {
	w := NewWheel(Range{1, 20}, []int{18, 2}, true)
	last, ok := w.Undo()
	require.True(t, ok)
	assert.Equal(t, 2, last)
	assert.Equal(t, []int{18}, w.Used())

	w.Reset()
	_, ok = w.Undo()
	assert.False(t, ok)
}

func TestWheelResetClearsConfirmation(t *testing.T) {
	w := NewWheel(DefaultRange, nil, true)
	require.NoError(t, w.ConfirmLargeRange(Range{1, 300}))
	_, err := w.Finish(0, fixedRand{})
	require.NoError(t, err)

	w.Reset()
	assert.Empty(t, w.Used())
	assert.True(t, w.NeedsConfirmation(Range{1, 400}))
	assert.ErrorIs(t, w.SetRange(Range{1, 400}), ErrConfirmationRequired)
}

func TestWheelRestoreReleasesOneNumber(t *testing.T) {
	w := NewWheel(Range{1, 20}, []int{4, 8, 12}, true)
	assert.True(t, w.Restore(8))
	assert.Equal(t, []int{4, 12}, w.Used())
	assert.False(t, w.Restore(8))
}

func TestNewWheelRestoresPersistedLargeRangeWithoutPrompt(t *testing.T) {
	w := NewWheel(Range{1, 1000}, []int{5, 5, 2000}, true)
	assert.False(t, w.NeedsConfirmation(Range{1, 5000}))
	assert.Equal(t, []int{5}, w.Used())
	assert.Len(t, w.Mapping(), MaxVisible)
}
