package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolSelectWithNoReplacementNeverRepeats(t *testing.T) {
	p := NewPool([]string{"A", "B", "C"}, nil, true)
	rnd := NewRand(7)

	first, err := p.Select(rnd)
	require.NoError(t, err)
	assert.Contains(t, []string{"A", "B", "C"}, first)
	assert.Equal(t, []string{first}, p.Used())

	second, err := p.Select(rnd)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	third, err := p.Select(rnd)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, []string{first, second, third})

	_, err = p.Select(rnd)
	assert.ErrorIs(t, err, ErrPoolExhausted)
	assert.Len(t, p.Used(), 3)
}

func TestPoolSelectWithReplacementLeavesUsedInert(t *testing.T) {
	p := NewPool([]string{"A", "B"}, nil, false)
	rnd := NewRand(1)
	for range 20 {
		got, err := p.Select(rnd)
		require.NoError(t, err)
		assert.Contains(t, []string{"A", "B"}, got)
	}
	assert.Empty(t, p.Used())
}

func TestPoolSelectEmptyPoolFails(t *testing.T) {
	p := NewPool(nil, nil, true)
	_, err := p.Select(fixedRand{})
	assert.ErrorIs(t, err, ErrPoolExhausted)
	assert.Empty(t, p.Used())
}

func TestPoolUsedMembershipIsByValue(t *testing.T) {
	p := NewPool([]string{"x", "y", "y", "z"}, []string{"y"}, true)
	assert.Equal(t, []string{"x", "z"}, p.Available())

	got, err := p.Select(fixedRand{index: 1})
	require.NoError(t, err)
	assert.Equal(t, "z", got)
}

func TestPoolUndoIsInverseOfSelect(t *testing.T) {
	p := NewPool([]string{"A", "B", "C"}, []string{"B"}, true)
	before := p.Used()

	_, err := p.Select(fixedRand{index: 1})
	require.NoError(t, err)
	last, ok := p.Undo()
	require.True(t, ok)
	assert.Equal(t, "C", last)
	assert.Equal(t, before, p.Used())

	p.Reset()
	_, ok = p.Undo()
	assert.False(t, ok)
}

func TestPoolAddValidatesText(t *testing.T) {
	p := NewPool(nil, nil, false)

	assert.True(t, p.Add("  walk the dog  "))
	assert.False(t, p.Add("   "))
	assert.False(t, p.Add(""))
	assert.False(t, p.Add(strings.Repeat("a", MaxItemLength+1)))
	assert.True(t, p.Add(strings.Repeat("é", MaxItemLength)))

	items := p.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "walk the dog", items[0])
}

func TestPoolRemoveLeavesUsedListAlone(t *testing.T) {
	p := NewPool([]string{"A", "B", "C"}, []string{"B"}, true)

	removed, ok := p.Remove(1)
	require.True(t, ok)
	assert.Equal(t, "B", removed)
	assert.Equal(t, []string{"A", "C"}, p.Items())
	assert.Equal(t, []string{"B"}, p.Used())

	_, ok = p.Remove(5)
	assert.False(t, ok)
	_, ok = p.Remove(-1)
	assert.False(t, ok)
}

func TestPoolRestoreRemovesUsedEntryAtIndex(t *testing.T) {
	p := NewPool([]string{"A", "B", "C"}, []string{"A", "C"}, true)

	restored, ok := p.Restore(0)
	require.True(t, ok)
	assert.Equal(t, "A", restored)
	assert.Equal(t, []string{"C"}, p.Used())
	assert.Equal(t, []string{"A", "B"}, p.Available())

	_, ok = p.Restore(3)
	assert.False(t, ok)
}

func TestPoolReplaceKeepsUsedList(t *testing.T) {
	p := NewPool([]string{"A"}, []string{"A"}, true)
	p.Replace([]string{"x", "y"})
	assert.Equal(t, []string{"x", "y"}, p.Items())
	assert.Equal(t, []string{"A"}, p.Used())

	p.Replace(nil)
	assert.NotNil(t, p.Items())
	assert.Equal(t, 0, p.Len())
}
