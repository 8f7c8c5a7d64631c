package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futuredecide/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "decide.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "k", "v1"))
	require.NoError(t, store.Put(ctx, "k", "v2"))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)

	updated, err := store.UpdatedAt(ctx, "k")
	require.NoError(t, err)
	assert.False(t, updated.IsZero())

	require.NoError(t, store.Delete(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "decide.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, StateKey, `{"theme":"cyan"}`))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	doc, err := store.LoadDocument(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cyan", doc.Theme)
}

func TestLastSavedAndForgetDocument(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.LastSaved(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SaveDocument(ctx, DocumentFromState(engine.NewState())))
	saved, err := store.LastSaved(ctx)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), saved, time.Minute)

	require.NoError(t, store.ForgetDocument(ctx))
	_, err = store.LoadDocument(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.ForgetDocument(ctx))
}

func TestDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	state := engine.NewState()
	state.SeedEmpty()
	_, err := state.Apply(engine.SetRange{Range: engine.Range{Min: 0, Max: 9}}, nil)
	require.NoError(t, err)
	state.Wheel.SetNoReplacement(true)
	_, err = state.Apply(engine.FinishSpin{Angle: 0}, engine.NewRand(1))
	require.NoError(t, err)
	state.Tasks.SetNoReplacement(true)
	_, err = state.Apply(engine.SelectItem{Picker: engine.PickerTask}, engine.NewRand(1))
	require.NoError(t, err)
	state.Theme = engine.ThemePurple

	require.NoError(t, store.SaveDocument(ctx, DocumentFromState(state)))
	doc, err := store.LoadDocument(ctx)
	require.NoError(t, err)
	restored := doc.State()

	assert.Equal(t, engine.Range{Min: 0, Max: 9}, restored.Wheel.Range())
	assert.Equal(t, []int{0}, restored.Wheel.Used())
	assert.True(t, restored.Wheel.NoReplacement())
	assert.Equal(t, state.Tasks.Items(), restored.Tasks.Items())
	assert.Equal(t, state.Tasks.Used(), restored.Tasks.Used())
	assert.True(t, restored.Tasks.NoReplacement())
	assert.False(t, restored.Punishments.NoReplacement())
	assert.Equal(t, engine.ThemePurple, restored.Theme)
}

func TestDocumentDefaultsForAbsentFields(t *testing.T) {
	doc, err := DecodeDocument([]byte(`{}`))
	require.NoError(t, err)
	state := doc.State()

	assert.Equal(t, engine.Range{Min: 1, Max: 20}, state.Wheel.Range())
	assert.Empty(t, state.Wheel.Used())
	assert.Equal(t, 0, state.Tasks.Len())
	assert.Equal(t, 0, state.Punishments.Len())
	assert.Equal(t, engine.ThemeBlue, state.Theme)
	assert.False(t, state.Wheel.NoReplacement())
	assert.False(t, state.Tasks.NoReplacement())
	assert.False(t, state.Punishments.NoReplacement())
}

func TestDocumentPartialRange(t *testing.T) {
	doc, err := DecodeDocument([]byte(`{"wheelMax": 6}`))
	require.NoError(t, err)
	assert.Equal(t, engine.Range{Min: 1, Max: 6}, doc.State().Wheel.Range())

	doc, err = DecodeDocument([]byte(`{"wheelMin": 50}`))
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultRange, doc.State().Wheel.Range())
}

func TestDecodeMalformedDocument(t *testing.T) {
	for _, raw := range []string{`{`, `[]`, `{"usedNumbers":"x"}`} {
		_, err := DecodeDocument([]byte(raw))
		assert.ErrorIs(t, err, ErrMalformed, "input %s", raw)
	}
}

func TestEncodeWritesEmptyArrays(t *testing.T) {
	data, err := DocumentFromState(engine.NewState()).Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"wheelMin": 1,
		"wheelMax": 20,
		"usedNumbers": [],
		"tasks": [],
		"usedTasks": [],
		"punishments": [],
		"usedPunishments": [],
		"theme": "blue",
		"noReplacementWheel": false,
		"noReplacementTask": false,
		"noReplacementPunishment": false
	}`, string(data))
}
