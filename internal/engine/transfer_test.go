package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportKeepsDuplicates(t *testing.T) {
	items, err := Import(`["x","y","y"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "y"}, items)
}

func TestImportRejectsNonArray(t *testing.T) {
	for _, text := range []string{`{"a":1}`, `"x"`, `42`, `null`} {
		_, err := Import(text)
		assert.ErrorIs(t, err, ErrInvalidFormat, "input %s", text)
	}
}

func TestImportRejectsInvalidJSON(t *testing.T) {
	for _, text := range []string{`not json`, `["x",`, ``} {
		_, err := Import(text)
		assert.ErrorIs(t, err, ErrInvalidJSON, "input %q", text)
	}
}

func TestImportFiltersElements(t *testing.T) {
	long := strings.Repeat("z", MaxItemLength+1)
	items, err := Import(`["ok", 3, null, true, {"a":"b"}, ["n"], "` + long + `", ""]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok", ""}, items)
}

func TestExportIsIndentedJSONArray(t *testing.T) {
	out, err := Export([]string{"a <b>", "c"})
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"a <b>\",\n  \"c\"\n]\n", string(out))

	out, err = Export(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(out))
}

func TestImportExportRoundTrip(t *testing.T) {
	source := `["Write tests", "Ship it", 12, "Write tests", "日本語"]`
	items, err := Import(source)
	require.NoError(t, err)

	out, err := Export(items)
	require.NoError(t, err)

	again, err := Import(string(out))
	require.NoError(t, err)
	assert.Equal(t, items, again)
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "futuredecide-tasks.json", ExportFileName(PickerTask))
	assert.Equal(t, "futuredecide-punishments.json", ExportFileName(PickerPunishment))
}
