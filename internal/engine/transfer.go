package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// ExportFileName is the download name used for a picker's list.
func ExportFileName(p Picker) string {
	switch p {
	case PickerPunishment:
		return "futuredecide-punishments.json"
	default:
		return "futuredecide-tasks.json"
	}
}

// Export encodes items as an indented JSON array of strings.
func Export(items []string) ([]byte, error) {
	if items == nil {
		items = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(items); err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	return buf.Bytes(), nil
}

// Import parses pasted JSON. The value must be an array; non-string elements
// and strings longer than MaxItemLength are dropped, duplicates are kept.
func Import(text string) ([]string, error) {
	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	values, ok := decoded.([]any)
	if !ok {
		return nil, ErrInvalidFormat
	}
	items := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok || utf8.RuneCountInString(s) > MaxItemLength {
			continue
		}
		items = append(items, s)
	}
	return items, nil
}
