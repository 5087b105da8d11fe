package helpers

import (
	"encoding/json"
	"io"
)

// PrintJSON writes v as indented JSON. CLIs use it for their reports.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
