// Package format renders CLI command output as JSON or EDN.
package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Write renders v to w in the named output format; an empty name means JSON.
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	}
	return fmt.Errorf("unknown format: %s", format)
}

// WriteJSON emits v as one JSON document followed by a newline. The document
// is the whole contract: hints and pagination belong inside it, never as
// trailing prose.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	marshal := json.Marshal
	if pretty {
		marshal = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	b, err := marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
