package report

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/airframe/internal/component"
)

// ExportJSON writes snap as indented JSON to path.
func ExportJSON(path string, snap component.Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, snap)
}

func WriteJSON(w io.Writer, snap component.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
