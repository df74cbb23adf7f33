package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// MarshalExport renders entries as the pretty-printed JSON array used by
// both local exports and server-side archives.
func MarshalExport(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return json.MarshalIndent(entries, "", "  ")
}

// ExportFileName returns diary-export-YYYY-MM-DD.json for t.
func ExportFileName(t time.Time) string {
	return fmt.Sprintf("diary-export-%s.json", t.Format(time.DateOnly))
}
