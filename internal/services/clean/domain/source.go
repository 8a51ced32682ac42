package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// SourceDescriptor is one catalog entry. Fields other than id and cleaned are
// carried through untouched so rewriting the catalog never loses them
type SourceDescriptor struct {
	ID      string
	Cleaned bool

	fields map[string]json.RawMessage
}

// UnmarshalJSON accepts string or numeric ids. An entry without a usable id
// decodes with ID "" and is preserved but never matched
func (d *SourceDescriptor) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*d = SourceDescriptor{fields: m}
	if raw, ok := m["id"]; ok {
		d.ID = idString(raw)
	}
	if raw, ok := m["cleaned"]; ok {
		var c bool
		if json.Unmarshal(raw, &c) == nil {
			d.Cleaned = c
		}
	}
	return nil
}

// MarshalJSON writes the original fields back with the current cleaned flag
func (d SourceDescriptor) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.fields)+2)
	for k, v := range d.fields {
		out[k] = v
	}
	if _, ok := out["id"]; !ok && d.ID != "" {
		out["id"] = json.RawMessage(strconv.Quote(d.ID))
	}
	out["cleaned"] = json.RawMessage(strconv.FormatBool(d.Cleaned))
	return json.Marshal(out)
}

func idString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if dec.Decode(&n) == nil {
		return n.String()
	}
	return ""
}
