package domain

import (
	"bytes"
	"encoding/json"
	"errors"
)

// ErrNotObject is returned by DecodeSubmission for JSON that is not an object.
var ErrNotObject = errors.New("submission is not a JSON object")

// DecodeSubmission reads one JSON object into a Submission without rejecting
// unexpected value types. Strings are taken as-is, null reads as empty, and
// any other value keeps its compact JSON text, so {"timestamp":1704067200000}
// yields Timestamp "1704067200000". Unknown keys and "id" are ignored.
func DecodeSubmission(raw []byte) (Submission, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Submission{}, err
	}
	if fields == nil {
		return Submission{}, ErrNotObject
	}
	return Submission{
		Name:      fieldText(fields["name"]),
		Email:     fieldText(fields["email"]),
		Message:   fieldText(fields["message"]),
		Timestamp: fieldText(fields["timestamp"]),
	}, nil
}

func fieldText(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return ""
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			return s
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}
