package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"copyselect/internal/ranges"
)

// entry mirrors ranges.LineRange with pointers so that missing bounds can
// be told apart from zero.
type entry struct {
	StartLine *int    `json:"startLine"`
	EndLine   *int    `json:"endLine"`
	Content   *string `json:"content"`
}

var errMissingBounds = errors.New("missing startLine or endLine")

// Encode renders s as indented JSON with every range list sorted by start
// line.
func Encode(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Clone()); err != nil {
		return nil, fmt.Errorf("store: encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a snapshot produced by Encode. Entries that cannot be read
// are skipped and reported through a *MalformedError; any other error means
// the data is not a snapshot at all.
func Decode(data []byte) (Snapshot, error) {
	snap := Snapshot{}
	if len(bytes.TrimSpace(data)) == 0 {
		return snap, nil
	}

	var files map[string]json.RawMessage
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, fmt.Errorf("store: decode snapshot: %w", err)
	}

	var malformed MalformedError
	for _, path := range slices.Sorted(maps.Keys(files)) {
		var raws []json.RawMessage
		if err := json.Unmarshal(files[path], &raws); err != nil {
			malformed.Add(path, -1, err)
			continue
		}
		for i, raw := range raws {
			var e entry
			if err := json.Unmarshal(raw, &e); err != nil {
				malformed.Add(path, i, err)
				continue
			}
			if e.StartLine == nil || e.EndLine == nil {
				malformed.Add(path, i, errMissingBounds)
				continue
			}
			r := ranges.LineRange{StartLine: *e.StartLine, EndLine: *e.EndLine}
			if e.Content != nil {
				r.Content = *e.Content
			}
			snap[path] = append(snap[path], r)
		}
	}

	return snap, malformed.Err()
}
