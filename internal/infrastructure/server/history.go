package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"biomni-chat/internal/domain/entity"
)

// DecodeHistory turns the wire history into entries. The payload must be a
// JSON array or null; each element is classified independently:
//
//	["user text", "assistant text"]          -> PairEntry
//	{"role": "user", "content": "..."}       -> RecordEntry
//	anything else                            -> UnknownEntry
func DecodeHistory(raw json.RawMessage) ([]entity.HistoryEntry, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("history must be an array: %w", err)
	}

	entries := make([]entity.HistoryEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, decodeEntry(item))
	}
	return entries, nil
}

func decodeEntry(item json.RawMessage) entity.HistoryEntry {
	item = bytes.TrimSpace(item)
	if len(item) == 0 {
		return entity.UnknownEntry{}
	}

	switch item[0] {
	case '[':
		var pair []*string
		if err := json.Unmarshal(item, &pair); err == nil && len(pair) == 2 {
			return entity.PairEntry{User: pair[0], Assistant: pair[1]}
		}
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			break
		}
		role, roleOK := optionalString(fields, "role")
		content, contentOK := optionalString(fields, "content")
		if (roleOK || contentOK) && role.valid && content.valid {
			return entity.RecordEntry{Role: role.value, Content: content.value}
		}
	}

	return entity.UnknownEntry{Raw: string(item)}
}

type optional struct {
	value *string
	valid bool
}

// optionalString reports whether key is present, and whether its value is a
// string or null.
func optionalString(fields map[string]json.RawMessage, key string) (optional, bool) {
	raw, ok := fields[key]
	if !ok {
		return optional{valid: true}, false
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return optional{}, true
	}
	return optional{value: s, valid: true}, true
}
