package server

import (
	"encoding/json"
	"testing"

	"biomni-chat/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHistory_Shapes(t *testing.T) {
	raw := json.RawMessage(`[
		["hi", "hello!"],
		["only user", null],
		{"role": "user", "content": "record"},
		{"content": "no role"},
		{"role": "assistant", "content": null},
		42,
		"stray",
		["one"],
		{"unrelated": true},
		{"role": "user", "content": {"file": "x.png"}}
	]`)

	entries, err := DecodeHistory(raw)
	require.NoError(t, err)
	require.Len(t, entries, 10)

	assert.Equal(t, entity.Pair("hi", "hello!"), entries[0])

	pair, ok := entries[1].(entity.PairEntry)
	require.True(t, ok)
	assert.Equal(t, "only user", *pair.User)
	assert.Nil(t, pair.Assistant)

	assert.Equal(t, entity.Record("user", "record"), entries[2])

	rec, ok := entries[3].(entity.RecordEntry)
	require.True(t, ok)
	assert.Nil(t, rec.Role)
	assert.Equal(t, "no role", *rec.Content)

	rec, ok = entries[4].(entity.RecordEntry)
	require.True(t, ok)
	assert.Nil(t, rec.Content)

	for i := 5; i < 10; i++ {
		assert.IsType(t, entity.UnknownEntry{}, entries[i], "entry %d", i)
	}
}

func TestDecodeHistory_NullAndEmpty(t *testing.T) {
	for _, raw := range []string{"", "null", "  "} {
		entries, err := DecodeHistory(json.RawMessage(raw))
		require.NoError(t, err)
		assert.Empty(t, entries)
	}
}

func TestDecodeHistory_RejectsNonArray(t *testing.T) {
	_, err := DecodeHistory(json.RawMessage(`{"role":"user"}`))
	assert.Error(t, err)
}
