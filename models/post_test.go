package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, ValidCategory(c), c)
	}
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("prestasi"), "the set is case sensitive")
	assert.False(t, ValidCategory("Gossip"))
}

func TestPostWithoutCoverMarshalsAsNull(t *testing.T) {
	raw, err := json.Marshal(Post{Title: "t"})
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "null", string(m["coverImage"]), `must be JSON null, not "" or "null" text`)
}
