package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for i := 0; i < count; i++ {
		id, err := Generate("space")
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	id, err := Generate("space")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "space-"))
	assert.Greater(t, len(id), len("space-"))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID(NewUUID()))
	assert.True(t, IsUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	assert.False(t, IsUUID("tab-1699999999999"))
	assert.False(t, IsUUID(""))
	assert.False(t, IsUUID("not-a-uuid"))
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Personal", "personal"},
		{"spaces", "My Work Space", "my-work-space"},
		{"punctuation", "Q4 / Planning!", "q4-planning"},
		{"collapses separators", "a  -  b", "a-b"},
		{"trailing separator", "Work ", "work"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}
