package fs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quicknotes/pkg/core"
)

func TestSerializers(t *testing.T) {
	notes := []core.Note{
		{ID: "1", Title: "Заметка", Content: "line one\nline two", Tag: "Ideas"},
		{ID: "2", Title: "Quotes \"and\" colons: yes", Content: "", Tag: core.NoTag},
	}

	for format, s := range DefaultSerializers(false) {
		t.Run(format, func(t *testing.T) {
			data, err := s.Serialize(notes)
			require.NoError(t, err)

			var parsed []core.Note
			require.NoError(t, s.Parse(data, &parsed))
			assert.Equal(t, notes, parsed)
		})
	}
}

func TestSerializerExt(t *testing.T) {
	serializers := DefaultSerializers(false)
	assert.Equal(t, ".json", serializers[FormatJSON].Ext())
	assert.Equal(t, ".yaml", serializers[FormatYAML].Ext())
}

func TestSerializerStrict(t *testing.T) {
	tests := []struct {
		name string
		s    Serializer
		data string
	}{
		{"json", NewJSONSerializer(true), `[{"title":"a","color":"red"}]`},
		{"yaml", NewYAMLSerializer(true), "- title: a\n  color: red\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var notes []core.Note
			assert.Error(t, tc.s.Parse([]byte(tc.data), &notes))
		})
	}
}

func TestSerializerLenient(t *testing.T) {
	var notes []core.Note
	err := NewJSONSerializer(false).Parse([]byte(`[{"title":"a","color":"red"}]`), &notes)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "a", notes[0].Title)
}

func TestSerializerRejectsGarbage(t *testing.T) {
	var notes []core.Note
	assert.Error(t, NewJSONSerializer(false).Parse([]byte("{not json"), &notes))
	assert.Error(t, NewYAMLSerializer(false).Parse([]byte("- [unclosed"), &notes))
}
