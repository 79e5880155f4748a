package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchemaValidation(t *testing.T) {
	t.Run("rejects dangling successor", func(t *testing.T) {
		_, err := NewSchema([]FieldSpec{
			{ID: "a", Kind: KindText, Next: "missing"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing")
	})

	t.Run("rejects cycle", func(t *testing.T) {
		_, err := NewSchema([]FieldSpec{
			{ID: "a", Kind: KindText, Next: "b"},
			{ID: "b", Kind: KindText, Next: "a"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cycle")
	})

	t.Run("rejects unreachable field", func(t *testing.T) {
		_, err := NewSchema([]FieldSpec{
			{ID: "a", Kind: KindText, Next: ""},
			{ID: "orphan", Kind: KindText, Next: ""},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unreachable")
	})

	t.Run("rejects branch on unknown option", func(t *testing.T) {
		_, err := NewSchema([]FieldSpec{
			{ID: "a", Kind: KindChoice, Choices: []string{"x"}, Branches: map[string]string{"y": ""}},
		})
		require.Error(t, err)
	})

	t.Run("accepts branching flow", func(t *testing.T) {
		s, err := NewSchema([]FieldSpec{
			{ID: "kind", Kind: KindChoice, Choices: []string{"x", "y"},
				Next: "end", Branches: map[string]string{"y": "extra"}},
			{ID: "extra", Kind: KindText, Next: "end"},
			{ID: "end", Kind: KindText, Next: ""},
		})
		require.NoError(t, err)
		assert.Equal(t, "kind", s.First())
		assert.Equal(t, 3, s.Len())
	})
}

func TestSchemaNext(t *testing.T) {
	s := MustSchema([]FieldSpec{
		{ID: "kind", Kind: KindChoice, Choices: []string{"x", "y"},
			Next: "end", Branches: map[string]string{"y": "extra"}},
		{ID: "extra", Kind: KindText, Next: "end"},
		{ID: "end", Kind: KindText, Next: ""},
	})

	next, more := s.Next("kind", "x")
	require.True(t, more)
	assert.Equal(t, "end", next)

	next, more = s.Next("kind", "y")
	require.True(t, more)
	assert.Equal(t, "extra", next)

	_, more = s.Next("end", "anything")
	assert.False(t, more)
}

func TestSchemaValidate(t *testing.T) {
	s := MustSchema([]FieldSpec{
		{ID: "kind", Kind: KindChoice, Choices: []string{"x"}, Next: "addr"},
		{ID: "addr", Kind: KindText, Next: ""},
	})

	t.Run("trims text", func(t *testing.T) {
		v, err := s.Validate("addr", "  ул. Ленина, 1  ")
		require.NoError(t, err)
		assert.Equal(t, "ул. Ленина, 1", v)
	})

	t.Run("rejects empty text", func(t *testing.T) {
		_, err := s.Validate("addr", "   ")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "addr", ve.FieldID)
		assert.Equal(t, "validation", ve.Code())
	})

	t.Run("rejects unknown choice", func(t *testing.T) {
		_, err := s.Validate("kind", "z")
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
	})
}
