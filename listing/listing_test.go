package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvartirka/listingbot/wizard"
)

func TestNewSchema(t *testing.T) {
	s, err := NewSchema(9)
	require.NoError(t, err)
	assert.Equal(t, FieldVideo, s.First())

	t.Run("house branch inserts land", func(t *testing.T) {
		next, more := s.Next(FieldKind, KindHouse)
		require.True(t, more)
		assert.Equal(t, FieldLand, next)

		next, more = s.Next(FieldLand, "6")
		require.True(t, more)
		assert.Equal(t, FieldDistrict, next)
	})

	t.Run("apartment skips land", func(t *testing.T) {
		next, more := s.Next(FieldKind, KindApartment)
		require.True(t, more)
		assert.Equal(t, FieldDistrict, next)
	})

	t.Run("price ends the flow", func(t *testing.T) {
		_, more := s.Next(FieldPrice, "1 000 000")
		assert.False(t, more)
	})

	t.Run("house path collects seven fields", func(t *testing.T) {
		count := 0
		state := FieldKind
		value := KindHouse
		for {
			count++
			next, more := s.Next(state, value)
			if !more {
				break
			}
			state, value = next, "x"
		}
		assert.Equal(t, 7, count)
	})
}

func TestRender(t *testing.T) {
	draft := func(kind string, extra ...wizard.FieldValue) wizard.Draft {
		fields := []wizard.FieldValue{
			{ID: FieldKind, Value: kind},
			{ID: FieldDistrict, Value: "Центр"},
			{ID: FieldAddress, Value: "ул. Ленина, 1"},
			{ID: FieldRooms, Value: "3"},
			{ID: FieldFloors, Value: "2"},
			{ID: FieldPrice, Value: "5 000 000"},
		}
		return wizard.Draft{Fields: append(fields, extra...)}
	}

	t.Run("house caption", func(t *testing.T) {
		got := Render(draft(KindHouse, wizard.FieldValue{ID: FieldLand, Value: "6"}))
		assert.Contains(t, got, "<b>Дом</b>")
		assert.Contains(t, got, "🏘 <b>Район:</b> Центр")
		assert.Contains(t, got, "🌳 <b>Участок:</b> 6 м²")
		assert.Contains(t, got, "💰 <b>Цена:</b> 5 000 000")
		assert.Contains(t, got, contactFooter)
	})

	t.Run("apartment caption has no land line", func(t *testing.T) {
		got := Render(draft(KindApartment))
		assert.NotContains(t, got, "Участок")
	})

	t.Run("escapes user markup", func(t *testing.T) {
		d := wizard.Draft{Fields: []wizard.FieldValue{
			{ID: FieldKind, Value: "Дом <script>"},
			{ID: FieldAddress, Value: "дом & сад"},
		}}
		got := Render(d)
		assert.Contains(t, got, "<b>Дом &lt;script&gt;</b>")
		assert.Contains(t, got, "дом &amp; сад")
		assert.NotContains(t, got, "<script>")
	})

	t.Run("stable under repeated render", func(t *testing.T) {
		d := draft(KindApartment)
		assert.Equal(t, Render(d), Render(d))
	})
}
