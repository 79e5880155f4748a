package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvartirka/listingbot/wizard"
)

func TestCommandName(t *testing.T) {
	cases := []struct {
		in   string
		name string
		ok   bool
	}{
		{"/skip", "skip", true},
		{"/done@listing_bot", "done", true},
		{"/NEW", "new", true},
		{"привет", "", false},
		{"/", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		name, ok := commandName(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.name, name, tc.in)
	}
}

func TestInlineMarkup(t *testing.T) {
	markup := inlineMarkup([][]wizard.Button{
		{{Text: "✅ Опубликовать", Key: wizard.CallbackConfirm, Data: wizard.ConfirmPublish}},
		{{Text: "❌ Отменить", Key: wizard.CallbackConfirm, Data: wizard.ConfirmCancel}},
	})
	require.NotNil(t, markup)
	require.Len(t, markup.InlineKeyboard, 2)
	require.Len(t, markup.InlineKeyboard[0], 1)
	assert.Equal(t, "✅ Опубликовать", markup.InlineKeyboard[0][0].Text)
	assert.NotEmpty(t, markup.InlineKeyboard[0][0].Data)
}

func TestActionMarkup(t *testing.T) {
	t.Run("buttons win over remove", func(t *testing.T) {
		m := actionMarkup(wizard.Action{
			Buttons:        [][]wizard.Button{{{Text: "x", Key: "k"}}},
			RemoveKeyboard: true,
		})
		require.NotNil(t, m)
		assert.NotEmpty(t, m.InlineKeyboard)
	})

	t.Run("remove keyboard", func(t *testing.T) {
		m := actionMarkup(wizard.Action{RemoveKeyboard: true})
		require.NotNil(t, m)
		assert.True(t, m.RemoveKeyboard)
	})

	t.Run("plain", func(t *testing.T) {
		assert.Nil(t, actionMarkup(wizard.Action{Text: "x"}))
	})
}

func TestAppNotReady(t *testing.T) {
	a := NewApp(nil)
	assert.False(t, a.InProgress(1))
}
