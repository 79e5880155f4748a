package wizard

// Action is one outbound message the transport must deliver in order.
type Action struct {
	// Text is the message body. HTML marks it as pre-escaped HTML markup.
	Text string
	HTML bool
	// Buttons describes an inline keyboard, row by row.
	Buttons [][]Button
	// RemoveKeyboard clears any reply keyboard shown earlier.
	RemoveKeyboard bool
}

// Button is one inline keyboard button. Key and Data are echoed back in the
// matching CallbackEvent.
type Button struct {
	Text string
	Key  string
	Data string
}

func textAction(text string) Action {
	return Action{Text: text}
}

func htmlAction(text string) Action {
	return Action{Text: text, HTML: true}
}

// promptAction builds the outbound prompt for a field, attaching the option
// keyboard for choice fields.
func promptAction(fs FieldSpec) Action {
	a := Action{Text: fs.Prompt}
	if fs.Kind == KindChoice {
		row := make([]Button, 0, len(fs.Choices))
		for _, c := range fs.Choices {
			row = append(row, Button{Text: c, Key: CallbackChoice, Data: c})
		}
		a.Buttons = [][]Button{row}
	}
	return a
}

func confirmKeyboard() [][]Button {
	return [][]Button{
		{
			{Text: "✅ Опубликовать", Key: CallbackConfirm, Data: ConfirmPublish},
		},
		{
			{Text: "🔄 Заполнить заново", Key: CallbackConfirm, Data: ConfirmRestart},
			{Text: "❌ Отменить", Key: CallbackConfirm, Data: ConfirmCancel},
		},
	}
}
