package bot

import (
	"errors"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/kvartirka/listingbot/core/logger"
	"github.com/kvartirka/listingbot/core/telegram/callbacks"
	"github.com/kvartirka/listingbot/core/telegram/helpers"
	"github.com/kvartirka/listingbot/core/telegram/keyboard"
	"github.com/kvartirka/listingbot/wizard"
)

// InProgress implements router.Conversation.
func (a *App) InProgress(userID int64) bool {
	return a.ready() && a.engine.InProgress(userID)
}

// HandleMessage feeds a text, photo or video update into the engine.
func (a *App) HandleMessage(c tele.Context) error {
	ev, ok := messageEvent(c)
	if !ok {
		return nil
	}
	return a.dispatch(c, ev)
}

// HandleCallback feeds an inline keyboard press into the engine.
func (a *App) HandleCallback(c tele.Context) error {
	return a.dispatch(c, wizard.CallbackEvent{
		Key:     callbacks.CallbackKey(c),
		Payload: callbacks.CallbackPayload(c),
	})
}

// dispatch runs the engine and delivers its actions. The engine error is
// reported after delivery so the user always sees the engine's response.
func (a *App) dispatch(c tele.Context, ev wizard.Event) error {
	if !a.ready() {
		return nil
	}
	ctx := helpers.BuildContext(c)
	actions, err := a.engine.Handle(ctx, c.Sender().ID, ev)
	if perr := a.perform(c, actions); perr != nil {
		return perr
	}
	if flowControl(err) {
		// The user already got the rejection or the stray-command hint,
		// a malformed turn is not a handler failure. Keep the machine
		// code in the summary log and report success to the router.
		var coded interface{ Code() string }
		if errors.As(err, &coded) {
			logger.Info(ctx, "bot", "conversation.rejected",
				slog.Int64("user_id", c.Sender().ID),
				slog.String("code", coded.Code()),
			)
		}
		return nil
	}
	return err
}

// flowControl reports whether err is an expected user-input rejection the
// engine has already answered with a re-prompt. Publish failures and
// unhandled faults stay visible to the router.
func flowControl(err error) bool {
	var ve *wizard.ValidationError
	switch {
	case err == nil:
		return false
	case errors.As(err, &ve):
		return true
	case errors.Is(err, wizard.ErrNoSession),
		errors.Is(err, wizard.ErrVideoAlreadySet),
		errors.Is(err, wizard.ErrPhotoLimit),
		errors.Is(err, wizard.ErrMediaIncomplete):
		return true
	}
	return false
}

// messageEvent converts a message update into an engine event. Slash
// commands typed mid-conversation arrive here as plain text because the
// conversation is routed ahead of the command registry.
func messageEvent(c tele.Context) (wizard.Event, bool) {
	msg := c.Message()
	if msg == nil {
		return nil, false
	}
	switch {
	case msg.Video != nil:
		return wizard.VideoEvent{FileID: msg.Video.FileID}, true
	case msg.Photo != nil:
		return wizard.PhotoEvent{FileID: msg.Photo.FileID}, true
	}

	text := strings.TrimSpace(c.Text())
	if name, ok := commandName(text); ok {
		return wizard.CommandEvent{Name: name}, true
	}
	if text == "" {
		return nil, false
	}
	return wizard.TextEvent{Text: text}, true
}

// commandName extracts "skip" from "/skip" or "/skip@listing_bot".
func commandName(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name := strings.TrimPrefix(text, "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", false
	}
	return name, true
}

func inlineMarkup(rows [][]wizard.Button) *tele.ReplyMarkup {
	kbRows := make([][]keyboard.InlineBtn, 0, len(rows))
	for _, row := range rows {
		btns := make([]keyboard.InlineBtn, 0, len(row))
		for _, b := range row {
			btns = append(btns, keyboard.InlineBtn{
				Text:   b.Text,
				Unique: b.Key,
				Data:   b.Data,
			})
		}
		kbRows = append(kbRows, btns)
	}
	return keyboard.InlineButtonsRows(kbRows...)
}

func removeMarkup() *tele.ReplyMarkup {
	return keyboard.RemoveKeyboard()
}
