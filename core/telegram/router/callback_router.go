package router

import (
	"time"

	tg "github.com/kvartirka/listingbot/core/telegram"
	"github.com/kvartirka/listingbot/core/telegram/callbacks"
	"github.com/kvartirka/listingbot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute returns a handler that routes callbacks first to the active
// conversation and then through the registry.
func CallbackRoute(conv Conversation, reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		key := callbacks.CallbackKey(c)
		extras := []slog.Attr{slog.String("cb_key", key)}

		_ = c.Respond()

		if conv != nil && conv.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "wizard_callback", start, "", "", func() error {
				return conv.HandleCallback(c)
			}, extras...)
		}

		if reg != nil {
			if cbHandler, ok := reg.GetCallback(key); ok && cbHandler != nil {
				name := "callback." + normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cbHandler(c)
				}, extras...)
			}
		}

		fallback := opts.NotFound
		if reg != nil && reg.CallbackNotFound() != nil {
			fallback = reg.CallbackNotFound()
		}
		extras = append(extras, slog.String("reason", "not_found"))
		return handleWithSummary(c, "callback.not_found", start, "skip", "ok", func() error {
			if fallback != nil {
				return fallback(c)
			}
			return nil
		}, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
