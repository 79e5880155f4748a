package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	tg "github.com/kvartirka/listingbot/core/telegram"
	"github.com/kvartirka/listingbot/core/telegram/commands"
	"github.com/kvartirka/listingbot/core/telegram/helpers"
	"github.com/kvartirka/listingbot/wizard"
)

const greeting = "Привет! Это бот объявлений.\n\n" +
	"/new — добавить объявление\n" +
	"/cancel — отменить ввод\n" +
	"/help — помощь\n" +
	"/ping — проверка связи"

func (a *App) registerCommands(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Приветствие и список команд",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.handleStart,
		Description: "Помощь",
	})
	reg.RegisterCommand("/ping", commands.Command{
		Handler:     handlePing,
		Description: "Проверка связи",
	})
	reg.RegisterCommand("/new", commands.Command{
		Handler:     a.commandHandler(wizard.CmdNew),
		Description: "Добавить объявление",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.commandHandler(wizard.CmdCancel),
		Description: "Отменить ввод",
	})
	reg.RegisterCommand("/skip", commands.Command{
		Handler:     a.commandHandler(wizard.CmdSkip),
		Description: "Пропустить текущий шаг",
		Hidden:      true,
	})
	reg.RegisterCommand("/done", commands.Command{
		Handler:     a.commandHandler(wizard.CmdDone),
		Description: "Закончить загрузку фото",
		Hidden:      true,
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.handleStats,
		Description: "Статистика бота",
		AdminOnly:   true,
	})
}

// commandHandler adapts a slash command into an engine event.
func (a *App) commandHandler(name string) tele.HandlerFunc {
	return func(c tele.Context) error {
		return a.dispatch(c, wizard.CommandEvent{Name: name})
	}
}

// handleStart greets subscribers and points everyone else at the channel,
// same gate as the wizard entry.
func (a *App) handleStart(c tele.Context) error {
	if a.ready() {
		ctx := helpers.BuildContext(c)
		if acc := a.gate.RequireAccess(ctx, c.Sender().ID); !acc.Allowed {
			return helpers.SendText(c,
				"🔒 Для работы с ботом подпишитесь на "+acc.JoinLink)
		}
	}
	return helpers.SendText(c, greeting)
}

func handlePing(c tele.Context) error {
	return helpers.SendText(c, "pong")
}

// handleStats reports live and archived listing counts to the admin.
func (a *App) handleStats(c tele.Context) error {
	active := 0
	if a.ready() {
		active = a.engine.ActiveSessions()
	}
	archived := a.archivedCount(helpers.BuildContext(c))
	return helpers.SendText(c, fmt.Sprintf(
		"📊 Статистика\nАктивных диалогов: %d\nОпубликовано (архив): %d",
		active, archived))
}

func (a *App) handleUnknownText(c tele.Context) error {
	return helpers.SendText(c, "Не понимаю. Отправьте /new, чтобы добавить объявление, или /help.")
}

func (a *App) handleUnknownMedia(c tele.Context) error {
	return helpers.SendText(c, "Сначала начните объявление командой /new.")
}
