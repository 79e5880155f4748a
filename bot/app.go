// Package bot glues the wizard engine to the Telegram transport: it builds
// the engine with its gate and publisher, registers the command set and
// adapts inbound updates into engine events and engine actions back into
// outbound sends.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"github.com/kvartirka/listingbot/access"
	"github.com/kvartirka/listingbot/archive"
	coreconfig "github.com/kvartirka/listingbot/core/config"
	"github.com/kvartirka/listingbot/core/database"
	"github.com/kvartirka/listingbot/core/logger"
	tg "github.com/kvartirka/listingbot/core/telegram"
	"github.com/kvartirka/listingbot/core/telegram/router"
	tgsender "github.com/kvartirka/listingbot/core/telegram/sender"
	"github.com/kvartirka/listingbot/listing"
	"github.com/kvartirka/listingbot/publish"
	"github.com/kvartirka/listingbot/wizard"
)

// App assembles and runs the listing bot.
type App struct {
	cfg     *coreconfig.Config
	db      *sqlx.DB
	archive *archive.Store
	gate    *access.Gate
	engine  *wizard.Engine
}

// NewApp prepares an App for Run.
func NewApp(cfg *coreconfig.Config) *App {
	return &App{cfg: cfg}
}

// Run connects the optional archive database, registers commands and routes
// and runs the bot until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Database.Enabled {
		if err := a.openArchive(); err != nil {
			return err
		}
		defer a.closeArchive()
	}

	reg := tg.NewRegistry()
	a.registerCommands(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.MessageRoutes(a, reg, router.MessageOptions{
		UnknownText:  a.handleUnknownText,
		UnknownMedia: a.handleUnknownMedia,
	})...)
	routes = append(routes, router.CallbackRoute(a, reg, router.CallbackOptions{}))

	return tg.Run(ctx, tg.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		DispatcherOptions: tgsender.Options{
			QueueSize: 256,
			Workers:   4,
		},
		Routes: routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			return a.wire(ctx, rt.Bot)
		},
	})
}

// wire builds the engine once the bot client exists. Run calls it before
// the first update is processed.
func (a *App) wire(ctx context.Context, b *tele.Bot) error {
	schema, err := listing.NewSchema(a.cfg.Wizard.MaxPhotos)
	if err != nil {
		return fmt.Errorf("bot: build schema: %w", err)
	}

	a.gate = access.NewGate(b, a.cfg.Channel)

	var recorder publish.Recorder
	if a.archive != nil {
		recorder = a.archive
	}
	coordinator := publish.New(b, a.cfg.Channel, listing.Render, recorder)

	engine, err := wizard.New(wizard.Options{
		Schema:        schema,
		Store:         wizard.NewMemoryStore(),
		Gate:          a.gate,
		Publisher:     coordinator,
		Render:        listing.Render,
		MediaPolicy:   wizard.PolicyFromString(a.cfg.Wizard.MediaPolicy),
		MaxPhotos:     a.cfg.Wizard.MaxPhotos,
		MaxConcurrent: int64(a.cfg.Wizard.MaxConcurrent),
	})
	if err != nil {
		return fmt.Errorf("bot: build engine: %w", err)
	}
	a.engine = engine

	logger.Info(ctx, "bot", "engine.ready",
		slog.Int("fields", schema.Len()),
		slog.String("channel", a.cfg.Channel.Name),
		slog.Bool("archive", a.archive != nil))
	return nil
}

func (a *App) openArchive() error {
	if err := database.RunMigrations(a.cfg.Database); err != nil {
		return fmt.Errorf("bot: migrations: %w", err)
	}
	db, err := database.Connect(a.cfg.Database)
	if err != nil {
		return fmt.Errorf("bot: database: %w", err)
	}
	a.db = db
	a.archive = archive.NewStore(db)
	return nil
}

func (a *App) closeArchive() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		logger.DB.Warn("close failed", slog.String("err", err.Error()))
	}
}

// archivedCount is used by /stats; zero when the archive is disabled.
func (a *App) archivedCount(ctx context.Context) int {
	if a.archive == nil {
		return 0
	}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	n, err := a.archive.Count(cctx)
	if err != nil {
		logger.DB.Warn("stats count failed", slog.String("err", err.Error()))
		return 0
	}
	return n
}

// ready reports whether the engine has been wired.
func (a *App) ready() bool { return a.engine != nil }

var _ router.Conversation = (*App)(nil)

// perform delivers engine actions one by one on the handler goroutine.
// Engine responses are ordered sequences (rejection then re-prompt, preview
// then confirm keyboard), so they bypass the async sender pool, whose
// workers pull from a shared queue and would interleave them.
func (a *App) perform(c tele.Context, actions []wizard.Action) error {
	for _, action := range actions {
		if err := sendAction(c, action); err != nil {
			return err
		}
	}
	return nil
}

func sendAction(c tele.Context, action wizard.Action) error {
	opts := &tele.SendOptions{
		DisableWebPagePreview: true,
		ReplyMarkup:           actionMarkup(action),
	}
	if action.HTML {
		opts.ParseMode = tele.ModeHTML
	}
	return c.Send(action.Text, opts)
}

func actionMarkup(action wizard.Action) *tele.ReplyMarkup {
	if len(action.Buttons) > 0 {
		return inlineMarkup(action.Buttons)
	}
	if action.RemoveKeyboard {
		return removeMarkup()
	}
	return nil
}
