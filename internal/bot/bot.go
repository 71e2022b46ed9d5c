// Package bot wires the dialog engine and the management service into the
// Telegram transport: command registration, callback dispatch, and reply
// rendering.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	coreconfig "github.com/rodanhr/hrbot/core/config"
	"github.com/rodanhr/hrbot/core/logger"
	tg "github.com/rodanhr/hrbot/core/telegram"
	"github.com/rodanhr/hrbot/core/telegram/callbacks"
	"github.com/rodanhr/hrbot/core/telegram/commands"
	tghelpers "github.com/rodanhr/hrbot/core/telegram/helpers"
	"github.com/rodanhr/hrbot/core/telegram/middleware"
	"github.com/rodanhr/hrbot/core/telegram/router"
	"github.com/rodanhr/hrbot/core/telegram/ui"
	"github.com/rodanhr/hrbot/internal/callback"
	"github.com/rodanhr/hrbot/internal/catalog"
	"github.com/rodanhr/hrbot/internal/dialog"
	"github.com/rodanhr/hrbot/internal/hrops"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// kindMalformed is the internal dispatch key for tokens that failed decoding.
// It never appears on the wire.
const kindMalformed = "malformed"

const errKey = "cb_decode_err"

// Bot assembles the HR bot on top of the core Telegram runtime.
type Bot struct {
	cfg    *coreconfig.Config
	engine *dialog.Engine
	ops    *hrops.Service
	cat    *catalog.Catalog
	reg    *tg.Registry
}

// New builds the bot and registers all commands and callback handlers.
func New(cfg *coreconfig.Config, engine *dialog.Engine, ops *hrops.Service, cat *catalog.Catalog) *Bot {
	b := &Bot{
		cfg:    cfg,
		engine: engine,
		ops:    ops,
		cat:    cat,
		reg:    tg.NewRegistry(),
	}
	b.registerCommands()
	b.registerCallbacks()
	b.reg.SetTextFallback(b.unknownText)
	return b
}

// Registry exposes the command/callback registry for the runtime.
func (b *Bot) Registry() *tg.Registry { return b.reg }

// Routes returns every route of the bot: commands, the callback dispatcher,
// and the free-text route.
func (b *Bot) Routes() []tg.Route {
	routes := router.CommandRoutes(b.reg, router.CommandRouteOptions{
		AdminID: b.cfg.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(b.reg, router.CallbackOptions{
		Key: b.callbackKey,
	}))
	routes = append(routes, router.TextRoutes(conversation{b}, b.reg, router.TextOptions{})...)
	return routes
}

// callbackKey decodes the raw token once and derives the dispatch key from
// the action discriminant. The decoded action is stashed on the context for
// the handler.
func (b *Bot) callbackKey(c tele.Context) string {
	raw := callbacks.Data(c)
	act, err := callback.Decode(raw)
	if err != nil {
		c.Set(errKey, err)
		return kindMalformed
	}
	callbacks.StashAction(c, act)
	return act.Kind()
}

func (b *Bot) registerCommands() {
	b.reg.RegisterCommand("/start", commands.Command{
		Handler:     b.handleStart,
		Description: "Greeting and the command overview",
	})
	b.reg.RegisterCommand("/dialog", commands.Command{
		Handler:     b.handleDialog,
		Description: "Start a screening conversation",
	})
	b.reg.RegisterCommand("/vacancies", commands.Command{
		Handler: b.opsCommand("vacancies", func(ctx context.Context) (ui.Reply, error) {
			return b.ops.Vacancies(ctx)
		}),
		Description: "Show open vacancies",
	})
	b.reg.RegisterCommand("/status", commands.Command{
		Handler: b.opsCommand("status", func(ctx context.Context) (ui.Reply, error) {
			return b.ops.CandidateList(ctx, callback.ManageStatus)
		}),
		Description: "Set a candidate status",
	})
	b.reg.RegisterCommand("/rejection", commands.Command{
		Handler: b.opsCommand("rejection", func(ctx context.Context) (ui.Reply, error) {
			return b.ops.CandidateList(ctx, callback.ManageReason)
		}),
		Description: "Set a rejection reason",
	})
	b.reg.RegisterCommand("/analytics", commands.Command{
		Handler: b.opsCommand("analytics", func(ctx context.Context) (ui.Reply, error) {
			return b.ops.Analytics(ctx)
		}),
		Description: "Candidate analytics and CSV export",
	})
}

func (b *Bot) registerCallbacks() {
	dialogStages := []string{
		string(dialog.StageIntro),
		string(dialog.StageResearch),
		string(dialog.StagePresentation),
		string(dialog.StageInvitation),
		string(dialog.StageConfirmation),
	}

	mustRegister := func(kind string, h tele.HandlerFunc) {
		if err := b.reg.RegisterCallback(kind, h); err != nil {
			logger.TWire.Warn("callback.register.failed",
				slog.String("key", kind),
				slog.String("err", err.Error()),
			)
		}
	}

	// Management callbacks.
	mustRegister(callback.KindMainMenu, b.opsCallback(func(ctx context.Context, c tele.Context, act callback.Action) (ui.Reply, error) {
		return b.menuReply(), nil
	}))
	mustRegister(callback.KindClearRequest, b.opsCallback(func(ctx context.Context, c tele.Context, act callback.Action) (ui.Reply, error) {
		return b.ops.ClearRequest(), nil
	}))
	mustRegister(callback.KindClearConfirm, b.opsCallback(func(ctx context.Context, c tele.Context, act callback.Action) (ui.Reply, error) {
		return b.ops.ClearConfirmed(ctx)
	}))
	mustRegister(callback.KindBackToCandidates, b.opsCallback(func(ctx context.Context, c tele.Context, act callback.Action) (ui.Reply, error) {
		a, ok := act.(callback.BackToCandidates)
		if !ok {
			return ui.Reply{}, fmt.Errorf("bot: unexpected action %T", act)
		}
		return b.ops.BackToCandidates(ctx, a.Action)
	}))
	mustRegister(callback.KindSelectCandidate, b.opsCallback(func(ctx context.Context, c tele.Context, act callback.Action) (ui.Reply, error) {
		a, ok := act.(callback.SelectCandidate)
		if !ok {
			return ui.Reply{}, fmt.Errorf("bot: unexpected action %T", act)
		}
		return b.ops.Select(ctx, c.Chat().ID, a.Index, a.Action)
	}))
	mustRegister(callback.KindSetStatus, b.opsCallback(func(ctx context.Context, c tele.Context, act callback.Action) (ui.Reply, error) {
		a, ok := act.(callback.SetStatus)
		if !ok {
			return ui.Reply{}, fmt.Errorf("bot: unexpected action %T", act)
		}
		return b.ops.ApplyStatus(ctx, c.Chat().ID, a.Index, a.StatusIndex)
	}))
	mustRegister(callback.KindPickOrigin, b.opsCallback(func(ctx context.Context, c tele.Context, act callback.Action) (ui.Reply, error) {
		a, ok := act.(callback.PickOrigin)
		if !ok {
			return ui.Reply{}, fmt.Errorf("bot: unexpected action %T", act)
		}
		return b.ops.PickReasonOrigin(ctx, a.Index, a.Origin)
	}))
	mustRegister(callback.KindSetReason, b.opsCallback(func(ctx context.Context, c tele.Context, act callback.Action) (ui.Reply, error) {
		a, ok := act.(callback.SetReason)
		if !ok {
			return ui.Reply{}, fmt.Errorf("bot: unexpected action %T", act)
		}
		return b.ops.ApplyReason(ctx, c.Chat().ID, a.Index, a.Origin, a.ReasonIndex)
	}))

	// Dialog callbacks, gated to the stages that accept them. Stale or
	// already-consumed buttons get the generic error reply.
	gate := func(h tele.HandlerFunc, stages ...string) tele.HandlerFunc {
		return middleware.Stage(b.engine, b.staleCallback, stages...)(h)
	}
	mustRegister(callback.KindIntro, gate(b.dialogCallback(func(ctx context.Context, c tele.Context, act callback.Action) (ui.Reply, error) {
		a, ok := act.(callback.IntroAnswer)
		if !ok {
			return ui.Reply{}, fmt.Errorf("bot: unexpected action %T", act)
		}
		return b.engine.HandleIntro(ctx, c.Chat().ID, a.Choice)
	}), string(dialog.StageIntro)))
	mustRegister(callback.KindPresentation, gate(b.dialogCallback(func(ctx context.Context, c tele.Context, act callback.Action) (ui.Reply, error) {
		a, ok := act.(callback.PresentationAnswer)
		if !ok {
			return ui.Reply{}, fmt.Errorf("bot: unexpected action %T", act)
		}
		return b.engine.HandlePresentation(ctx, c.Chat().ID, a.Yes)
	}), string(dialog.StageInvitation)))
	mustRegister(callback.KindInvitation, gate(b.dialogCallback(func(ctx context.Context, c tele.Context, act callback.Action) (ui.Reply, error) {
		a, ok := act.(callback.InvitationAnswer)
		if !ok {
			return ui.Reply{}, fmt.Errorf("bot: unexpected action %T", act)
		}
		return b.engine.HandleInvitation(ctx, c.Chat().ID, a.Yes)
	}), string(dialog.StageInvitation)))
	mustRegister(callback.KindConfirmation, gate(b.dialogCallback(func(ctx context.Context, c tele.Context, act callback.Action) (ui.Reply, error) {
		a, ok := act.(callback.ConfirmationAnswer)
		if !ok {
			return ui.Reply{}, fmt.Errorf("bot: unexpected action %T", act)
		}
		return b.engine.HandleConfirmation(ctx, c.Chat().ID, a.Yes)
	}), string(dialog.StageConfirmation)))
	mustRegister(callback.KindDialogBack, gate(b.dialogCallback(func(ctx context.Context, c tele.Context, act callback.Action) (ui.Reply, error) {
		a, ok := act.(callback.DialogBack)
		if !ok {
			return ui.Reply{}, fmt.Errorf("bot: unexpected action %T", act)
		}
		return b.engine.HandleBack(ctx, c.Chat().ID, a.Target)
	}), dialogStages...))

	// Decoding failures: the keyword was recognised but the shape was not.
	mustRegister(kindMalformed, b.handleMalformed)
}

// handleStart answers /start with the company logo and the command overview.
func (b *Bot) handleStart(c tele.Context) error {
	return b.send(c, b.startReply())
}

// handleDialog opens a fresh screening conversation.
func (b *Bot) handleDialog(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	return b.send(c, b.engine.Begin(ctx, c.Chat().ID))
}

// opsCommand adapts a management operation into a command handler. Switching
// to a management command abandons any conversation in progress for the chat.
func (b *Bot) opsCommand(name string, fn func(ctx context.Context) (ui.Reply, error)) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.WithHandler(c, name)
		b.engine.Abandon(ctx, c.Chat().ID)
		reply, err := fn(ctx)
		if err != nil {
			return b.failOps(c, err)
		}
		return b.send(c, reply)
	}
}

// opsCallback adapts a management operation into a callback handler that
// edits the originating message.
func (b *Bot) opsCallback(fn func(ctx context.Context, c tele.Context, act callback.Action) (ui.Reply, error)) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		act, _ := callbacks.StashedAction(c).(callback.Action)
		reply, err := fn(ctx, c, act)
		if err != nil {
			return b.failOps(c, err)
		}
		return b.edit(c, reply)
	}
}

// dialogCallback adapts a dialog stage handler. An unexpected failure aborts
// the conversation without persisting a record.
func (b *Bot) dialogCallback(fn func(ctx context.Context, c tele.Context, act callback.Action) (ui.Reply, error)) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		act, _ := callbacks.StashedAction(c).(callback.Action)
		reply, err := fn(ctx, c, act)
		if err != nil {
			return b.failDialog(ctx, c, err)
		}
		return b.edit(c, reply)
	}
}

// handleMalformed reports tokens with a known keyword but a broken shape.
func (b *Bot) handleMalformed(c tele.Context) error {
	err, _ := c.Get(errKey).(error)
	if err == nil {
		err = callback.ErrMalformedToken
	}
	_ = b.edit(c, b.genericError())
	return err
}

// staleCallback answers dialog buttons pressed outside their stage.
func (b *Bot) staleCallback(c tele.Context) error {
	return b.edit(c, b.genericError())
}

// unknownText is the registry fallback for unroutable text messages.
func (b *Bot) unknownText(c tele.Context) error {
	reply := ui.Reply{Text: b.cat.Scripts.UnknownCommand}.
		WithRow(ui.Btn("🏠 Back to main menu", callback.MainMenu{}.Token()))
	return b.send(c, reply)
}

// failOps reports a management failure to the user. Recoverable not-found
// errors get their own message; everything else the generic one.
func (b *Bot) failOps(c tele.Context, err error) error {
	var nf *hrops.NotFoundError
	if errors.As(err, &nf) {
		_ = b.edit(c, ui.Reply{Text: nf.Message()}.
			WithRow(ui.Btn("🏠 Back to main menu", callback.MainMenu{}.Token())))
		return err
	}
	_ = b.edit(c, b.genericError())
	return err
}

// failDialog aborts the conversation and shows the generic error. The
// half-finished session is discarded so no partial record is ever persisted.
func (b *Bot) failDialog(ctx context.Context, c tele.Context, err error) error {
	b.engine.Abort(ctx, c.Chat().ID)
	_ = b.edit(c, b.genericError())
	return err
}

func (b *Bot) genericError() ui.Reply {
	return ui.Reply{Text: b.cat.Scripts.GenericError}.
		WithRow(ui.Btn("🏠 Back to main menu", callback.MainMenu{}.Token()))
}

// startReply is the /start greeting: company logo plus the command overview.
func (b *Bot) startReply() ui.Reply {
	reply := b.menuReply()
	reply.PhotoPath = b.cfg.Company.LogoPath
	return reply
}

func (b *Bot) menuReply() ui.Reply {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👋 Hello! I am the %s recruiting assistant.\n\n", b.companyName())
	sb.WriteString("Available commands:\n")
	for _, cmd := range b.reg.ListCommands(true) {
		fmt.Fprintf(&sb, "%s - %s\n", cmd.Text, cmd.Description)
	}
	return ui.Reply{Text: sb.String()}
}

func (b *Bot) companyName() string {
	if b.cfg.Company.Name != "" {
		return b.cfg.Company.Name
	}
	return "company"
}

// conversation adapts the dialog engine to the free-text router.
type conversation struct {
	b *Bot
}

func (cv conversation) Active(chatID int64) bool {
	return cv.b.engine.Active(chatID)
}

func (cv conversation) HandleText(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	reply, err := cv.b.engine.HandleText(ctx, c.Chat().ID, c.Text())
	if err != nil {
		return cv.b.failDialog(ctx, c, err)
	}
	if reply.Text == "" {
		// The active stage accepts button input only.
		return nil
	}
	return cv.b.send(c, reply)
}
