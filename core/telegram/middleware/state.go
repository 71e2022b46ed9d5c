package middleware

import (
	"github.com/rodanhr/hrbot/core/logger"
	tghelpers "github.com/rodanhr/hrbot/core/telegram/helpers"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// StageGetter is the minimal interface required from a conversation engine.
type StageGetter interface {
	StageOf(chatID int64) string
}

// Stage returns a middleware that runs the handler only while the chat's
// conversation is in one of the expected stages. Updates arriving for a
// different stage (stale buttons, re-sent callbacks) go to onSkip, or are
// ignored when onSkip is nil.
func Stage(mgr StageGetter, onSkip tele.HandlerFunc, expected ...string) tele.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(expected))
	for _, s := range expected {
		allowed[s] = struct{}{}
	}
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chatID := c.Chat().ID
			current := mgr.StageOf(chatID)
			ctx := tghelpers.BuildContext(c)
			if _, ok := allowed[current]; ok {
				logger.TG.LogAttrs(ctx, slog.LevelDebug, "stage.match",
					slog.Int64("chat_id", chatID),
					slog.String("stage", current),
					slog.String("rid", logger.RIDFrom(ctx)),
				)
				return next(c)
			}
			logger.TG.LogAttrs(ctx, slog.LevelDebug, "stage.skip",
				slog.Int64("chat_id", chatID),
				slog.String("stage", current),
				slog.String("rid", logger.RIDFrom(ctx)),
			)
			if onSkip != nil {
				return onSkip(c)
			}
			// Ignore the update if the conversation moved on
			return nil
		}
	}
}
