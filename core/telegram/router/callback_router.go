package router

import (
	"time"

	tg "github.com/rodanhr/hrbot/core/telegram"
	"github.com/rodanhr/hrbot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises key derivation and fallback behaviour for
// callbacks.
type CallbackOptions struct {
	NotFound tele.HandlerFunc

	// Key maps the incoming callback to a registry key. When nil the
	// \f<unique>|<payload> encoding of telebot is assumed. A custom Key may
	// stash decoded state on the tele.Context for the handler to pick up.
	Key func(c tele.Context) string
}

// CallbackRoute returns a handler that routes callbacks through the registry.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		var key string
		if opts.Key != nil {
			key = opts.Key(c)
		} else {
			key, _ = parseCallback(c.Callback())
		}
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		_ = c.Respond()

		cbHandler, ok := reg.GetCallback(key)
		if !ok || cbHandler == nil {
			fallback := reg.CallbackNotFound()
			if fallback == nil {
				fallback = opts.NotFound
			}
			extras = append(extras, slog.String("reason", "not_found"))
			return handleWithSummary(c, name, start, "", "", func() error {
				if fallback != nil {
					return fallback(c)
				}
				return nil
			}, extras...)
		}

		return handleWithSummary(c, name, start, "", "", func() error {
			return cbHandler(c)
		}, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
