// Package callbacks provides helpers for bots that put plain tokens into
// inline button data instead of telebot's \f<unique>|<payload> encoding.
// Plain tokens stay stable across restarts, so buttons sent by a previous
// process keep working.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

const actionKey = "cb_action"

// Data returns the raw callback data with telebot's \f prefix stripped in
// case the update arrived through a telebot-encoded button.
func Data(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	raw := strings.TrimPrefix(cb.Data, "\f")
	raw = strings.TrimPrefix(raw, "\\f")
	return strings.TrimSpace(raw)
}

// StashAction stores the decoded callback action on the tele.Context so the
// dispatch key function decodes the token exactly once.
func StashAction(c tele.Context, action any) {
	c.Set(actionKey, action)
}

// StashedAction returns the action stored by StashAction, or nil.
func StashedAction(c tele.Context) any {
	return c.Get(actionKey)
}
