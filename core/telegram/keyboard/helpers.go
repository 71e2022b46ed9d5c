// Package keyboard converts transport-agnostic button rows into telebot
// inline keyboards.
package keyboard

import (
	"github.com/rodanhr/hrbot/core/telegram/ui"

	tele "gopkg.in/telebot.v4"
)

// Inline builds an inline keyboard from button rows. Tokens are written into
// the button data verbatim, bypassing telebot's \f<unique>|<payload>
// encoding, so buttons sent before a restart remain decodable.
func Inline(rows [][]ui.Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			r = append(r, tele.InlineButton{Text: b.Label, Data: b.Token})
		}
		inline = append(inline, r)
	}
	return &tele.ReplyMarkup{InlineKeyboard: inline}
}
