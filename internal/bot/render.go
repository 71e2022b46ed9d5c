package bot

import (
	tghelpers "github.com/rodanhr/hrbot/core/telegram/helpers"
	"github.com/rodanhr/hrbot/core/telegram/keyboard"
	"github.com/rodanhr/hrbot/core/telegram/ui"

	tele "gopkg.in/telebot.v4"
)

func markup(r ui.Reply) *tele.ReplyMarkup {
	return keyboard.Inline(r.Buttons)
}

// send delivers the reply as a new message (plus any follow-ups).
func (b *Bot) send(c tele.Context, r ui.Reply) error {
	if r.Text == "" && r.PhotoPath == "" {
		return nil
	}

	if r.PhotoPath != "" {
		photo := &tele.Photo{File: tele.FromDisk(r.PhotoPath), Caption: r.Text}
		opts := &tele.SendOptions{ReplyMarkup: markup(r)}
		if err := c.Send(photo, opts); err != nil {
			// A missing or unreadable logo must not kill the greeting.
			if err := tghelpers.SendText(c, r.Text, opts); err != nil {
				return err
			}
		}
		return b.sendFollowUps(c, r)
	}

	opts := &tele.SendOptions{ReplyMarkup: markup(r)}
	if err := tghelpers.SendText(c, r.Text, opts); err != nil {
		return err
	}
	return b.sendFollowUps(c, r)
}

// edit replaces the message the pressed button was attached to, falling back
// to a fresh message when the original cannot be edited.
func (b *Bot) edit(c tele.Context, r ui.Reply) error {
	if r.Text == "" && r.PhotoPath == "" {
		return nil
	}
	if r.PhotoPath != "" {
		// Photos cannot replace a text message in place.
		return b.send(c, r)
	}
	if err := c.EditOrSend(r.Text, &tele.SendOptions{ReplyMarkup: markup(r)}); err != nil {
		return err
	}
	return b.sendFollowUps(c, r)
}

func (b *Bot) sendFollowUps(c tele.Context, r ui.Reply) error {
	for _, text := range r.FollowUps {
		if err := tghelpers.SendText(c, text); err != nil {
			return err
		}
	}
	return nil
}
