// Package ui declares the transport-agnostic outbound message shape produced
// by handlers and rendered by the Telegram wiring layer.
package ui

// Button is one inline button: a user-facing label and an opaque callback
// token delivered back on press.
type Button struct {
	Label string
	Token string
}

// Reply is a single outbound message: text, an optional photo, and an
// optional inline keyboard laid out in rows.
type Reply struct {
	Text      string
	PhotoPath string
	Buttons   [][]Button

	// FollowUps are plain text messages sent after the main one.
	FollowUps []string
}

// Btn builds a button.
func Btn(label, token string) Button {
	return Button{Label: label, Token: token}
}

// WithRow appends a row to the reply and returns it for chaining.
func (r Reply) WithRow(buttons ...Button) Reply {
	r.Buttons = append(r.Buttons, buttons)
	return r
}
