// Package gateway is the outbound messaging boundary. Everything that talks
// to the user goes through the Gateway interface, injected where needed, so
// sweeps and the wizard never reach for a process-global bot instance.
package gateway

import (
	"context"
	"errors"
)

// Button is one inline button. Data buttons carry a callback payload; URL
// buttons open a link instead.
type Button struct {
	Label string
	Data  string
	URL   string
}

// ErrDelivery marks a send that failed at the messaging platform (blocked
// bot, deleted account). Callers log it and move on; delivery is best-effort
// and nothing is queued for replay.
var ErrDelivery = errors.New("delivery failed")

type Gateway interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard [][]Button) error
	EditMessage(ctx context.Context, chatID int64, messageID int, text string, keyboard [][]Button) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}
