package notify

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// ConsoleMessenger prints messages instead of sending them. It is the
// default outside production so an unconfigured gateway never blocks
// development.
type ConsoleMessenger struct{}

func NewConsoleMessenger() *ConsoleMessenger {
	return &ConsoleMessenger{}
}

func (m *ConsoleMessenger) Send(_ context.Context, phone, body string) (json.RawMessage, error) {
	log.Info().
		Str("phone", phone).
		Str("body", body).
		Msg("WhatsApp message (console fallback, not delivered)")
	return json.RawMessage(`{"console":true}`), nil
}
