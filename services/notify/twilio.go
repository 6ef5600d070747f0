package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioMessenger delivers messages over Twilio's WhatsApp channel. It is
// an alternative to Fonnte for deployments already on Twilio.
type TwilioMessenger struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioMessenger builds a messenger from an account SID, auth token
// and the WhatsApp-enabled sender number (E.164, e.g. "+14155238886").
func NewTwilioMessenger(accountSID, authToken, from string) (*TwilioMessenger, error) {
	if accountSID == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("twilio account SID, auth token and sender number are required")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioMessenger{client: client, from: from}, nil
}

func (m *TwilioMessenger) Send(ctx context.Context, phone, body string) (json.RawMessage, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:+" + phone)
	params.SetFrom("whatsapp:" + m.from)
	params.SetBody(body)

	resp, err := m.client.Api.CreateMessage(params)
	if err != nil {
		return nil, fmt.Errorf("failed to send WhatsApp message via Twilio: %w", err)
	}

	respBytes, err := json.Marshal(resp)
	if err != nil {
		return nil, nil
	}
	return respBytes, nil
}
