package services

import (
	"fmt"
	"log"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/md2563430-netizen/KABS-WEBSITE/internal/config"
)

// TwilioService sends SMS messages through the Twilio REST API.
type TwilioService struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioService creates a new Twilio service instance
func NewTwilioService(cfg *config.Config) (*TwilioService, error) {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFrom == "" {
		return nil, fmt.Errorf("missing Twilio credentials in environment variables")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})

	return &TwilioService{
		client: client,
		from:   cfg.TwilioFrom,
	}, nil
}

// SendSMS sends a single SMS message via Twilio
func (t *TwilioService) SendSMS(to string, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send SMS to %s: %v", to, err)
		return err
	}

	log.Printf("✅ SMS sent! SID: %s", *resp.Sid)
	return nil
}
