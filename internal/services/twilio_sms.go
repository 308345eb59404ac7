package services

import (
	"fmt"
	"regexp"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var nonPhoneChars = regexp.MustCompile(`[^\d+]`)

// TwilioSMSService sends invite texts through the Twilio REST API.
type TwilioSMSService struct {
	client      *twilio.RestClient
	fromNumber  string
	rateLimiter *PhoneRateLimiter
	logger      *logrus.Logger
}

func NewTwilioSMSService(accountSID, authToken, fromNumber string, rateLimiter *PhoneRateLimiter, logger *logrus.Logger) *TwilioSMSService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioSMSService{
		client:      client,
		fromNumber:  fromNumber,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

func (s *TwilioSMSService) SendMessage(phoneNumber, message string) error {
	to, err := normalizePhoneNumber(phoneNumber)
	if err != nil {
		return fmt.Errorf("invalid phone number format: %w", err)
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.Allow(to); err != nil {
			return err
		}
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.fromNumber)
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.logger.Errorf("Twilio send to %s failed: %v", to, err)
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	if resp.Sid != nil {
		s.logger.Infof("SMS sent to %s (sid %s)", to, *resp.Sid)
	}
	return nil
}

// normalizePhoneNumber coerces input into E.164. A bare 10-digit number is
// assumed to be US.
func normalizePhoneNumber(phone string) (string, error) {
	cleaned := nonPhoneChars.ReplaceAllString(phone, "")
	if cleaned == "" {
		return "", fmt.Errorf("empty number")
	}
	if cleaned[0] != '+' {
		if len(cleaned) == 10 {
			cleaned = "+1" + cleaned
		} else {
			cleaned = "+" + cleaned
		}
	}
	if len(cleaned) < 11 || len(cleaned) > 16 {
		return "", fmt.Errorf("unexpected number length")
	}
	return cleaned, nil
}
