package services

import (
	"github.com/sirupsen/logrus"
)

// SMSService sends invite texts carrying a competition's access code.
type SMSService interface {
	SendMessage(phoneNumber, message string) error
}

// MockSMSService logs instead of sending. Default outside production.
type MockSMSService struct {
	logger *logrus.Logger
}

func NewMockSMSService(logger *logrus.Logger) *MockSMSService {
	return &MockSMSService{logger: logger}
}

func (s *MockSMSService) SendMessage(phoneNumber, message string) error {
	s.logger.Infof("MOCK SMS to %s: %s", phoneNumber, message)
	return nil
}
