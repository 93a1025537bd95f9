package mail

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ConsoleMailer writes messages to the log instead of sending them. It is the
// default delivery path for development and for environments without a relay.
type ConsoleMailer struct {
	logger *logrus.Logger
}

func NewConsoleMailer(logger *logrus.Logger) *ConsoleMailer {
	return &ConsoleMailer{logger: logger}
}

func (m *ConsoleMailer) Deliver(ctx context.Context, msg Message) error {
	m.logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("email delivered to console")
	m.logger.Info(msg.Text)
	return nil
}
