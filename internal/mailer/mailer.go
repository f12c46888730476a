package mailer

import (
	"github.com/sirupsen/logrus"
)

type (
	// A Mailer delivers the transactional emails of the auth flows.
	// Delivery is out-of-band: callers only care about the error.
	Mailer interface {
		// SendVerification sends the email-change verification mail.
		SendVerification(email, token string) error
		// SendPasswordReset sends the password-reset mail.
		SendPasswordReset(email, token string) error
	}

	logger struct {
		log *logrus.Logger
	}
)

// NewLogger returns a Mailer that only logs the mails it would send.
// Used when no SMTP relay is configured.
func NewLogger(log *logrus.Logger) Mailer {
	return &logger{log: log}
}

func (m *logger) SendVerification(email, token string) error {
	m.log.WithFields(logrus.Fields{
		"email": email,
		"token": token,
	}).Info("verification mail")
	return nil
}

func (m *logger) SendPasswordReset(email, token string) error {
	m.log.WithFields(logrus.Fields{
		"email": email,
		"token": token,
	}).Info("password reset mail")
	return nil
}
