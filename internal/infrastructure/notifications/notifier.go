package notifications

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/you/guardianauth/domain"
	"go.uber.org/zap"
)

// SMTPConfig holds mail transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// TwilioConfig holds SMS transport settings.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// NotifierImpl implements domain.NotificationService: templated email over
// SMTP, SMS over Twilio. Unconfigured transports log the message instead
// of sending, so local development needs no credentials.
type NotifierImpl struct {
	smtp   SMTPConfig
	twilio TwilioConfig
	client *twilio.RestClient
	logger *zap.Logger
}

// NewNotifier creates a new notification service
func NewNotifier(smtpCfg SMTPConfig, twilioCfg TwilioConfig, logger *zap.Logger) domain.NotificationService {
	var client *twilio.RestClient
	if twilioCfg.AccountSID != "" {
		client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: twilioCfg.AccountSID,
			Password: twilioCfg.AuthToken,
		})
	}
	return &NotifierImpl{
		smtp:   smtpCfg,
		twilio: twilioCfg,
		client: client,
		logger: logger,
	}
}

// SendOTPEmail implements domain.NotificationService
func (n *NotifierImpl) SendOTPEmail(to, code, purpose string, expiresIn time.Duration) error {
	body, err := renderTemplate("otp", templateData{
		Code:      code,
		Purpose:   humanPurpose(purpose),
		ExpiresIn: humanDuration(expiresIn),
	})
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Your OTP for %s - SEBI Guardian AI", humanPurpose(purpose))
	return n.sendEmail(to, subject, body)
}

// SendVerificationEmail implements domain.NotificationService
func (n *NotifierImpl) SendVerificationEmail(to, name, verificationURL string) error {
	body, err := renderTemplate("email-verification", templateData{Name: name, URL: verificationURL})
	if err != nil {
		return err
	}
	return n.sendEmail(to, "Verify Your Email - SEBI Guardian AI", body)
}

// SendPasswordResetEmail implements domain.NotificationService
func (n *NotifierImpl) SendPasswordResetEmail(to, name, resetURL string, expiresIn time.Duration) error {
	body, err := renderTemplate("password-reset", templateData{
		Name:      name,
		URL:       resetURL,
		ExpiresIn: humanDuration(expiresIn),
	})
	if err != nil {
		return err
	}
	return n.sendEmail(to, "Password Reset Request - SEBI Guardian AI", body)
}

// SendPasswordChangedEmail implements domain.NotificationService
func (n *NotifierImpl) SendPasswordChangedEmail(to, name string) error {
	body, err := renderTemplate("password-changed", templateData{
		Name:      name,
		Timestamp: time.Now().UTC().Format(time.RFC1123),
	})
	if err != nil {
		return err
	}
	return n.sendEmail(to, "Password Changed - SEBI Guardian AI", body)
}

// SendWelcomeEmail implements domain.NotificationService
func (n *NotifierImpl) SendWelcomeEmail(to, name string) error {
	body, err := renderTemplate("welcome", templateData{Name: name})
	if err != nil {
		return err
	}
	return n.sendEmail(to, "Welcome to SEBI Guardian AI", body)
}

// SendSMS implements domain.NotificationService
func (n *NotifierImpl) SendSMS(to, message string) error {
	if n.client == nil || n.twilio.FromNumber == "" {
		n.logger.Info("sms transport not configured, logging message",
			zap.String("to", to),
			zap.String("message", message))
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.twilio.FromNumber)
	params.SetBody(message)

	if _, err := n.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}

func (n *NotifierImpl) sendEmail(to, subject, htmlBody string) error {
	if n.smtp.Host == "" {
		n.logger.Info("smtp transport not configured, logging message",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	msg := strings.Join([]string{
		"From: " + n.smtp.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", n.smtp.Host, n.smtp.Port)
	var auth smtp.Auth
	if n.smtp.Username != "" {
		auth = smtp.PlainAuth("", n.smtp.Username, n.smtp.Password, n.smtp.Host)
	}

	if err := smtp.SendMail(addr, auth, n.smtp.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
