package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net/mail"
	"net/smtp"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// DecisionEmail is the content of a leave decision notice.
type DecisionEmail struct {
	FullName     string
	RequestID    int64
	Nature       string
	StartDate    string
	EndDate      string
	Days         int
	Approved     bool
	ApproverName string
	Organisation string
}

// Decision is the French past participle used in the subject and body.
func (d DecisionEmail) Decision() string {
	if d.Approved {
		return "acceptée"
	}
	return "refusée"
}

// EmailService defines the interface for sending emails
type EmailService interface {
	SendDecision(to string, data DecisionEmail) error
	// Enabled reports whether an SMTP host is configured. Sends are no-ops otherwise.
	Enabled() bool
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	sendMail  func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	backoff   func(attempt int) time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		sendMail:  smtp.SendMail,
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<(attempt-1)) * time.Second
		},
	}, nil
}

func (s *emailServiceImpl) Enabled() bool {
	return s.cfg.Host != ""
}

// SendDecision tells the requester their leave request was decided
func (s *emailServiceImpl) SendDecision(to string, data DecisionEmail) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "decision.html", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject := fmt.Sprintf("Demande de congé n°%d %s", data.RequestID, data.Decision())
	return s.sendHTML(to, subject, body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if !s.Enabled() {
		slog.Debug("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From
	sender := mail.Address{Name: s.cfg.FromName, Address: from}

	// Header values must be 7-bit; names and subjects carry accents.
	headers := fmt.Sprintf("From: %s\r\n", sender.String())
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.sendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// exponential backoff: 1s, 2s
		if attempt < maxRetries {
			time.Sleep(s.backoff(attempt))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
