package email

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"net/smtp"

	"channel-coach/internal/models"
	"channel-coach/shared/config"
)

//go:embed report_template.html
var reportTemplate string

var tmpl = template.Must(template.New("email").Funcs(template.FuncMap{
	"signed": func(n int64) string { return fmt.Sprintf("%+d", n) },
}).Parse(reportTemplate))

// SendFunc matches smtp.SendMail; tests swap it out.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Sender struct {
	config *config.EmailConfig
	send   SendFunc
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
		send:   smtp.SendMail,
	}
}

func (s *Sender) SendReport(report *models.WeeklyReport) error {
	if report == nil || report.Report == nil || report.Report.Channel == nil {
		return fmt.Errorf("report cannot be nil")
	}

	subject := fmt.Sprintf("Channel Coach - %s: %d/100 (%s)",
		report.Report.Channel.Title, report.Report.Analysis.Score, report.Date.Format("Jan 2, 2006"))

	body, err := GenerateBody(report)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return s.SendHTML(subject, body)
}

// SendHTML sends an email with custom HTML content
func (s *Sender) SendHTML(subject, htmlBody string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf("To: %s\r\nFrom: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.config.ToEmail, s.config.FromEmail, subject, htmlBody))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return s.send(addr, auth, s.config.FromEmail, to, msg)
}

func GenerateBody(report *models.WeeklyReport) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}
