package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"ppsg-cms/internal/config"
	"ppsg-cms/internal/logger"
	"ppsg-cms/models"
	"ppsg-cms/utils"
)

// ContactEmail is the notification sent to the site owner for a new lead.
type ContactEmail struct {
	Name          string
	Email         string
	Phone         string
	Message       string
	Reason        string
	ProductName   string
	SelectedSizes []models.SelectedSize
}

// Subject names the product when the lead came from a product page.
func (e ContactEmail) Subject() string {
	if e.ProductName != "" {
		return fmt.Sprintf("Product Inquiry: %s from %s", e.ProductName, e.Name)
	}
	return fmt.Sprintf("New Contact Form Submission from %s", e.Name)
}

type Mailer interface {
	SendContact(ctx context.Context, email ContactEmail) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPMailer struct {
	config config.Config
	send   sendFunc
}

func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{config: cfg, send: smtp.SendMail}
}

var contactTemplate = template.Must(template.New("contact").Funcs(template.FuncMap{
	"price": func(p *float64) string {
		if p == nil || *p == 0 {
			return ""
		}
		return fmt.Sprintf(" - $%.2f", *p)
	},
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}).Parse(`<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{if .Phone}}{{.Phone}}{{else}}Not provided{{end}}</p>
{{- if .ProductName}}
<p><strong>Product:</strong> {{.ProductName}}</p>
{{- end}}
{{- if .SelectedSizes}}
<p><strong>Selected Sizes:</strong></p><ul>
{{- range .SelectedSizes}}<li><strong>{{.Name}}</strong>{{price .Price}}{{if .Description}} ({{.Description}}){{end}}</li>{{end -}}
</ul>
{{- end}}
{{- if .Reason}}
<p><strong>Reason:</strong> {{.Reason}}</p>
{{- end}}
<p><strong>Message:</strong></p>
<p>{{range $i, $line := lines .Message}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
`))

// RenderContactHTML renders the notification body.
func RenderContactHTML(e ContactEmail) (string, error) {
	var buf bytes.Buffer
	if err := contactTemplate.Execute(&buf, e); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *SMTPMailer) SendContact(ctx context.Context, e ContactEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	htmlBody, err := RenderContactHTML(e)
	if err != nil {
		return fmt.Errorf("failed to generate email content: %w", err)
	}

	recipients := []string{s.config.ContactEmailTo}
	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nReply-To: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.config.SMTPFrom,
		strings.Join(recipients, ", "),
		e.Email,
		mime.QEncoding.Encode("utf-8", e.Subject()),
		htmlBody)

	var auth smtp.Auth
	if s.config.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPass, s.config.SMTPHost)
	}
	addr := fmt.Sprintf("%s:%s", s.config.SMTPHost, s.config.SMTPPort)
	if err := s.send(addr, auth, s.config.SMTPFrom, recipients, []byte(message)); err != nil {
		return fmt.Errorf("%w: smtp: %v", utils.ErrExternalService, err)
	}
	return nil
}

// BreakerMailer stops calling a failing mail server for a while so contact
// submissions do not each wait on an SMTP timeout.
type BreakerMailer struct {
	next    Mailer
	breaker *gobreaker.CircuitBreaker
}

func NewBreakerMailer(next Mailer) *BreakerMailer {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "SMTP",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", slog.String("breaker", name), slog.String("from", from.String()), slog.String("to", to.String()))
		},
	})
	return &BreakerMailer{next: next, breaker: breaker}
}

func (b *BreakerMailer) SendContact(ctx context.Context, e ContactEmail) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.next.SendContact(ctx, e)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: mail server unavailable: %v", utils.ErrExternalService, err)
	}
	return err
}
