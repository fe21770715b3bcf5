package services

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppsg-cms/internal/config"
	"ppsg-cms/models"
	"ppsg-cms/utils"
)

func TestContactEmailSubject(t *testing.T) {
	assert.Equal(t, "New Contact Form Submission from Dana", ContactEmail{Name: "Dana"}.Subject())
	assert.Equal(t, "Product Inquiry: Heater from Dana", ContactEmail{Name: "Dana", ProductName: "Heater"}.Subject())
}

func TestRenderContactHTML(t *testing.T) {
	price := 12.5
	body, err := RenderContactHTML(ContactEmail{
		Name:        "Dana <script>",
		Email:       "dana@example.com",
		Message:     "line one\nline two",
		ProductName: "Heater",
		SelectedSizes: []models.SelectedSize{
			{Name: "Small", Price: &price, Description: "fits 10k gal"},
			{Name: "Large"},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Dana &lt;script&gt;")
	assert.Contains(t, body, "Not provided")
	assert.Contains(t, body, "<li><strong>Small</strong> - $12.50 (fits 10k gal)</li>")
	assert.Contains(t, body, "<li><strong>Large</strong></li>")
	assert.Contains(t, body, "line one<br>line two")
}

func TestSMTPMailerSend(t *testing.T) {
	cfg := config.Config{SMTPHost: "mail.test", SMTPPort: "2525", SMTPUser: "u", SMTPPass: "p", SMTPFrom: "site@test", ContactEmailTo: "owner@test"}
	mailer := NewSMTPMailer(cfg)

	var gotAddr string
	var gotTo []string
	var gotMsg string
	mailer.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	require.NoError(t, mailer.SendContact(context.Background(), ContactEmail{Name: "Dana", Email: "dana@example.com", Message: "Hi"}))
	assert.Equal(t, "mail.test:2525", gotAddr)
	assert.Equal(t, []string{"owner@test"}, gotTo)
	assert.True(t, strings.HasPrefix(gotMsg, "From: site@test\r\n"))
	assert.Contains(t, gotMsg, "Reply-To: dana@example.com\r\n")
	assert.Contains(t, gotMsg, "Subject: New Contact Form Submission from Dana\r\n")

	mailer.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("connection refused") }
	err := mailer.SendContact(context.Background(), ContactEmail{Name: "Dana"})
	assert.ErrorIs(t, err, utils.ErrExternalService)
}

func TestBreakerMailerOpensAfterFailures(t *testing.T) {
	next := &fakeMailer{err: errors.New("timeout")}
	mailer := NewBreakerMailer(next)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.Error(t, mailer.SendContact(ctx, ContactEmail{Name: "Dana"}))
	}

	next.err = nil
	err := mailer.SendContact(ctx, ContactEmail{Name: "Dana"})
	assert.ErrorIs(t, err, utils.ErrExternalService)
	assert.Empty(t, next.sent)
}

func TestSMTPMailerEncodesSubject(t *testing.T) {
	mailer := NewSMTPMailer(config.Config{SMTPHost: "mail.test", SMTPPort: "25", SMTPFrom: "site@test", ContactEmailTo: "owner@test"})
	var gotMsg string
	mailer.send = func(_ string, _ smtp.Auth, _ string, _ []string, msg []byte) error {
		gotMsg = string(msg)
		return nil
	}

	require.NoError(t, mailer.SendContact(context.Background(), ContactEmail{Name: "Eve\r\nX-Injected: yes", Email: "eve@example.com"}))
	headers, _, found := strings.Cut(gotMsg, "\r\n\r\n")
	require.True(t, found)
	assert.NotContains(t, headers, "\r\nX-Injected:")
	assert.Contains(t, headers, "Subject: =?utf-8?q?")

	require.NoError(t, mailer.SendContact(context.Background(), ContactEmail{Name: "Zoë", Email: "zoe@example.com"}))
	assert.Contains(t, gotMsg, "Subject: =?utf-8?q?New_Contact_Form_Submission_from_Zo=C3=AB?=\r\n")
}
