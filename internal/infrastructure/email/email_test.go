package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	sharedConfig "soportes/internal/shared/config"
	"soportes/internal/shared/logger"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

type staticSettings map[string]string

func (s staticSettings) All(context.Context) (map[string]string, error) { return s, nil }

type failingSettings struct{}

func (failingSettings) All(context.Context) (map[string]string, error) {
	return nil, errors.New("no such table: configuracion")
}

func TestSMTPEmailServiceSend(t *testing.T) {
	d := &recordingDialer{}
	svc := &SMTPEmailService{
		config: SMTPConfig{FromAddress: "soporte@example.com", FromName: "Soporte TI"},
		dialer: d,
	}

	err := svc.Send(Message{To: "alice@example.com", Subject: "Ticket #1", PlainBody: "hola", HTMLBody: "<p>hola</p>"})
	require.NoError(t, err)
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"alice@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Ticket #1"}, m.GetHeader("Subject"))
	assert.Contains(t, m.GetHeader("From")[0], "soporte@example.com")
}

func TestSMTPEmailServiceSendErrors(t *testing.T) {
	d := &recordingDialer{err: errors.New("connection refused")}
	svc := &SMTPEmailService{config: SMTPConfig{FromAddress: "a@example.com"}, dialer: d}

	assert.Error(t, svc.Send(Message{Subject: "no recipient"}))
	assert.Empty(t, d.sent)

	err := svc.Send(Message{To: "b@example.com", Subject: "x", PlainBody: "y"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestResolveConfig(t *testing.T) {
	fallback := sharedConfig.EmailConfig{
		SMTPHost:     "smtp.fallback.local",
		SMTPPort:     2525,
		SMTPUser:     "relay",
		SMTPPassword: "secret",
		FromAddress:  "soporte@fallback.local",
		FromName:     "Soporte TI",
	}

	t.Run("settings win", func(t *testing.T) {
		cfg, err := ResolveConfig(map[string]string{
			"MAIL_SERVER":   "smtp.gmail.com",
			"MAIL_PORT":     "465",
			"MAIL_USERNAME": "mesa@example.com",
			"MAIL_PASSWORD": "pw",
			"MAIL_USE_TLS":  "True",
		}, fallback)
		require.NoError(t, err)
		assert.Equal(t, "smtp.gmail.com", cfg.Host)
		assert.Equal(t, 465, cfg.Port)
		assert.True(t, cfg.UseTLS)
		assert.Equal(t, "mesa@example.com", cfg.FromAddress)
		assert.Equal(t, "Soporte TI", cfg.FromName)
	})

	t.Run("default port", func(t *testing.T) {
		cfg, err := ResolveConfig(map[string]string{
			"MAIL_SERVER":   "smtp.example.com",
			"MAIL_USERNAME": "u",
			"MAIL_PASSWORD": "p",
		}, fallback)
		require.NoError(t, err)
		assert.Equal(t, 587, cfg.Port)
		assert.False(t, cfg.UseTLS)
	})

	t.Run("incomplete settings", func(t *testing.T) {
		_, err := ResolveConfig(map[string]string{"MAIL_SERVER": "smtp.example.com"}, fallback)
		assert.ErrorIs(t, err, ErrEmailServiceNotConfigured)
	})

	t.Run("bad port", func(t *testing.T) {
		_, err := ResolveConfig(map[string]string{
			"MAIL_SERVER": "smtp.example.com", "MAIL_PORT": "smtp",
			"MAIL_USERNAME": "u", "MAIL_PASSWORD": "p",
		}, fallback)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrEmailServiceNotConfigured)
	})

	t.Run("fallback", func(t *testing.T) {
		cfg, err := ResolveConfig(nil, fallback)
		require.NoError(t, err)
		assert.Equal(t, "smtp.fallback.local", cfg.Host)
		assert.Equal(t, 2525, cfg.Port)
		assert.Equal(t, "soporte@fallback.local", cfg.FromAddress)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := ResolveConfig(nil, sharedConfig.EmailConfig{})
		assert.ErrorIs(t, err, ErrEmailServiceNotConfigured)
	})
}

func TestEmailServiceManager(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNopLogger()

	m := NewEmailServiceManager(staticSettings{}, sharedConfig.EmailConfig{}, log)
	require.NoError(t, m.Initialize(ctx))
	assert.False(t, m.IsConfigured())
	assert.ErrorIs(t, m.Send(Message{To: "a@example.com"}), ErrEmailServiceNotConfigured)

	m = NewEmailServiceManager(staticSettings{
		"MAIL_SERVER": "smtp.example.com", "MAIL_USERNAME": "u", "MAIL_PASSWORD": "p",
	}, sharedConfig.EmailConfig{}, log)
	require.NoError(t, m.Initialize(ctx))
	assert.True(t, m.IsConfigured())

	m = NewEmailServiceManager(failingSettings{}, sharedConfig.EmailConfig{}, log)
	assert.Error(t, m.Initialize(ctx))
	assert.False(t, m.IsConfigured())
}
