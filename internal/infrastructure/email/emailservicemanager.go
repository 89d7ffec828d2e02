package email

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	sharedConfig "soportes/internal/shared/config"
	"soportes/internal/shared/constants"
	"soportes/internal/shared/logger"
)

var ErrEmailServiceNotConfigured = errors.New("email service not configured")

// SettingsSource reads the stored key/value settings.
type SettingsSource interface {
	All(ctx context.Context) (map[string]string, error)
}

// EmailServiceManager builds the SMTP service from the MAIL_* settings,
// falling back to the static email config when MAIL_SERVER is unset.
type EmailServiceManager struct {
	settings SettingsSource
	fallback sharedConfig.EmailConfig
	logger   logger.Interface

	mu      sync.RWMutex
	service Sender
}

// NewEmailServiceManager creates a new EmailServiceManager
func NewEmailServiceManager(
	settings SettingsSource,
	fallback sharedConfig.EmailConfig,
	logger logger.Interface,
) *EmailServiceManager {
	return &EmailServiceManager{
		settings: settings,
		fallback: fallback,
		logger:   logger,
	}
}

// Initialize (re)creates the service from current settings. An
// unconfigured mailer is not an error; Send reports it instead.
func (m *EmailServiceManager) Initialize(ctx context.Context) error {
	cfg, err := m.resolve(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if errors.Is(err, ErrEmailServiceNotConfigured) {
		m.service = nil
		m.logger.Debugw("email service not configured")
		return nil
	}
	if err != nil {
		m.service = nil
		return err
	}

	m.service = NewSMTPEmailService(cfg)
	m.logger.Infow("email service initialized",
		"host", cfg.Host,
		"port", cfg.Port,
		"from", cfg.FromAddress,
	)
	return nil
}

// Send delivers msg through the current service.
func (m *EmailServiceManager) Send(msg Message) error {
	service := m.GetService()
	if service == nil {
		m.logger.Warnw("email service not configured, cannot send email", "to", msg.To)
		return ErrEmailServiceNotConfigured
	}
	return service.Send(msg)
}

// GetService returns the current email service
func (m *EmailServiceManager) GetService() Sender {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.service
}

// IsConfigured checks if email service is configured
func (m *EmailServiceManager) IsConfigured() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.service != nil
}

func (m *EmailServiceManager) resolve(ctx context.Context) (SMTPConfig, error) {
	var stored map[string]string
	if m.settings != nil {
		var err error
		if stored, err = m.settings.All(ctx); err != nil {
			return SMTPConfig{}, err
		}
	}
	return ResolveConfig(stored, m.fallback)
}

// ResolveConfig merges the MAIL_* settings over the static config. Stored
// settings win only when MAIL_SERVER is present; the sender address is
// the SMTP username, as the settings carry no separate from address.
func ResolveConfig(stored map[string]string, fallback sharedConfig.EmailConfig) (SMTPConfig, error) {
	if host := strings.TrimSpace(stored[constants.SettingMailServer]); host != "" {
		cfg := SMTPConfig{
			Host:        host,
			Port:        587,
			Username:    stored[constants.SettingMailUsername],
			Password:    stored[constants.SettingMailPassword],
			UseTLS:      strings.EqualFold(stored[constants.SettingMailUseTLS], "true"),
			FromAddress: stored[constants.SettingMailUsername],
			FromName:    fallback.FromName,
		}
		if raw := strings.TrimSpace(stored[constants.SettingMailPort]); raw != "" {
			port, err := strconv.Atoi(raw)
			if err != nil || port <= 0 || port > 65535 {
				return SMTPConfig{}, errors.New("invalid " + constants.SettingMailPort + " setting: " + raw)
			}
			cfg.Port = port
		}
		if cfg.Username == "" || cfg.Password == "" {
			return SMTPConfig{}, ErrEmailServiceNotConfigured
		}
		return cfg, nil
	}

	if fallback.SMTPHost == "" {
		return SMTPConfig{}, ErrEmailServiceNotConfigured
	}
	from := fallback.FromAddress
	if from == "" {
		from = fallback.SMTPUser
	}
	return SMTPConfig{
		Host:        fallback.SMTPHost,
		Port:        fallback.SMTPPort,
		Username:    fallback.SMTPUser,
		Password:    fallback.SMTPPassword,
		UseTLS:      true,
		FromAddress: from,
		FromName:    fallback.FromName,
	}, nil
}
