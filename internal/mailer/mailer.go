// Package mailer sends outbound email through an HTTP mail provider, with a
// log-only fallback so local development never requires a credential.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"renovatrack/internal/config"
)

type Email struct {
	To      string
	Subject string
	HTML    string
}

// Mailer reports the outcome as an error the caller may log and swallow;
// primary writes are never rolled back because mail failed.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// New returns the provider-backed mailer when an API key is configured,
// otherwise the logging fallback.
func New(cfg config.MailConfig, logger *zap.Logger) Mailer {
	if cfg.APIKey == "" {
		logger.Info("No mail provider credential configured, emails will be logged only")
		return &LogMailer{logger: logger}
	}
	return &ProviderMailer{
		url:    cfg.ProviderURL,
		apiKey: cfg.APIKey,
		from:   cfg.From,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// ProviderMailer submits mail to the provider's JSON API.
type ProviderMailer struct {
	url    string
	apiKey string
	from   string
	client *http.Client
}

func (m *ProviderMailer) Send(ctx context.Context, e Email) error {
	payload := map[string]any{
		"from":    m.from,
		"to":      []string{e.To},
		"subject": e.Subject,
		"html":    e.HTML,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}
	return nil
}

// LogMailer prints the fully rendered email to the process log and reports
// success.
type LogMailer struct {
	logger *zap.Logger
}

func (m *LogMailer) Send(_ context.Context, e Email) error {
	m.logger.Info("Email (log only)",
		zap.String("to", e.To),
		zap.String("subject", e.Subject),
		zap.String("html", e.HTML),
	)
	return nil
}
