package components

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/config"
	"github.com/michalmrva94-byte/veronikabadurova-sub001/internal/notification_worker/service"
)

// HTTPEmailSender posts emails to a JSON transactional email API
type HTTPEmailSender struct {
	client *http.Client
	apiURL string
	apiKey string
	from   string
	logger *slog.Logger
}

func NewHTTPEmailSender(cfg *config.EmailConfig, logger *slog.Logger) *HTTPEmailSender {
	return &HTTPEmailSender{
		client: &http.Client{Timeout: cfg.Timeout},
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		from:   cfg.From,
		logger: logger,
	}
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	Text    string   `json:"text,omitempty"`
}

func (s *HTTPEmailSender) Send(ctx context.Context, email *service.Email) error {
	body, err := json.Marshal(sendEmailRequest{
		From:    s.from,
		To:      []string{email.To},
		Subject: email.Subject,
		HTML:    email.HTML,
		Text:    email.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	res, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("email provider returned %d: %s", res.StatusCode, string(respBody))
	}

	s.logger.Debug("Email accepted by provider", "recipient", email.To, "status", res.StatusCode)
	return nil
}
