// Package mailer delivers lead emails through an HTTP mail gateway.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/prbeaches/directory/api/internal/logging"
	"github.com/prbeaches/directory/api/internal/metrics"
	"github.com/prbeaches/directory/api/internal/public/application"
)

// Config configures the gateway client.
type Config struct {
	Endpoint   string
	From       string
	APIKey     string
	Timeout    time.Duration
	Attempts   int
	RetryDelay time.Duration
}

// Gateway posts messages to {Endpoint}/messages.
type Gateway struct {
	endpoint   string
	from       string
	apiKey     string
	attempts   int
	retryDelay time.Duration
	httpClient *http.Client
}

func NewGateway(cfg Config) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Gateway{
		endpoint:   strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"),
		from:       strings.TrimSpace(cfg.From),
		apiKey:     cfg.APIKey,
		attempts:   max(cfg.Attempts, 1),
		retryDelay: cfg.RetryDelay,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type messagePayload struct {
	From    string   `json:"from,omitempty"`
	To      string   `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	Tags    []string `json:"tags,omitempty"`
}

// Send retries transport errors and 5xx responses; 4xx responses fail immediately.
func (g *Gateway) Send(ctx context.Context, msg application.Email) error {
	if g.endpoint == "" {
		return errors.New("mail gateway endpoint is empty")
	}
	body, err := json.Marshal(messagePayload{
		From:    g.from,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Body,
		Tags:    msg.Tags,
	})
	if err != nil {
		return fmt.Errorf("encoding mail payload: %w", err)
	}

	var lastErr error
	for i := 0; i < g.attempts; i++ {
		if i > 0 && g.retryDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(g.retryDelay):
			}
		}
		retry, err := g.post(ctx, body)
		if err == nil {
			metrics.MailDeliveries.WithLabelValues("sent").Inc()
			return nil
		}
		lastErr = err
		logging.Ctx(ctx).Warn().Err(err).Int("attempt", i+1).Msg("mail gateway delivery failed")
		if !retry {
			break
		}
	}
	metrics.MailDeliveries.WithLabelValues("failed").Inc()
	return lastErr
}

func (g *Gateway) post(ctx context.Context, body []byte) (retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/messages", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("creating mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	res, err := g.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("mail gateway request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
		return res.StatusCode >= 500, fmt.Errorf("mail gateway error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(message)))
	}
	return false, nil
}

// LogMailer writes messages to the log instead of sending them. Used when no gateway is set.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg application.Email) error {
	logging.Ctx(ctx).Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("body_bytes", len(msg.Body)).
		Msg("mail gateway disabled; message logged only")
	metrics.MailDeliveries.WithLabelValues("logged").Inc()
	return nil
}
