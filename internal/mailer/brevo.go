package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const defaultBrevoAPIURL = "https://api.brevo.com/v3/smtp/email"

// Brevo sends transactional email through the Brevo API. Calls run through a
// circuit breaker so a dead mail provider fails fast instead of eating the
// request timeout on every dispatch.
type Brevo struct {
	apiKey     string
	fromEmail  string
	fromName   string
	apiURL     string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

// NewBrevo creates a Brevo client. The breaker opens after five consecutive
// failures and probes again after 30 seconds.
func NewBrevo(apiKey, fromEmail, fromName string, logger *zap.Logger) *Brevo {
	st := gobreaker.Settings{
		Name:    "brevo",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("mail circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &Brevo{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		apiURL:     defaultBrevoAPIURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cb:         gobreaker.NewCircuitBreaker(st),
	}
}

type sendEmailReq struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HtmlContent string              `json:"htmlContent"`
}

func (b *Brevo) Send(ctx context.Context, toEmail, subject, htmlBody string) error {
	if toEmail == "" || subject == "" || htmlBody == "" {
		return errors.New("toEmail, subject, and html content cannot be empty")
	}

	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.send(ctx, toEmail, subject, htmlBody)
	})
	return err
}

func (b *Brevo) send(ctx context.Context, toEmail, subject, htmlBody string) error {
	reqBody := sendEmailReq{
		Sender:      map[string]string{"email": b.fromEmail, "name": b.fromName},
		To:          []map[string]string{{"email": toEmail}},
		Subject:     subject,
		HtmlContent: htmlBody,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal email request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request for Brevo: %w", err)
	}
	httpReq.Header.Set("api-key", b.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("brevo send email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errorBody map[string]interface{}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errorBody); decodeErr != nil {
			return fmt.Errorf("brevo API error: status %d, failed to decode error body: %v", resp.StatusCode, decodeErr)
		}
		return fmt.Errorf("brevo API error: status %d, body: %v", resp.StatusCode, errorBody)
	}

	return nil
}
