// Package webhook posts envelopes of the custom pipeline to an HTTP endpoint
// such as an n8n workflow trigger.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"rpaetl/internal/port"
)

// Request headers sent with every delivery.
const (
	HeaderExecutionID = "X-Execution-ID"
	HeaderTenantID    = "X-Tenant-ID"
	HeaderTraceID     = "X-Trace-ID"
	HeaderSignature   = "X-Signature-SHA256"
)

// Publisher delivers envelopes with a JSON POST.
type Publisher struct {
	url    string
	secret []byte
	client *http.Client
}

// NewPublisher creates a webhook publisher. With a non-empty secret every body
// is signed with HMAC-SHA256.
func NewPublisher(url, secret string, timeout time.Duration) *Publisher {
	return &Publisher{
		url:    url,
		secret: []byte(secret),
		client: &http.Client{Timeout: timeout},
	}
}

func (p *Publisher) Name() string { return "webhook" }

// Publish posts the envelope. Any non-2xx answer is a failed delivery.
func (p *Publisher) Publish(ctx context.Context, env []byte, meta port.PublishMeta) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(env))
	if err != nil {
		return fmt.Errorf("webhook.Publish: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderExecutionID, meta.ExecutionID)
	req.Header.Set(HeaderTenantID, meta.TenantID)
	req.Header.Set(HeaderTraceID, meta.TraceID)
	if len(p.secret) > 0 {
		req.Header.Set(HeaderSignature, Sign(p.secret, env))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook.Publish: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook.Publish: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
