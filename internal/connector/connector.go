package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	ProviderMudad = "MUDAD"
	ProviderQiwa  = "QIWA"
)

type SyncRequest struct {
	TenantID       string `json:"tenant_id"`
	Provider       string `json:"provider"`
	Operation      string `json:"operation"`
	EntityType     string `json:"entity_type"`
	EntityID       string `json:"entity_id"`
	PayloadJSON    string `json:"payload_json"`
	IdempotencyKey string `json:"idempotency_key"`
}

type SyncResult struct {
	Success           bool   `json:"success"`
	ExternalReference string `json:"external_reference,omitempty"`
	ResponseJSON      string `json:"response_json,omitempty"`
	ErrorMessage      string `json:"error_message,omitempty"`
}

// Client pushes payroll facts to government platforms. Sync never returns an
// error: a failed call is a failed SyncResult, and the caller decides how
// loudly to degrade.
type Client interface {
	Sync(ctx context.Context, req SyncRequest) SyncResult
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type httpClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *zap.Logger
}

func NewHTTPClient(cfg Config, logger ...*zap.Logger) Client {
	l := zap.L().Named("connector.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("connector.client")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &httpClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		logger:  l,
	}
}

type syncEnvelope struct {
	TenantID    string          `json:"tenant_id"`
	Operation   string          `json:"operation"`
	EntityType  string          `json:"entity_type"`
	EntityID    string          `json:"entity_id"`
	Payload     json.RawMessage `json:"payload"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

type syncResponse struct {
	ExternalReference string `json:"external_reference"`
	Status            string `json:"status"`
	Message           string `json:"message"`
}

func (c *httpClient) Sync(ctx context.Context, req SyncRequest) SyncResult {
	result := c.sync(ctx, req)
	if !result.Success {
		c.logger.Warn("government sync failed",
			zap.String("tenant_id", req.TenantID),
			zap.String("provider", req.Provider),
			zap.String("operation", req.Operation),
			zap.String("entity_id", req.EntityID),
			zap.String("error_message", result.ErrorMessage),
		)
	}
	return result
}

func (c *httpClient) sync(ctx context.Context, req SyncRequest) SyncResult {
	if c.baseURL == "" {
		return SyncResult{ErrorMessage: "connector base url is not configured"}
	}

	payload := json.RawMessage(req.PayloadJSON)
	if !json.Valid(payload) {
		payload, _ = json.Marshal(req.PayloadJSON)
	}
	body, err := json.Marshal(syncEnvelope{
		TenantID:    req.TenantID,
		Operation:   req.Operation,
		EntityType:  req.EntityType,
		EntityID:    req.EntityID,
		Payload:     payload,
		SubmittedAt: time.Now().UTC(),
	})
	if err != nil {
		return SyncResult{ErrorMessage: fmt.Sprintf("encode sync envelope: %v", err)}
	}

	url := fmt.Sprintf("%s/v1/%s/sync", c.baseURL, providerPath(req.Provider))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return SyncResult{ErrorMessage: fmt.Sprintf("build sync request: %v", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return SyncResult{ErrorMessage: fmt.Sprintf("call %s: %v", req.Provider, err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return SyncResult{ErrorMessage: fmt.Sprintf("read %s response: %v", req.Provider, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SyncResult{
			ResponseJSON: string(respBody),
			ErrorMessage: fmt.Sprintf("%s returned HTTP %d", req.Provider, resp.StatusCode),
		}
	}

	var parsed syncResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return SyncResult{
			ResponseJSON: string(respBody),
			ErrorMessage: fmt.Sprintf("decode %s response: %v", req.Provider, err),
		}
	}

	return SyncResult{
		Success:           true,
		ExternalReference: parsed.ExternalReference,
		ResponseJSON:      string(respBody),
	}
}

func providerPath(provider string) string {
	switch provider {
	case ProviderQiwa:
		return "qiwa"
	default:
		return "mudad"
	}
}
