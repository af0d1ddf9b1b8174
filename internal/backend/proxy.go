package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-policy-service/internal/domain"
)

// proxyBackend executes every operation as an HTTP request against the REST
// surface; the remote endpoint performs the actual persistence.
type proxyBackend struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewProxy builds the proxy strategy. No timeout is configured on the
// client; an unresponsive server blocks only the operation that hit it, and
// callers bound the wait through the request context.
func NewProxy(baseURL string, logger *zap.Logger) Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &proxyBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  logger,
	}
}

// apiEnvelope is the JSON shape every REST endpoint responds with.
type apiEnvelope struct {
	Success bool                  `json:"success"`
	Records []domain.PolicyRecord `json:"records,omitempty"`
	Record  *domain.PolicyRecord  `json:"record,omitempty"`
	Count   int64                 `json:"count,omitempty"`
	Backup  *domain.Backup        `json:"backup,omitempty"`
	Message string                `json:"message,omitempty"`
	Error   string                `json:"error,omitempty"`
}

func (b *proxyBackend) List(ctx context.Context) Result {
	return b.do(ctx, http.MethodGet, "/api/lic-records", nil)
}

func (b *proxyBackend) Create(ctx context.Context, records []domain.PolicyRecord) Result {
	return b.do(ctx, http.MethodPost, "/api/lic-records", map[string]any{"policies": records})
}

func (b *proxyBackend) Update(ctx context.Context, id int64, upd domain.PolicyUpdate) Result {
	return b.do(ctx, http.MethodPut, fmt.Sprintf("/api/lic-records/%d", id), upd)
}

func (b *proxyBackend) Delete(ctx context.Context, id int64) Result {
	return b.do(ctx, http.MethodDelete, fmt.Sprintf("/api/lic-records/%d", id), nil)
}

func (b *proxyBackend) BulkDelete(ctx context.Context, password string) Result {
	return b.do(ctx, http.MethodPost, "/api/delete-all", map[string]string{"password": password})
}

func (b *proxyBackend) BulkReplace(ctx context.Context, records []domain.PolicyRecord) Result {
	if records == nil {
		records = []domain.PolicyRecord{}
	}
	return b.do(ctx, http.MethodPost, "/api/restore", map[string]any{"data": records})
}

func (b *proxyBackend) Backup(ctx context.Context) Result {
	return b.do(ctx, http.MethodGet, "/api/backup", nil)
}

func (b *proxyBackend) do(ctx context.Context, method, path string, payload any) Result {
	var body *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return failure("INTERNAL_ERROR", err.Error())
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return failure("INTERNAL_ERROR", err.Error())
	}
	if payload != nil {
		req.Header.Set(headerContentType, "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		b.logger.Warn("proxy request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return failure("NETWORK_ERROR", err.Error())
	}
	defer resp.Body.Close() //nolint:errcheck

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return failure("NETWORK_ERROR", fmt.Sprintf("malformed response: %v", err))
	}

	if resp.StatusCode >= 400 || !envelope.Success {
		message := envelope.Error
		if message == "" {
			message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return failure(codeForStatus(resp.StatusCode), message)
	}

	result := Result{OK: true, Backup: envelope.Backup, Count: envelope.Count}
	switch {
	case envelope.Records != nil:
		result.Records = envelope.Records
	case envelope.Record != nil:
		result.Records = []domain.PolicyRecord{*envelope.Record}
	}
	return result
}

const headerContentType = "Content-Type"

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusBadRequest:
		return "VALIDATION_FAILED"
	default:
		return "REMOTE_FAILURE"
	}
}
