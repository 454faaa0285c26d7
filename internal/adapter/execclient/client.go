// package execclient talks the judge server HTTP protocol
package execclient

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"gitlab.com/ojcore.net/internal/core/ports/primary"
	"gitlab.com/ojcore.net/internal/core/ports/secondary"
	"gitlab.com/ojcore.net/internal/domain"
	"gitlab.com/ojcore.net/internal/static/errs"
)

const tokenHeader = "X-Judge-Server-Token"

var _ secondary.ExecClient = &Client{}

// Client signs and posts judge/compile requests. The auth token is computed
// once per client lifetime from the shared secret.
type Client struct {
	httpClient *http.Client
	token      string
	logger     primary.Logger
}

// NewClient creates a new judge server client. timeout bounds each call; a
// hang past it surfaces as a transport failure.
func NewClient(secret string, timeout time.Duration, logger primary.Logger) *Client {
	sum := sha256.Sum256([]byte(secret))
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		token:      hex.EncodeToString(sum[:]),
		logger:     logger,
	}
}

// Judge posts a judge request to the server. Transport-level failures wrap
// errs.JudgeServerUnreachable: the outcome is unknown and the submission must
// not be marked failed by the worker-error path.
func (c *Client) Judge(ctx context.Context, serviceURL string, req *domain.JudgeRequest) (*domain.JudgeResponse, error) {
	return c.post(ctx, serviceURL, "/judge", req)
}

// CompileSPJ posts checker source for pre-compilation.
func (c *Client) CompileSPJ(ctx context.Context, serviceURL string, req *domain.SPJCompileRequest) (*domain.JudgeResponse, error) {
	return c.post(ctx, serviceURL, "/compile_spj", req)
}

func (c *Client) post(ctx context.Context, serviceURL, path string, payload interface{}) (*domain.JudgeResponse, error) {
	endpoint, err := url.JoinPath(serviceURL, path)
	if err != nil {
		return nil, fmt.Errorf("%w: bad service url %q: %v", errs.JudgeServerUnreachable, serviceURL, err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode judge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build judge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(tokenHeader, c.token)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Judge server request failed", "endpoint", endpoint, "error", err)
		return nil, fmt.Errorf("%w: %v", errs.JudgeServerUnreachable, err)
	}
	defer httpResp.Body.Close()

	var resp domain.JudgeResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		c.logger.Error("Judge server returned malformed body", "endpoint", endpoint, "error", err)
		return nil, fmt.Errorf("%w: malformed response: %v", errs.JudgeServerUnreachable, err)
	}
	return &resp, nil
}
