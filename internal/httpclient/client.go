// Package httpclient wraps outbound HTTP calls in a uniform envelope so callers
// never deal with transport errors, status codes and body shapes separately.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/triviago/internal/metrics"
	httperrors "github.com/gokatarajesh/triviago/pkg/http/errors"
)

const maxBodyBytes = 4 << 20

// TokenSource yields the bearer token for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

// Request describes a single call.
type Request struct {
	URL          string
	Method       string
	Body         any
	RequiresAuth bool
	Query        url.Values
}

// Envelope is the uniform result of Call. Data holds the unwrapped payload on
// success and is nil when Error is set.
type Envelope struct {
	Error   bool
	Message string
	Status  int
	Data    json.RawMessage
}

// Decode unmarshals Data into v.
func (e Envelope) Decode(v any) error {
	if e.Error {
		return e.Err()
	}
	if len(e.Data) == 0 {
		return fmt.Errorf("decode response: empty payload")
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Err converts a failed envelope into a *RemoteError, or nil on success.
func (e Envelope) Err() error {
	if !e.Error {
		return nil
	}
	return &RemoteError{Status: e.Status, Message: e.Message}
}

// RemoteError is a transport or non-success response. Status is 0 when the
// request never got a response.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// IsRemote reports whether err is a *RemoteError.
func IsRemote(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote)
}

// Options configures the client.
type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Tokens     TokenSource
	Metrics    *metrics.Metrics
}

// Client issues requests and normalizes their outcome.
type Client struct {
	http    *http.Client
	tokens  TokenSource
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func New(opts Options, logger zerolog.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		http:    httpClient,
		tokens:  opts.Tokens,
		metrics: opts.Metrics,
		logger:  logger.With().Str("component", "httpclient").Logger(),
	}
}

// Call performs req. It never returns an error; failures come back as an
// envelope with Error set.
func (c *Client) Call(ctx context.Context, req Request) Envelope {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	start := time.Now()
	env := c.do(ctx, method, req)

	outcome := "ok"
	if env.Error {
		outcome = "error"
		c.logger.Debug().Str("method", method).Str("url", req.URL).Int("status", env.Status).Str("message", env.Message).Msg("request failed")
	}
	c.metrics.ObserveRequest(method, outcome, time.Since(start))
	return env
}

func (c *Client) do(ctx context.Context, method string, req Request) Envelope {
	target, err := url.Parse(req.URL)
	if err != nil {
		return failure(0, httperrors.DefaultMessage)
	}
	if len(req.Query) > 0 {
		q := target.Query()
		for k, vals := range req.Query {
			for _, v := range vals {
				q.Add(k, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return failure(0, httperrors.DefaultMessage)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return failure(0, httperrors.DefaultMessage)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.RequiresAuth && c.tokens != nil {
		if token, ok := c.tokens.Token(ctx); ok {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return failure(0, httperrors.DefaultMessage)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return failure(resp.StatusCode, httperrors.DefaultMessage)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failure(resp.StatusCode, httperrors.MessageFrom(raw))
	}

	data, err := unwrap(raw)
	if err != nil {
		return failure(resp.StatusCode, httperrors.DefaultMessage)
	}
	return Envelope{Message: "success", Status: resp.StatusCode, Data: data}
}

// unwrap returns body.data when the body is an object with a non-null "data"
// member, otherwise the body itself.
func unwrap(raw []byte) (json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("malformed payload")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		if inner, ok := obj["data"]; ok && !bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
			return inner, nil
		}
	}
	return json.RawMessage(raw), nil
}

func failure(status int, message string) Envelope {
	return Envelope{Error: true, Status: status, Message: message}
}
