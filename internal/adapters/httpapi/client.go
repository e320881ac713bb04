// Package httpapi is the REST client for the RenExtract backend.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "renextract/internal/pkg/errors"
	"renextract/internal/ports"
)

// Default timeouts. File dialogs wait for the user and get longer.
const (
	DefaultTimeout       = 10 * time.Second
	DefaultDialogTimeout = 60 * time.Second
)

// Client talks JSON to the backend under a base URL such as
// http://127.0.0.1:5000/api.
type Client struct {
	baseURL       string
	http          *http.Client
	timeout       time.Duration
	dialogTimeout time.Duration
	prompter      ports.Prompter
	log           *zap.Logger
}

var _ ports.Backend = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeouts sets the default and the file-dialog timeouts.
func WithTimeouts(timeout, dialog time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
		if dialog > 0 {
			c.dialogTimeout = dialog
		}
	}
}

// WithPrompter sets who is asked for a path when the backend cannot open
// a native dialog.
func WithPrompter(p ports.Prompter) Option {
	return func(c *Client) { c.prompter = p }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		http:          http.DefaultClient,
		timeout:       DefaultTimeout,
		dialogTimeout: DefaultDialogTimeout,
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the part every backend answer may carry.
type envelope struct {
	Success       *bool  `json:"success"`
	Error         string `json:"error"`
	Message       string `json:"message"`
	WSLMode       bool   `json:"wsl_mode"`
	SuggestedPath string `json:"suggested_path"`
}

func (e envelope) rejected() bool { return e.Success != nil && !*e.Success }

func (e envelope) wsl() bool { return e.WSLMode || e.Error == "WSL_MODE" }

// response is a raw answer before interpretation.
type response struct {
	status int
	body   []byte
	env    envelope
	isJSON bool
}

// roundTrip sends one request. Only transport failures are errors here.
func (c *Client) roundTrip(ctx context.Context, method, path string, in any, timeout time.Duration) (*response, error) {
	endpoint := method + " " + path

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeDecode, "encode request").WithEndpoint(endpoint)
		}
		body = bytes.NewReader(raw)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeTransport, "build request").WithEndpoint(endpoint)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("endpoint", endpoint), zap.Error(err))
		if isTimeout(err) {
			err = fmt.Errorf("timeout of %dms exceeded: %w", timeout.Milliseconds(), err)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeTransport, "request failed").WithEndpoint(endpoint)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeTransport, "read response").WithEndpoint(endpoint)
	}
	c.log.Debug("request done",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	out := &response{status: resp.StatusCode, body: raw}
	if err := json.Unmarshal(raw, &out.env); err == nil {
		out.isJSON = true
	}
	return out, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// interpret maps a raw answer to out or to an AppError.
func (c *Client) interpret(method, path string, r *response, out any) error {
	endpoint := method + " " + path

	if r.isJSON && (r.env.rejected() || r.env.Error != "") {
		return apperrors.Rejected(r.env.Error).WithEndpoint(endpoint).WithStatus(r.status)
	}
	if r.status < 200 || r.status > 299 {
		text := strings.TrimSpace(string(r.body))
		if len(text) > 200 {
			text = text[:200]
		}
		msg := fmt.Sprintf("HTTP %d: %s", r.status, http.StatusText(r.status))
		if text != "" {
			msg += ": " + text
		}
		return apperrors.New(apperrors.CodeHTTPStatus, msg).WithEndpoint(endpoint).WithStatus(r.status)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(r.body, out); err != nil {
		return apperrors.Wrap(err, apperrors.CodeDecode, "decode response").WithEndpoint(endpoint).WithStatus(r.status)
	}
	return nil
}

// call sends in and decodes the answer into out with the default timeout.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	r, err := c.roundTrip(ctx, method, path, in, c.timeout)
	if err != nil {
		return err
	}
	return c.interpret(method, path, r, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.call(ctx, http.MethodPost, path, in, out)
}
