// Package apiclient is the shared HTTP client used by every resource module
// to talk to the ferry REST backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/spec-kit/ferry-admin/pkg/util"
)

const maxErrorBody = 64 << 10

// Observer receives one callback per backend round trip.
type Observer interface {
	ObserveBackendCall(resource string, status int, duration time.Duration)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	Logger     *zap.Logger
	Observer   Observer
}

// Client issues JSON and multipart requests against the backend.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	logger    *zap.Logger
	observer  Observer
}

// New builds a client. A nil HTTPClient gets a dedicated one bounded by Timeout.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      httpClient,
		userAgent: opts.UserAgent,
		logger:    logger,
		observer:  opts.Observer,
	}
}

// File is a single multipart upload.
type File struct {
	Field       string
	FileName    string
	ContentType string
	Content     io.Reader
}

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Token  string
	Body   any
	File   *File
	Fields map[string]string
}

// Get decodes GET path into out.
func (c *Client) Get(ctx context.Context, token, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query, Token: token}, out)
}

// Send issues a JSON request with an optional body.
func (c *Client) Send(ctx context.Context, token, method, path string, body, out any) error {
	return c.Do(ctx, Request{Method: method, Path: path, Token: token, Body: body}, out)
}

// Upload posts a multipart form carrying file.
func (c *Client) Upload(ctx context.Context, token, path string, file File, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Token: token, File: &file}, out)
}

// Do performs req and decodes a successful JSON response into out, which may be nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	started := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.observe(req.Path, 0, time.Since(started))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Warn("backend request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return apperrors.NewBackendUnavailable(err)
	}
	defer resp.Body.Close()
	c.observe(req.Path, resp.StatusCode, time.Since(started))

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.NewBackendUnavailable(fmt.Errorf("decode %s %s: %w", req.Method, req.Path, err))
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.File != nil:
		buf, ct, err := encodeMultipart(req.File, req.Fields)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case req.Body != nil:
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", req.Method, req.Path, err)
		}
		body, contentType = bytes.NewReader(payload), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		httpReq.Header.Set("X-Request-Id", id)
	}
	return httpReq, nil
}

func encodeMultipart(file *File, fields map[string]string) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", err
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(file.Field), escapeQuotes(file.FileName)))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return nil, "", fmt.Errorf("copy upload %s: %w", file.FileName, err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func (c *Client) observe(path string, status int, d time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveBackendCall(resourceOf(path), status, d)
}

// resourceOf reduces "/users/5/restore" to "users" so metric labels stay bounded.
func resourceOf(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "root"
	}
	return path
}
