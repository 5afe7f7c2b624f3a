package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/url"
	"strings"
	"sync"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	fhttpcookiejar "github.com/bogdanfinn/fhttp/cookiejar"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/google/uuid"
	"github.com/jimezsa/jobseek/internal/errs"
	"github.com/jimezsa/jobseek/internal/models"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8080"
	DefaultTimeout = 15 * time.Second

	maxResponseBytes = 8 << 20
)

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, bool, error)
}

// Options configure a Client.
type Options struct {
	BaseURL string
	// Profile names a tls-client browser profile; empty uses the default.
	Profile string
	Proxies []string
	// DefaultTimeout applies to requests that do not set their own.
	DefaultTimeout time.Duration
	// MaxTimeout bounds every request at the transport level.
	MaxTimeout time.Duration
	UserAgent  string
	Rotator    *Rotator
	Logger     zerolog.Logger
}

// Request describes one API call. Body is sent as JSON unless Files is
// non-empty, in which case Fields and Files form a multipart body.
type Request struct {
	Method        string
	Path          string
	Query         url.Values
	Body          any
	Fields        []models.Field
	Files         []FilePart
	Authenticated bool
	Timeout       time.Duration
}

// FilePart is a file attached to a multipart request.
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Content     io.Reader
}

// Client talks to the job-search backend.
type Client struct {
	baseURL        string
	tokens         TokenSource
	rotator        *Rotator
	profile        profiles.ClientProfile
	transportLimit time.Duration
	defaultTimeout time.Duration
	userAgent      string
	logger         zerolog.Logger

	mu      sync.Mutex
	clients map[string]tls_client.HttpClient
}

func NewClient(opts Options, tokens TokenSource) (*Client, error) {
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https: %s", baseURL)
	}

	profile, err := resolveProfile(opts.Profile)
	if err != nil {
		return nil, err
	}

	defaultTimeout := opts.DefaultTimeout
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeout
	}
	limit := opts.MaxTimeout
	if limit < defaultTimeout {
		limit = defaultTimeout
	}

	rotator := opts.Rotator
	if rotator == nil && len(opts.Proxies) > 0 {
		rotator, err = NewRotator(opts.Proxies, 10*time.Minute, nil)
		if err != nil {
			return nil, err
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "jobseek/dev"
	}

	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		tokens:         tokens,
		rotator:        rotator,
		profile:        profile,
		transportLimit: limit + time.Second,
		defaultTimeout: defaultTimeout,
		userAgent:      userAgent,
		logger:         opts.Logger,
		clients:        map[string]tls_client.HttpClient{},
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req and decodes a 2xx JSON body into out. A nil out skips
// decoding. Failures are *errs.Error values.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	body, err := c.Send(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errs.Malformed(req.Method+" "+req.Path, err)
	}
	return nil
}

// Send issues req and returns the raw body of a 2xx response. Success
// depends on the status alone; the body may be empty or not JSON.
func (c *Client) Send(ctx context.Context, req Request) ([]byte, error) {
	op := req.Method + " " + req.Path
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)
	logger := c.logger.With().Str("request_id", requestID).Str("method", req.Method).Str("path", req.Path).Logger()

	start := time.Now()
	resp, err := c.send(httpReq)
	if err != nil {
		logger.Debug().Err(err).Dur("elapsed", time.Since(start)).Msg("api request failed")
		return nil, classify(ctx, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		logger.Debug().Err(err).Int("status", resp.StatusCode).Msg("api response read failed")
		return nil, classify(ctx, op, err)
	}
	logger.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Int("bytes", len(body)).Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.HTTPStatus(op, resp.StatusCode, extractDetail(body))
	}
	return body, nil
}

// CheckReachable reports whether GET / answers with 2xx within timeout.
func (c *Client) CheckReachable(ctx context.Context, timeout time.Duration) bool {
	err := c.Do(ctx, Request{Method: fhttp.MethodGet, Path: "/", Timeout: timeout}, nil)
	if err != nil {
		c.logger.Debug().Err(err).Msg("backend unreachable")
		return false
	}
	return true
}

func (c *Client) build(ctx context.Context, req Request) (*fhttp.Request, error) {
	op := req.Method + " " + req.Path
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case len(req.Files) > 0:
		buf, ct, err := encodeMultipart(req.Fields, req.Files)
		if err != nil {
			return nil, errs.Request(op, fmt.Errorf("encode multipart: %w", err))
		}
		body, contentType = buf, ct
	case len(req.Fields) > 0:
		buf, ct, err := encodeMultipart(req.Fields, nil)
		if err != nil {
			return nil, errs.Request(op, fmt.Errorf("encode multipart: %w", err))
		}
		body, contentType = buf, ct
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errs.Request(op, fmt.Errorf("encode body: %w", err))
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	httpReq, err := fhttp.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, errs.Request(op, fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if req.Authenticated && c.tokens != nil {
		token, ok, err := c.tokens.Token(ctx)
		if err != nil {
			if errs.KindOf(err) != errs.KindUnknown {
				return nil, err
			}
			return nil, classify(ctx, op, err)
		}
		if ok && token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return httpReq, nil
}

func (c *Client) send(req *fhttp.Request) (*fhttp.Response, error) {
	proxy := c.nextProxy()
	key := ""
	if proxy != nil {
		key = proxy.String()
	}
	hc, err := c.httpClient(key)
	if err != nil {
		return nil, err
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	if proxy != nil {
		c.rotator.Report(proxy, resp.StatusCode)
	}
	return resp, nil
}

func (c *Client) nextProxy() *url.URL {
	if c.rotator.Len() == 0 {
		return nil
	}
	proxy, err := c.rotator.Next()
	if err != nil {
		c.logger.Debug().Err(err).Msg("all proxies benched, connecting directly")
		return nil
	}
	return proxy
}

// httpClient returns the transport for a proxy, creating it on first use.
// Each proxy gets its own client so concurrent requests never share a
// mutable proxy setting.
func (c *Client) httpClient(proxy string) (tls_client.HttpClient, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if hc, ok := c.clients[proxy]; ok {
		return hc, nil
	}

	jar, _ := fhttpcookiejar.New(nil)
	options := []tls_client.HttpClientOption{
		tls_client.WithClientProfile(c.profile),
		tls_client.WithTimeoutSeconds(int(math.Ceil(c.transportLimit.Seconds()))),
		tls_client.WithCookieJar(jar),
	}
	if proxy != "" {
		options = append(options, tls_client.WithProxyUrl(proxy))
	}

	hc, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	c.clients[proxy] = hc
	return hc, nil
}

func classify(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return errs.Timeout(op, err)
	}
	return errs.Transport(op, err)
}

func encodeMultipart(fields []models.Field, files []FilePart) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for _, field := range fields {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range files {
		if file.Content == nil {
			continue
		}
		part, err := createFilePart(writer, file)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}

func createFilePart(writer *multipart.Writer, file FilePart) (io.Writer, error) {
	if file.ContentType == "" {
		return writer.CreateFormFile(file.Field, file.FileName)
	}
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(file.Field), escapeQuotes(file.FileName)),
	}
	header["Content-Type"] = []string{file.ContentType}
	return writer.CreatePart(header)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// extractDetail pulls the human-readable "detail" out of an error body. It
// understands both a plain string and a list of validation errors.
func extractDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if msg := strings.TrimSpace(item.Msg); msg != "" {
				msgs = append(msgs, msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func resolveProfile(name string) (profiles.ClientProfile, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return profiles.Chrome_120, nil
	}
	profile, ok := profiles.MappedTLSClients[name]
	if !ok {
		return profiles.ClientProfile{}, fmt.Errorf("unknown client profile: %s", name)
	}
	return profile, nil
}
