// Package issues implements the issue tracker lookup used by the bot.
// A lookup is one authenticated GET against the tracker's REST API with a
// bounded timeout. There are no retries and no caching.
package issues

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/edgard/issuebot/internal/credential"
)

const (
	DefaultBaseURL   = "https://api.github.com"
	DefaultTimeout   = 5 * time.Second
	DefaultUserAgent = "issuebot"

	acceptHeader   = "application/vnd.github.v3+json"
	maxBodySize    = 1 << 20
	maxExcerptSize = 200
)

// Issue is a successfully resolved issue.
type Issue struct {
	Number int
	URL    string
	State  string
	Title  string
	Body   string
}

// Config selects the repository whose issues are looked up.
type Config struct {
	BaseURL   string
	Owner     string
	Repo      string
	Timeout   time.Duration
	UserAgent string
}

// Client resolves issue numbers against the tracker API.
// It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      credential.Token
	timeout    time.Duration
	userAgent  string
	log        *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is left untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient builds a Client for the repository in cfg, authenticating with token.
func NewClient(cfg Config, token credential.Token, logger *slog.Logger, opts ...Option) (*Client, error) {
	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("issue tracker owner and repo are required")
	}
	if token.IsZero() {
		return nil, fmt.Errorf("issue tracker token is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid issue tracker base url %q: %w", baseURL, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint: fmt.Sprintf("%s/repos/%s/%s/issues",
			strings.TrimRight(baseURL, "/"), url.PathEscape(cfg.Owner), url.PathEscape(cfg.Repo)),
		token:     token,
		timeout:   timeout,
		userAgent: userAgent,
		log:       logger.With("component", "issue_client"),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.log.Info("Issue client initialized", "endpoint", c.endpoint, "timeout", timeout)
	return c, nil
}

// Lookup fetches issue id. Every failure is returned as a *LookupError.
func (c *Client) Lookup(ctx context.Context, id int) (Issue, error) {
	if id < 0 {
		return Issue{}, newError(KindRequest, id, fmt.Sprintf("invalid issue number %d", id), nil)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := c.endpoint + "/" + strconv.Itoa(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Issue{}, newError(KindRequest, id, "", err)
	}
	req.Header.Set("Authorization", "token "+c.token.Reveal())
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "Issue lookup request failed", "issue_id", id, "error", err, "duration", time.Since(start))
		return Issue{}, newError(KindTransport, id, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Issue{}, newError(KindTransport, id, fmt.Sprintf("failed to read response body: %v", err), err)
	}

	c.log.DebugContext(ctx, "Issue lookup response received",
		"issue_id", id, "status", resp.StatusCode, "bytes", len(data), "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := KindStatus
		if resp.StatusCode == http.StatusNotFound {
			kind = KindNotFound
		}
		lookupErr := newError(kind, id, statusMessage(resp.Status, data), nil)
		lookupErr.StatusCode = resp.StatusCode
		return Issue{}, lookupErr
	}

	issue, err := decodeIssue(data)
	if err != nil {
		lookupErr := newError(KindDecode, id, err.Error(), err)
		lookupErr.StatusCode = resp.StatusCode
		return Issue{}, lookupErr
	}
	return issue, nil
}

func statusMessage(status string, body []byte) string {
	excerpt := excerpt(body)
	if excerpt == "" {
		return status
	}
	return status + ": " + excerpt
}

// excerpt collapses whitespace and truncates body to maxExcerptSize bytes
// without splitting a UTF-8 sequence.
func excerpt(body []byte) string {
	text := strings.Join(strings.Fields(string(body)), " ")
	if len(text) <= maxExcerptSize {
		return text
	}
	cut := maxExcerptSize
	for cut > 0 && !isRuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
