// Package recaptcha verifies bot-mitigation tokens issued to the browser by
// the reCAPTCHA widget.  A token is accepted at most once.
package recaptcha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is Google's server-side verification URL.
const DefaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

var (
	// ErrMissingToken means the client never obtained a token.  No remote
	// call is made in that case.
	ErrMissingToken = errors.New("recaptcha: token missing")
	// ErrRejected means the provider did not accept the token (invalid,
	// expired or scored below the threshold).
	ErrRejected = errors.New("recaptcha: token rejected")
	// ErrReplayed means the token was already used for a submission.
	ErrReplayed = errors.New("recaptcha: token already used")
)

// Verifier checks a token from a form submission.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
}

// Result is the provider's answer.
type Result struct {
	Success     bool     `json:"success"`
	Score       float64  `json:"score"`
	Action      string   `json:"action"`
	Hostname    string   `json:"hostname"`
	ChallengeTS string   `json:"challenge_ts"`
	ErrorCodes  []string `json:"error-codes"`
}

// Client verifies tokens against the siteverify API.
type Client struct {
	secret   string
	endpoint string
	minScore float64
	http     *http.Client
	guard    Guard
}

// Option customises a Client.
type Option func(*Client)

// WithEndpoint points the client at another verification URL.
func WithEndpoint(u string) Option { return func(c *Client) { c.endpoint = u } }

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithGuard replaces the in-memory replay guard.
func WithGuard(g Guard) Option { return func(c *Client) { c.guard = g } }

// New returns a Client.  minScore only applies to v3 tokens, which carry a
// score; v2 answers have none and pass on success alone.
func New(secret string, minScore float64, opts ...Option) *Client {
	c := &Client{
		secret:   secret,
		endpoint: DefaultEndpoint,
		minScore: minScore,
		http:     &http.Client{Timeout: 5 * time.Second},
		guard:    NewMemoryGuard(10 * time.Minute),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Verify claims the token and asks the provider about it.  The claim is
// made first, so a token that failed remotely is still spent.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingToken
	}
	fresh, err := c.guard.Claim(ctx, token)
	if err != nil {
		return fmt.Errorf("recaptcha: replay guard: %w", err)
	}
	if !fresh {
		return ErrReplayed
	}

	res, err := c.siteverify(ctx, token, remoteIP)
	if err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("%w: %s", ErrRejected, strings.Join(res.ErrorCodes, ","))
	}
	if res.Score > 0 && res.Score < c.minScore {
		return fmt.Errorf("%w: score %.2f", ErrRejected, res.Score)
	}
	return nil
}

func (c *Client) siteverify(ctx context.Context, token, remoteIP string) (Result, error) {
	form := url.Values{"secret": {c.secret}, "response": {token}}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("recaptcha: siteverify: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("recaptcha: siteverify status %d", resp.StatusCode)
	}
	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return Result{}, fmt.Errorf("recaptcha: decode: %w", err)
	}
	return res, nil
}
