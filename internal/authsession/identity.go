package authsession

import (
	"accessgate/pkg/metrics"
	"accessgate/pkg/serrors"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tokens is the token pair issued by the identity service.
type Tokens struct {
	IDToken      string
	RefreshToken string
}

// IdentityClient exchanges credentials for tokens.
type IdentityClient interface {
	// SignInWithPassword authenticates email and password. Rejected credentials
	// yield serrors.ErrUnauthorized.
	SignInWithPassword(ctx context.Context, email, password string) (Tokens, error)
	// Refresh exchanges a refresh token for a fresh token pair. A revoked or
	// expired refresh token yields serrors.ErrUnauthorized.
	Refresh(ctx context.Context, refreshToken string) (Tokens, error)
}

// Identity service operations, used as span names and metric labels.
const (
	opSignIn  = "sign_in"
	opRefresh = "refresh"
)

// Identity request outcomes.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// ClientOptions configures a Client.
type ClientOptions struct {
	// APIKey is sent as the key query parameter on every request.
	APIKey string
	// IdentityURL is the Identity Toolkit base URL.
	IdentityURL string
	// TokenURL is the Secure Token service base URL.
	TokenURL string
}

// Client talks to the Identity Toolkit and Secure Token REST APIs. It is safe
// for concurrent use.
type Client struct {
	httpClient *http.Client
	opts       ClientOptions
	tracer     trace.Tracer
}

var _ IdentityClient = (*Client)(nil)

// NewClient constructs a Client that sends requests with httpClient.
func NewClient(httpClient *http.Client, opts ClientOptions) *Client {
	opts.IdentityURL = strings.TrimRight(opts.IdentityURL, "/")
	opts.TokenURL = strings.TrimRight(opts.TokenURL, "/")

	return &Client{
		httpClient: httpClient,
		opts:       opts,
		tracer:     otel.Tracer("accessgate/internal/authsession"),
	}
}

// SignInWithPassword calls accounts:signInWithPassword.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Tokens, error) {
	type signInReq struct {
		Email             string `json:"email"`
		Password          string `json:"password"`
		ReturnSecureToken bool   `json:"returnSecureToken"`
	}
	body, err := json.Marshal(signInReq{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return Tokens{}, fmt.Errorf("could not marshal request: %w", err)
	}

	var rs struct {
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
	}
	endpoint := c.opts.IdentityURL + "/v1/accounts:signInWithPassword?key=" + url.QueryEscape(c.opts.APIKey)
	if err := c.call(ctx, opSignIn, endpoint, "application/json", string(body), &rs); err != nil {
		return Tokens{}, err
	}

	return Tokens{IDToken: rs.IDToken, RefreshToken: rs.RefreshToken}, nil
}

// Refresh calls the Secure Token endpoint with grant_type=refresh_token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	var rs struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
	}
	endpoint := c.opts.TokenURL + "/v1/token?key=" + url.QueryEscape(c.opts.APIKey)
	if err := c.call(ctx, opRefresh, endpoint, "application/x-www-form-urlencoded", form.Encode(), &rs); err != nil {
		return Tokens{}, err
	}

	return Tokens{IDToken: rs.IDToken, RefreshToken: rs.RefreshToken}, nil
}

func (c *Client) call(ctx context.Context, op, endpoint, contentType, body string, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "identity."+op, trace.WithSpanKind(trace.SpanKindClient))
	defer func() {
		outcome := outcomeOK
		switch {
		case errors.Is(err, serrors.ErrUnauthorized):
			outcome = outcomeRejected
		case err != nil:
			outcome = outcomeError
		}
		metrics.IdentityRequests.WithLabelValues(op, outcome).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return serrors.Wrap(serrors.ErrUnavailable, err, "could not send request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return identityError(resp.StatusCode, b)
	}

	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}

	return nil
}

// identityError maps the service error body {"error":{"message":"CODE : detail"}}
// onto a semantic error kind.
func identityError(status int, body []byte) error {
	var rs struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &rs)
	code, _, _ := strings.Cut(rs.Error.Message, " ")
	code = strings.TrimSpace(code)

	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED", "USER_NOT_FOUND",
		"INVALID_REFRESH_TOKEN", "TOKEN_EXPIRED", "INVALID_ID_TOKEN", "INVALID_EMAIL":
		return serrors.With(serrors.ErrUnauthorized, "identity service rejected credentials: %s", code)
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return serrors.With(serrors.ErrRateLimited, "identity service rate limited: %s", code)
	}

	switch {
	case status == http.StatusTooManyRequests:
		return serrors.With(serrors.ErrRateLimited, "identity service rate limited")
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return serrors.With(serrors.ErrUnauthorized, "identity service rejected request: %d", status)
	case status >= 500:
		return serrors.With(serrors.ErrUnavailable, "identity service failed: %d %s", status, strings.TrimSpace(string(body)))
	}

	return fmt.Errorf("identity request failed: %d %s", status, strings.TrimSpace(string(body)))
}
