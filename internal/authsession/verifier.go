package authsession

import (
	"accessgate/pkg/domain"
	"accessgate/pkg/logger"
	"accessgate/pkg/serrors"
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Verifier validates ID tokens and extracts the user record they carry.
type Verifier interface {
	// Verify returns the user and the token expiry. Invalid tokens yield
	// serrors.ErrUnauthorized.
	Verify(ctx context.Context, idToken string) (*domain.User, time.Time, error)
}

// IssuerPrefix is prepended to the project id to form the expected issuer.
const IssuerPrefix = "https://securetoken.google.com/"

// Claims are the ID token claims the console reads.
type Claims struct {
	jwt.RegisteredClaims

	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
	Role          string `json:"role,omitempty"`
}

// TokenVerifier verifies RS256 ID tokens against a key set.
type TokenVerifier struct {
	jwks   *keyfunc.JWKS
	parser *jwt.Parser
}

var _ Verifier = (*TokenVerifier)(nil)

// NewJWKSVerifier fetches the key set at jwksURL and keeps it refreshed in the
// background until Close is called.
func NewJWKSVerifier(ctx context.Context, httpClient *http.Client, jwksURL, projectID string) (*TokenVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Client: httpClient,
		RefreshErrorHandler: func(err error) {
			logger.Warn(ctx, "could not refresh identity key set", zap.Error(err))
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not fetch identity key set: %w", err)
	}

	return newTokenVerifier(jwks, projectID), nil
}

// NewStaticVerifier verifies tokens signed by the key registered under kid.
func NewStaticVerifier(pub *rsa.PublicKey, kid, projectID string) *TokenVerifier {
	jwks := keyfunc.NewGiven(map[string]keyfunc.GivenKey{
		kid: keyfunc.NewGivenRSA(pub, keyfunc.GivenKeyOptions{Algorithm: jwt.SigningMethodRS256.Alg()}),
	})

	return newTokenVerifier(jwks, projectID)
}

func newTokenVerifier(jwks *keyfunc.JWKS, projectID string) *TokenVerifier {
	return &TokenVerifier{
		jwks: jwks,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(IssuerPrefix+projectID),
			jwt.WithAudience(projectID),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithLeeway(30*time.Second),
		),
	}
}

// Verify implements Verifier.
func (v *TokenVerifier) Verify(_ context.Context, idToken string) (*domain.User, time.Time, error) {
	var claims Claims
	if _, err := v.parser.ParseWithClaims(idToken, &claims, v.jwks.Keyfunc); err != nil {
		return nil, time.Time{}, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid id token")
	}
	if claims.Subject == "" {
		return nil, time.Time{}, serrors.With(serrors.ErrUnauthorized, "invalid id token: empty subject")
	}

	user := &domain.User{
		UID:           claims.Subject,
		Email:         claims.Email,
		DisplayName:   claims.Name,
		EmailVerified: claims.EmailVerified,
		Role:          domain.ParseRole(claims.Role),
	}

	return user, claims.ExpiresAt.Time, nil
}

// Close stops the background key set refresh.
func (v *TokenVerifier) Close() {
	v.jwks.EndBackground()
}
