// Package auth verifies bearer tokens and puts the caller's identity on the
// request context. Credential checks end here; handlers only compare the
// identity against article ownership.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"

	"github.com/SergeyParamoshkin/news/internal/errresponse"
	"github.com/SergeyParamoshkin/news/internal/logging"
	"github.com/SergeyParamoshkin/news/internal/user"
)

// TokenHeader is the legacy header some clients still send instead of
// Authorization.
const TokenHeader = "X-Auth-Token"

var (
	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carried by an access token.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	secret []byte
	now    func() time.Time
}

func New(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for id valid for ttl.
func (a *Authenticator) Issue(id user.Identity, ttl time.Duration) (string, error) {
	now := a.now()
	claims := Claims{
		UserID: id.ID,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify parses token and returns the identity it carries.
func (a *Authenticator) Verify(token string) (user.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return user.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return user.Identity{}, fmt.Errorf("%w: missing user id", ErrInvalidToken)
	}

	return user.Identity{ID: claims.UserID, Role: claims.Role}, nil
}

// Verifier resolves the caller when a valid token is present. Anything else
// passes through anonymously; routes that need a caller sit behind
// RequireUser.
func (a *Authenticator) Verifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractToken(r)
		if err != nil {
			next.ServeHTTP(w, r)

			return
		}

		id, err := a.Verify(token)
		if err != nil {
			logging.FromContext(r.Context()).Debugw("ignoring bearer token", "err", err)
			next.ServeHTTP(w, r)

			return
		}

		next.ServeHTTP(w, r.WithContext(user.NewContext(r.Context(), id)))
	})
}

// RequireUser rejects requests that reached it without an identity.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := user.FromContext(r.Context()); !ok {
			_ = render.Render(w, r, errresponse.ErrUnauthorized(ErrNoToken))

			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		if tok := strings.TrimSpace(r.Header.Get(TokenHeader)); tok != "" {
			return tok, nil
		}

		return "", ErrNoToken
	}

	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("%w: expected bearer scheme", ErrInvalidToken)
	}

	return fields[1], nil
}
