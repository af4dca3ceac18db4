package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/projecthub/internal/app/system/apiresp"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Identity                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Identity is the caller resolved from a verified access token. Tokens are
// issued elsewhere; the identity travels in the "sub" claim either as an
// object {user_id, username, role} or as a plain username string.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type ctxKey string

const identityKey ctxKey = "identity"

// CurrentIdentity returns the caller & "found?" flag.
func CurrentIdentity(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey).(Identity)
	return id, ok
}

func withIdentity(r *http.Request, id Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, id))
}

// WithTestIdentity injects an identity without a token. Tests only.
func WithTestIdentity(r *http.Request, id Identity) *http.Request {
	return withIdentity(r, id)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Verifier                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

var (
	ErrNoToken      = errors.New("authorization token is required")
	ErrMalformed    = errors.New("authorization header format must be Bearer {token}")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Verifier checks HS256 bearer tokens signed with a shared secret.
type Verifier struct {
	secret []byte
	log    *zap.Logger
}

func NewVerifier(secret string, log *zap.Logger) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	return &Verifier{secret: []byte(secret), log: log}, nil
}

// Verify parses and validates a raw token and extracts the identity.
func (v *Verifier) Verify(raw string) (Identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	return identityFromClaims(claims)
}

func identityFromClaims(claims jwt.MapClaims) (Identity, error) {
	switch sub := claims["sub"].(type) {
	case string:
		if sub == "" {
			return Identity{}, ErrInvalidToken
		}
		return Identity{Username: sub}, nil
	case map[string]any:
		id := Identity{}
		if n, ok := sub["user_id"].(float64); ok {
			id.UserID = int64(n)
		}
		id.Username, _ = sub["username"].(string)
		id.Role, _ = sub["role"].(string)
		if id.UserID == 0 && id.Username == "" {
			return Identity{}, ErrInvalidToken
		}
		return id, nil
	default:
		return Identity{}, ErrInvalidToken
	}
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", ErrNoToken
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrMalformed
	}
	return strings.TrimSpace(parts[1]), nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadIdentity injects the caller into context when a valid bearer token is
// present. Missing or bad tokens are not rejected here.
func (v *Verifier) LoadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw, err := bearerToken(r); err == nil {
			if id, err := v.Verify(raw); err == nil {
				r = withIdentity(r, id)
			} else {
				v.log.Debug("bearer token rejected", zap.Error(err))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireIdentity rejects requests without a verified identity with 401 and
// the standard {"success":false,"message":...} body.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentIdentity(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		msg := ErrInvalidToken.Error()
		if _, err := bearerToken(r); err != nil {
			msg = err.Error()
		}
		apiresp.Error(w, http.StatusUnauthorized, msg)
	})
}
