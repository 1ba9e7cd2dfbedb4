package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dib506676/fast-api/internal/apperr"
	"github.com/dib506676/fast-api/internal/models"
	"github.com/dib506676/fast-api/internal/utils"
	"go.uber.org/zap"
)

type contextKey string

const userKey contextKey = "user"

// TokenCookie is the cookie login sets alongside the JSON token.
const TokenCookie = "token"

type TokenParser interface {
	Parse(token string) (uint, error)
}

type UserLoader interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

type Authenticator struct {
	tokens TokenParser
	users  UserLoader
	log    *zap.Logger
}

func NewAuthenticator(tokens TokenParser, users UserLoader, log *zap.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, log: log}
}

// NormalizeToken strips an optional "Bearer " prefix.
func NormalizeToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// tokenFromRequest prefers the Authorization header. The cookie is only
// honoured on safe methods; writes must carry the bearer header.
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		return NormalizeToken(h)
	}
	if !safeMethod(r.Method) {
		return ""
	}
	if c, err := r.Cookie(TokenCookie); err == nil {
		return c.Value
	}
	return ""
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Resolve returns the user behind the request's token. Every token or lookup
// miss is ErrUnauthorized; only a failing store surfaces as an internal error.
func (a *Authenticator) Resolve(r *http.Request) (*models.User, error) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return nil, apperr.ErrUnauthorized
	}
	userID, err := a.tokens.Parse(raw)
	if err != nil {
		a.log.Debug("rejected token", zap.Error(err))
		return nil, apperr.ErrUnauthorized
	}
	user, err := a.users.GetByID(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrUnauthorized
	}
	return user, nil
}

// RequireUser rejects requests without a valid token and stores the user in
// the request context.
func (a *Authenticator) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := a.Resolve(r)
		if err != nil {
			utils.WriteError(w, a.log, err)
			return
		}
		next(w, r.WithContext(WithUser(r.Context(), user)))
	}
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// CurrentUser is only non-nil behind RequireUser.
func CurrentUser(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}
