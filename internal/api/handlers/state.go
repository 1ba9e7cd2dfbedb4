package handlers

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/dib506676/fast-api/internal/utils"
)

const (
	stateCookie = "oauth_state"
	stateTTL    = 10 * time.Minute
)

// newOAuthState creates a random state value and pins it to the browser with
// a short-lived cookie scoped to the Google routes.
func (h *Handler) newOAuthState(w http.ResponseWriter) (string, error) {
	state, err := utils.GenerateSecureToken(24)
	if err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int(stateTTL.Seconds()),
		Secure:   h.Config.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return state, nil
}

// checkOAuthState compares the callback's state with the cookie and clears the
// cookie either way. States are single use.
func (h *Handler) checkOAuthState(w http.ResponseWriter, r *http.Request) bool {
	c, err := r.Cookie(stateCookie)
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/auth/google",
		MaxAge:   -1,
		Secure:   h.Config.IsProduction(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if err != nil || c.Value == "" {
		return false
	}
	got := r.URL.Query().Get("state")
	return subtle.ConstantTimeCompare([]byte(got), []byte(c.Value)) == 1
}
