package handlers

import (
	"net/http"
	"time"

	"github.com/dib506676/fast-api/internal/api/middleware"
	"github.com/dib506676/fast-api/internal/api/services"
	"github.com/dib506676/fast-api/internal/apperr"
	"github.com/dib506676/fast-api/internal/models"
	"github.com/dib506676/fast-api/internal/utils"
	"go.uber.org/zap"
)

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,max=72"`
	FullName string `json:"full_name" validate:"max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *models.User `json:"user"`
}

var errGoogleToken = apperr.New(apperr.CodeUpstream, "Invalid Google token")

// Signup godoc
// @Summary Register with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body SignupRequest true "New account"
// @Success 201 {object} utils.Payload{data=models.User}
// @Failure 400 {object} utils.Payload
// @Router /auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var in SignupRequest
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, err)
		return
	}
	user, err := h.Auth.Register(r.Context(), in.Email, in.Password, in.FullName)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Log.Info("user registered", zap.Uint("user_id", user.ID))
	utils.OK(w, http.StatusCreated, "User registered successfully", user)
}

// readLogin accepts the OAuth2 password form (username, password) and a JSON
// body with email and password.
func readLogin(w http.ResponseWriter, r *http.Request) (LoginRequest, error) {
	var in LoginRequest
	if utils.IsJSON(r) {
		if err := utils.DecodeJSON(w, r, &in); err != nil {
			return in, err
		}
		return in, nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := r.ParseForm(); err != nil {
		return in, apperr.Wrap(err, apperr.CodeInvalid, "Invalid input")
	}
	in.Email = r.PostForm.Get("username")
	in.Password = r.PostForm.Get("password")
	if err := utils.Validate(in); err != nil {
		return in, apperr.New(apperr.CodeInvalid, "username and password are required")
	}
	return in, nil
}

// Login godoc
// @Summary Exchange email and password for an access token
// @Description Accepts application/x-www-form-urlencoded (username, password) or JSON (email, password).
// @Tags Auth
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param username formData string false "Email"
// @Param password formData string false "Password"
// @Success 200 {object} utils.Payload{data=TokenResponse}
// @Failure 400 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	in, err := readLogin(w, r)
	if err != nil {
		h.fail(w, err)
		return
	}
	user, err := h.Auth.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.startSession(w, user, "Login successful")
}

// GoogleLogin godoc
// @Summary Sign in with a Google ID token
// @Description Creates the account on first use, or links Google to an existing account with the same email.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body GoogleLoginRequest true "Google ID token"
// @Success 200 {object} utils.Payload{data=TokenResponse}
// @Failure 401 {object} utils.Payload
// @Router /auth/google [post]
func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var in GoogleLoginRequest
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, err)
		return
	}
	claims := h.Auth.VerifyExternalIdentity(r.Context(), in.IDToken)
	h.finishGoogle(w, r, claims)
}

func (h *Handler) finishGoogle(w http.ResponseWriter, r *http.Request, claims *services.IdentityClaims) {
	if claims == nil {
		h.fail(w, errGoogleToken)
		return
	}
	user, err := h.Auth.ResolveExternalIdentity(r.Context(), claims)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.startSession(w, user, "Login successful")
}

// GoogleRedirect godoc
// @Summary Start the Google OAuth code flow
// @Tags Auth
// @Success 307
// @Failure 404 {object} utils.Payload
// @Router /auth/google/login [get]
func (h *Handler) GoogleRedirect(w http.ResponseWriter, r *http.Request) {
	if h.OAuth == nil {
		utils.Fail(w, http.StatusNotFound, "Google sign-in is not configured")
		return
	}
	state, err := h.newOAuthState(w)
	if err != nil {
		h.fail(w, err)
		return
	}
	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback godoc
// @Summary Finish the Google OAuth code flow
// @Tags Auth
// @Produce json
// @Param state query string true "OAuth state"
// @Param code query string true "Authorization code"
// @Success 200 {object} utils.Payload{data=TokenResponse}
// @Failure 400 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /auth/google/callback [get]
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.OAuth == nil {
		utils.Fail(w, http.StatusNotFound, "Google sign-in is not configured")
		return
	}
	if !h.checkOAuthState(w, r) {
		utils.Fail(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	if msg := r.URL.Query().Get("error"); msg != "" {
		h.Log.Info("google sign-in cancelled", zap.String("error", msg))
		h.fail(w, errGoogleToken)
		return
	}
	claims := h.OAuth.Exchange(r.Context(), r.URL.Query().Get("code"))
	h.finishGoogle(w, r, claims)
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setTokenCookie(w, "", -1)
	utils.OK(w, http.StatusOK, "Logged out successfully", nil)
}

// startSession issues an access token, mirrors it into the token cookie and
// writes the token response.
func (h *Handler) startSession(w http.ResponseWriter, user *models.User, message string) {
	token, expiresAt, err := h.Tokens.Issue(user.ID)
	if err != nil {
		h.fail(w, apperr.Wrap(err, apperr.CodeInternal, "issue token"))
		return
	}
	ttl := time.Until(expiresAt)
	h.setTokenCookie(w, token, int(ttl.Seconds()))
	utils.OK(w, http.StatusOK, message, TokenResponse{
		AccessToken: token,
		TokenType:   services.TokenType,
		ExpiresIn:   int64(h.Tokens.TTL().Seconds()),
		User:        user,
	})
}

func (h *Handler) setTokenCookie(w http.ResponseWriter, value string, maxAge int) {
	isProd := h.Config.IsProduction()

	// cross-site frontends need SameSite=None in production
	sameSite := http.SameSiteLaxMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   isProd,
		HttpOnly: true,
		SameSite: sameSite,
	})
}
