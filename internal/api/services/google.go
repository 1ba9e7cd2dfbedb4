package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dib506676/fast-api/internal/config"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// IdentityClaims is the subset of a verified Google ID token the service
// relies on.
type IdentityClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Audience      string `json:"aud"`
	EmailVerified bool   `json:"-"`
}

// tokenInfo is the tokeninfo response. Google sends email_verified as the
// string "true" or "false"; a JSON boolean is accepted too.
type tokenInfo struct {
	IdentityClaims
	EmailVerified json.RawMessage `json:"email_verified"`
}

func (t tokenInfo) emailVerified() bool {
	return strings.Trim(string(t.EmailVerified), `"`) == "true"
}

// IdentityVerifier checks an ID token with its issuer. A nil result means the
// token must not be trusted, whatever the reason.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) *IdentityClaims
}

// GoogleVerifier validates ID tokens against Google's tokeninfo endpoint.
type GoogleVerifier struct {
	client       *http.Client
	tokenInfoURL string
	clientID     string
	log          *zap.Logger
}

func NewGoogleVerifier(cfg config.GoogleConfig, client *http.Client, log *zap.Logger) *GoogleVerifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &GoogleVerifier{
		client:       client,
		tokenInfoURL: cfg.TokenInfoURL,
		clientID:     cfg.ClientID,
		log:          log,
	}
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) *IdentityClaims {
	claims, err := v.verify(ctx, idToken)
	if err != nil {
		v.log.Warn("google token verification failed", zap.Error(err))
		return nil
	}
	return claims
}

func (v *GoogleVerifier) verify(ctx context.Context, idToken string) (*IdentityClaims, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, errors.New("empty id token")
	}
	endpoint, err := url.Parse(v.tokenInfoURL)
	if err != nil {
		return nil, fmt.Errorf("parse tokeninfo url: %w", err)
	}
	q := endpoint.Query()
	q.Set("id_token", idToken)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("tokeninfo returned %d", resp.StatusCode)
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode tokeninfo: %w", err)
	}
	claims := info.IdentityClaims
	claims.EmailVerified = info.emailVerified()
	if v.clientID == "" || claims.Audience != v.clientID {
		return nil, fmt.Errorf("audience mismatch: %q", claims.Audience)
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New("tokeninfo missing sub or email")
	}
	if !claims.EmailVerified {
		return nil, fmt.Errorf("email %q is not verified", claims.Email)
	}
	return &claims, nil
}

// GoogleOAuth drives the redirect-based code flow. The ID token returned by
// the code exchange is checked with the same verifier as POST /auth/google.
type GoogleOAuth struct {
	config   *oauth2.Config
	verifier IdentityVerifier
}

func NewGoogleOAuth(cfg config.GoogleConfig, verifier IdentityVerifier) *GoogleOAuth {
	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		verifier: verifier,
	}
}

// WithEndpoint replaces Google's authorization and token endpoints.
func (g *GoogleOAuth) WithEndpoint(ep oauth2.Endpoint) *GoogleOAuth {
	g.config.Endpoint = ep
	return g
}

func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for verified identity claims. It
// returns nil on any failure.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) *IdentityClaims {
	if code == "" {
		return nil
	}
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil
	}
	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return nil
	}
	return g.verifier.Verify(ctx, idToken)
}
