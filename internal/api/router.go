package api

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/dib506676/fast-api/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/dib506676/fast-api/internal/api/handlers"
	"github.com/dib506676/fast-api/internal/api/middleware"
	"github.com/dib506676/fast-api/internal/api/services"
	"github.com/dib506676/fast-api/internal/config"
	"github.com/dib506676/fast-api/internal/repositories"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewDeps builds the services from config. Google and R2 integrations are
// only wired when their credentials are present.
func NewDeps(cfg config.Config, db *gorm.DB, log *zap.Logger) (handlers.Deps, error) {
	tokens, err := services.NewTokenManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		return handlers.Deps{}, fmt.Errorf("token manager: %w", err)
	}

	verifier := services.NewGoogleVerifier(cfg.Google, &http.Client{Timeout: 10 * time.Second}, log)
	blogs := services.NewBlogService(db)

	deps := handlers.Deps{
		Config:   cfg,
		DB:       db,
		Log:      log,
		Tokens:   tokens,
		Auth:     services.NewAuthService(db, verifier),
		Blogs:    blogs,
		Comments: services.NewCommentService(db),
	}

	if cfg.Google.OAuthEnabled() {
		deps.OAuth = services.NewGoogleOAuth(cfg.Google, verifier)
	}
	if cfg.R2.Enabled() {
		store, err := repositories.NewR2Store(cfg.R2)
		if err != nil {
			return handlers.Deps{}, fmt.Errorf("r2 store: %w", err)
		}
		deps.Media = services.NewMediaService(store, blogs)
	}
	return deps, nil
}

func SetupRouter(deps handlers.Deps) http.Handler {
	h := handlers.New(deps)
	authn := middleware.NewAuthenticator(h.Tokens, h.Auth, h.Log)
	protected := authn.RequireUser

	mux := http.NewServeMux()

	// ---------- PUBLIC ROUTES ----------
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /docs/", httpSwagger.WrapHandler)

	mux.HandleFunc("POST /auth/signup", h.Signup)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/google", h.GoogleLogin)
	mux.HandleFunc("GET /auth/google/login", h.GoogleRedirect)
	mux.HandleFunc("GET /auth/google/callback", h.GoogleCallback)
	mux.HandleFunc("POST /auth/logout", h.Logout)

	mux.HandleFunc("GET /users/{id}", h.GetUser)
	mux.HandleFunc("GET /blogs", h.ListBlogs)
	mux.HandleFunc("GET /blogs/{id}", h.GetBlog)
	mux.HandleFunc("GET /comments/blog/{blog_id}", h.ListComments)
	mux.HandleFunc("GET /comments/{id}", h.GetComment)

	// ---------- PROTECTED ROUTES ----------
	mux.HandleFunc("GET /users/me", protected(h.Me))
	mux.HandleFunc("PUT /users/me", protected(h.UpdateMe))

	mux.HandleFunc("POST /blogs", protected(h.CreateBlog))
	mux.HandleFunc("PUT /blogs/{id}", protected(h.UpdateBlog))
	mux.HandleFunc("DELETE /blogs/{id}", protected(h.DeleteBlog))

	mux.HandleFunc("POST /comments", protected(h.CreateComment))
	mux.HandleFunc("PUT /comments/{id}", protected(h.UpdateComment))
	mux.HandleFunc("DELETE /comments/{id}", protected(h.DeleteComment))

	if h.Media != nil {
		mux.HandleFunc("POST /blogs/{id}/media", protected(h.PresignMediaUpload))
		mux.HandleFunc("GET /blogs/{id}/media/{name}", h.MediaURL)
	}

	h.Log.Info("router initialized",
		zap.Bool("google_oauth", h.OAuth != nil),
		zap.Bool("media", h.Media != nil),
	)

	var handler http.Handler = cors.New(deps.Config.CorsConfig).Handler(mux)
	handler = middleware.Recover(h.Log)(handler)
	handler = middleware.Logger(h.Log)(handler)
	handler = middleware.RequestID(handler)
	return handler
}
