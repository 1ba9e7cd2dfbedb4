package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dib506676/fast-api/internal/api/services"
	"github.com/dib506676/fast-api/internal/apperr"
	"github.com/dib506676/fast-api/internal/config"
	"github.com/dib506676/fast-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer needs. Media and OAuth are nil when their
// integrations are not configured.
type Deps struct {
	Config   config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	Tokens   *services.TokenManager
	Auth     *services.AuthService
	Blogs    *services.BlogService
	Comments *services.CommentService
	Media    *services.MediaService
	OAuth    *services.GoogleOAuth
}

type Handler struct {
	Deps
}

func New(d Deps) *Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Handler{Deps: d}
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	utils.WriteError(w, h.Log, err)
}

// pathID parses a positive integer path value.
func pathID(r *http.Request, name string) (uint, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.Newf(apperr.CodeInvalid, "%s must be a positive integer", name)
	}
	return uint(id), nil
}

// Root godoc
// @Summary API information
// @Tags Meta
// @Produce json
// @Success 200 {object} utils.Payload
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	utils.OK(w, http.StatusOK, "Welcome to "+h.Config.ProjectName, map[string]string{
		"name":    h.Config.ProjectName,
		"version": h.Config.Version,
		"docs":    "/docs/",
	})
}

// Health godoc
// @Summary Liveness and database check
// @Tags Meta
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 503 {object} utils.Payload
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		sqlDB, err := h.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			h.Log.Warn("health check failed", zap.Error(err))
			utils.Fail(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	utils.OK(w, http.StatusOK, "OK", map[string]string{"status": "ok"})
}
