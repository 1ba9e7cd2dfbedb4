package handlers

import (
	"net/http"

	"github.com/dib506676/fast-api/internal/api/middleware"
	"github.com/dib506676/fast-api/internal/apperr"
	"github.com/dib506676/fast-api/internal/models"
	"github.com/dib506676/fast-api/internal/utils"
	"go.uber.org/zap"
)

// ListBlogs godoc
// @Summary List published blogs, newest first
// @Tags Blogs
// @Produce json
// @Param skip query int false "Rows to skip" default(0)
// @Param limit query int false "Page size (1-100)" default(100)
// @Success 200 {object} utils.Payload{data=[]models.Blog}
// @Failure 400 {object} utils.Payload
// @Router /blogs [get]
func (h *Handler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := utils.ParseWindow(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	blogs, err := h.Blogs.List(r.Context(), skip, limit)
	if err != nil {
		h.fail(w, err)
		return
	}
	utils.OK(w, http.StatusOK, "OK", blogs)
}

// GetBlog godoc
// @Summary Get a blog with its creator and comments
// @Tags Blogs
// @Produce json
// @Param id path int true "Blog id"
// @Success 200 {object} utils.Payload{data=models.Blog}
// @Failure 404 {object} utils.Payload
// @Router /blogs/{id} [get]
func (h *Handler) GetBlog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	blog, err := h.Blogs.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	if blog == nil {
		h.fail(w, apperr.Newf(apperr.CodeNotFound, "Blog with id %d not found", id))
		return
	}
	utils.OK(w, http.StatusOK, "OK", blog)
}

// CreateBlog godoc
// @Summary Create a blog owned by the current user
// @Tags Blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.BlogInput true "Blog"
// @Success 201 {object} utils.Payload{data=models.Blog}
// @Failure 400 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /blogs [post]
func (h *Handler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	var in models.BlogInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, err)
		return
	}
	user := middleware.CurrentUser(r.Context())
	blog, err := h.Blogs.Create(r.Context(), in, user.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.Log.Info("blog created", zap.Uint("blog_id", blog.ID), zap.Uint("user_id", user.ID))
	utils.OK(w, http.StatusCreated, "Blog created", blog)
}

// UpdateBlog godoc
// @Summary Partially update a blog
// @Description Only fields present in the body are written. Only the creator may update.
// @Tags Blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Blog id"
// @Param body body models.BlogPatch true "Fields to change"
// @Success 200 {object} utils.Payload{data=models.Blog}
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /blogs/{id} [put]
func (h *Handler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	var patch models.BlogPatch
	if err := utils.DecodeJSON(w, r, &patch); err != nil {
		h.fail(w, err)
		return
	}
	blog, err := h.Blogs.Update(r.Context(), id, patch, middleware.CurrentUser(r.Context()).ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	utils.OK(w, http.StatusOK, "Blog updated", blog)
}

// DeleteBlog godoc
// @Summary Delete a blog and its comments
// @Tags Blogs
// @Security BearerAuth
// @Param id path int true "Blog id"
// @Success 204
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /blogs/{id} [delete]
func (h *Handler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	user := middleware.CurrentUser(r.Context())
	if err := h.Blogs.Delete(r.Context(), id, user.ID); err != nil {
		h.fail(w, err)
		return
	}
	h.Log.Info("blog deleted", zap.Uint("blog_id", id), zap.Uint("user_id", user.ID))
	utils.NoContent(w)
}
