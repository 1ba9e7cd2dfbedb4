package handlers

import (
	"net/http"

	"github.com/dib506676/fast-api/internal/api/middleware"
	"github.com/dib506676/fast-api/internal/apperr"
	"github.com/dib506676/fast-api/internal/models"
	"github.com/dib506676/fast-api/internal/utils"
)

// CreateComment godoc
// @Summary Comment on a blog
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.CommentInput true "Comment"
// @Success 201 {object} utils.Payload{data=models.Comment}
// @Failure 401 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /comments [post]
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var in models.CommentInput
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, err)
		return
	}
	comment, err := h.Comments.Create(r.Context(), in, middleware.CurrentUser(r.Context()).ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	utils.OK(w, http.StatusCreated, "Comment created", comment)
}

// ListComments godoc
// @Summary Comments of a blog, oldest first
// @Tags Comments
// @Produce json
// @Param blog_id path int true "Blog id"
// @Success 200 {object} utils.Payload{data=[]models.Comment}
// @Router /comments/blog/{blog_id} [get]
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	blogID, err := pathID(r, "blog_id")
	if err != nil {
		h.fail(w, err)
		return
	}
	comments, err := h.Comments.ListByBlog(r.Context(), blogID)
	if err != nil {
		h.fail(w, err)
		return
	}
	utils.OK(w, http.StatusOK, "OK", comments)
}

// GetComment godoc
// @Summary Get a comment
// @Tags Comments
// @Produce json
// @Param id path int true "Comment id"
// @Success 200 {object} utils.Payload{data=models.Comment}
// @Failure 404 {object} utils.Payload
// @Router /comments/{id} [get]
func (h *Handler) GetComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	comment, err := h.Comments.Get(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	if comment == nil {
		h.fail(w, apperr.Newf(apperr.CodeNotFound, "Comment with id %d not found", id))
		return
	}
	utils.OK(w, http.StatusOK, "OK", comment)
}

// UpdateComment godoc
// @Summary Replace a comment's content
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment id"
// @Param body body models.CommentUpdate true "New content"
// @Success 200 {object} utils.Payload{data=models.Comment}
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /comments/{id} [put]
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	var in models.CommentUpdate
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, err)
		return
	}
	comment, err := h.Comments.Update(r.Context(), id, in.Content, middleware.CurrentUser(r.Context()).ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	utils.OK(w, http.StatusOK, "Comment updated", comment)
}

// DeleteComment godoc
// @Summary Delete a comment
// @Tags Comments
// @Security BearerAuth
// @Param id path int true "Comment id"
// @Success 204
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /comments/{id} [delete]
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	if err := h.Comments.Delete(r.Context(), id, middleware.CurrentUser(r.Context()).ID); err != nil {
		h.fail(w, err)
		return
	}
	utils.NoContent(w)
}
