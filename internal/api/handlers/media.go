package handlers

import (
	"net/http"

	"github.com/dib506676/fast-api/internal/api/middleware"
	"github.com/dib506676/fast-api/internal/utils"
)

type MediaUploadRequest struct {
	Filename    string `json:"filename" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=127"`
}

// PresignMediaUpload godoc
// @Summary Get a presigned URL to upload a file for a blog
// @Description The client PUTs the file to upload_url with the same Content-Type. Only the blog's creator may upload.
// @Tags Media
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Blog id"
// @Param body body MediaUploadRequest true "File metadata"
// @Success 200 {object} utils.Payload{data=services.MediaUpload}
// @Failure 403 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /blogs/{id}/media [post]
func (h *Handler) PresignMediaUpload(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	var in MediaUploadRequest
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		h.fail(w, err)
		return
	}
	upload, err := h.Media.PresignUpload(r.Context(), id, middleware.CurrentUser(r.Context()).ID, in.Filename, in.ContentType)
	if err != nil {
		h.fail(w, err)
		return
	}
	utils.OK(w, http.StatusOK, "Upload URL generated", upload)
}

// MediaURL godoc
// @Summary Resolve an uploaded file to a download URL
// @Tags Media
// @Produce json
// @Param id path int true "Blog id"
// @Param name path string true "File name returned by the upload call"
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /blogs/{id}/media/{name} [get]
func (h *Handler) MediaURL(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	url, err := h.Media.DownloadURL(r.Context(), id, r.PathValue("name"))
	if err != nil {
		h.fail(w, err)
		return
	}
	utils.OK(w, http.StatusOK, "OK", map[string]string{"url": url})
}
