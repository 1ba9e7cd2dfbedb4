package handlers

import (
	"net/http"

	"github.com/dib506676/fast-api/internal/api/middleware"
	"github.com/dib506676/fast-api/internal/apperr"
	"github.com/dib506676/fast-api/internal/models"
	"github.com/dib506676/fast-api/internal/utils"
)

// Me godoc
// @Summary Current user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=models.User}
// @Failure 401 {object} utils.Payload
// @Router /users/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	utils.OK(w, http.StatusOK, "OK", middleware.CurrentUser(r.Context()))
}

// UpdateMe godoc
// @Summary Update the current user's profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body models.UserPatch true "Fields to change"
// @Success 200 {object} utils.Payload{data=models.User}
// @Failure 400 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /users/me [put]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var patch models.UserPatch
	if err := utils.DecodeJSON(w, r, &patch); err != nil {
		h.fail(w, err)
		return
	}
	user, err := h.Auth.UpdateProfile(r.Context(), middleware.CurrentUser(r.Context()), patch)
	if err != nil {
		h.fail(w, err)
		return
	}
	utils.OK(w, http.StatusOK, "Profile updated", user)
}

// GetUser godoc
// @Summary Public profile of a user
// @Tags Users
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} utils.Payload{data=models.User}
// @Failure 404 {object} utils.Payload
// @Router /users/{id} [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, err)
		return
	}
	user, err := h.Auth.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	if user == nil {
		h.fail(w, apperr.Newf(apperr.CodeNotFound, "User with id %d not found", id))
		return
	}
	utils.OK(w, http.StatusOK, "OK", user)
}
