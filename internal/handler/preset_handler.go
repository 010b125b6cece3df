package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceibcn/crm-api/internal/service"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
	"github.com/ceibcn/crm-api/pkg/response"
)

// PresetHandler exposes saved filter presets.
type PresetHandler struct {
	presets *service.PresetService
}

// NewPresetHandler constructs PresetHandler.
func NewPresetHandler(presets *service.PresetService) *PresetHandler {
	return &PresetHandler{presets: presets}
}

// List godoc
// @Summary List own presets
// @Tags Presets
// @Produce json
// @Security BearerAuth
// @Param entity_type query string false "Entity type"
// @Success 200 {object} response.Envelope
// @Router /presets [get]
func (h *PresetHandler) List(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	presets, err := h.presets.List(c.Request.Context(), actor.ID, c.Query("entity_type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, presets)
}

// Create godoc
// @Summary Save a filter preset
// @Tags Presets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.PresetRequest true "Preset payload"
// @Success 201 {object} response.Envelope
// @Router /presets [post]
func (h *PresetHandler) Create(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.PresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	preset, err := h.presets.Create(c.Request.Context(), actor.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, preset)
}

// Get godoc
// @Summary Fetch one preset
// @Tags Presets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Preset ID"
// @Success 200 {object} response.Envelope
// @Router /presets/{id} [get]
func (h *PresetHandler) Get(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	preset, err := h.presets.Get(c.Request.Context(), id, actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preset)
}

// Delete godoc
// @Summary Delete one of own presets
// @Tags Presets
// @Security BearerAuth
// @Param id path int true "Preset ID"
// @Success 204
// @Router /presets/{id} [delete]
func (h *PresetHandler) Delete(c *gin.Context) {
	actor := actorFromContext(c)
	if actor == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.presets.Delete(c.Request.Context(), id, actor.ID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
