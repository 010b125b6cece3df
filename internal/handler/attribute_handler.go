package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceibcn/crm-api/internal/service"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
	"github.com/ceibcn/crm-api/pkg/response"
)

// AttributeHandler exposes the dynamic attribute registry and per-person
// values.
type AttributeHandler struct {
	attributes *service.AttributeService
}

// NewAttributeHandler constructs AttributeHandler.
func NewAttributeHandler(attributes *service.AttributeService) *AttributeHandler {
	return &AttributeHandler{attributes: attributes}
}

// List godoc
// @Summary List registered attributes
// @Tags Attributes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /attributes [get]
func (h *AttributeHandler) List(c *gin.Context) {
	attrs, err := h.attributes.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, attrs)
}

// Create godoc
// @Summary Register an attribute
// @Tags Attributes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.AttributeRequest true "Attribute payload"
// @Success 201 {object} response.Envelope
// @Router /attributes [post]
func (h *AttributeHandler) Create(c *gin.Context) {
	var req service.AttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	attr, err := h.attributes.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, attr)
}

// Delete godoc
// @Summary Delete an attribute and its values
// @Tags Attributes
// @Security BearerAuth
// @Param id path int true "Attribute ID"
// @Success 204
// @Router /attributes/{id} [delete]
func (h *AttributeHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.attributes.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetValue godoc
// @Summary Set an attribute value on a person
// @Tags Attributes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Person ID"
// @Param payload body service.AttributeValueRequest true "Value payload"
// @Success 200 {object} response.Envelope
// @Router /persons/{id}/attributes [put]
func (h *AttributeHandler) SetValue(c *gin.Context) {
	personID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.AttributeValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if err := h.attributes.SetValue(c.Request.Context(), personID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"person_id": personID, "name": req.Name, "value": req.Value})
}

// DeleteValue godoc
// @Summary Remove an attribute value from a person
// @Tags Attributes
// @Security BearerAuth
// @Param id path int true "Person ID"
// @Param name path string true "Attribute name"
// @Success 204
// @Router /persons/{id}/attributes/{name} [delete]
func (h *AttributeHandler) DeleteValue(c *gin.Context) {
	personID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.attributes.DeleteValue(c.Request.Context(), personID, c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
