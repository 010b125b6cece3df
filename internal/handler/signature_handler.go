package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceibcn/crm-api/internal/service"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
	"github.com/ceibcn/crm-api/pkg/response"
)

// SignatureHandler exposes shared email signature management.
type SignatureHandler struct {
	signatures *service.SignatureService
}

// NewSignatureHandler constructs SignatureHandler.
func NewSignatureHandler(signatures *service.SignatureService) *SignatureHandler {
	return &SignatureHandler{signatures: signatures}
}

// List godoc
// @Summary List signatures
// @Tags Signatures
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /signatures [get]
func (h *SignatureHandler) List(c *gin.Context) {
	signatures, err := h.signatures.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, signatures)
}

// Get godoc
// @Summary Signature detail
// @Tags Signatures
// @Produce json
// @Security BearerAuth
// @Param id path int true "Signature ID"
// @Success 200 {object} response.Envelope
// @Router /signatures/{id} [get]
func (h *SignatureHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	signature, err := h.signatures.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, signature)
}

// Create godoc
// @Summary Create signature
// @Tags Signatures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.SignatureRequest true "Signature payload"
// @Success 201 {object} response.Envelope
// @Router /signatures [post]
func (h *SignatureHandler) Create(c *gin.Context) {
	var req service.SignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	signature, err := h.signatures.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, signature)
}

// Update godoc
// @Summary Update signature
// @Tags Signatures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Signature ID"
// @Param payload body service.SignatureRequest true "Signature payload"
// @Success 200 {object} response.Envelope
// @Router /signatures/{id} [put]
func (h *SignatureHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.SignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	signature, err := h.signatures.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, signature)
}

// SetDefault godoc
// @Summary Promote a signature to default
// @Tags Signatures
// @Security BearerAuth
// @Param id path int true "Signature ID"
// @Success 200 {object} response.Envelope
// @Router /signatures/{id}/default [put]
func (h *SignatureHandler) SetDefault(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.signatures.SetDefault(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": id, "is_default": true})
}

// Delete godoc
// @Summary Retire a signature
// @Tags Signatures
// @Security BearerAuth
// @Param id path int true "Signature ID"
// @Success 204
// @Router /signatures/{id} [delete]
func (h *SignatureHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.signatures.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
