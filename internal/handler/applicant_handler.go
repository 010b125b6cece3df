package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceibcn/crm-api/internal/query"
	"github.com/ceibcn/crm-api/internal/service"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
	"github.com/ceibcn/crm-api/pkg/response"
)

// ApplicantHandler exposes applicant endpoints.
type ApplicantHandler struct {
	applicants *service.ApplicantService
}

// NewApplicantHandler constructs ApplicantHandler.
func NewApplicantHandler(applicants *service.ApplicantService) *ApplicantHandler {
	return &ApplicantHandler{applicants: applicants}
}

// List godoc
// @Summary List applicants
// @Tags Applicants
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /applicants [get]
func (h *ApplicantHandler) List(c *gin.Context) {
	params := query.ParseQueryOrdered(c.Request.URL.RawQuery)
	items, err := h.applicants.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Create godoc
// @Summary Create applicant
// @Tags Applicants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.ApplicantRequest true "Applicant payload"
// @Success 201 {object} response.Envelope
// @Router /applicants [post]
func (h *ApplicantHandler) Create(c *gin.Context) {
	var req service.ApplicantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	person, err := h.applicants.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, person)
}

// AddInterest godoc
// @Summary Declare program interest
// @Tags Applicants
// @Security BearerAuth
// @Param id path int true "Person ID"
// @Param programId path int true "Program ID"
// @Success 201 {object} response.Envelope
// @Router /persons/{id}/interests/{programId} [post]
func (h *ApplicantHandler) AddInterest(c *gin.Context) {
	personID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	programID, err := pathID(c, "programId")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.applicants.AddInterest(c.Request.Context(), personID, programID); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"person_id": personID, "program_id": programID})
}

// RemoveInterest godoc
// @Summary Withdraw program interest
// @Tags Applicants
// @Security BearerAuth
// @Param id path int true "Person ID"
// @Param programId path int true "Program ID"
// @Success 204
// @Router /persons/{id}/interests/{programId} [delete]
func (h *ApplicantHandler) RemoveInterest(c *gin.Context) {
	personID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	programID, err := pathID(c, "programId")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.applicants.RemoveInterest(c.Request.Context(), personID, programID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
