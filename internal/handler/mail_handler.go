package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceibcn/crm-api/internal/service"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
	"github.com/ceibcn/crm-api/pkg/response"
)

// MailHandler exposes campaign sending.
type MailHandler struct {
	mail    *service.MailService
	metrics *service.MetricsService
}

// NewMailHandler constructs MailHandler.
func NewMailHandler(mail *service.MailService, metrics *service.MetricsService) *MailHandler {
	return &MailHandler{mail: mail, metrics: metrics}
}

// Send godoc
// @Summary Send a campaign to selected persons
// @Description Marketing sends skip opted-out recipients and embed an
// @Description unsubscribe link; transactional sends go to everyone listed.
// @Tags Mail
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CampaignRequest true "Campaign payload"
// @Success 200 {object} response.Envelope
// @Router /mail/send [post]
func (h *MailHandler) Send(c *gin.Context) {
	var req service.CampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	// Campaigns go out as the operator sending them unless the payload
	// overrides name or address.
	if claims := claimsFromContext(c); claims != nil {
		if req.SenderName == "" {
			req.SenderName = claims.Username
		}
		if req.SenderMail == "" {
			req.SenderMail = claims.Email
		}
	}

	result, err := h.mail.SendCampaign(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		for range result.Sent {
			h.metrics.CountMail("sent")
		}
		for range result.Skipped {
			h.metrics.CountMail("skipped")
		}
		for range result.Failed {
			h.metrics.CountMail("failed")
		}
	}
	response.JSON(c, http.StatusOK, result)
}
