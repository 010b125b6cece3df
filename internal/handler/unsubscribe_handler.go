package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ceibcn/crm-api/internal/service"
	appErrors "github.com/ceibcn/crm-api/pkg/errors"
)

// UnsubscribeHandler serves the public unsubscribe endpoint linked from
// marketing mail. It renders minimal HTML because the visitor arrives from a
// mail client, not the SPA.
type UnsubscribeHandler struct {
	mail *service.MailService
}

// NewUnsubscribeHandler constructs UnsubscribeHandler.
func NewUnsubscribeHandler(mail *service.MailService) *UnsubscribeHandler {
	return &UnsubscribeHandler{mail: mail}
}

// Unsubscribe godoc
// @Summary Process an unsubscribe link
// @Tags Mail
// @Produce html
// @Param token query string true "Signed unsubscribe token"
// @Success 200 {string} string
// @Router /unsubscribe [get]
func (h *UnsubscribeHandler) Unsubscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte(page("Enlace no válido",
			"El enlace de baja no es válido.")))
		return
	}

	if _, err := h.mail.Unsubscribe(c.Request.Context(), token); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == "TOKEN_EXPIRED" {
			c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte(page("Enlace caducado",
				"Este enlace de baja ha caducado. Solicita uno nuevo desde el último correo recibido.")))
			return
		}
		c.Data(http.StatusBadRequest, "text/html; charset=utf-8", []byte(page("Enlace no válido",
			"El enlace de baja no es válido.")))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page("Baja confirmada",
		"No volverás a recibir comunicaciones comerciales.")))
}

func page(title, body string) string {
	return `<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>` + title + `</title></head>
<body style="font-family:Arial,sans-serif;max-width:480px;margin:80px auto;text-align:center;color:#333;">
<h1 style="font-size:20px;">` + title + `</h1>
<p>` + body + `</p>
</body>
</html>`
}
