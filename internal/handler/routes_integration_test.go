package handler

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	internalmiddleware "github.com/ceibcn/crm-api/internal/middleware"
	"github.com/ceibcn/crm-api/internal/models"
	"github.com/ceibcn/crm-api/internal/service"
	"github.com/ceibcn/crm-api/pkg/mailer"
	"github.com/ceibcn/crm-api/pkg/tokens"
)

func TestRoutesIntegration(t *testing.T) {
	signer := tokens.NewUnsubscribeSigner("integration-secret", time.Hour)
	sent := &sentMailbox{}
	router := buildTestRouter(signer, sent)

	t.Run("users list requires auth", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/users", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("users list forbidden for normal role", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("X-Test-Role", string(models.RoleNormal))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("users list allowed for admin", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/users", nil)
		req.Header.Set("X-Test-Role", string(models.RoleAdmin))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"montse"`)
	})

	t.Run("marketing send embeds unsubscribe link", func(t *testing.T) {
		payload := `{"person_ids":[7],"subject":"Open day","body":"<p>Hola</p>","marketing":true}`
		req, _ := http.NewRequest(http.MethodPost, "/mail/send", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Role", string(models.RoleNormal))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"sent":[7]`)
		require.Len(t, sent.messages, 1)
		require.Contains(t, sent.messages[0].HTMLBody, "/unsubscribe?token=")
		// The operator sending the campaign is the From identity.
		require.Equal(t, "tester@crm.example.com", sent.messages[0].SenderMail)
		require.Equal(t, "tester", sent.messages[0].SenderName)
	})

	t.Run("unsubscribe link round trip", func(t *testing.T) {
		token, err := signer.Generate(7, tokens.ScopeMarketing)
		require.NoError(t, err)

		req, _ := http.NewRequest(http.MethodGet, "/unsubscribe?token="+token, nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), "Baja confirmada")
	})

	t.Run("unsubscribe rejects missing token", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/unsubscribe", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		require.Contains(t, resp.Body.String(), "no válido")
	})

	t.Run("unsubscribe reports expired link", func(t *testing.T) {
		expiredSigner := tokens.NewUnsubscribeSigner("integration-secret", -time.Hour)
		token, err := expiredSigner.Generate(7, tokens.ScopeMarketing)
		require.NoError(t, err)

		req, _ := http.NewRequest(http.MethodGet, "/unsubscribe?token="+token, nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		require.Contains(t, resp.Body.String(), "caducado")
	})
}

func buildTestRouter(signer *tokens.UnsubscribeSigner, sent *sentMailbox) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if role := c.GetHeader("X-Test-Role"); role != "" {
			c.Set(internalmiddleware.ContextUserKey, &models.JWTClaims{
				UserID:   1,
				Username: "tester",
				Email:    "tester@crm.example.com",
				Role:     models.UserRole(role),
			})
		}
		c.Next()
	})

	userSvc := service.NewUserService(&routerUserRepo{}, nil, nil)
	mailSvc := service.NewMailService(&routerPersonRepo{}, &routerSignatureRepo{}, &routerHistoryRepo{}, sent, signer, "https://crm.example.com", nil, nil)

	userHandler := NewUserHandler(userSvc)
	mailHandler := NewMailHandler(mailSvc, nil)
	unsubscribeHandler := NewUnsubscribeHandler(mailSvc)

	router.GET("/unsubscribe", unsubscribeHandler.Unsubscribe)
	router.GET("/users", internalmiddleware.AdminOnly(), userHandler.List)
	router.POST("/mail/send", internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleNormal), mailHandler.Send)

	return router
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type sentMailbox struct {
	messages []mailer.Message
}

func (m *sentMailbox) Send(msg mailer.Message) error {
	m.messages = append(m.messages, msg)
	return nil
}

type routerUserRepo struct{}

func (routerUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, sql.ErrNoRows
}

func (routerUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return nil, sql.ErrNoRows
}

func (routerUserRepo) List(ctx context.Context) ([]models.User, error) {
	return []models.User{
		{ID: 1, Username: "montse", Role: models.RoleAdmin, Active: true},
		{ID: 2, Username: "jordi", Role: models.RoleNormal, Active: true},
	}, nil
}

func (routerUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (routerUserRepo) Update(ctx context.Context, user *models.User) error { return nil }

func (routerUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return nil
}

func (routerUserRepo) Delete(ctx context.Context, id int64) error { return nil }

type routerPersonRepo struct{}

func (routerPersonRepo) EmailsByIDs(ctx context.Context, ids []int64, marketingOnly bool) ([]models.Person, error) {
	return []models.Person{
		{ID: 7, FullName: "Laia Puig", Email: "laia@example.com", MarketingOptIn: true},
	}, nil
}

func (routerPersonRepo) SetMarketingOptIn(ctx context.Context, id int64, optIn bool) error {
	return nil
}

type routerSignatureRepo struct{}

func (routerSignatureRepo) List(ctx context.Context) ([]models.Signature, error) { return nil, nil }

func (routerSignatureRepo) FindByID(ctx context.Context, id int64) (*models.Signature, error) {
	return nil, sql.ErrNoRows
}

func (routerSignatureRepo) GetDefault(ctx context.Context) (*models.Signature, error) {
	return nil, sql.ErrNoRows
}

func (routerSignatureRepo) Create(ctx context.Context, signature *models.Signature) error {
	return nil
}

func (routerSignatureRepo) Update(ctx context.Context, signature *models.Signature) error {
	return nil
}

func (routerSignatureRepo) SetDefault(ctx context.Context, id int64) error { return nil }

func (routerSignatureRepo) Delete(ctx context.Context, id int64) error { return nil }

type routerHistoryRepo struct{}

func (routerHistoryRepo) ListByPerson(ctx context.Context, personID int64) ([]models.HistoryEntry, error) {
	return nil, nil
}

func (routerHistoryRepo) Add(ctx context.Context, personID int64, action, detail string) error {
	return nil
}
