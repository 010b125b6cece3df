package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ceibcn/crm-api/api/swagger"
	"github.com/ceibcn/crm-api/internal/handler"
	"github.com/ceibcn/crm-api/internal/middleware"
	"github.com/ceibcn/crm-api/internal/repository"
	"github.com/ceibcn/crm-api/internal/service"
	"github.com/ceibcn/crm-api/pkg/cache"
	"github.com/ceibcn/crm-api/pkg/config"
	"github.com/ceibcn/crm-api/pkg/database"
	"github.com/ceibcn/crm-api/pkg/logger"
	"github.com/ceibcn/crm-api/pkg/mailer"
	corsmiddleware "github.com/ceibcn/crm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ceibcn/crm-api/pkg/middleware/requestid"
	"github.com/ceibcn/crm-api/pkg/tokens"
)

// @title CRM API
// @version 1.0.0
// @description CRM server for managing students, applicants and marketing campaigns
// @BasePath /api/v1
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewMySQL(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Lookup caches degrade to direct queries without Redis.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	personRepo := repository.NewPersonRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	programRepo := repository.NewProgramRepository(db)
	attributeRepo := repository.NewAttributeRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	presetRepo := repository.NewPresetRepository(db)
	signatureRepo := repository.NewSignatureRepository(db)
	exportRepo := repository.NewExportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP)
	unsubscribeSigner := tokens.NewUnsubscribeSigner(cfg.Tokens.UnsubscribeSecret, cfg.Tokens.UnsubscribeTTL)

	// Services.
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userSvc := service.NewUserService(userRepo, nil, logr)
	personSvc := service.NewPersonService(personRepo, attributeRepo, historyRepo, nil, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, historyRepo, nil, logr)
	studentSvc := service.NewStudentService(personSvc, enrollmentRepo, nil, logr)
	applicantSvc := service.NewApplicantService(personSvc, applicationRepo, programRepo, nil, logr)
	programSvc := service.NewProgramService(programRepo, cacheRepo, cfg.Cache.EditionTTL, nil, logr)
	attributeSvc := service.NewAttributeService(attributeRepo, cacheRepo, cfg.Cache.AttributeTTL, nil, logr)
	commentSvc := service.NewCommentService(commentRepo, nil, logr)
	presetSvc := service.NewPresetService(presetRepo, nil, logr)
	signatureSvc := service.NewSignatureService(signatureRepo, nil, logr)
	mailSvc := service.NewMailService(personRepo, signatureRepo, historyRepo, smtpMailer, unsubscribeSigner, cfg.PublicBaseURL, nil, logr)
	exportSvc := service.NewExportService(exportRepo, attributeSvc, nil, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	personHandler := handler.NewPersonHandler(personSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	applicantHandler := handler.NewApplicantHandler(applicantSvc)
	programHandler := handler.NewProgramHandler(programSvc, enrollmentSvc)
	attributeHandler := handler.NewAttributeHandler(attributeSvc)
	commentHandler := handler.NewCommentHandler(commentSvc)
	presetHandler := handler.NewPresetHandler(presetSvc)
	signatureHandler := handler.NewSignatureHandler(signatureSvc)
	mailHandler := handler.NewMailHandler(mailSvc, metricsSvc)
	exportHandler := handler.NewExportHandler(exportSvc, metricsSvc)
	unsubscribeHandler := handler.NewUnsubscribeHandler(mailSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Scrape)
	// Mail links point at the public origin directly, so the unsubscribe page
	// lives outside the API prefix.
	r.GET("/unsubscribe", unsubscribeHandler.Unsubscribe)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	secured := api.Group("", middleware.JWT(authSvc))
	{
		secured.GET("/auth/me", authHandler.Me)

		secured.GET("/persons", personHandler.List)
		secured.POST("/persons", personHandler.Create)
		secured.GET("/persons/:id", personHandler.Get)
		secured.PUT("/persons/:id", personHandler.Update)
		secured.DELETE("/persons/:id", middleware.AdminOnly(), personHandler.Delete)
		secured.GET("/persons/:id/history", personHandler.History)

		secured.GET("/students", studentHandler.List)
		secured.POST("/students", middleware.AdminOnly(), studentHandler.Create)

		secured.GET("/applicants", applicantHandler.List)
		secured.POST("/applicants", applicantHandler.Create)
		secured.POST("/persons/:id/interests/:programId", applicantHandler.AddInterest)
		secured.DELETE("/persons/:id/interests/:programId", applicantHandler.RemoveInterest)

		secured.GET("/programs", programHandler.List)
		secured.GET("/programs/editions", programHandler.Editions)
		secured.GET("/programs/:id", programHandler.Get)
		secured.POST("/programs", middleware.AdminOnly(), programHandler.Create)
		secured.PUT("/programs/:id", middleware.AdminOnly(), programHandler.Update)
		secured.DELETE("/programs/:id", middleware.AdminOnly(), programHandler.Delete)
		secured.GET("/programs/:id/enrollments", programHandler.Enrollments)
		secured.POST("/programs/:id/enrollments", programHandler.BulkEnroll)
		secured.DELETE("/programs/:id/enrollments/:personId", programHandler.Unenroll)

		secured.GET("/attributes", attributeHandler.List)
		secured.POST("/attributes", middleware.AdminOnly(), attributeHandler.Create)
		secured.DELETE("/attributes/:id", middleware.AdminOnly(), attributeHandler.Delete)
		secured.PUT("/persons/:id/attributes", attributeHandler.SetValue)
		secured.DELETE("/persons/:id/attributes/:name", attributeHandler.DeleteValue)

		secured.GET("/persons/:id/comments", commentHandler.List)
		secured.POST("/persons/:id/comments", commentHandler.Create)
		secured.PUT("/comments/:commentId", commentHandler.Update)
		secured.DELETE("/comments/:commentId", commentHandler.Delete)

		secured.GET("/presets", presetHandler.List)
		secured.POST("/presets", presetHandler.Create)
		secured.GET("/presets/:id", presetHandler.Get)
		secured.DELETE("/presets/:id", presetHandler.Delete)

		secured.GET("/signatures", signatureHandler.List)
		secured.GET("/signatures/:id", signatureHandler.Get)
		secured.POST("/signatures", middleware.AdminOnly(), signatureHandler.Create)
		secured.PUT("/signatures/:id", middleware.AdminOnly(), signatureHandler.Update)
		secured.PUT("/signatures/:id/default", middleware.AdminOnly(), signatureHandler.SetDefault)
		secured.DELETE("/signatures/:id", middleware.AdminOnly(), signatureHandler.Delete)

		secured.POST("/mail/send", mailHandler.Send)
		secured.POST("/export", exportHandler.Export)
		secured.GET("/export/:entity", exportHandler.ExportEntity)

		secured.GET("/users", middleware.AdminOnly(), userHandler.List)
		secured.GET("/users/:id", middleware.AdminOnly(), userHandler.Get)
		secured.POST("/users", middleware.AdminOnly(), userHandler.Create)
		secured.PUT("/users/password", userHandler.ChangePassword)
		secured.PUT("/users/:id", middleware.AdminOnly(), userHandler.Update)
		secured.DELETE("/users/:id", middleware.AdminOnly(), userHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
