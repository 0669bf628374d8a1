package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prepforge/mocktest/config"
	"github.com/prepforge/mocktest/database"
	_ "github.com/prepforge/mocktest/docs" // Swagger docs - auto-generated
	"github.com/prepforge/mocktest/internal/clock"
	adminctrl "github.com/prepforge/mocktest/internal/controller/admin"
	userctrl "github.com/prepforge/mocktest/internal/controller/user"
	"github.com/prepforge/mocktest/internal/logger"
	"github.com/prepforge/mocktest/internal/middleware"
	"github.com/prepforge/mocktest/internal/model"
	"github.com/prepforge/mocktest/internal/repository"
	"github.com/prepforge/mocktest/internal/resilience"
	"github.com/prepforge/mocktest/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Mock Test Platform API
// @version 1.0
// @description Timed multi-subject mock examinations: session lifecycle, question delivery, answer submission and results.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			clock.New,
		),

		// Repositories layer
		fx.Provide(
			repository.NewSessionRepository,
			repository.NewQuestionRepository,
			repository.NewAssignmentRepository,
			repository.NewAnswerRepository,
			repository.NewTemplateRepository,
		),

		// Services layer. Each guarded remote dependency gets its own
		// breaker instance, built here and injected; nothing is global.
		fx.Provide(
			service.NewCatalogService,
			service.NewSessionService,
			func(cfg *config.Config, clk clock.Clock) (service.GeminiLLMService, error) {
				breaker := resilience.NewBreaker(
					"gemini",
					cfg.Resilience.BreakerThreshold,
					cfg.Resilience.BreakerWindow,
					cfg.Resilience.BreakerResetTimeout,
					clk,
				)
				return service.NewGeminiLLMService(cfg, breaker)
			},
			func(cfg *config.Config, clk clock.Clock, sessions service.SessionService) service.AnalyticsService {
				comm := resilience.NewCommunicator(cfg.Analytics.ServiceName, cfg.Analytics.BaseURL, cfg.Analytics.Timeout)
				breaker := resilience.NewBreaker(
					cfg.Analytics.ServiceName,
					cfg.Resilience.BreakerThreshold,
					cfg.Resilience.BreakerWindow,
					cfg.Resilience.BreakerResetTimeout,
					clk,
				)
				return service.NewAnalyticsService(sessions, comm, breaker, cfg.Resilience.MaxRetries, cfg.Resilience.RetryDelay)
			},
			service.NewQuestionAdminService,
		),

		// API controllers layer
		fx.Provide(
			userctrl.NewSessionController,
			adminctrl.NewQuestionController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(SeedTemplates),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())

	// Route gin access logs through zerolog.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	r.Use(rateLimiter.Handler())

	// Swagger UI: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the HTTP
// server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	sessionCtrl *userctrl.SessionController,
	questionCtrl *adminctrl.QuestionController,
) {
	api := router.Group("/api/v1")
	{
		tests := api.Group("/tests")
		tests.GET("/available", sessionCtrl.ListAvailableTests)
		tests.POST("/start", sessionCtrl.StartSession)
		tests.GET("/session/:id", sessionCtrl.GetSession)
		tests.GET("/session/:id/question/:num", sessionCtrl.GetQuestion)
		tests.POST("/session/:id/answer", sessionCtrl.SubmitAnswer)
		tests.POST("/session/:id/submit", sessionCtrl.SubmitSession)
		tests.GET("/session/:id/results", sessionCtrl.GetResults)
		tests.GET("/session/:id/results/verify", sessionCtrl.VerifyResults)
		tests.GET("/history", sessionCtrl.GetHistory)
	}

	admin := api.Group("/admin")
	{
		questions := admin.Group("/questions")
		questions.POST("", questionCtrl.CreateQuestion)
		questions.POST("/bulk", questionCtrl.BulkCreateQuestions)
		questions.GET("", questionCtrl.ListQuestions)
		questions.POST("/generate", questionCtrl.GenerateQuestions)
		questions.POST("/:id/explain", questionCtrl.ExplainAnswer)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Mock test API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Question{},
		&model.TestTemplate{},
		&model.TestSession{},
		&model.SessionQuestionAssignment{},
		&model.UserAnswer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

func SeedTemplates(catalog service.CatalogService) error {
	return catalog.SeedDefaults()
}
