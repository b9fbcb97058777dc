package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/mdemidenko/homework-bot/config"
	_ "github.com/mdemidenko/homework-bot/docs"
	"github.com/mdemidenko/homework-bot/internal/middleware"
	"github.com/mdemidenko/homework-bot/internal/models"
	"github.com/mdemidenko/homework-bot/internal/repository"
)

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	handler    *Handler
	cfg        *config.Config
	metrics    http.Handler
	logger     *zap.Logger
}

// NewServer создает сервер статуса на Gin
func NewServer(cfg *config.Config, health HealthChecker, storage repository.Storage, metrics http.Handler, logger *zap.Logger) *Server {
	setGinMode(cfg)

	server := &Server{
		router:  gin.New(),
		handler: NewHandler(health, storage, cfg),
		cfg:     cfg,
		metrics: metrics,
		logger:  logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           server.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}

	return server
}

// setGinMode устанавливает режим работы Gin
func setGinMode(cfg *config.Config) {
	switch cfg.Server.GinMode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	if len(s.cfg.Server.TrustedProxies) > 0 {
		if err := s.router.SetTrustedProxies(s.cfg.Server.TrustedProxies); err != nil {
			s.logger.Warn("failed to set trusted proxies", zap.Error(err))
		}
	}
}

// loggingMiddleware логирует каждый запрос к API
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		if query != "" {
			path = path + "?" + query
		}

		s.logger.Debug("[API]",
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
		)
	}
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.handler.HealthHandler)
		api.POST("/auth/login", s.handler.LoginHandler)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(s.cfg.Auth.JWTSecret))
		protected.GET("/status", s.handler.StatusHandler)
		protected.GET("/notifications", s.handler.NotificationsHandler)
		protected.GET("/notifications/sent", s.handler.SentNotificationsHandler)
	}

	if s.metrics != nil {
		s.router.GET("/metrics", gin.WrapH(s.metrics))
	}
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Homework Status Bot",
			"version": s.cfg.App.Version,
			"status":  "running",
			"docs":    "/swagger/index.html",
		})
	})

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.NotFoundError("The requested route does not exist", c.Request.URL.Path))
	})
}

// Handler возвращает корневой http.Handler сервера
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start запускает сервер и блокируется до Shutdown
func (s *Server) Start() error {
	s.logger.Info("🚀 Сервер статуса запущен", zap.String("addr", s.httpServer.Addr), zap.String("mode", s.cfg.Server.GinMode))

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully останавливает сервер
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
