package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cortivus/chat-api/internal/config"
	"github.com/cortivus/chat-api/internal/llm"
	"github.com/cortivus/chat-api/internal/model"
	"github.com/cortivus/chat-api/internal/retrieval"
	"github.com/cortivus/chat-api/internal/service"
)

// HTTPServer is the gin-based chat API server.
type HTTPServer struct {
	config      *config.Config
	engine      *gin.Engine
	server      *http.Server
	chatHandler *ChatHandler
}

// NewHTTPServer creates the server with its middleware and routes registered.
// The retriever, generation client and log service are injected by the caller.
func NewHTTPServer(cfg *config.Config, retriever *retrieval.Retriever, llmClient *llm.Client, chatLogService *service.ChatLogService) *HTTPServer {
	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &HTTPServer{
		config:      cfg,
		engine:      gin.New(),
		chatHandler: NewChatHandler(cfg, retriever, llmClient, chatLogService),
	}

	s.registerMiddlewares()
	s.registerRoutes()

	return s
}

// registerMiddlewares installs recovery, request logging and CORS.
func (s *HTTPServer) registerMiddlewares() {
	s.engine.Use(s.recoveryMiddleware())
	s.engine.Use(s.loggingMiddleware())
	s.engine.Use(s.corsMiddleware())
}

// recoveryMiddleware converts panics into a generic 500 without leaking
// internal state; the detail string goes to the log only.
func (s *HTTPServer) recoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logx.Error("Panic recovered, path %s: %v", c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorResponse{
			Error: "Internal server error",
		})
	})
}

// loggingMiddleware tags each request with an ID and logs timing.
func (s *HTTPServer) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logx.Info("HTTP request, id %s, method %s, path %s, status %d, duration %s",
			requestID, method, path, c.Writer.Status(), time.Since(start))
	}
}

// corsMiddleware allows the hosted chat widget's origin and answers
// preflight requests.
func (s *HTTPServer) corsMiddleware() gin.HandlerFunc {
	origin := s.config.CORS.AllowedOrigin
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// registerRoutes wires the API routes.
func (s *HTTPServer) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/chat", s.chatHandler.Chat)
	}
}

func (s *HTTPServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// Start runs the server until it fails or Stop is called.
func (s *HTTPServer) Start() error {
	addr := fmt.Sprintf("0.0.0.0:%d", s.config.Server.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	logx.Info("Starting HTTP server, addr %s", addr)
	return s.server.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *HTTPServer) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
