package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"todoapi/internal/auth"
	"todoapi/internal/handler"
	"todoapi/internal/middleware"
	"todoapi/internal/repository"
	"todoapi/internal/service"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	logger *zap.Logger
}

func NewServer(db *sqlx.DB, tokens *auth.TokenManager, expander service.DescriptionExpander, logger *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		db:     db,
		logger: logger,
	}

	s.setupRoutes(tokens, expander)

	return s
}

func (s *Server) setupRoutes(tokens *auth.TokenManager, expander service.DescriptionExpander) {
	userRepo := repository.NewUserRepository(s.db, s.logger)
	todoRepo := repository.NewTodoRepository(s.db, s.logger)

	authService := service.NewAuthService(userRepo, tokens, s.logger)
	todoService := service.NewTodoService(todoRepo, expander, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	todoHandler := handler.NewTodoHandler(todoService, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Authentication routes
	authGroup := s.router.Group("/auth")
	authGroup.POST("/create_user", authHandler.CreateUser)
	authGroup.POST("/token", authHandler.Token)

	// Authenticated routes
	todoGroup := s.router.Group("/todo")
	todoGroup.Use(middleware.AuthMiddleware(tokens, s.logger))
	{
		todoGroup.GET("/", todoHandler.List)
		todoGroup.GET("/todo/:id", todoHandler.GetByID)
		todoGroup.POST("/todo", todoHandler.Create)
		todoGroup.PUT("/todo/:id", todoHandler.Update)
		todoGroup.DELETE("/todo/:id", todoHandler.Delete)
	}
}

// Router exposes the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Run(addr string) {
	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Server failed to start", zap.Error(err))
	}
}
