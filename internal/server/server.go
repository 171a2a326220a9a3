package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"estoque/internal/config"
	"estoque/internal/database"
	"estoque/internal/domain"
	custommiddleware "estoque/internal/middleware"
	"estoque/internal/repository"
	"estoque/internal/service"
	"estoque/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	authRateLimit       = 20
	authRateLimitWindow = time.Minute
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(nil, cfg.Server.Env == "development"))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, database.Health(r.Context(), db))
	})

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// Initialize services
	periods := domain.NewPeriodResolver(nil)
	userService := service.NewUserService(userRepo, cfg.Session.Secret)
	inventoryService := service.NewInventoryService(productRepo)
	salesService := service.NewSalesService(productRepo, saleRepo, periods)
	reportService := service.NewReportService(saleRepo, periods)

	// Initialize handlers
	authHandler := transport.NewAuthHandler(userService, logger)
	productHandler := transport.NewProductHandler(inventoryService, logger)
	saleHandler := transport.NewSaleHandler(salesService, logger)
	reportHandler := transport.NewReportHandler(reportService, logger)

	// Session gate for everything except the auth endpoints
	sessionMiddleware := custommiddleware.RequireSession(cfg.Session.Secret, logger)

	// Rate limiting on the public auth endpoints when Redis is configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		router.Group(func(r chi.Router) {
			r.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
				RequestsPerWindow: authRateLimit,
				Window:            authRateLimitWindow,
				KeyPrefix:         "rate_limit:auth",
			}, logger))
			authHandler.RegisterRoutes(r)
		})
	} else {
		logger.Warn("Redis not configured, auth endpoints are not rate limited")
		authHandler.RegisterRoutes(router)
	}

	// Register protected routes
	productHandler.RegisterRoutes(router, sessionMiddleware)
	saleHandler.RegisterRoutes(router, sessionMiddleware)
	reportHandler.RegisterRoutes(router, sessionMiddleware)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
