// Package server contains the HTML page and JSON API handlers for the blog.
package server

import (
	"context"
	"errors"
	"log"
	"net"
	"time"

	_ "blog/docs" // swagger docs
	"blog/internal/config"
	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/service"
	"blog/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	store          *storage.Store
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	userService    *service.UserService
	postService    *service.PostService
	pages          *pageRenderer
}

// NewServer creates a Server around an already loaded store. redisClient
// may be nil; rate limits then fail open.
func NewServer(cfg *config.Config, store *storage.Store, redisClient *redis.Client) (*Server, error) {
	pages, err := newPageRenderer()
	if err != nil {
		return nil, err
	}

	return &Server{
		config:         cfg,
		store:          store,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("blog-api"),
		userService:    service.NewUserService(store),
		postService:    service.NewPostService(store, store),
		pages:          pages,
	}, nil
}

// NewApp returns a Fiber app with the blog's error handler.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   "Blog",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return models.RespondWithError(c, fe.Code, err)
			}
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	// Tracing runs before ContextMiddleware so the trace id is in locals.
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Blog Metrics Dashboard",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	users := api.Group("/users")
	users.Post("/", middleware.RateLimit(s.redis, 5, 10*time.Minute, "create_user"), s.CreateUser)
	users.Get("/", s.GetAllUsers)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", middleware.RateLimit(s.redis, 30, time.Minute, "update_user"), s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)

	posts := api.Group("/posts")
	posts.Post("/", middleware.RateLimit(s.redis, 10, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Get("/", s.GetPosts)
	// Specific routes before the generic /:id route
	posts.Get("/author/:authorId", s.GetPostsByAuthor)
	posts.Post("/:id/like", middleware.RateLimit(s.redis, 60, time.Minute, "react"), s.LikePost)
	posts.Post("/:id/dislike", middleware.RateLimit(s.redis, 60, time.Minute, "react"), s.DislikePost)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", middleware.RateLimit(s.redis, 30, time.Minute, "update_post"), s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	s.setupPageRoutes(app)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports the store's state. Redis only backs rate limiting,
// so an unreachable Redis is reported but does not fail the check.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		storeStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storeStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	userCount, postCount := s.store.Counts()
	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"storage": storeStatus,
			"redis":   redisStatus,
		},
		"users":        userCount,
		"posts":        postCount,
		"next_user_id": s.store.NextUserID(),
		"next_post_id": s.store.NextPostID(),
		"time":         time.Now(),
	})
}

// Run serves on ln until ctx is done, then drains open connections within
// timeout, releases the store and Redis, and calls each cleanup hook. It
// returns only after all of that has finished, so the process can exit as
// soon as Run does. If the listener stops on its own, the same cleanup runs
// and its error, if any, is returned.
func (s *Server) Run(ctx context.Context, ln net.Listener, timeout time.Duration, cleanup ...func(context.Context) error) error {
	app := NewApp()
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s...", ln.Addr())
		serveErr <- app.Listener(ln)
	}()

	var (
		listenErr error
		stopped   bool
	)
	select {
	case listenErr = <-serveErr:
		stopped = true
	case <-ctx.Done():
		log.Println("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server resource shutdown error: %v", err)
	}
	// Covers a cancel that lands before the listener goroutine starts serving.
	_ = ln.Close()
	for _, fn := range cleanup {
		if err := fn(shutdownCtx); err != nil {
			log.Printf("Shutdown hook error: %v", err)
		}
	}

	if stopped {
		return listenErr
	}
	return <-serveErr
}

// Shutdown stops the listener and releases the store and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if err := s.store.Close(); err != nil {
		log.Printf("error closing storage backend: %v", err)
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
