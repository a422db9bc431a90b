// Package server contains the HTML and JSON handlers of the blog.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/middleware"
	"yatube/internal/render"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/web"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	sessions       *session.Store
	postService    *service.PostService
	groupService   *service.GroupService
	userService    *service.UserService
}

// NewServer connects to the database and Redis described by cfg.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil: caching is skipped and sessions live in memory.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	postRepo := repository.NewPostRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	userRepo := repository.NewUserRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("yatube"),
		postService:    service.NewPostService(postRepo, groupRepo, userRepo, cfg.PostsPerPage),
		groupService:   service.NewGroupService(groupRepo),
		userService:    service.NewUserService(userRepo),
	}

	sessionCfg := session.Config{
		Expiration:     time.Duration(cfg.SessionTTLHours) * time.Hour,
		KeyLookup:      "cookie:sessionid",
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookiePath:     "/",
	}
	if redisClient != nil {
		sessionCfg.Storage = cache.NewSessionStorage(redisClient)
	}
	s.sessions = session.New(sessionCfg)

	return s, nil
}

func newViewEngine() *html.Engine {
	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")
	engine.AddFuncMap(render.Funcs())
	return engine
}

// App builds the fiber application on first use.
func (s *Server) App() *fiber.App {
	if s.app != nil {
		return s.app
	}

	app := fiber.New(fiber.Config{
		AppName:           "Yatube",
		Views:             newViewEngine(),
		ViewsLayout:       "layouts/main",
		PassLocalsToViews: true,
		ErrorHandler:      s.errorHandler,
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Resolve the session viewer before the context middleware copies
	// userID into the request context for logging.
	app.Use(s.LoadViewer())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	app.Use(middleware.StructuredLogger())

	// Only the JSON API is called cross-origin; it authenticates with bearer
	// tokens, so credentials are never allowed.
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
		Next: func(c *fiber.Ctx) bool {
			return !isAPIPath(c.Path())
		},
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			if isAPIPath(c.Path()) {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests, please try again later.",
				})
			}
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests, please try again later.")
		},
	}))

	// Forms carry the token in csrf_token; templates read it from the "csrf" local.
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf_token",
		CookieName:     "csrftoken",
		CookieSameSite: "Lax",
		CookieSecure:   s.config.CookieSecure,
		ContextKey:     "csrf",
		Expiration:     time.Duration(s.config.SessionTTLHours) * time.Hour,
		Next: func(c *fiber.Ctx) bool {
			return isAPIPath(c.Path())
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Posts
	app.Get("/", s.Index)
	app.Get("/group/:slug/", s.GroupPosts)
	app.Get("/profile/:username/", s.Profile)
	app.Get("/create/", s.LoginRequired(), s.ShowCreatePost)
	app.Post("/create/", s.LoginRequired(), s.CreatePost)
	// Specific /:id/edit/ routes before the generic /:id/ route
	app.Get("/posts/:id/edit/", s.LoginRequired(), s.ShowEditPost)
	app.Post("/posts/:id/edit/", s.LoginRequired(), s.EditPost)
	app.Get("/posts/:id/", s.PostDetail)

	// Auth pages
	auth := app.Group("/auth")
	auth.Get("/login/", s.ShowLogin)
	auth.Post("/login/", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/logout/", s.Logout)
	auth.Post("/logout/", s.Logout)
	auth.Get("/signup/", s.ShowSignup)
	auth.Post("/signup/", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)

	// JSON API
	api := app.Group("/api/v1")
	api.Post("/auth/token/", middleware.RateLimit(s.redis, 10, 5*time.Minute, "token"), s.ObtainToken)

	posts := api.Group("/posts")
	posts.Get("/", s.APIListPosts)
	posts.Get("/:id/", s.APIGetPost)
	posts.Post("/", middleware.TokenAuth(s.config.JWTSecret), s.APICreatePost)
	posts.Patch("/:id/", middleware.TokenAuth(s.config.JWTSecret), s.APIUpdatePost)
	posts.Put("/:id/", middleware.TokenAuth(s.config.JWTSecret), s.APIUpdatePost)

	groups := api.Group("/groups")
	groups.Get("/", s.APIListGroups)
	groups.Get("/:slug/", s.APIGetGroup)

	// Anything left is an unknown route.
	app.Use(s.NotFound)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. Redis is optional, so a
// missing client does not make the app unready; a failing one does.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	app := s.App()
	middleware.Logger.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}

func isAPIPath(path string) bool {
	return strings.HasPrefix(path, "/api/")
}
