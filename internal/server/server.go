package server

import (
	"log"
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/musicmixer/api/internal/config"
	"github.com/musicmixer/api/internal/handler"
	"github.com/musicmixer/api/internal/middleware"
	"github.com/musicmixer/api/internal/service"
	ws "github.com/musicmixer/api/internal/websocket"
	"github.com/musicmixer/api/pkg/response"
)

const rootBanner = "MusicMixer API is running"

// Services reports which optional backends are wired, for /health
type Services struct {
	LLM     bool `json:"llm"`
	Redis   bool `json:"redis"`
	Archive bool `json:"archive"`
	Jobs    bool `json:"jobs"`
}

// Options holds everything the router needs. Jobs, Hub and Limiter are
// optional; their routes or middleware are skipped when nil.
type Options struct {
	Config     *config.Config
	Generation *service.GenerationService
	Catalog    *service.CatalogService
	Jobs       *service.JobService
	Hub        *ws.Hub
	Limiter    *middleware.RateLimiter
	Services   Services
}

// NewApp builds the Fiber application with all routes registered
func NewApp(opts Options) *fiber.App {
	cfg := opts.Config
	validate := handler.NewValidator()

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024,
	})

	// Global middleware
	app.Use(recover.New())
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${body}\n"
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(rootBanner)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"mode":     opts.Generation.Mode(),
			"services": opts.Services,
		})
	})

	generateHandler := handler.NewGenerateHandler(opts.Generation, validate)
	catalogHandler := handler.NewCatalogHandler(opts.Catalog)

	var apiMiddleware []fiber.Handler
	if cfg.Auth.Enabled {
		log.Println("Info: bearer authentication enabled for /api")
		apiMiddleware = append(apiMiddleware, middleware.NewAuthMiddleware(cfg.Auth.JWTSecret).Authenticate())
	}
	api := app.Group("/api", apiMiddleware...)

	generateLimit := func(c *fiber.Ctx) error { return c.Next() }
	if opts.Limiter != nil {
		generateLimit = opts.Limiter.GenerateLimit(cfg.RateLimit.GeneratePerMin)
	}

	// Generation routes
	api.Post("/generate", generateLimit, generateHandler.Generate)
	api.Post("/generate-lyrics", generateLimit, generateHandler.GenerateLyrics)
	api.Get("/generations", generateHandler.ListGenerations)
	api.Get("/generations/:id", generateHandler.GetGeneration)

	// Catalog routes
	api.Get("/catalog", catalogHandler.List)
	api.Get("/catalog/:id", catalogHandler.Get)

	// Job routes
	if opts.Jobs != nil {
		jobHandler := handler.NewJobHandler(opts.Jobs, validate)
		jobs := api.Group("/jobs")
		jobs.Post("/", generateLimit, jobHandler.Start)
		jobs.Get("/:jobId", jobHandler.Status)
		jobs.Get("/:jobId/result", jobHandler.Result)
	}

	// WebSocket routes
	if opts.Hub != nil {
		hub := opts.Hub
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})

		app.Get("/ws/jobs/:jobId", websocket.New(func(c *websocket.Conn) {
			hub.HandleConnection(c, c.Params("jobId"))
		}))
	}

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return response.Fail(c, code, message, response.ReasonServiceError, nil)
}
