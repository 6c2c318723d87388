package handlers

import (
	"strings"

	"hr_records/middleware"
	"hr_records/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

type AppOptions struct {
	Logger      *zap.Logger
	CORSOrigins []string
}

// NewApp builds the fiber app with the shared middleware stack and all routes.
func NewApp(h *Handler, opts AppOptions) *fiber.App {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "hr-records",
		Views:                 views.Engine(),
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(opts.Logger))
	app.Use(middleware.SecurityHeaders())

	origins := "*"
	if len(opts.CORSOrigins) > 0 {
		origins = strings.Join(opts.CORSOrigins, ",")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	h.Register(app)
	return app
}
