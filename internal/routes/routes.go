// Package routes wires handlers and middleware onto the fiber app.
package routes

import (
	"time"

	"campusrent/internal/handlers"
	"campusrent/internal/middleware"
	"campusrent/internal/models"
	"campusrent/internal/services/auth"
	"campusrent/internal/services/deposit"
	"campusrent/internal/services/dispute"
	"campusrent/internal/services/escrow"
	"campusrent/internal/services/fee"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies are the services the HTTP layer exposes.
type Dependencies struct {
	Auth     auth.Service
	Fees     fee.Service
	Deposits deposit.Service
	Escrow   escrow.Service
	Disputes dispute.Service
	Health   *handlers.HealthHandler
}

type Options struct {
	AllowOrigins string
	// RateLimit caps requests per client IP on login and quote routes
	// within RateWindow.
	RateLimit  int
	RateWindow time.Duration
	AccessLog  bool
}

func DefaultOptions() Options {
	return Options{
		AllowOrigins: "http://localhost:5173",
		RateLimit:    20,
		RateWindow:   time.Minute,
		AccessLog:    true,
	}
}

// SetupMiddleware installs the app-wide middleware.
func SetupMiddleware(app *fiber.App, opts Options) {
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,OPTIONS",
		AllowCredentials: true,
	}))
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}
}

func rateLimit(opts Options) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        opts.RateLimit,
		Expiration: opts.RateWindow,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	})
}

// SetupRoutes registers every endpoint.
func SetupRoutes(app *fiber.App, deps Dependencies, opts Options) {
	authHandler := handlers.NewAuthHandler(deps.Auth)
	quoteHandler := handlers.NewQuoteHandler(deps.Fees, deps.Deposits)
	escrowHandler := handlers.NewEscrowHandler(deps.Escrow)
	disputeHandler := handlers.NewDisputeHandler(deps.Disputes)
	authMiddleware := middleware.NewAuthMiddleware(deps.Auth)

	health := deps.Health
	if health == nil {
		health = handlers.NewHealthHandler(nil, nil, nil)
	}
	app.Get("/health", health.Health)

	authLimit := rateLimit(opts)
	quoteLimit := rateLimit(opts)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", authLimit, authHandler.Login)
	authGroup.Post("/refresh", authLimit, authHandler.Refresh)
	authGroup.Post("/logout", authMiddleware.Handler, authHandler.Logout)

	app.Post("/fees/quote", quoteLimit, quoteHandler.QuoteFee)
	app.Post("/deposits/quote", quoteLimit, quoteHandler.QuoteDeposit)

	escrowGroup := app.Group("/escrow", authMiddleware.Handler)
	escrowGroup.Post("/", middleware.HasPermission(models.PermissionEscrowCreate), escrowHandler.Create)
	escrowGroup.Get("/:id", middleware.HasPermission(models.PermissionEscrowRead), escrowHandler.Get)
	escrowGroup.Get("/:id/events", middleware.HasPermission(models.PermissionEscrowRead), escrowHandler.Events)
	escrowGroup.Post("/:id/hold", middleware.HasPermission(models.PermissionEscrowCreate), escrowHandler.Hold)
	escrowGroup.Post("/:id/release", middleware.HasPermission(models.PermissionEscrowSettle), escrowHandler.Release)
	escrowGroup.Post("/:id/refund", middleware.HasPermission(models.PermissionEscrowSettle), escrowHandler.Refund)

	disputeGroup := app.Group("/disputes", authMiddleware.Handler)
	disputeGroup.Post("/", middleware.HasPermission(models.PermissionDisputeFile), disputeHandler.FileDispute)
	disputeGroup.Get("/mine", disputeHandler.MyDisputes)

	admin := app.Group("/admin", authMiddleware.Handler, middleware.AdminOnly)
	admin.Get("/disputes", disputeHandler.OpenDisputes)
	admin.Post("/disputes/:id/resolve", disputeHandler.Resolve)
}
