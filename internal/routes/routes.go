package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/soundrift/soundrift-moderation/internal/config"
	"github.com/soundrift/soundrift-moderation/internal/handlers"
	"github.com/soundrift/soundrift-moderation/internal/middleware"
	"github.com/soundrift/soundrift-moderation/internal/models"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	reportHandler *handlers.ReportHandler,
	moderationHandler *handlers.ModerationHandler,
	metricsHandler *handlers.MetricsHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health and public analytics
	api.Get("/health", healthHandler.Check)
	api.Get("/trending", analyticsHandler.Trending)

	// Report submission (protected). The per-user 10/24h report limit is
	// enforced in the service; this HTTP limiter only guards against bursts.
	reports := api.Group("/reports", middleware.JWTProtected(cfg))
	reports.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	reports.Post("/", reportHandler.SubmitReport)

	// Moderation panel (protected + moderator role required)
	admin := api.Group("/admin",
		middleware.JWTProtected(cfg),
		middleware.RoleRequired(db, cfg, models.RoleModerator),
	)
	admin.Get("/moderation/reports", reportHandler.ListReports)
	admin.Post("/moderation/actions", moderationHandler.TakeAction)
	admin.Post("/moderation/actions/:id/reverse", moderationHandler.ReverseAction)
	admin.Put("/moderation/actions/:id/verification-notes", moderationHandler.UpdateVerificationNotes)
	admin.Get("/moderation/users/:id/history", moderationHandler.UserHistory)
	admin.Get("/moderation/users/:id/profile", moderationHandler.UserProfile)
	admin.Get("/moderation/reports/:id/reversals", moderationHandler.ReportReversals)
	admin.Get("/moderation/albums/:id/context", moderationHandler.AlbumContext)
	admin.Get("/moderation/metrics", metricsHandler.GetMetrics)
}
