package middleware

import (
	"time"

	"postboard/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig controls the global per-IP limiter.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
	// Storage shares counters across replicas. When nil the limiter keeps
	// counters in process memory.
	Storage fiber.Storage
}

// RateLimit returns a Fiber middleware enforcing cfg.Max requests per cfg.Window per client IP.
// Pre-flight requests are never limited; they are answered by the CORS middleware.
// A zero Max disables limiting.
func RateLimit(cfg RateLimitConfig) fiber.Handler {
	if cfg.Max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:        cfg.Max,
		Expiration: cfg.Window,
		Storage:    cfg.Storage,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return "rl:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewRateLimitError("Too many requests, please try again later."))
		},
	})
}
