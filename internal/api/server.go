package api

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/session"
)

// HealthChecker reports whether a dependency can serve traffic.
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) Healthy(ctx context.Context) error { return f(ctx) }

type Server struct {
	ProfileService services.ProfileService
	DeckService    services.DeckService
	ReviewService  services.ReviewService
	ImportService  services.ImportService
	Tokens         *session.Tokens
	DB             HealthChecker

	CORSAllowedOrigins []string
	SecureCookies      bool
	SessionTTL         time.Duration
	RequestTimeout     time.Duration
}
