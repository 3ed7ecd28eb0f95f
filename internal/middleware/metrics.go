package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rdfportal_redis_errors_total",
	Help: "Number of Redis command errors by command.",
}, []string{"command"})

// GuardRedirects counts route guard decisions that redirected, by target route.
var GuardRedirects = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rdfportal_guard_redirects_total",
	Help: "Number of route access decisions that resulted in a redirect.",
}, []string{"target"})

// RegistrationReviews counts registration approvals/rejections.
var RegistrationReviews = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rdfportal_registration_reviews_total",
	Help: "Number of registration requests reviewed, by outcome.",
}, []string{"outcome"})

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(service string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(service)
}

// MetricsMiddleware returns the request-instrumentation handler for the app.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
