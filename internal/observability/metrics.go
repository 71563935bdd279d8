// Package observability exposes Prometheus metrics for domain events. HTTP
// request metrics come from the fiberprometheus middleware; these counters
// cover what that middleware cannot see.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts counts login attempts by outcome (success, failure).
	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_auth_attempts_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"outcome"})

	// RegistrationsTotal counts successful user registrations.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recipebox_registrations_total",
		Help: "Total number of successful user registrations",
	})

	// ImageUploads counts recipe image uploads by outcome (success, rejected).
	ImageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_image_uploads_total",
		Help: "Total number of recipe image uploads by outcome",
	}, []string{"outcome"})
)
