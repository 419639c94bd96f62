package monitoring

import (
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Config holds New Relic configuration
type Config struct {
	LicenseKey string
	AppName    string
	Enabled    bool
	LogLevel   string
}

// NewRelicApp wraps the New Relic application
type NewRelicApp struct {
	*newrelic.Application
	enabled bool
}

// New creates a new New Relic application
func New(cfg Config) (*NewRelicApp, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		// Return disabled app
		return &NewRelicApp{nil, false}, nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(true),
		newrelic.ConfigDistributedTracerEnabled(true),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}

	return &NewRelicApp{app, true}, nil
}

// RecordCustomEvent records a custom event
func (nr *NewRelicApp) RecordCustomEvent(eventType string, params map[string]interface{}) {
	if nr == nil || !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomEvent(eventType, params)
}

// RecordCustomMetric records a custom metric
func (nr *NewRelicApp) RecordCustomMetric(name string, value float64) {
	if nr == nil || !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.RecordCustomMetric(name, value)
}

// Shutdown gracefully shuts down the New Relic application
func (nr *NewRelicApp) Shutdown(timeout time.Duration) {
	if nr == nil || !nr.enabled || nr.Application == nil {
		return
	}
	nr.Application.Shutdown(timeout)
}

// Custom metric helpers

// RecordReservationCreated records a successful seat reservation
func (nr *NewRelicApp) RecordReservationCreated(tripID int64, seatsLeft int) {
	nr.RecordCustomEvent("ReservationCreated", map[string]interface{}{
		"trip_id":    tripID,
		"seats_left": seatsLeft,
		"timestamp":  time.Now().Unix(),
	})
}

// RecordReservationCancelled records a reservation cancellation
func (nr *NewRelicApp) RecordReservationCancelled(reservationID int64, byDriver bool) {
	nr.RecordCustomEvent("ReservationCancelled", map[string]interface{}{
		"reservation_id": reservationID,
		"by_driver":      byDriver,
	})
}

// RecordSeatsExhausted records a reservation attempt on a full trip
func (nr *NewRelicApp) RecordSeatsExhausted(tripID int64) {
	nr.RecordCustomMetric("custom/reservation/seats_exhausted", 1)
	nr.RecordCustomEvent("SeatsExhausted", map[string]interface{}{
		"trip_id": tripID,
	})
}

// RecordTripCreated records trip publication
func (nr *NewRelicApp) RecordTripCreated(origin, destination string, seats int) {
	nr.RecordCustomEvent("TripCreated", map[string]interface{}{
		"origin":      origin,
		"destination": destination,
		"seats":       seats,
	})
}

// RecordSearchCacheHit records whether a trip search was served from cache
func (nr *NewRelicApp) RecordSearchCacheHit(hit bool) {
	if hit {
		nr.RecordCustomMetric("custom/trips/search_cache_hit", 1)
		return
	}
	nr.RecordCustomMetric("custom/trips/search_cache_miss", 1)
}

// IsEnabled returns whether New Relic is enabled
func (nr *NewRelicApp) IsEnabled() bool {
	return nr != nil && nr.enabled
}
