package http

import (
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/MKhiriev/go-board-sync/internal/app"
	"github.com/MKhiriev/go-board-sync/internal/logger"
)

// chaos injects latency and random failures into API requests so clients can
// be exercised against an unreliable network.
type chaos struct {
	mu          sync.RWMutex
	latency     time.Duration
	failureRate float64

	roll func() float64
}

func newChaos(latency time.Duration, failureRate float64) *chaos {
	return &chaos{
		latency:     latency,
		failureRate: failureRate,
		roll:        rand.Float64,
	}
}

func (c *chaos) settings() (time.Duration, float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latency, c.failureRate
}

func (c *chaos) setLatency(d time.Duration) {
	c.mu.Lock()
	c.latency = d
	c.mu.Unlock()
}

func (c *chaos) setFailureRate(rate float64) {
	c.mu.Lock()
	c.failureRate = rate
	c.mu.Unlock()
}

func (c *chaos) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		latency, failureRate := c.settings()

		if latency > 0 {
			timer := time.NewTimer(latency)
			select {
			case <-timer.C:
			case <-r.Context().Done():
				timer.Stop()
				return
			}
		}

		if failureRate > 0 && c.roll() < failureRate {
			logger.FromRequest(r).Warn().
				Str("func", "chaos.middleware").
				Str("uri", r.RequestURI).
				Float64("failure_rate", failureRate).
				Msg("injected failure")
			writeErrorBody(w, app.MsgSimulatedFailure, http.StatusServiceUnavailable)
			return
		}

		next.ServeHTTP(w, r)
	})
}
