// Package health backs the bookstore API's /livez and /readyz endpoints.
//
// Liveness covers the process itself (goroutine leaks); readiness covers
// what a request needs to succeed, which for this service means the
// PostgreSQL pool. A check tolerates transient blips: it flips to failing
// only after failureThreshold consecutive errors and recovers on the first
// success. SetReady gates /readyz independently of the checks so shutdown
// can drain traffic before the listener closes.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc reports on one dependency. Nil means healthy.
type CheckFunc func(ctx context.Context) error

// Consecutive errors before a check is reported failing.
const failureThreshold = 3

// check pairs a CheckFunc with its failure state. The fails counter is
// touched only by the sweep goroutine; failing and lastErr are read by the
// endpoints, so those are atomic.
type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	failing atomic.Bool
	lastErr atomic.Pointer[error]
	fails   int
}

// observe runs the check once and updates its state. Called only from the
// sweep goroutine.
func (c *check) observe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.fn(ctx)
	c.lastErr.Store(&err)
	if err == nil {
		c.fails = 0
		c.failing.Store(false)
		return
	}
	c.fails++
	if c.fails >= failureThreshold {
		c.failing.Store(true)
	}
}

func (c *check) failureMessage() string {
	if p := c.lastErr.Load(); p != nil && *p != nil {
		return (*p).Error()
	}
	return "check failing"
}

// Service owns the registered checks and the readiness gate.
type Service struct {
	ready atomic.Bool

	mu        sync.Mutex
	liveness  []*check
	readiness []*check
	stop      context.CancelFunc
}

// New returns a Service with no checks and the readiness gate closed. Call
// SetReady(true) once startup finishes.
func New() *Service {
	return &Service{}
}

// AddLivenessCheck registers a check served by /livez. Register checks
// before Start.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = append(s.liveness, &check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a check served by /readyz.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readiness = append(s.readiness, &check{name: name, timeout: timeout, fn: fn})
}

// Start sweeps all registered checks once immediately, then at every
// interval, until Stop is called or ctx is cancelled.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.stop = cancel
	checks := append(slices.Clone(s.liveness), s.readiness...)
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			for _, c := range checks {
				c.observe(ctx)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// SetReady opens or closes the readiness gate. The server closes it when
// shutdown begins so the load balancer drains us first.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Stop ends the sweep goroutine. Safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

// checkReport is the body of both endpoints: {"status":"pass"} when clean,
// {"status":"fail","failed":{name: reason}} otherwise.
type checkReport struct {
	Status string            `json:"status"`
	Failed map[string]string `json:"failed,omitempty"`
}

// LiveEndpoint serves /livez from the last sweep's results.
func (s *Service) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	checks := slices.Clone(s.liveness)
	s.mu.Unlock()

	writeReport(w, failures(checks))
}

// ReadyEndpoint serves /readyz. It fails while the readiness gate is closed
// even when every check passes.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	checks := slices.Clone(s.readiness)
	s.mu.Unlock()

	failed := failures(checks)
	if !s.ready.Load() {
		failed["service"] = "not accepting traffic"
	}
	writeReport(w, failed)
}

func failures(checks []*check) map[string]string {
	failed := make(map[string]string)
	for _, c := range checks {
		if c.failing.Load() {
			failed[c.name] = c.failureMessage()
		}
	}
	return failed
}

func writeReport(w http.ResponseWriter, failed map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	report := checkReport{Status: "pass"}
	code := http.StatusOK
	if len(failed) > 0 {
		report.Status = "fail"
		report.Failed = failed
		code = http.StatusServiceUnavailable
	}
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(report)
}
