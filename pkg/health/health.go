// Package health reports whether the event loop is responsive and a layout
// is mounted, for the optional HTTP endpoints of the netviz host.
package health

import (
	"time"
)

// NewChecker creates a checker with no probes
func NewChecker() *Checker {
	return &Checker{
		checks:      make(map[string]CheckFunc),
		readyChecks: make(map[string]CheckFunc),
		liveChecks:  make(map[string]CheckFunc),
		started:     time.Now(),
	}
}

// RegisterCheck adds a general check
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// RegisterReadinessCheck adds a readiness check
func (c *Checker) RegisterReadinessCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readyChecks[name] = check
}

// RegisterLivenessCheck adds a liveness check
func (c *Checker) RegisterLivenessCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.liveChecks[name] = check
}

// Check runs the general checks
func (c *Checker) Check() Response {
	return c.run(func() map[string]CheckFunc { return c.checks })
}

// CheckReadiness runs the readiness checks
func (c *Checker) CheckReadiness() Response {
	return c.run(func() map[string]CheckFunc { return c.readyChecks })
}

// CheckLiveness runs the liveness checks
func (c *Checker) CheckLiveness() Response {
	return c.run(func() map[string]CheckFunc { return c.liveChecks })
}

// run copies the probe set under the lock and runs it outside, since an
// event loop probe can block for its whole timeout
func (c *Checker) run(set func() map[string]CheckFunc) Response {
	c.mu.RLock()
	probes := make(map[string]CheckFunc, len(set()))
	for name, fn := range set() {
		probes[name] = fn
	}
	c.mu.RUnlock()

	response := Response{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]Check, len(probes)),
		Uptime:    time.Since(c.started),
	}
	for name, fn := range probes {
		start := time.Now()
		check := fn()
		check.Duration = time.Since(start)
		check.LastChecked = start
		if check.Name == "" {
			check.Name = name
		}
		response.Checks[name] = check

		// worst status wins
		switch check.Status {
		case StatusUnhealthy:
			response.Status = StatusUnhealthy
		case StatusDegraded:
			if response.Status != StatusUnhealthy {
				response.Status = StatusDegraded
			}
		}
	}
	return response
}
