package health

import (
	"encoding/json"
	"net/http"
)

// HTTPHandler serves the general checks. Degraded still answers 200.
func (c *Checker) HTTPHandler() http.HandlerFunc {
	return handler(c.Check, false)
}

// ReadinessHandler serves the readiness checks; anything but healthy is 503
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return handler(c.CheckReadiness, true)
}

// LivenessHandler serves the liveness checks; anything but healthy is 503
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return handler(c.CheckLiveness, true)
}

func handler(check func() Response, strict bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := check()

		code := http.StatusOK
		switch {
		case response.Status == StatusUnhealthy:
			code = http.StatusServiceUnavailable
		case strict && response.Status != StatusHealthy:
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Router is satisfied by *http.ServeMux and chi.Router
type Router interface {
	Handle(pattern string, handler http.Handler)
}

// Register mounts /healthz, /readyz and /livez on r
func (c *Checker) Register(r Router) {
	r.Handle("/healthz", c.HTTPHandler())
	r.Handle("/readyz", c.ReadinessHandler())
	r.Handle("/livez", c.LivenessHandler())
}
