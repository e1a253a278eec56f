package api

import (
	"net/http"
	"time"
)

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument opens a span per request (continuing a propagated trace),
// records the request metrics and writes one log line.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		carrier := make(map[string]string)
		for _, key := range []string{"traceparent", "tracestate", "baggage"} {
			if v := r.Header.Get(key); v != "" {
				carrier[key] = v
			}
		}
		ctx := s.tracer.SetCarrierOnContext(r.Context(), carrier)
		ctx, span := s.tracer.StartSpan(ctx, r.Method+" "+r.URL.Path)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		r = r.WithContext(ctx)
		next.ServeHTTP(rec, r)

		// set by the mux on the request it was handed
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}

		s.metrics.ObserveRequest(r.Method, route, rec.status, start)
		s.tracer.SetAttributes(span, map[string]interface{}{
			"http.method": r.Method,
			"http.route":  route,
			"http.status": rec.status,
		})

		fields := map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if rec.status >= http.StatusInternalServerError {
			s.logger.WarnWithContext(ctx, "request failed", nil, fields)
			return
		}
		s.logger.Debug("request handled", nil, fields)
	})
}

// limitBody caps the size of request bodies.
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.MaxBodyBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}
