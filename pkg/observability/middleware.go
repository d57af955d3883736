package observability

import (
	"net/http"
	"strconv"
	"time"
)

// statusRecorder captures the response status code for metrics labels.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the wrapped writer so streaming responses keep
// working through the instrumented handler.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware instruments an http.Handler with request count and duration
// metrics. The path label uses the registered pattern, not the raw URL,
// to keep cardinality bounded.
func Middleware(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		RequestsTotal.WithLabelValues(r.Method, statusClass(rec.status), pattern).Inc()
		RequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}
