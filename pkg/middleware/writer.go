package middleware

import "net/http"

// ErrorTypeRecorder is implemented by response writers that want to know the
// error_type of a failure envelope. httputil.WriteFailure reports to it.
type ErrorTypeRecorder interface {
	RecordErrorType(errorType string)
}

// statusRecorder captures what a handler wrote: status code, body size and,
// for failure envelopes, the error type. Logging, tracing and metrics each
// wrap the writer with one.
type statusRecorder struct {
	http.ResponseWriter
	status    int
	bytes     int
	errorType string
	wrote     bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wrote {
		r.status = code
		r.wrote = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wrote = true
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// RecordErrorType stores errorType and passes it to any recorder further out.
func (r *statusRecorder) RecordErrorType(errorType string) {
	r.errorType = errorType
	if next, ok := r.ResponseWriter.(ErrorTypeRecorder); ok {
		next.RecordErrorType(errorType)
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
