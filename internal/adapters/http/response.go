package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// responseBody is the envelope of every reply. Failures carry a stable code and
// echo the request id so a caller can quote it when reporting a problem.
type responseBody struct {
	Status    string `json:"status"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// failure describes one rejected request before it is logged and written.
type failure struct {
	operation string
	status    int
	code      string
	message   string
	err       error
}

func adapterLogger() *slog.Logger {
	return slog.Default().With("module", "http", "layer", "adapter")
}

func writeJSON(w http.ResponseWriter, statusCode int, body responseBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, statusCode int, data any) {
	writeJSON(w, statusCode, responseBody{Status: "success", Data: data})
}

func writeStatus(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, responseBody{Status: "success", Message: message})
}

func writeMappedError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	status, code, msg := mapDomainError(err)
	writeFailure(ctx, w, failure{operation: operation, status: status, code: code, message: msg, err: err})
}

func writeValidationError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	writeFailure(ctx, w, failure{
		operation: operation,
		status:    http.StatusBadRequest,
		code:      "VALIDATION_ERROR",
		message:   err.Error(),
		err:       err,
	})
}

// writeFailure logs f at Warn, or Error for 5xx, and writes the error envelope.
func writeFailure(ctx context.Context, w http.ResponseWriter, f failure) {
	requestID := requestIDFromContext(ctx)
	fields := []any{
		"operation", f.operation,
		"outcome", "failure",
		"status_code", f.status,
		"error_code", f.code,
		"request_id", requestID,
	}
	if f.err != nil {
		fields = append(fields, "error", f.err.Error())
	}
	if f.status >= http.StatusInternalServerError {
		adapterLogger().ErrorContext(ctx, "http operation failed", fields...)
	} else {
		adapterLogger().WarnContext(ctx, "http operation failed", fields...)
	}
	writeJSON(w, f.status, responseBody{
		Status:    "error",
		Code:      f.code,
		Message:   f.message,
		RequestID: requestID,
	})
}
