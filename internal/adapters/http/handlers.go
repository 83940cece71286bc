package http

import (
	"context"
	"net/http"
	"time"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			writeFailure(r.Context(), w, failure{
				operation: "readyz",
				status:    http.StatusServiceUnavailable,
				code:      "NOT_READY",
				message:   "dependencies unavailable",
				err:       err,
			})
			return
		}
	}
	writeStatus(w, "ready")
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeFailure(r.Context(), w, failure{
				operation: "authenticate",
				status:    http.StatusUnauthorized,
				code:      "UNAUTHORIZED",
				message:   err.Error(),
			})
			return
		}
		identity, err := h.service.Authenticate(r.Context(), raw)
		if err != nil {
			writeMappedError(r.Context(), w, "authenticate", err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyIdentity, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
