// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ManuGH/devfront/internal/control/http/problem"
	"github.com/ManuGH/devfront/internal/log"
)

// maxRequestIDLen bounds client-supplied request IDs.
const maxRequestIDLen = 128

// RequestID adds a unique ID to every request. A client-supplied
// X-Request-ID is kept so proxied calls correlate with the backend.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(problem.HeaderRequestID)
		if reqID == "" || len(reqID) > maxRequestIDLen {
			reqID = uuid.New().String()
			r.Header.Set(problem.HeaderRequestID, reqID)
		}
		w.Header().Set(problem.HeaderRequestID, reqID)
		ctx := log.ContextWithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
