package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"go-ecommerce-api/apperrors"
	"go-ecommerce-api/middleware"
	"go-ecommerce-api/services"
)

// requestTimeout bounds the database work of a single request.
const requestTimeout = 10 * time.Second

type message struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

// callerFrom returns the authenticated caller set by middleware.AuthMiddleware.
func callerFrom(r *http.Request) (services.Caller, error) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return services.Caller{}, apperrors.Unauthorized("Unauthorized", apperrors.UnauthorizedAccess)
	}
	return services.CallerFrom(user), nil
}

// pathID reads a numeric path variable. Routes constrain ids to digits, so
// only overflow can fail here; it is reported like a missing entity.
func pathID(r *http.Request, code apperrors.ErrorCode) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 0)
	if err != nil || id == 0 {
		return 0, apperrors.NotFound("Not found", code)
	}
	return uint(id), nil
}
