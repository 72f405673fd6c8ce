package handling

import (
	"context"
	"errors"
	"net/http"

	"foodorder_server/lib"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

// HandleError logs a failed request with its route and request id, then
// answers with the status the cause maps to. Anything unrecognized is a 500.
func HandleError(w http.ResponseWriter, r *http.Request, logger *gecho.Logger, err error, msg string) {
	logger.Error("Request failed",
		gecho.Field("error", err),
		gecho.Field("msg", msg),
		gecho.Field("method", r.Method),
		gecho.Field("route", routeOf(r)),
		gecho.Field("request_id", chiware.GetReqID(r.Context())),
		gecho.WithCallerSkip(3),
	)

	switch {
	case errors.Is(err, lib.ErrNotFound):
		gecho.NotFound(w, gecho.WithMessage("Resource not found"), gecho.Send())
	case errors.Is(err, lib.ErrConflict):
		gecho.Conflict(w, gecho.WithMessage("Resource already exists"), gecho.Send())
	case errors.Is(err, context.DeadlineExceeded):
		gecho.ServiceUnavailable(w, gecho.WithMessage("Upstream timed out"), gecho.Send())
	default:
		gecho.InternalServerError(w, gecho.Send())
	}
}

// routeOf prefers the matched chi pattern so order ids stay out of the logs.
func routeOf(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
