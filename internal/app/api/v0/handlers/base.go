package handlers

import (
	"errors"
	"net/http"

	"github.com/go-pkgz/routegroup"

	"github.com/VictorCainj/doc-forge-audit/internal/app/api/core"
	"github.com/VictorCainj/doc-forge-audit/internal/app/api/core/request"
	"github.com/VictorCainj/doc-forge-audit/internal/app/api/v0/models"
	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

type Handler interface {
	// GetName returns the name of the handler.
	GetName() string
	// RegisterRoutes registers the routes for the handler.
	RegisterRoutes(g *routegroup.Bundle)
}

func NewRestApi(handlers ...Handler) core.ApiEndpointSetupFunc {
	return func() (core.ApiVersion, core.GroupSetupFn) {
		return "v0", func(group *routegroup.Bundle) {
			group.Use(sessionMiddleware)

			for _, h := range handlers {
				h.RegisterRoutes(group)
			}
		}
	}
}

// sessionMiddleware attributes the request to the ambient session. Identity
// headers are set by the upstream gateway which terminates authentication;
// the dashboard itself is an external consumer of this API.
func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &domain.ContextSessionInfo{
			ActorId:    r.Header.Get("X-Actor-Id"),
			ActorLabel: r.Header.Get("X-Actor-Label"),
			IsAdmin:    r.Header.Get("X-Actor-Admin") == "true",

			SessionId:     r.Header.Get("X-Session-Id"),
			SourceAddress: request.ClientAddress(r),
			ClientLabel:   r.UserAgent(),
		}
		if info.ActorId == "" {
			info.ActorId = domain.CtxUnknownActorId
		}

		next.ServeHTTP(w, r.WithContext(domain.SetSessionInfo(r.Context(), info)))
	})
}

func ParseServiceError(err error) (int, models.Error) {
	if err == nil {
		return http.StatusInternalServerError, models.Error{
			Code:    http.StatusInternalServerError,
			Message: "unknown server error",
		}
	}

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrNoPermission):
		code = http.StatusForbidden
	case errors.Is(err, domain.ErrDuplicateEntry):
		code = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidData):
		code = http.StatusBadRequest
	}

	return code, models.Error{
		Code:    code,
		Message: err.Error(),
	}
}
