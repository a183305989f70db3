package handlers

import (
	"context"
	"net/http"

	"github.com/go-pkgz/routegroup"

	"github.com/VictorCainj/doc-forge-audit/internal/app/api/core/request"
	"github.com/VictorCainj/doc-forge-audit/internal/app/api/core/respond"
	"github.com/VictorCainj/doc-forge-audit/internal/app/api/v0/models"
	"github.com/VictorCainj/doc-forge-audit/internal/domain"
)

type SecurityEndpointService interface {
	GetActiveAlerts() []domain.SecurityAlert
	ResolveAlert(ctx context.Context, alertId, resolvedBy string)
	GetSecurityStats() domain.SecurityStats
}

type SecurityEndpoint struct {
	security SecurityEndpointService
}

func NewSecurityEndpoint(security SecurityEndpointService) *SecurityEndpoint {
	return &SecurityEndpoint{
		security: security,
	}
}

func (e SecurityEndpoint) GetName() string {
	return "SecurityEndpoint"
}

func (e SecurityEndpoint) RegisterRoutes(g *routegroup.Bundle) {
	apiGroup := g.Mount("/security")

	apiGroup.HandleFunc("GET /alerts", e.handleAlertsGet())
	apiGroup.HandleFunc("POST /alerts/{id}/resolve", e.handleAlertResolvePost())
	apiGroup.HandleFunc("GET /stats", e.handleStatsGet())
}

// handleAlertsGet returns all unresolved security alerts.
func (e SecurityEndpoint) handleAlertsGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !domain.GetSessionInfo(r.Context()).IsAdmin {
			code, body := ParseServiceError(domain.ErrNoPermission)
			respond.JSON(w, code, body)
			return
		}

		respond.JSON(w, http.StatusOK, models.NewSecurityAlerts(e.security.GetActiveAlerts()))
	}
}

// handleAlertResolvePost resolves the named alert. Unknown or already
// resolved alert ids are ignored, the call is idempotent.
func (e SecurityEndpoint) handleAlertResolvePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := domain.GetSessionInfo(r.Context())
		if !session.IsAdmin {
			code, body := ParseServiceError(domain.ErrNoPermission)
			respond.JSON(w, code, body)
			return
		}

		alertId := request.Path(r, "id")
		if alertId == "" {
			respond.JSON(w, http.StatusBadRequest,
				models.Error{Code: http.StatusBadRequest, Message: "missing alert id"})
			return
		}

		e.security.ResolveAlert(r.Context(), alertId, session.ActorId)

		respond.Status(w, http.StatusNoContent)
	}
}

// handleStatsGet returns aggregate alert counters.
func (e SecurityEndpoint) handleStatsGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !domain.GetSessionInfo(r.Context()).IsAdmin {
			code, body := ParseServiceError(domain.ErrNoPermission)
			respond.JSON(w, code, body)
			return
		}

		respond.JSON(w, http.StatusOK, models.NewSecurityStats(e.security.GetSecurityStats()))
	}
}
