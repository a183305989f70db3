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

type AuditEndpointService interface {
	GetLogs(ctx context.Context, filter domain.AuditEventFilter) (*domain.PagedAuditEvents, error)
	GetAllLogs(ctx context.Context, filter domain.AuditEventFilter) ([]domain.AuditEvent, error)
}

type AuditEndpoint struct {
	audit AuditEndpointService
}

func NewAuditEndpoint(audit AuditEndpointService) *AuditEndpoint {
	return &AuditEndpoint{
		audit: audit,
	}
}

func (e AuditEndpoint) GetName() string {
	return "AuditEndpoint"
}

func (e AuditEndpoint) RegisterRoutes(g *routegroup.Bundle) {
	apiGroup := g.Mount("/audit")

	apiGroup.HandleFunc("GET /logs", e.handleLogsGet())
	apiGroup.HandleFunc("GET /logs/export", e.handleLogsExportGet())
}

// handleLogsGet returns one page of audit logs, newest first.
//
// Query parameters: startTime, endTime (RFC 3339), action, actorId,
// resourceType, successOnly, limit, offset.
func (e AuditEndpoint) handleLogsGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := e.audit.GetLogs(r.Context(), auditFilterFromRequest(r))
		if err != nil {
			code, body := ParseServiceError(err)
			respond.JSON(w, code, body)
			return
		}

		respond.JSON(w, http.StatusOK, models.NewPagedAuditEvents(logs))
	}
}

// handleLogsExportGet returns all matching audit logs without pagination.
func (e AuditEndpoint) handleLogsExportGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := e.audit.GetAllLogs(r.Context(), auditFilterFromRequest(r))
		if err != nil {
			code, body := ParseServiceError(err)
			respond.JSON(w, code, body)
			return
		}

		respond.Attachment(w, http.StatusOK, "audit-logs.json", models.NewAuditEvents(logs))
	}
}

func auditFilterFromRequest(r *http.Request) domain.AuditEventFilter {
	return domain.AuditEventFilter{
		StartTime:     request.QueryTime(r, "startTime"),
		EndTime:       request.QueryTime(r, "endTime"),
		Action:        domain.AuditAction(request.Query(r, "action")),
		ActorId:       request.Query(r, "actorId"),
		ResourceType:  request.Query(r, "resourceType"),
		SucceededOnly: request.QueryBool(r, "successOnly", false),
		Limit:         request.QueryInt(r, "limit", 0),
		Offset:        request.QueryInt(r, "offset", 0),
	}
}
