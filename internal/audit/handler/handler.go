// Package handler exposes the compliance audit trail to operators.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"payoutkyc/internal/audit"
	id "payoutkyc/pkg/domain"
	"payoutkyc/pkg/platform/httputil"
	"payoutkyc/pkg/requestcontext"
)

// Lister reads a user's audit trail.
type Lister interface {
	List(ctx context.Context, userID id.UserID) ([]audit.Event, error)
}

type Handler struct {
	events Lister
	logger *slog.Logger
}

func New(events Lister, logger *slog.Logger) *Handler {
	return &Handler{events: events, logger: logger}
}

// Register mounts the audit routes. Callers apply the admin guard.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/audit/{user_id}", h.HandleList)
}

// ListResponse is the audit trail of one user, oldest first.
type ListResponse struct {
	Events []audit.Event `json:"events"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "user_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.events.List(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Events: events})
}
