package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"payoutkyc/internal/compliance/edit"
	"payoutkyc/internal/compliance/models"
	"payoutkyc/internal/compliance/service"
	id "payoutkyc/pkg/domain"
	dErrors "payoutkyc/pkg/domain-errors"
	"payoutkyc/pkg/platform/httputil"
	"payoutkyc/pkg/requestcontext"
)

// Service defines the compliance operations exposed over HTTP.
type Service interface {
	Plan(ctx context.Context, userID id.UserID, invalid models.FieldSet) (*service.PlanResult, error)
	Edit(ctx context.Context, userID id.UserID, e edit.Edit, invalid models.FieldSet) (*service.EditResult, error)
	Preview(ctx context.Context, in service.PreviewInput) models.FieldPlan
	Options(ctx context.Context) service.OptionsResult
	Profile(ctx context.Context, userID id.UserID) (models.Profile, error)
	SaveProfile(ctx context.Context, userID id.UserID, user models.User, method models.PayoutMethod) (models.Profile, error)
}

// Handler wires the payout settings endpoints to the compliance service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a compliance handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the compliance endpoints. Callers apply authentication.
func (h *Handler) Register(r chi.Router) {
	r.Get("/settings/payments/compliance", h.HandleGetPlan)
	r.Patch("/settings/payments/compliance", h.HandleEdit)
	r.Post("/settings/payments/compliance/preview", h.HandlePreview)
	r.Get("/settings/payments/options", h.HandleOptions)
	r.Get("/settings/payments/profile", h.HandleGetProfile)
	r.Put("/settings/payments/profile", h.HandleSaveProfile)
}

// HandleGetPlan handles GET /settings/payments/compliance. The optional
// invalid query parameter lists fields to flag, comma separated.
func (h *Handler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	invalid, err := parseInvalidFields(r.URL.Query().Get("invalid"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Plan(ctx, userID, invalid)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to resolve compliance plan",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleEdit handles PATCH /settings/payments/compliance.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[EditRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Edit(ctx, userID, req.ToEdit(), req.ParsedInvalidFields())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "compliance edit failed",
				"request_id", requestID,
				"user_id", userID,
				"field", req.Field,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "compliance edit applied",
		"request_id", requestID,
		"user_id", userID,
		"fields", result.Changed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandlePreview handles POST /settings/payments/compliance/preview. Nothing
// is stored; the plan is resolved from the posted snapshot.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if _, ok := h.requireUser(w, ctx); !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PreviewRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	plan := h.service.Preview(ctx, req.ToInput())
	httputil.WriteJSON(w, http.StatusOK, PreviewResponse{Plan: plan})
}

// HandleOptions handles GET /settings/payments/options.
func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := h.requireUser(w, ctx); !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.Options(ctx))
}

// HandleGetProfile handles GET /settings/payments/profile.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	p, err := h.service.Profile(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load payout profile",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromProfile(p))
}

// HandleSaveProfile handles PUT /settings/payments/profile.
func (h *Handler) HandleSaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ProfileRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	p, err := h.service.SaveProfile(ctx, userID, req.ToUser(), req.ParsedPayoutMethod())
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to save payout profile",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromProfile(p))
}

func (h *Handler) requireUser(w http.ResponseWriter, ctx context.Context) (id.UserID, bool) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}
