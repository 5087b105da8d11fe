package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/retrovault/backend/internal/dto"
	"github.com/retrovault/backend/internal/errs"
	"github.com/retrovault/backend/internal/middleware"
	"github.com/retrovault/backend/internal/response"
	"github.com/retrovault/backend/pkg/logger"
)

const serviceName = "retrovault-sync"

type syncService interface {
	Sync(ctx context.Context, req dto.SyncRequest) (dto.SyncResult, error)
}

type syncHandlers struct {
	ResponseHandler response.ResponseHandler
	Validator       *validator.Validate
	SyncSvc         syncService
}

func NewSyncHandlers(deps *Deps) *syncHandlers {
	v := deps.Validator
	if v == nil {
		v = NewValidator()
	}
	return &syncHandlers{
		ResponseHandler: deps.ResponseHandler,
		Validator:       v,
		SyncSvc:         deps.SyncSvc,
	}
}

// SyncRoutes is mounted behind the auth middleware when auth is enabled.
func (h *syncHandlers) SyncRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Sync)
	return r
}

func (h *syncHandlers) Sync(w http.ResponseWriter, r *http.Request) {
	var req dto.SyncRequest
	if err := decodeAndValidate(r, h.Validator, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	// with auth on, callers may only sync themselves
	if uid := middleware.UID(r.Context()); uid != "" && uid != req.UserID {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("userId does not match the authenticated user"))
		return
	}

	res, err := h.SyncSvc.Sync(r.Context(), req)
	if err != nil {
		h.syncError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, res)
}

// syncError keeps the /sync contract: 400 for invalid input, 500 for any
// other failure with the error message in the body.
func (h *syncHandlers) syncError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Error("sync failed", "error", err)
	h.ResponseHandler.WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
}

// Health is unauthenticated and answers without the success envelope.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto.HealthResponse{Status: "ok", Service: serviceName}); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode health response", "error", err)
	}
}
