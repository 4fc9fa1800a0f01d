package handlers

import (
	"context"
	"net/http"

	"github.com/Wilmersdorf/spaceoverview/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type theoremService interface {
	Create(ctx context.Context, t *domain.Theorem) error
	Update(ctx context.Context, t *domain.Theorem) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Theorem, error)
	List(ctx context.Context, propertyID *uuid.UUID) ([]domain.Theorem, error)
}

type TheoremHandler struct {
	svc    theoremService
	logger *zap.Logger
}

func NewTheoremHandler(svc theoremService, logger *zap.Logger) *TheoremHandler {
	return &TheoremHandler{svc: svc, logger: logger}
}

type theoremPartRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid"`
	Field      string `json:"field" validate:"required,oneof=REAL NOT_REAL COMPLEX NOT_COMPLEX REAL_AND_COMPLEX REAL_AND_NOT_COMPLEX NOT_REAL_AND_COMPLEX NOT_REAL_AND_NOT_COMPLEX"`
}

type theoremRequest struct {
	Name        *string              `json:"name" validate:"omitempty,max=128"`
	Description *string              `json:"description" validate:"omitempty,max=1024"`
	Conditions  []theoremPartRequest `json:"conditions" validate:"required,min=1,max=5,dive"`
	Conclusions []theoremPartRequest `json:"conclusions" validate:"required,min=1,max=5,dive"`
}

// toDomain expects a validated request, so property ids parse.
func (req theoremRequest) toDomain() *domain.Theorem {
	t := &domain.Theorem{
		Name:        req.Name,
		Description: req.Description,
	}
	for _, c := range req.Conditions {
		t.Conditions = append(t.Conditions, domain.Condition{
			PropertyID: uuid.MustParse(c.PropertyID),
			Field:      domain.FieldLink(c.Field),
		})
	}
	for _, c := range req.Conclusions {
		t.Conclusions = append(t.Conclusions, domain.Conclusion{
			PropertyID: uuid.MustParse(c.PropertyID),
			Field:      domain.FieldLink(c.Field),
		})
	}
	return t
}

func (h *TheoremHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req theoremRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	t := req.toDomain()
	if err := h.svc.Create(r.Context(), t); err != nil {
		writeServiceError(w, h.logger, err, "failed to create theorem")
		return
	}

	writeJSON(w, http.StatusCreated, t)
}

func (h *TheoremHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "theorem")
	if !ok {
		return
	}

	t, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to get theorem")
		return
	}

	writeJSON(w, http.StatusOK, t)
}

func (h *TheoremHandler) List(w http.ResponseWriter, r *http.Request) {
	var propertyID *uuid.UUID
	if v := r.URL.Query().Get("property_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid property id")
			return
		}
		propertyID = &id
	}

	theorems, err := h.svc.List(r.Context(), propertyID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to list theorems")
		return
	}
	if theorems == nil {
		theorems = []domain.Theorem{}
	}

	writeJSON(w, http.StatusOK, theorems)
}

func (h *TheoremHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "theorem")
	if !ok {
		return
	}

	var req theoremRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	t := req.toDomain()
	t.ID = id
	if err := h.svc.Update(r.Context(), t); err != nil {
		writeServiceError(w, h.logger, err, "failed to update theorem")
		return
	}

	writeJSON(w, http.StatusOK, t)
}

func (h *TheoremHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "theorem")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err, "failed to delete theorem")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
