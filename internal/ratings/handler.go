package ratings

import (
	"encoding/json"
	"net/http"

	"github.com/bissquit/store-ratings/internal/domain"
	"github.com/bissquit/store-ratings/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the ratings module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new ratings handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterSubmitRoutes registers routes requiring the ratings.rate capability.
func (h *Handler) RegisterSubmitRoutes(r chi.Router) {
	r.Post("/ratings", h.Upsert)
}

// RegisterOwnRoutes registers routes requiring the ratings.view_own capability.
func (h *Handler) RegisterOwnRoutes(r chi.Router) {
	r.Get("/ratings/my", h.ListMine)
}

// RegisterAdminRoutes registers routes requiring the ratings.list capability.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/ratings", h.ListAll)
}

// RegisterOwnerRoutes registers routes requiring the dashboard.view capability.
func (h *Handler) RegisterOwnerRoutes(r chi.Router) {
	r.Get("/my-store", h.OwnerDashboard)
}

// UpsertRequest represents the rating submission body.
type UpsertRequest struct {
	StoreID string `json:"store_id" validate:"required,uuid"`
	Value   int    `json:"value"`
}

// UpsertResponse wraps the stored rating with whether it was newly created.
type UpsertResponse struct {
	Rating  *domain.Rating `json:"rating"`
	Created bool           `json:"created"`
}

// Upsert handles POST /ratings.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	rating, created, err := h.service.UpsertRating(r.Context(), UpsertInput{
		UserID:  httputil.GetUserID(r.Context()),
		StoreID: req.StoreID,
		Value:   req.Value,
	})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.Success(w, status, UpsertResponse{Rating: rating, Created: created})
}

// ListAll handles GET /ratings (admin only).
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.ListAll(r.Context())
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}
	httputil.Success(w, http.StatusOK, all)
}

// ListMine handles GET /ratings/my.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	mine, err := h.service.ListByUser(r.Context(), httputil.GetUserID(r.Context()))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}
	httputil.Success(w, http.StatusOK, mine)
}

// OwnerDashboard handles GET /my-store.
func (h *Handler) OwnerDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.OwnerDashboard(r.Context(), httputil.GetUserID(r.Context()))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}
	httputil.Success(w, http.StatusOK, dashboard)
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrInvalidRatingValue, Status: http.StatusBadRequest},
		{Error: ErrStoreNotFound, Status: http.StatusNotFound},
		{Error: ErrRatingNotFound, Status: http.StatusNotFound},
	})
}
