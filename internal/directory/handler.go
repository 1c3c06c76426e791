package directory

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/bissquit/store-ratings/internal/domain"
	"github.com/bissquit/store-ratings/internal/pkg/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler handles HTTP requests for the directory module.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

// NewHandler creates a new directory handler.
func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterBrowseRoutes registers routes requiring the stores.list capability.
func (h *Handler) RegisterBrowseRoutes(r chi.Router) {
	r.Get("/stores", h.ListStores)
}

// RegisterUserAdminRoutes registers routes requiring the users.list capability.
func (h *Handler) RegisterUserAdminRoutes(r chi.Router) {
	r.Get("/users", h.ListUsers)
}

// RegisterStoreAdminRoutes registers routes requiring the stores.create
// capability.
func (h *Handler) RegisterStoreAdminRoutes(r chi.Router) {
	r.Post("/stores", h.CreateStore)
}

// sortFromQuery resolves the effective sort. An explicit order param wins;
// otherwise the requested key is toggled against the client's current state
// (current_sort/current_order), so re-selecting the active key flips
// direction and a new key starts ascending.
func sortFromQuery(q url.Values) Sort {
	key := q.Get("sort")
	if key == "" {
		return Sort{}
	}

	switch q.Get("order") {
	case "asc":
		return Sort{Key: key, Desc: false}
	case "desc":
		return Sort{Key: key, Desc: true}
	}

	current := Sort{
		Key:  q.Get("current_sort"),
		Desc: q.Get("current_order") == "desc",
	}
	return ToggleSort(current, key)
}

// ListUsers handles GET /users (admin only).
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	role := domain.Role(q.Get("role"))
	if role != "" && !role.IsValid() {
		httputil.Error(w, http.StatusBadRequest, "unknown role filter")
		return
	}

	users, err := h.service.ListUsers(r.Context(), UserFilter{
		Name:    q.Get("name"),
		Email:   q.Get("email"),
		Address: q.Get("address"),
		Role:    role,
	}, sortFromQuery(q))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, users)
}

// ListStores handles GET /stores.
func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	views, err := h.service.ListStores(r.Context(), httputil.GetUserID(r.Context()), StoreFilter{
		Name:    q.Get("name"),
		Email:   q.Get("email"),
		Address: q.Get("address"),
		Query:   q.Get("q"),
	}, sortFromQuery(q))
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusOK, views)
}

// CreateStoreRequest represents the store creation body.
type CreateStoreRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=60"`
	Email   string  `json:"email" validate:"required,email"`
	Address string  `json:"address" validate:"omitempty,max=400"`
	OwnerID *string `json:"owner_id" validate:"omitempty,uuid"`
}

// CreateStore handles POST /stores (admin only).
func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req CreateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.ValidationError(w, err)
		return
	}

	store, err := h.service.CreateStore(r.Context(), CreateStoreInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		OwnerID: req.OwnerID,
	})
	if err != nil {
		h.handleServiceError(r, w, err)
		return
	}

	httputil.Success(w, http.StatusCreated, store)
}

func (h *Handler) handleServiceError(r *http.Request, w http.ResponseWriter, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrOwnerNotFound, Status: http.StatusNotFound},
		{Error: ErrOwnerNotStoreOwner, Status: http.StatusBadRequest},
		{Error: ErrStoreEmailExists, Status: http.StatusConflict},
	})
}
