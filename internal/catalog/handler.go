package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rogerioalves7/domo-1/internal/platform/httpx"
	"github.com/rogerioalves7/domo-1/internal/shared"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.handleListCategories)
		r.Post("/", h.handleCreateCategory)
		r.Get("/{id}", h.handleGetCategory)
		r.Put("/{id}", h.handleUpdateCategory)
		r.Delete("/{id}", h.handleDeleteCategory)
	})
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.handleListProducts)
		r.Post("/", h.handleCreateProduct)
		r.Get("/{id}", h.handleGetProduct)
		r.Put("/{id}", h.handleUpdateProduct)
		r.Delete("/{id}", h.handleDeleteProduct)
	})
}

type categoryForm struct {
	Name string `json:"name" validate:"required,max=120"`
	Type string `json:"type" validate:"omitempty,oneof=EXPENSE INCOME"`
}

type productForm struct {
	Name           string       `json:"name" validate:"required,max=120"`
	EstimatedPrice shared.Cents `json:"estimated_price" validate:"gte=0"`
	MinQuantity    float64      `json:"min_quantity" validate:"gte=0"`
}

func actorOrFail(w http.ResponseWriter, r *http.Request) *shared.Actor {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil || actor.HouseID == 0 {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return nil
	}
	return actor
}

func urlID(w http.ResponseWriter, r *http.Request, notFound error) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, notFound)
		return 0, false
	}
	return id, true
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	actor := actorOrFail(w, r)
	if actor == nil {
		return
	}
	var form categoryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	c, err := h.service.CreateCategory(r.Context(), actor.HouseID, CategoryInput{Name: form.Name, Type: form.Type})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	actor := actorOrFail(w, r)
	if actor == nil {
		return
	}
	out, err := h.service.ListCategories(r.Context(), actor.HouseID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	actor := actorOrFail(w, r)
	if actor == nil {
		return
	}
	id, ok := urlID(w, r, ErrCategoryNotFound)
	if !ok {
		return
	}
	c, err := h.service.GetCategory(r.Context(), actor.HouseID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	actor := actorOrFail(w, r)
	if actor == nil {
		return
	}
	id, ok := urlID(w, r, ErrCategoryNotFound)
	if !ok {
		return
	}
	var form categoryForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	c, err := h.service.UpdateCategory(r.Context(), actor.HouseID, id, CategoryInput{Name: form.Name, Type: form.Type})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	actor := actorOrFail(w, r)
	if actor == nil {
		return
	}
	id, ok := urlID(w, r, ErrCategoryNotFound)
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(r.Context(), actor.HouseID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	actor := actorOrFail(w, r)
	if actor == nil {
		return
	}
	var form productForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	p, err := h.service.CreateProduct(r.Context(), actor.HouseID, ProductInput{
		Name:           form.Name,
		EstimatedPrice: form.EstimatedPrice,
		MinQuantity:    form.MinQuantity,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	actor := actorOrFail(w, r)
	if actor == nil {
		return
	}
	out, err := h.service.ListProducts(r.Context(), actor.HouseID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	actor := actorOrFail(w, r)
	if actor == nil {
		return
	}
	id, ok := urlID(w, r, ErrProductNotFound)
	if !ok {
		return
	}
	p, err := h.service.GetProduct(r.Context(), actor.HouseID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	actor := actorOrFail(w, r)
	if actor == nil {
		return
	}
	id, ok := urlID(w, r, ErrProductNotFound)
	if !ok {
		return
	}
	var form productForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), actor.HouseID, id, ProductInput{
		Name:           form.Name,
		EstimatedPrice: form.EstimatedPrice,
		MinQuantity:    form.MinQuantity,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	actor := actorOrFail(w, r)
	if actor == nil {
		return
	}
	id, ok := urlID(w, r, ErrProductNotFound)
	if !ok {
		return
	}
	if err := h.service.DeleteProduct(r.Context(), actor.HouseID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
