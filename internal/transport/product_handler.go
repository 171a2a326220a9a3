package transport

import (
	"errors"
	"net/http"

	"estoque/internal/domain"
	"estoque/internal/middleware"
	"estoque/internal/repository"
	"estoque/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AddProductRequest represents the add-product request payload
type AddProductRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	Line        string          `json:"line" validate:"required"`
}

// EditProductRequest represents the edit-product request payload
type EditProductRequest struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"gte=0"`
}

// ProductListResponse groups products by line for presentation
type ProductListResponse struct {
	Products []*domain.Product            `json:"products"`
	ByLine   map[string][]*domain.Product `json:"by_line"`
}

// ProductHandler handles HTTP requests for inventory operations
type ProductHandler struct {
	inventory service.InventoryService
	logger    *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(inventory service.InventoryService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		inventory: inventory,
		logger:    logger,
	}
}

// RegisterRoutes registers all product routes behind the session gate
func (h *ProductHandler) RegisterRoutes(r chi.Router, sessionMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Use(sessionMiddleware)
		r.Get("/", h.List)
		r.Post("/", h.Add)
		r.Get("/lines", h.Lines)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Edit)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns all products, or the products of one line when ?line= is
// given. The full listing is also grouped by line, mirroring the index
// page of the reference system.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	line := r.URL.Query().Get("line")

	if line != "" {
		products, err := h.inventory.ListProductsByLine(r.Context(), line)
		if err != nil {
			h.logger.Error("Failed to list products by line", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
			return
		}
		middleware.RespondWithJSON(w, http.StatusOK, products)
		return
	}

	products, err := h.inventory.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	byLine := make(map[string][]*domain.Product)
	for _, product := range products {
		byLine[product.Line] = append(byLine[product.Line], product)
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: products,
		ByLine:   byLine,
	})
}

// Lines returns the distinct product lines in use
func (h *ProductHandler) Lines(w http.ResponseWriter, r *http.Request) {
	lines, err := h.inventory.ProductLines(r.Context())
	if err != nil {
		h.logger.Error("Failed to list product lines", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list product lines")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, lines)
}

// Get returns a single product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.inventory.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Add creates a product
func (h *ProductHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Price.IsNegative() {
		middleware.RespondWithError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	product, err := h.inventory.AddProduct(r.Context(), req.Name, req.Description, req.Price, req.Quantity, req.Line)
	if err != nil {
		if errors.Is(err, service.ErrLineRequired) || errors.Is(err, service.ErrNameRequired) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		h.logger.Error("Failed to add product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add product")
		return
	}

	h.logger.Info("Product added",
		zap.String("product_id", product.ID.String()),
		zap.String("line", product.Line),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Edit overwrites a product's name, price and quantity
func (h *ProductHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var req EditProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Edit product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Price.IsNegative() {
		middleware.RespondWithError(w, http.StatusBadRequest, "price must not be negative")
		return
	}

	product, err := h.inventory.EditProduct(r.Context(), id, req.Name, req.Price, req.Quantity)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		if errors.Is(err, service.ErrNameRequired) {
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		h.logger.Error("Failed to edit product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to edit product")
		return
	}

	h.logger.Info("Product edited", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete removes a product, leaving any sales that reference it in place
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.inventory.DeleteProduct(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
