package transport

import (
	"errors"
	"net/http"

	"estoque/internal/middleware"
	"estoque/internal/repository"
	"estoque/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecordSaleRequest represents the record-sale request payload. SaleDate is
// optional; empty means today, otherwise it must be YYYY-MM-DD.
type RecordSaleRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	SaleDate  string `json:"sale_date"`
}

// SaleHandler handles HTTP requests for sale operations
type SaleHandler struct {
	sales  service.SalesService
	logger *zap.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(sales service.SalesService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		sales:  sales,
		logger: logger,
	}
}

// RegisterRoutes registers all sale routes behind the session gate
func (h *SaleHandler) RegisterRoutes(r chi.Router, sessionMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/sales", func(r chi.Router) {
		r.Use(sessionMiddleware)
		r.Post("/", h.Record)
		r.Get("/{id}", h.Get)
		r.Delete("/{id}", h.Delete)
	})
}

// Record sells a quantity of a product
func (h *SaleHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Record sale validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	sale, err := h.sales.RecordSale(r.Context(), productID, req.Quantity, req.SaleDate)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProductNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, repository.ErrInsufficientStock):
			middleware.RespondWithError(w, http.StatusUnprocessableEntity, "insufficient stock")
		case errors.Is(err, service.ErrInvalidDate):
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid sale date, expected YYYY-MM-DD")
		case errors.Is(err, service.ErrQuantityInvalid):
			middleware.RespondWithError(w, http.StatusBadRequest, "quantity must be positive")
		default:
			h.logger.Error("Failed to record sale", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to record sale")
		}
		return
	}

	h.logger.Info("Sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("product_id", sale.ProductID.String()),
		zap.Int("quantity", sale.Quantity),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, sale)
}

// Get returns a single sale
func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sale id")
		return
	}

	sale, err := h.sales.GetSale(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "sale not found")
			return
		}

		h.logger.Error("Failed to get sale", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get sale")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sale)
}

// Delete removes a sale record without restoring product stock
func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid sale id")
		return
	}

	if err := h.sales.DeleteSale(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrSaleNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "sale not found")
			return
		}

		h.logger.Error("Failed to delete sale", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete sale")
		return
	}

	h.logger.Info("Sale deleted", zap.String("sale_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "sale deleted"})
}
