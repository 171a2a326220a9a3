package transport

import (
	"errors"
	"net/http"
	"strconv"

	"estoque/internal/domain"
	"estoque/internal/middleware"
	"estoque/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReportHandler handles HTTP requests for sales reports
type ReportHandler struct {
	reports service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// RegisterRoutes registers all report routes behind the session gate
func (h *ReportHandler) RegisterRoutes(r chi.Router, sessionMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/reports", func(r chi.Router) {
		r.Use(sessionMiddleware)
		r.Get("/daily", h.Daily)
		r.Get("/monthly", h.Monthly)
		r.Get("/monthly/current", h.CurrentMonth)
		r.Get("/monthly/previous", h.PreviousMonth)
		r.Get("/history", h.History)
	})
}

// Daily reports the sales of one date; ?date=YYYY-MM-DD, default today
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.Daily(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}

		h.logger.Error("Failed to build daily report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build daily report")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, report)
}

// Monthly reports a named period bucket; ?month=Janeiro&year=2024
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "month is required")
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "year must be a number")
		return
	}

	report, err := h.reports.Monthly(r.Context(), domain.Period{Month: month, Year: year})
	if err != nil {
		h.logger.Error("Failed to build monthly report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build monthly report")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, report)
}

// CurrentMonth reports the bucket today falls into
func (h *ReportHandler) CurrentMonth(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.CurrentMonth(r.Context())
	if err != nil {
		h.logger.Error("Failed to build current month report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build monthly report")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, report)
}

// PreviousMonth reports the previous calendar month's bucket
func (h *ReportHandler) PreviousMonth(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.PreviousMonth(r.Context())
	if err != nil {
		h.logger.Error("Failed to build previous month report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build monthly report")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, report)
}

// History reports the all-time per-bucket summary
func (h *ReportHandler) History(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.reports.History(r.Context())
	if err != nil {
		h.logger.Error("Failed to build historical report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build historical report")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, summaries)
}
