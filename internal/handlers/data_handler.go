package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"daily-reconciliation/internal/normalize"
	"daily-reconciliation/internal/services"
)

type IngestionService interface {
	IngestCharges(ctx context.Context, reportDate string, raw []normalize.StripeCharge) (*services.IngestionResult, error)
	IngestDeals(ctx context.Context, reportDate string, raw []normalize.HubSpotDeal) (*services.IngestionResult, error)
	IngestInvoicePayments(ctx context.Context, reportDate string, raw []normalize.FreshBooksPayment) (*services.IngestionResult, error)
}

type DataHandler struct {
	ingestionService IngestionService
}

func NewDataHandler(ingestionService IngestionService) *DataHandler {
	return &DataHandler{
		ingestionService: ingestionService,
	}
}

func (h *DataHandler) IngestCharges(w http.ResponseWriter, r *http.Request) {
	var charges []normalize.StripeCharge
	reportDate, ok := decodeBatch(w, r, &charges)
	if !ok {
		return
	}
	result, err := h.ingestionService.IngestCharges(r.Context(), reportDate, charges)
	respondWithIngestion(w, result, err)
}

func (h *DataHandler) IngestDeals(w http.ResponseWriter, r *http.Request) {
	var deals []normalize.HubSpotDeal
	reportDate, ok := decodeBatch(w, r, &deals)
	if !ok {
		return
	}
	result, err := h.ingestionService.IngestDeals(r.Context(), reportDate, deals)
	respondWithIngestion(w, result, err)
}

func (h *DataHandler) IngestInvoicePayments(w http.ResponseWriter, r *http.Request) {
	var payments []normalize.FreshBooksPayment
	reportDate, ok := decodeBatch(w, r, &payments)
	if !ok {
		return
	}
	result, err := h.ingestionService.IngestInvoicePayments(r.Context(), reportDate, payments)
	respondWithIngestion(w, result, err)
}

// decodeBatch reads the report_date query parameter and a JSON array body.
// It writes the error response itself and reports whether to continue.
func decodeBatch[T any](w http.ResponseWriter, r *http.Request, dst *[]T) (string, bool) {
	reportDate := r.URL.Query().Get("report_date")
	if !validReportDate(w, reportDate) {
		return "", false
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return "", false
	}

	if len(*dst) == 0 {
		respondWithError(w, http.StatusBadRequest, "No records provided")
		return "", false
	}
	return reportDate, true
}

func respondWithIngestion(w http.ResponseWriter, result *services.IngestionResult, err error) {
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	respondWithJSON(w, status, result)
}
