package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"daily-reconciliation/internal/models"
	"daily-reconciliation/internal/normalize"
	"daily-reconciliation/internal/repositories"
	"daily-reconciliation/internal/services"
)

type ReconciliationService interface {
	Run(ctx context.Context, reportDate string) (*services.RunOutput, error)
	Preview(reportDate string, raw normalize.RawBatches) *services.PreviewOutput
	GetRun(ctx context.Context, runID string) (*models.ReconciliationRun, error)
	ListRuns(ctx context.Context, reportDate string) ([]*models.ReconciliationRun, error)
}

type ReconciliationHandler struct {
	reconciliationService ReconciliationService
	processingMutex       sync.Mutex
	activeProcesses       map[string]bool
}

func NewReconciliationHandler(reconciliationService ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
		activeProcesses:       make(map[string]bool),
	}
}

func (h *ReconciliationHandler) StartReconciliation(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ReportDate string `json:"report_date"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if !validReportDate(w, request.ReportDate) {
		return
	}

	if !h.acquire(request.ReportDate) {
		respondWithError(w, http.StatusConflict, "Reconciliation for this report date is already in progress")
		return
	}
	defer h.release(request.ReportDate)

	result, err := h.reconciliationService.Run(r.Context(), request.ReportDate)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *ReconciliationHandler) acquire(reportDate string) bool {
	h.processingMutex.Lock()
	defer h.processingMutex.Unlock()
	if h.activeProcesses[reportDate] {
		return false
	}
	h.activeProcesses[reportDate] = true
	return true
}

func (h *ReconciliationHandler) release(reportDate string) {
	h.processingMutex.Lock()
	delete(h.activeProcesses, reportDate)
	h.processingMutex.Unlock()
}

func (h *ReconciliationHandler) PreviewReconciliation(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ReportDate string `json:"report_date"`
		normalize.RawBatches
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if !validReportDate(w, request.ReportDate) {
		return
	}

	respondWithJSON(w, http.StatusOK, h.reconciliationService.Preview(request.ReportDate, request.RawBatches))
}

func (h *ReconciliationHandler) GetReconciliation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	runID := vars["run_id"]

	if runID == "" {
		respondWithError(w, http.StatusBadRequest, "Run ID is required")
		return
	}

	run, err := h.reconciliationService.GetRun(r.Context(), runID)
	if errors.Is(err, repositories.ErrRunNotFound) {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, run)
}

func (h *ReconciliationHandler) ListReconciliations(w http.ResponseWriter, r *http.Request) {
	reportDate := r.URL.Query().Get("report_date")
	if !validReportDate(w, reportDate) {
		return
	}

	runs, err := h.reconciliationService.ListRuns(r.Context(), reportDate)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, runs)
}

func validReportDate(w http.ResponseWriter, reportDate string) bool {
	if reportDate == "" {
		respondWithError(w, http.StatusBadRequest, "report_date is required")
		return false
	}
	if _, err := time.Parse("2006-01-02", reportDate); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid report_date format. Use YYYY-MM-DD")
		return false
	}
	return true
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Error marshaling JSON response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
