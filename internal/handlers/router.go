package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

func SetupRouter(ingestion IngestionService, reconciliation ReconciliationService, metrics http.Handler, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheckHandler).Methods(http.MethodGet)
	router.Handle("/metrics", metrics).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.Use(loggingMiddleware(logger))
	api.Use(jsonContentTypeMiddleware)

	dataHandler := NewDataHandler(ingestion)
	api.HandleFunc("/ledgers/charges", dataHandler.IngestCharges).Methods(http.MethodPost)
	api.HandleFunc("/ledgers/deals", dataHandler.IngestDeals).Methods(http.MethodPost)
	api.HandleFunc("/ledgers/invoice-payments", dataHandler.IngestInvoicePayments).Methods(http.MethodPost)

	reconciliationHandler := NewReconciliationHandler(reconciliation)
	api.HandleFunc("/reconciliations", reconciliationHandler.StartReconciliation).Methods(http.MethodPost)
	api.HandleFunc("/reconciliations/preview", reconciliationHandler.PreviewReconciliation).Methods(http.MethodPost)
	api.HandleFunc("/reconciliations", reconciliationHandler.ListReconciliations).Methods(http.MethodGet)
	api.HandleFunc("/reconciliations/{run_id}", reconciliationHandler.GetReconciliation).Methods(http.MethodGet)

	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status": "healthy",
	}
	respondWithJSON(w, http.StatusOK, response)
}

type ErrorResponse struct {
	Error string `json:"error"`
}
