package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-reconciliation/internal/logging"
	"daily-reconciliation/internal/matching"
	"daily-reconciliation/internal/metrics"
	"daily-reconciliation/internal/models"
	"daily-reconciliation/internal/normalize"
	"daily-reconciliation/internal/repositories"
	"daily-reconciliation/internal/services"
)

type fakeIngestion struct {
	reportDate string
	deals      []normalize.HubSpotDeal
	result     *services.IngestionResult
	err        error
}

func (f *fakeIngestion) IngestCharges(_ context.Context, reportDate string, raw []normalize.StripeCharge) (*services.IngestionResult, error) {
	f.reportDate = reportDate
	return f.result, f.err
}

func (f *fakeIngestion) IngestDeals(_ context.Context, reportDate string, raw []normalize.HubSpotDeal) (*services.IngestionResult, error) {
	f.reportDate = reportDate
	f.deals = raw
	return f.result, f.err
}

func (f *fakeIngestion) IngestInvoicePayments(_ context.Context, reportDate string, raw []normalize.FreshBooksPayment) (*services.IngestionResult, error) {
	f.reportDate = reportDate
	return f.result, f.err
}

type fakeReconciliation struct {
	started chan struct{}
	release chan struct{}
	runErr  error
	runs    map[string]*models.ReconciliationRun
}

func (f *fakeReconciliation) Run(_ context.Context, reportDate string) (*services.RunOutput, error) {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	if f.runErr != nil {
		return nil, f.runErr
	}
	return &services.RunOutput{
		Run:    &models.ReconciliationRun{RunID: "run-1", ReportDate: reportDate, Status: models.StatusMatched},
		Result: &matching.ReconciliationResult{ReportDate: reportDate},
	}, nil
}

func (f *fakeReconciliation) Preview(reportDate string, raw normalize.RawBatches) *services.PreviewOutput {
	result := matching.NewMatchEngine(matching.Options{Logger: logging.Discard()}).Reconcile(raw.Batches(reportDate))
	return &services.PreviewOutput{Summary: "preview", Result: result}
}

func (f *fakeReconciliation) GetRun(_ context.Context, runID string) (*models.ReconciliationRun, error) {
	run, ok := f.runs[runID]
	if !ok {
		return nil, repositories.ErrRunNotFound
	}
	return run, nil
}

func (f *fakeReconciliation) ListRuns(_ context.Context, reportDate string) ([]*models.ReconciliationRun, error) {
	out := make([]*models.ReconciliationRun, 0)
	for _, run := range f.runs {
		if run.ReportDate == reportDate {
			out = append(out, run)
		}
	}
	return out, nil
}

func newTestRouter(ing *fakeIngestion, rec *fakeReconciliation) http.Handler {
	return SetupRouter(ing, rec, metrics.New().Handler(), logging.Discard())
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestRouter(&fakeIngestion{}, &fakeReconciliation{})

	rr := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rr.Body.String())

	rr = do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestIngestDeals(t *testing.T) {
	ing := &fakeIngestion{result: &services.IngestionResult{Success: true, Source: "deals", RecordsCount: 1}}
	h := newTestRouter(ing, &fakeReconciliation{})

	rr := do(t, h, http.MethodPost, "/api/v1/ledgers/deals?report_date=2024-11-13",
		`[{"id": "d_1", "properties": {"amount": "50.00", "closedate": "2024-11-13T21:55:00Z"}}]`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "2024-11-13", ing.reportDate)
	require.Len(t, ing.deals, 1)
	assert.Equal(t, "50.00", ing.deals[0].Properties.Amount)
}

func TestIngest_Validation(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		result *services.IngestionResult
		err    error
		status int
	}{
		{"missing report date", "/api/v1/ledgers/charges", `[{"id":"ch_1"}]`, nil, nil, http.StatusBadRequest},
		{"bad report date", "/api/v1/ledgers/charges?report_date=13-11-2024", `[{"id":"ch_1"}]`, nil, nil, http.StatusBadRequest},
		{"not an array", "/api/v1/ledgers/charges?report_date=2024-11-13", `{"id":"ch_1"}`, nil, nil, http.StatusBadRequest},
		{"empty batch", "/api/v1/ledgers/invoice-payments?report_date=2024-11-13", `[]`, nil, nil, http.StatusBadRequest},
		{"rejected batch", "/api/v1/ledgers/charges?report_date=2024-11-13", `[{"amount": 100}]`,
			&services.IngestionResult{Success: false, Errors: []string{"record 0: id is required"}}, nil, http.StatusUnprocessableEntity},
		{"store failure", "/api/v1/ledgers/invoice-payments?report_date=2024-11-13", `[{"id": 1}]`,
			nil, errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(&fakeIngestion{result: tt.result, err: tt.err}, &fakeReconciliation{})
			rr := do(t, h, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestStartReconciliation(t *testing.T) {
	h := newTestRouter(&fakeIngestion{}, &fakeReconciliation{})

	rr := do(t, h, http.MethodPost, "/api/v1/reconciliations", `{"report_date": "2024-11-13"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var out services.RunOutput
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "run-1", out.Run.RunID)

	rr = do(t, h, http.MethodPost, "/api/v1/reconciliations", `{"report_date": "yesterday"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStartReconciliation_Failure(t *testing.T) {
	h := newTestRouter(&fakeIngestion{}, &fakeReconciliation{runErr: errors.New("failed to load batches")})

	rr := do(t, h, http.MethodPost, "/api/v1/reconciliations", `{"report_date": "2024-11-13"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"failed to load batches"}`, rr.Body.String())
}

func TestStartReconciliation_ConcurrentSameDate(t *testing.T) {
	rec := &fakeReconciliation{started: make(chan struct{}), release: make(chan struct{})}
	h := newTestRouter(&fakeIngestion{}, rec)

	first := make(chan int)
	go func() {
		rr := do(t, h, http.MethodPost, "/api/v1/reconciliations", `{"report_date": "2024-11-13"}`)
		first <- rr.Code
	}()
	<-rec.started

	rr := do(t, h, http.MethodPost, "/api/v1/reconciliations", `{"report_date": "2024-11-13"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	close(rec.release)
	assert.Equal(t, http.StatusOK, <-first)
}

func TestPreviewReconciliation(t *testing.T) {
	h := newTestRouter(&fakeIngestion{}, &fakeReconciliation{})

	rr := do(t, h, http.MethodPost, "/api/v1/reconciliations/preview", `{
		"report_date": "2024-11-13",
		"charges": [{"id": "ch_1", "amount": 5000, "created": 1731534900, "status": "succeeded", "metadata": {"establishmentId": "E1"}}],
		"deals": [{"id": "d_1", "properties": {"amount": "50.00", "closedate": "2024-11-13T23:00:00Z", "wp_establishment_id": "E1"}}]
	}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var out services.PreviewOutput
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Len(t, out.Result.MatchedGroups, 1)
	assert.Equal(t, matching.LevelIdentity, out.Result.MatchedGroups[0].Level)
}

func TestGetAndListReconciliations(t *testing.T) {
	rec := &fakeReconciliation{runs: map[string]*models.ReconciliationRun{
		"run-1": {RunID: "run-1", ReportDate: "2024-11-13", Status: models.StatusMatched},
	}}
	h := newTestRouter(&fakeIngestion{}, rec)

	rr := do(t, h, http.MethodGet, "/api/v1/reconciliations/run-1", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"run_id":"run-1"`)

	rr = do(t, h, http.MethodGet, "/api/v1/reconciliations/run-404", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodGet, "/api/v1/reconciliations?report_date=2024-11-13", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	var runs []models.ReconciliationRun
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &runs))
	assert.Len(t, runs, 1)

	rr = do(t, h, http.MethodGet, "/api/v1/reconciliations", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
