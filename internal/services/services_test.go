package services_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-reconciliation/internal/logging"
	"daily-reconciliation/internal/matching"
	"daily-reconciliation/internal/metrics"
	"daily-reconciliation/internal/models"
	"daily-reconciliation/internal/normalize"
	"daily-reconciliation/internal/report"
	"daily-reconciliation/internal/repositories"
	mock_repositories "daily-reconciliation/internal/repositories/mocks"
	"daily-reconciliation/internal/services"
)

const reportDate = "2024-11-13"

type fixture struct {
	db        *sql.DB
	sql       sqlmock.Sqlmock
	charges   *mock_repositories.MockChargeRepository
	deals     *mock_repositories.MockDealRepository
	payments  *mock_repositories.MockInvoicePaymentRepository
	runs      *mock_repositories.MockReconciliationRepository
	reportDir string
	recon     *services.ReconciliationService
	ingestion *services.IngestionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:        db,
		sql:       mock,
		charges:   mock_repositories.NewMockChargeRepository(ctrl),
		deals:     mock_repositories.NewMockDealRepository(ctrl),
		payments:  mock_repositories.NewMockInvoicePaymentRepository(ctrl),
		runs:      mock_repositories.NewMockReconciliationRepository(ctrl),
		reportDir: t.TempDir(),
	}
	logger := logging.Discard()
	engine := matching.NewMatchEngine(matching.Options{
		InvoiceUTCOffsetSeconds: matching.DefaultInvoiceUTCOffsetSeconds,
		Logger:                  logger,
	})
	f.recon = services.NewReconciliationService(db, engine, f.charges, f.deals, f.payments, f.runs,
		report.NewFileWriter(f.reportDir, logger), metrics.New(), logger)
	f.ingestion = services.NewIngestionService(db, f.charges, f.deals, f.payments, f.runs, logger)
	return f
}

func TestReconciliationService_Run(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.charges.EXPECT().GetChargesByReportDate(ctx, reportDate).Return([]matching.ChargeRecord{
		{ID: "ch_1", AmountMinorUnits: 5000, CreatedAt: 1731534900, Status: matching.ChargeSucceeded, EstablishmentID: "E1"},
		{ID: "ch_2", AmountMinorUnits: 4200, CreatedAt: 1731500000, Status: matching.ChargeSucceeded},
	}, nil)
	f.deals.EXPECT().GetDealsByReportDate(ctx, reportDate).Return([]matching.DealRecord{
		{ID: "d_1", Amount: "50.00", ClosedAt: "2024-11-13T23:00:00Z", EstablishmentID: "E1"},
		{ID: "d_2", Amount: "N/A", ClosedAt: "2024-11-13T23:00:00Z"},
	}, nil)
	f.payments.EXPECT().GetInvoicePaymentsByReportDate(ctx, reportDate).Return([]matching.InvoicePaymentRecord{}, nil)

	var created *models.ReconciliationRun
	f.sql.ExpectBegin()
	f.runs.EXPECT().CreateRun(ctx, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sql.Tx, run *models.ReconciliationRun) error {
			created = run
			run.ID = 1
			return nil
		})
	f.runs.EXPECT().CreateAuditEntry(ctx, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ *sql.Tx, audit *models.ReconciliationAudit) error {
			assert.Equal(t, models.AuditActionReconciled, audit.Action)
			assert.True(t, audit.RunID.Valid)
			return nil
		})
	f.sql.ExpectCommit()

	out, err := f.recon.Run(ctx, reportDate)
	require.NoError(t, err)
	require.NotNil(t, created)

	_, err = uuid.Parse(out.Run.RunID)
	assert.NoError(t, err)
	assert.Same(t, created, out.Run)
	assert.Equal(t, models.StatusUnmatched, out.Run.Status)
	assert.Equal(t, 1, out.Run.MatchedGroups)
	assert.Equal(t, 1, out.Run.UnmatchedCharges)
	assert.Equal(t, int64(4200), out.Run.MismatchTotalMinorUnits)
	assert.Equal(t, report.Summary(out.Result), out.Run.Summary)
	assert.Len(t, out.Result.Dropped, 1)

	path := filepath.Join(f.reportDir, "mismatched-2024-11-13.json")
	assert.Equal(t, path, out.Run.ArtifactPath)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	var leftovers report.Artifact
	require.NoError(t, json.Unmarshal(out.Run.Leftovers, &leftovers))
	require.Len(t, leftovers.Charges, 1)
	assert.Equal(t, "ch_2", leftovers.Charges[0].ID)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestReconciliationService_RunLoadFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.charges.EXPECT().GetChargesByReportDate(ctx, reportDate).Return([]matching.ChargeRecord{}, nil)
	f.deals.EXPECT().GetDealsByReportDate(ctx, reportDate).Return(nil, errors.New("deadlock"))
	f.payments.EXPECT().GetInvoicePaymentsByReportDate(ctx, reportDate).Return([]matching.InvoicePaymentRecord{}, nil)

	out, err := f.recon.Run(ctx, reportDate)
	assert.Nil(t, out)
	assert.ErrorContains(t, err, "deadlock")
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestReconciliationService_RunRollsBackWhenAuditFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.charges.EXPECT().GetChargesByReportDate(ctx, reportDate).Return([]matching.ChargeRecord{}, nil)
	f.deals.EXPECT().GetDealsByReportDate(ctx, reportDate).Return([]matching.DealRecord{}, nil)
	f.payments.EXPECT().GetInvoicePaymentsByReportDate(ctx, reportDate).Return([]matching.InvoicePaymentRecord{}, nil)

	f.sql.ExpectBegin()
	f.runs.EXPECT().CreateRun(ctx, gomock.Any(), gomock.Any()).Return(nil)
	f.runs.EXPECT().CreateAuditEntry(ctx, gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
	f.sql.ExpectRollback()

	_, err := f.recon.Run(ctx, reportDate)
	assert.ErrorContains(t, err, "failed to create audit entry")
	assert.NoError(t, f.sql.ExpectationsWereMet())

	entries, err := os.ReadDir(f.reportDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "an all-matched day writes no artifact")
}

func TestReconciliationService_Preview(t *testing.T) {
	f := newFixture(t)

	var raw normalize.RawBatches
	require.NoError(t, json.Unmarshal([]byte(`{
		"deals": [{"id": "d_1", "properties": {"amount": "120.00", "closedate": "2024-11-13T21:55:58.892Z"}}],
		"invoice_payments": [{"id": 9, "amount": {"amount": "120.00", "code": "USD"}, "updated": "2024-11-13 16:55:57"}]
	}`), &raw))

	out := f.recon.Preview(reportDate, raw)

	require.Len(t, out.Result.MatchedGroups, 1)
	assert.Equal(t, matching.LevelCrossLedger, out.Result.MatchedGroups[0].Level)
	assert.Contains(t, out.Summary, "mismatch of $0.00")
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestReconciliationService_GetRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.runs.EXPECT().GetRunByRunID(ctx, "run-1").Return(&models.ReconciliationRun{RunID: "run-1"}, nil)
	run, err := f.recon.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.RunID)

	f.runs.EXPECT().GetRunByRunID(ctx, "nope").Return(nil, repositories.ErrRunNotFound)
	_, err = f.recon.GetRun(ctx, "nope")
	assert.True(t, errors.Is(err, repositories.ErrRunNotFound))
}

func TestReconciliationService_ListRuns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.runs.EXPECT().ListRunsByReportDate(ctx, reportDate).Return([]*models.ReconciliationRun{{RunID: "a"}, {RunID: "b"}}, nil)

	runs, err := f.recon.ListRuns(ctx, reportDate)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestIngestionService_IngestDeals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var raw []normalize.HubSpotDeal
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": "d_1", "properties": {"amount": "45.00", "closedate": "2024-11-13T21:56:00Z"}},
		{"id": "d_2", "properties": {"amount": "N/A", "closedate": "2024-11-13T21:57:00Z"}}
	]`), &raw))

	f.sql.ExpectBegin()
	gomock.InOrder(
		f.deals.EXPECT().UpsertDeal(ctx, gomock.Any(), reportDate, &matching.DealRecord{ID: "d_1", Amount: "45.00", ClosedAt: "2024-11-13T21:56:00Z"}).Return(nil),
		f.deals.EXPECT().UpsertDeal(ctx, gomock.Any(), reportDate, &matching.DealRecord{ID: "d_2", Amount: "N/A", ClosedAt: "2024-11-13T21:57:00Z"}).Return(nil),
		f.runs.EXPECT().CreateAuditEntry(ctx, gomock.Any(), gomock.Any()).Return(nil),
	)
	f.sql.ExpectCommit()

	res, err := f.ingestion.IngestDeals(ctx, reportDate, raw)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, matching.SourceDeals, res.Source)
	assert.Equal(t, 2, res.RecordsCount)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestIngestionService_RejectsRecordsWithoutID(t *testing.T) {
	f := newFixture(t)

	res, err := f.ingestion.IngestCharges(context.Background(), reportDate, []normalize.StripeCharge{
		{ID: "ch_1", Amount: 100, Status: "succeeded"},
		{Amount: 200, Status: "succeeded"},
	})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 0, res.RecordsCount)
	assert.Equal(t, []string{"record 1: id is required"}, res.Errors)
	assert.NoError(t, f.sql.ExpectationsWereMet())
}

func TestIngestionService_UpsertFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.sql.ExpectBegin()
	f.payments.EXPECT().UpsertInvoicePayment(ctx, gomock.Any(), reportDate, gomock.Any()).Return(errors.New("duplicate"))
	f.sql.ExpectRollback()

	res, err := f.ingestion.IngestInvoicePayments(ctx, reportDate, []normalize.FreshBooksPayment{{ID: "41"}})
	assert.Nil(t, res)
	assert.ErrorContains(t, err, "invoice_payments record 41")
	assert.NoError(t, f.sql.ExpectationsWereMet())
}
