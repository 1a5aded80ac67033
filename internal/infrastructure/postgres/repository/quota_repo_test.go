package repository_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/panelhub/panel-link-service/internal/domain"
	"github.com/panelhub/panel-link-service/internal/infrastructure/postgres/repository"
)

var quotaColumns = []string{
	"id", "project_id", "vendor_id", "limit_count", "current_count", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, mock, func() { mockDB.Close() }
}

func quotaRow(id, projectID, vendorID string, limit, current int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(quotaColumns).
		AddRow(id, projectID, vendorID, limit, current, now, now)
}

func TestTryIncrement_VendorPool(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := repository.NewDefaultQuotaRepository(db)

	// the compare and the increment are one conditional UPDATE
	mock.ExpectExec(`UPDATE "quota_counters" SET "current_count"=current_count \+ 1 WHERE project_id = \$1 AND vendor_id = \$2 AND current_count < limit_count`).
		WithArgs("project-1", "vendor-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "quota_counters" WHERE project_id = \$1 AND vendor_id = \$2`).
		WillReturnRows(quotaRow("q-1", "project-1", "vendor-1", 100, 43))

	counter, ok, err := repo.TryIncrement("project-1", "vendor-1")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, counter)
	assert.Equal(t, int64(43), counter.Current)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTryIncrement_VendorPoolFull(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := repository.NewDefaultQuotaRepository(db)

	mock.ExpectExec(`UPDATE "quota_counters"`).
		WithArgs("project-1", "vendor-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	// pool exists at its limit: no fallback to the project-wide pool
	mock.ExpectQuery(`SELECT count\(\*\) FROM "quota_counters"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	counter, ok, err := repo.TryIncrement("project-1", "vendor-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, counter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTryIncrement_FallsBackToProjectPool(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := repository.NewDefaultQuotaRepository(db)

	// vendor pool not configured
	mock.ExpectExec(`UPDATE "quota_counters"`).
		WithArgs("project-1", "vendor-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "quota_counters"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// project-wide pool takes the increment
	mock.ExpectExec(`UPDATE "quota_counters"`).
		WithArgs("project-1", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "quota_counters"`).
		WillReturnRows(quotaRow("q-2", "project-1", "", 500, 12))

	counter, ok, err := repo.TryIncrement("project-1", "vendor-1")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, counter)
	assert.Equal(t, "", counter.VendorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTryIncrement_NoCounterConfigured(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := repository.NewDefaultQuotaRepository(db)

	mock.ExpectExec(`UPDATE "quota_counters"`).
		WithArgs("project-1", "vendor-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "quota_counters"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "quota_counters"`).
		WithArgs("project-1", "").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "quota_counters"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// unlimited: completion proceeds without quota accounting
	counter, ok, err := repo.TryIncrement("project-1", "vendor-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, counter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCounter_NotFound(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := repository.NewDefaultQuotaRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "quota_counters"`).
		WillReturnRows(sqlmock.NewRows(quotaColumns))

	_, err := repo.GetCounter("project-1", "vendor-9")
	assert.ErrorIs(t, err, domain.ErrQuotaPoolNotFound)
}

func TestCompleteWithQuota_Commit(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := repository.NewDefaultLinkRepository(db)

	link := &domain.SurveyLink{
		ID:        "link-1",
		ProjectID: "project-1",
		VendorID:  "vendor-1",
		Status:    domain.StatusClicked,
		QCResult:  &domain.QCResult{Score: 10, Recommendation: domain.RecommendApprove},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "quota_counters"`).
		WithArgs("project-1", "vendor-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "quota_counters"`).
		WillReturnRows(quotaRow("q-1", "project-1", "vendor-1", 100, 44))
	mock.ExpectExec(`UPDATE "survey_links" SET .+ WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	completed, err := repo.CompleteWithQuota(link)
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, domain.StatusCompleted, link.Status)
	require.NotNil(t, link.CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteWithQuota_LostRaceRollsBackIncrement(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := repository.NewDefaultLinkRepository(db)

	link := &domain.SurveyLink{
		ID:        "link-1",
		ProjectID: "project-1",
		VendorID:  "vendor-1",
		Status:    domain.StatusClicked,
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "quota_counters"`).
		WithArgs("project-1", "vendor-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "quota_counters"`).
		WillReturnRows(quotaRow("q-1", "project-1", "vendor-1", 100, 45))
	// a concurrent completion already moved the link out of CLICKED
	mock.ExpectExec(`UPDATE "survey_links"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.CompleteWithQuota(link)
	assert.ErrorIs(t, err, domain.ErrInvalidLinkState)
	assert.NoError(t, mock.ExpectationsWereMet())
}
