package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deiondz/udal-gp/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func panchayatRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "taluk", "village", "sarpanch", "status", "mrf_mapped", "mrf_unit_id", "mrf_unit_name", "user_id", "date_created", "households", "shops", "institutions", "swm_sheds"}).
		AddRow("gp-1", "Moodbidri", "Mangaluru", "Moodbidri", "R. Shetty", "Active", false, nil, nil, nil, now, 420, 36, 8, 2)
}

func TestPanchayatFindByNameAndTaluk(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPanchayatRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+panchayatColumns+" FROM gram_panchayats WHERE name = $1 AND taluk = $2 LIMIT 1")).
		WithArgs("Moodbidri", "Mangaluru").
		WillReturnRows(panchayatRows(time.Now()))

	gp, err := repo.FindByNameAndTaluk(context.Background(), "Moodbidri", "Mangaluru")
	require.NoError(t, err)
	assert.Equal(t, "Moodbidri", gp.Name)
	assert.False(t, gp.MRFMapped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPanchayatCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPanchayatRepository(db)

	mock.ExpectExec("INSERT INTO gram_panchayats").WillReturnResult(sqlmock.NewResult(1, 1))

	gp := &models.GramPanchayat{Name: "Moodbidri", Taluk: "Mangaluru", Status: models.PanchayatActive}
	require.NoError(t, repo.Create(context.Background(), gp))
	assert.NotEmpty(t, gp.ID)
	assert.False(t, gp.DateCreated.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPanchayatUpdateBuildsChangeList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPanchayatRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE gram_panchayats SET status = $1, households = $2 WHERE id = $3")).
		WithArgs("Inactive", 500, "gp-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.Update(context.Background(), "gp-1", []models.FieldChange{
		{Column: "status", Value: "Inactive"},
		{Column: "households", Value: 500},
	})
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPanchayatUpdateEmptyChecksExistence(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPanchayatRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+panchayatColumns+" FROM gram_panchayats WHERE id = $1 LIMIT 1")).
		WithArgs("gp-1").
		WillReturnRows(panchayatRows(time.Now()))

	found, err := repo.Update(context.Background(), "gp-1", nil)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPanchayatSetMRFMapping(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPanchayatRepository(db)

	unitID, unitName := "MRF-001", "Pachanady MRF"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE gram_panchayats SET mrf_mapped = $2, mrf_unit_id = $3, mrf_unit_name = $4 WHERE id = $1")).
		WithArgs("gp-1", true, unitID, unitName).
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.SetMRFMapping(context.Background(), "gp-1", &unitID, &unitName)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPanchayatSetMRFMappingClear(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPanchayatRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE gram_panchayats SET mrf_mapped = $2, mrf_unit_id = $3, mrf_unit_name = $4 WHERE id = $1")).
		WithArgs("gp-1", false, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	found, err := repo.SetMRFMapping(context.Background(), "gp-1", nil, nil)
	require.NoError(t, err)
	assert.True(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPanchayatDeleteAbsent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPanchayatRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM gram_panchayats WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err := repo.Delete(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPanchayatCount(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPanchayatRepository(db)

	rows := sqlmock.NewRows([]string{"total", "active", "mapped"}).AddRow(12, 10, 7)
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(rows)

	total, active, mapped, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	assert.Equal(t, 10, active)
	assert.Equal(t, 7, mapped)
	assert.NoError(t, mock.ExpectationsWereMet())
}
