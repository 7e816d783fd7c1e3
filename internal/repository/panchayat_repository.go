package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/deiondz/udal-gp/internal/models"
)

const panchayatColumns = "id, name, taluk, village, sarpanch, status, mrf_mapped, mrf_unit_id, mrf_unit_name, user_id, date_created, households, shops, institutions, swm_sheds"

// PanchayatRepository provides database access for gram panchayat records.
type PanchayatRepository struct {
	db *sqlx.DB
}

// NewPanchayatRepository creates a new instance of PanchayatRepository.
func NewPanchayatRepository(db *sqlx.DB) *PanchayatRepository {
	return &PanchayatRepository{db: db}
}

// List returns all gram panchayat records ordered by creation date.
func (r *PanchayatRepository) List(ctx context.Context) ([]models.GramPanchayat, error) {
	query := fmt.Sprintf(`SELECT %s FROM gram_panchayats ORDER BY date_created DESC`, panchayatColumns)
	var records []models.GramPanchayat
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list gram panchayats: %w", err)
	}
	return records, nil
}

// FindByID returns a gram panchayat by identifier.
func (r *PanchayatRepository) FindByID(ctx context.Context, id string) (*models.GramPanchayat, error) {
	query := fmt.Sprintf(`SELECT %s FROM gram_panchayats WHERE id = $1 LIMIT 1`, panchayatColumns)
	var record models.GramPanchayat
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find gram panchayat by id: %w", err)
	}
	return &record, nil
}

// FindByNameAndTaluk returns the record sharing the unique (name, taluk) pair.
func (r *PanchayatRepository) FindByNameAndTaluk(ctx context.Context, name, taluk string) (*models.GramPanchayat, error) {
	query := fmt.Sprintf(`SELECT %s FROM gram_panchayats WHERE name = $1 AND taluk = $2 LIMIT 1`, panchayatColumns)
	var record models.GramPanchayat
	if err := r.db.GetContext(ctx, &record, query, name, taluk); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find gram panchayat by name and taluk: %w", err)
	}
	return &record, nil
}

// Create inserts a new gram panchayat record.
func (r *PanchayatRepository) Create(ctx context.Context, gp *models.GramPanchayat) error {
	if gp.ID == "" {
		gp.ID = uuid.NewString()
	}
	if gp.DateCreated.IsZero() {
		gp.DateCreated = time.Now().UTC()
	}

	const query = `INSERT INTO gram_panchayats (id, name, taluk, village, sarpanch, status, mrf_mapped, mrf_unit_id, mrf_unit_name, user_id, date_created, households, shops, institutions, swm_sheds) VALUES (:id, :name, :taluk, :village, :sarpanch, :status, :mrf_mapped, :mrf_unit_id, :mrf_unit_name, :user_id, :date_created, :households, :shops, :institutions, :swm_sheds)`
	if _, err := r.db.NamedExecContext(ctx, query, gp); err != nil {
		return fmt.Errorf("create gram panchayat: %w", err)
	}
	return nil
}

// Update applies the explicit change list to a record. It returns false when
// no record matched the id. An empty change list is a no-op that still
// reports whether the record exists.
func (r *PanchayatRepository) Update(ctx context.Context, id string, changes []models.FieldChange) (bool, error) {
	if len(changes) == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			if err == sql.ErrNoRows {
				return false, nil
			}
			return false, err
		}
		return true, nil
	}

	assignments := make([]string, 0, len(changes))
	args := make([]interface{}, 0, len(changes)+1)
	for _, change := range changes {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", change.Column, len(args)+1))
		args = append(args, change.Value)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE gram_panchayats SET %s WHERE id = $%d", strings.Join(assignments, ", "), len(args))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update gram panchayat: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update gram panchayat rows affected: %w", err)
	}
	return affected > 0, nil
}

// Delete removes a gram panchayat by id and reports whether a row was removed.
func (r *PanchayatRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM gram_panchayats WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete gram panchayat: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete gram panchayat rows affected: %w", err)
	}
	return affected > 0, nil
}

// SetMRFMapping writes the three mapping fields in a single update so the
// mapped flag can never disagree with the unit reference.
func (r *PanchayatRepository) SetMRFMapping(ctx context.Context, id string, unitID, unitName *string) (bool, error) {
	const query = `UPDATE gram_panchayats SET mrf_mapped = $2, mrf_unit_id = $3, mrf_unit_name = $4 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, unitID != nil, unitID, unitName)
	if err != nil {
		return false, fmt.Errorf("set mrf mapping: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set mrf mapping rows affected: %w", err)
	}
	return affected > 0, nil
}

// Count returns total and active panchayat counts plus the number mapped to an MRF.
func (r *PanchayatRepository) Count(ctx context.Context) (total, active, mapped int, err error) {
	const query = `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE status = 'Active') AS active, COUNT(*) FILTER (WHERE mrf_mapped) AS mapped FROM gram_panchayats`
	row := struct {
		Total  int `db:"total"`
		Active int `db:"active"`
		Mapped int `db:"mapped"`
	}{}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return 0, 0, 0, fmt.Errorf("count gram panchayats: %w", err)
	}
	return row.Total, row.Active, row.Mapped, nil
}
