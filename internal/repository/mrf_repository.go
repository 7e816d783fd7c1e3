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

const mrfColumns = "id, unit_id, name, status, date_created, taluk, village, address, phone, email, contact_person, capacity, operational_status, equipment"

// MRFRepository provides database access for MRF unit records.
type MRFRepository struct {
	db *sqlx.DB
}

// NewMRFRepository creates a new instance of MRFRepository.
func NewMRFRepository(db *sqlx.DB) *MRFRepository {
	return &MRFRepository{db: db}
}

// List returns all MRF records ordered by creation date.
func (r *MRFRepository) List(ctx context.Context) ([]models.MRF, error) {
	query := fmt.Sprintf(`SELECT %s FROM mrfs ORDER BY date_created DESC`, mrfColumns)
	var records []models.MRF
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list mrfs: %w", err)
	}
	return records, nil
}

// FindByID returns an MRF by identifier.
func (r *MRFRepository) FindByID(ctx context.Context, id string) (*models.MRF, error) {
	query := fmt.Sprintf(`SELECT %s FROM mrfs WHERE id = $1 LIMIT 1`, mrfColumns)
	var record models.MRF
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find mrf by id: %w", err)
	}
	return &record, nil
}

// FindByUnitID returns the MRF carrying the human-readable unit code.
func (r *MRFRepository) FindByUnitID(ctx context.Context, unitID string) (*models.MRF, error) {
	query := fmt.Sprintf(`SELECT %s FROM mrfs WHERE unit_id = $1 LIMIT 1`, mrfColumns)
	var record models.MRF
	if err := r.db.GetContext(ctx, &record, query, unitID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find mrf by unit id: %w", err)
	}
	return &record, nil
}

// Create inserts a new MRF record.
func (r *MRFRepository) Create(ctx context.Context, mrf *models.MRF) error {
	if mrf.ID == "" {
		mrf.ID = uuid.NewString()
	}
	if mrf.DateCreated.IsZero() {
		mrf.DateCreated = time.Now().UTC()
	}

	const query = `INSERT INTO mrfs (id, unit_id, name, status, date_created, taluk, village, address, phone, email, contact_person, capacity, operational_status, equipment) VALUES (:id, :unit_id, :name, :status, :date_created, :taluk, :village, :address, :phone, :email, :contact_person, :capacity, :operational_status, :equipment)`
	if _, err := r.db.NamedExecContext(ctx, query, mrf); err != nil {
		return fmt.Errorf("create mrf: %w", err)
	}
	return nil
}

// Update applies the explicit change list to an MRF record.
func (r *MRFRepository) Update(ctx context.Context, id string, changes []models.FieldChange) (bool, error) {
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

	query := fmt.Sprintf("UPDATE mrfs SET %s WHERE id = $%d", strings.Join(assignments, ", "), len(args))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update mrf: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update mrf rows affected: %w", err)
	}
	return affected > 0, nil
}

// Delete removes an MRF by id and reports whether a row was removed.
func (r *MRFRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM mrfs WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete mrf: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete mrf rows affected: %w", err)
	}
	return affected > 0, nil
}
