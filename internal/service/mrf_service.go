package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deiondz/udal-gp/internal/models"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
)

type mrfRepository interface {
	List(ctx context.Context) ([]models.MRF, error)
	FindByID(ctx context.Context, id string) (*models.MRF, error)
	FindByUnitID(ctx context.Context, unitID string) (*models.MRF, error)
	Create(ctx context.Context, mrf *models.MRF) error
	Update(ctx context.Context, id string, changes []models.FieldChange) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CreateMRFRequest is the payload for registering a Material Recovery
// Facility. Only the name is mandatory.
type CreateMRFRequest struct {
	UnitID            *string           `json:"unitId" validate:"omitempty,min=1"`
	Name              string            `json:"name" validate:"required"`
	Status            *models.MRFStatus `json:"status" validate:"omitempty,oneof=Active Inactive 'Under Maintenance'"`
	Taluk             *string           `json:"taluk"`
	Village           *string           `json:"village"`
	Address           *string           `json:"address"`
	Phone             *string           `json:"phone"`
	Email             *string           `json:"email" validate:"omitempty,email"`
	ContactPerson     *string           `json:"contactPerson"`
	Capacity          *float64          `json:"capacity" validate:"omitempty,min=0"`
	OperationalStatus *string           `json:"operationalStatus"`
	Equipment         *string           `json:"equipment"`
}

// UpdateMRFRequest lists facility fields to change; nil values are left
// untouched.
type UpdateMRFRequest struct {
	UnitID            *string           `json:"unitId" validate:"omitempty,min=1"`
	Name              *string           `json:"name" validate:"omitempty,min=1"`
	Status            *models.MRFStatus `json:"status" validate:"omitempty,oneof=Active Inactive 'Under Maintenance'"`
	Taluk             *string           `json:"taluk"`
	Village           *string           `json:"village"`
	Address           *string           `json:"address"`
	Phone             *string           `json:"phone"`
	Email             *string           `json:"email" validate:"omitempty,email"`
	ContactPerson     *string           `json:"contactPerson"`
	Capacity          *float64          `json:"capacity" validate:"omitempty,min=0"`
	OperationalStatus *string           `json:"operationalStatus"`
	Equipment         *string           `json:"equipment"`
}

// MRFService handles Material Recovery Facility workflows.
type MRFService struct {
	repo      mrfRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMRFService creates an instance of MRFService.
func NewMRFService(repo mrfRepository, validate *validator.Validate, logger *zap.Logger) *MRFService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &MRFService{repo: repo, validator: validate, logger: logger}
}

// List returns every registered facility.
func (s *MRFService) List(ctx context.Context) ([]models.MRF, error) {
	mrfs, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list facilities")
	}
	if mrfs == nil {
		mrfs = []models.MRF{}
	}
	return mrfs, nil
}

// Get returns the facility with the given id, or nil when absent.
func (s *MRFService) Get(ctx context.Context, id string) (*models.MRF, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	mrf, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load facility")
	}
	return mrf, nil
}

// Create registers a new facility. A unit code, when supplied, must be free.
func (s *MRFService) Create(ctx context.Context, req CreateMRFRequest) (*models.MRF, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create facility payload")
	}

	if req.UnitID != nil {
		if err := s.ensureUnitIDFree(ctx, *req.UnitID, ""); err != nil {
			return nil, err
		}
	}

	status := req.Status
	if status == nil {
		active := models.MRFActive
		status = &active
	}

	mrf := &models.MRF{
		UnitID:            req.UnitID,
		Name:              req.Name,
		Status:            status,
		Taluk:             req.Taluk,
		Village:           req.Village,
		Address:           req.Address,
		Phone:             req.Phone,
		Email:             req.Email,
		ContactPerson:     req.ContactPerson,
		Capacity:          req.Capacity,
		OperationalStatus: req.OperationalStatus,
		Equipment:         req.Equipment,
	}
	if err := s.repo.Create(ctx, mrf); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create facility")
	}
	return mrf, nil
}

// Update applies the supplied field changes. Returns nil when the facility
// does not exist.
func (s *MRFService) Update(ctx context.Context, id string, req UpdateMRFRequest) (*models.MRF, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update facility payload")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	if req.UnitID != nil {
		if err := s.ensureUnitIDFree(ctx, *req.UnitID, id); err != nil {
			return nil, err
		}
	}

	changes := make([]models.FieldChange, 0, 12)
	if req.UnitID != nil {
		changes = append(changes, models.FieldChange{Column: "unit_id", Value: *req.UnitID})
	}
	if req.Name != nil {
		changes = append(changes, models.FieldChange{Column: "name", Value: *req.Name})
	}
	if req.Status != nil {
		changes = append(changes, models.FieldChange{Column: "status", Value: *req.Status})
	}
	if req.Taluk != nil {
		changes = append(changes, models.FieldChange{Column: "taluk", Value: *req.Taluk})
	}
	if req.Village != nil {
		changes = append(changes, models.FieldChange{Column: "village", Value: *req.Village})
	}
	if req.Address != nil {
		changes = append(changes, models.FieldChange{Column: "address", Value: *req.Address})
	}
	if req.Phone != nil {
		changes = append(changes, models.FieldChange{Column: "phone", Value: *req.Phone})
	}
	if req.Email != nil {
		changes = append(changes, models.FieldChange{Column: "email", Value: *req.Email})
	}
	if req.ContactPerson != nil {
		changes = append(changes, models.FieldChange{Column: "contact_person", Value: *req.ContactPerson})
	}
	if req.Capacity != nil {
		changes = append(changes, models.FieldChange{Column: "capacity", Value: *req.Capacity})
	}
	if req.OperationalStatus != nil {
		changes = append(changes, models.FieldChange{Column: "operational_status", Value: *req.OperationalStatus})
	}
	if req.Equipment != nil {
		changes = append(changes, models.FieldChange{Column: "equipment", Value: *req.Equipment})
	}

	found, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update facility")
	}
	if !found {
		return nil, nil
	}
	return s.Get(ctx, id)
}

// Delete removes a facility. Returns false when it does not exist. Panchayats
// mapped to the facility keep their stored unit code and name.
func (s *MRFService) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete facility")
	}
	return found, nil
}

func (s *MRFService) ensureUnitIDFree(ctx context.Context, unitID, selfID string) error {
	existing, err := s.repo.FindByUnitID(ctx, unitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check unit code uniqueness")
	}
	if existing.ID == selfID {
		return nil
	}
	return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("unit code %q is already in use", unitID))
}
