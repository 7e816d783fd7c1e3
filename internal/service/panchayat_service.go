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

type panchayatRepository interface {
	List(ctx context.Context) ([]models.GramPanchayat, error)
	FindByID(ctx context.Context, id string) (*models.GramPanchayat, error)
	FindByNameAndTaluk(ctx context.Context, name, taluk string) (*models.GramPanchayat, error)
	Create(ctx context.Context, gp *models.GramPanchayat) error
	Update(ctx context.Context, id string, changes []models.FieldChange) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	SetMRFMapping(ctx context.Context, id string, unitID, unitName *string) (bool, error)
}

type accountCreator interface {
	CreateUser(ctx context.Context, req CreateAccountRequest) (*models.User, error)
}

type dashboardInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// CreatePanchayatRequest is the payload for registering a Gram Panchayat
// together with its login account. The MRF fields allow an initial mapping
// at registration time; after that the mapping changes only through MapMRF
// and UnmapMRF.
type CreatePanchayatRequest struct {
	Name        string                 `json:"name" validate:"required"`
	Taluk       string                 `json:"taluk" validate:"required"`
	Village     string                 `json:"village" validate:"required"`
	Sarpanch    string                 `json:"sarpanch" validate:"required"`
	Status      models.PanchayatStatus `json:"status" validate:"required,oneof=Active Inactive"`
	MRFMapped   bool                   `json:"mrfMapped"`
	MRFUnitID   *string                `json:"mrfUnitId" validate:"omitempty,min=1"`
	MRFUnitName *string                `json:"mrfUnitName" validate:"omitempty,min=1"`
	Email       string                 `json:"email" validate:"required,email"`
	Password    string                 `json:"password" validate:"required,min=8"`
}

// UpdatePanchayatRequest lists panchayat fields to change; nil values are
// left untouched. MRF mapping fields are managed only through MapMRF and
// UnmapMRF.
type UpdatePanchayatRequest struct {
	Name         *string                 `json:"name" validate:"omitempty,min=1"`
	Taluk        *string                 `json:"taluk" validate:"omitempty,min=1"`
	Village      *string                 `json:"village" validate:"omitempty,min=1"`
	Sarpanch     *string                 `json:"sarpanch" validate:"omitempty,min=1"`
	Status       *models.PanchayatStatus `json:"status" validate:"omitempty,oneof=Active Inactive"`
	Households   *int                    `json:"households" validate:"omitempty,min=0"`
	Shops        *int                    `json:"shops" validate:"omitempty,min=0"`
	Institutions *int                    `json:"institutions" validate:"omitempty,min=0"`
	SWMSheds     *int                    `json:"swmSheds" validate:"omitempty,min=0"`
}

// MapMRFRequest identifies the MRF unit to link a panchayat to.
type MapMRFRequest struct {
	UnitID   string `json:"mrfUnitId" validate:"required"`
	UnitName string `json:"mrfUnitName" validate:"required"`
}

// PanchayatService handles Gram Panchayat workflows: registration with an
// auth account, attribute updates and MRF mapping.
type PanchayatService struct {
	repo      panchayatRepository
	accounts  accountCreator
	cache     dashboardInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPanchayatService creates an instance of PanchayatService.
func NewPanchayatService(repo panchayatRepository, accounts accountCreator, cache dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *PanchayatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PanchayatService{repo: repo, accounts: accounts, cache: cache, validator: validate, logger: logger}
}

// List returns every registered panchayat.
func (s *PanchayatService) List(ctx context.Context) ([]models.GramPanchayat, error) {
	panchayats, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list panchayats")
	}
	if panchayats == nil {
		panchayats = []models.GramPanchayat{}
	}
	return panchayats, nil
}

// Get returns the panchayat with the given id, or nil when absent. An id that
// is not a valid uuid is treated as absent without touching the store.
func (s *PanchayatService) Get(ctx context.Context, id string) (*models.GramPanchayat, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	gp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load panchayat")
	}
	return gp, nil
}

// Create registers a panchayat after checking the (name, taluk) pair is free,
// provisioning its login account first. Infrastructure counts start at zero.
func (s *PanchayatService) Create(ctx context.Context, req CreatePanchayatRequest) (*models.GramPanchayat, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create panchayat payload")
	}

	if _, err := s.repo.FindByNameAndTaluk(ctx, req.Name, req.Taluk); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("panchayat %q already exists in taluk %q", req.Name, req.Taluk))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check panchayat uniqueness")
	}

	account, err := s.accounts.CreateUser(ctx, CreateAccountRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     models.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	gp := &models.GramPanchayat{
		Name:     req.Name,
		Taluk:    req.Taluk,
		Village:  req.Village,
		Sarpanch: req.Sarpanch,
		Status:   req.Status,
		UserID:   &account.ID,
	}
	// mrf_mapped and mrf_unit_id must agree: the initial mapping is stored
	// only when the flag and the unit id are both present.
	if req.MRFMapped && req.MRFUnitID != nil {
		gp.MRFMapped = true
		gp.MRFUnitID = req.MRFUnitID
		gp.MRFUnitName = req.MRFUnitName
	}
	if err := s.repo.Create(ctx, gp); err != nil {
		// The account already exists at this point; the two writes are not
		// atomic, so flag the orphan for cleanup.
		s.logger.Warn("panchayat create failed after account creation",
			zap.String("account_id", account.ID),
			zap.String("name", req.Name),
			zap.String("taluk", req.Taluk),
			zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create panchayat")
	}

	s.invalidateDashboard(ctx)
	return gp, nil
}

// Update applies the supplied field changes. Returns nil when the panchayat
// does not exist.
func (s *PanchayatService) Update(ctx context.Context, id string, req UpdatePanchayatRequest) (*models.GramPanchayat, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update panchayat payload")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	changes := make([]models.FieldChange, 0, 9)
	if req.Name != nil {
		changes = append(changes, models.FieldChange{Column: "name", Value: *req.Name})
	}
	if req.Taluk != nil {
		changes = append(changes, models.FieldChange{Column: "taluk", Value: *req.Taluk})
	}
	if req.Village != nil {
		changes = append(changes, models.FieldChange{Column: "village", Value: *req.Village})
	}
	if req.Sarpanch != nil {
		changes = append(changes, models.FieldChange{Column: "sarpanch", Value: *req.Sarpanch})
	}
	if req.Status != nil {
		changes = append(changes, models.FieldChange{Column: "status", Value: *req.Status})
	}
	if req.Households != nil {
		changes = append(changes, models.FieldChange{Column: "households", Value: *req.Households})
	}
	if req.Shops != nil {
		changes = append(changes, models.FieldChange{Column: "shops", Value: *req.Shops})
	}
	if req.Institutions != nil {
		changes = append(changes, models.FieldChange{Column: "institutions", Value: *req.Institutions})
	}
	if req.SWMSheds != nil {
		changes = append(changes, models.FieldChange{Column: "swm_sheds", Value: *req.SWMSheds})
	}

	found, err := s.repo.Update(ctx, id, changes)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update panchayat")
	}
	if !found {
		return nil, nil
	}

	if req.Status != nil {
		s.invalidateDashboard(ctx)
	}
	return s.Get(ctx, id)
}

// Delete removes a panchayat. Returns false when it does not exist.
func (s *PanchayatService) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete panchayat")
	}
	if found {
		s.invalidateDashboard(ctx)
	}
	return found, nil
}

// MapMRF links a panchayat to an MRF unit. The three mapping fields are
// written in a single statement so the flag and the unit never disagree.
func (s *PanchayatService) MapMRF(ctx context.Context, id string, req MapMRFRequest) (*models.GramPanchayat, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid map payload")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	found, err := s.repo.SetMRFMapping(ctx, id, &req.UnitID, &req.UnitName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to map panchayat")
	}
	if !found {
		return nil, nil
	}
	s.invalidateDashboard(ctx)
	return s.Get(ctx, id)
}

// UnmapMRF clears the MRF link of a panchayat.
func (s *PanchayatService) UnmapMRF(ctx context.Context, id string) (*models.GramPanchayat, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	found, err := s.repo.SetMRFMapping(ctx, id, nil, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unmap panchayat")
	}
	if !found {
		return nil, nil
	}
	s.invalidateDashboard(ctx)
	return s.Get(ctx, id)
}

func (s *PanchayatService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "dash:*"); err != nil {
		s.logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
