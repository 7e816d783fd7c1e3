package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deiondz/udal-gp/internal/models"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
)

type mockPanchayatRepo struct {
	panchayats map[string]*models.GramPanchayat
	byNameTalk map[string]*models.GramPanchayat

	createErr   error
	findCalls   int
	createCalls int

	lastChanges  []models.FieldChange
	lastUnitID   *string
	lastUnitName *string
}

func (m *mockPanchayatRepo) List(ctx context.Context) ([]models.GramPanchayat, error) {
	var out []models.GramPanchayat
	for _, gp := range m.panchayats {
		out = append(out, *gp)
	}
	return out, nil
}

func (m *mockPanchayatRepo) FindByID(ctx context.Context, id string) (*models.GramPanchayat, error) {
	m.findCalls++
	if gp, ok := m.panchayats[id]; ok {
		copy := *gp
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPanchayatRepo) FindByNameAndTaluk(ctx context.Context, name, taluk string) (*models.GramPanchayat, error) {
	if gp, ok := m.byNameTalk[name+"|"+taluk]; ok {
		copy := *gp
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPanchayatRepo) Create(ctx context.Context, gp *models.GramPanchayat) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	if gp.ID == "" {
		gp.ID = uuid.NewString()
	}
	if m.panchayats == nil {
		m.panchayats = make(map[string]*models.GramPanchayat)
	}
	copy := *gp
	m.panchayats[gp.ID] = &copy
	return nil
}

func (m *mockPanchayatRepo) Update(ctx context.Context, id string, changes []models.FieldChange) (bool, error) {
	m.lastChanges = changes
	_, ok := m.panchayats[id]
	return ok, nil
}

func (m *mockPanchayatRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := m.panchayats[id]; ok {
		delete(m.panchayats, id)
		return true, nil
	}
	return false, nil
}

func (m *mockPanchayatRepo) SetMRFMapping(ctx context.Context, id string, unitID, unitName *string) (bool, error) {
	m.lastUnitID = unitID
	m.lastUnitName = unitName
	gp, ok := m.panchayats[id]
	if !ok {
		return false, nil
	}
	gp.MRFUnitID = unitID
	gp.MRFUnitName = unitName
	gp.MRFMapped = unitID != nil
	return true, nil
}

type mockAccountCreator struct {
	createCalls int
	createErr   error
}

func (m *mockAccountCreator) CreateUser(ctx context.Context, req CreateAccountRequest) (*models.User, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.User{ID: "acct-1", Email: req.Email, Name: req.Name, Role: req.Role}, nil
}

type mockInvalidator struct {
	patterns []string
}

func (m *mockInvalidator) Invalidate(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return nil
}

func validCreatePanchayat() CreatePanchayatRequest {
	return CreatePanchayatRequest{
		Name:     "Moodbidri",
		Taluk:    "Mangaluru",
		Village:  "Moodbidri",
		Sarpanch: "R. Shetty",
		Status:   models.PanchayatActive,
		Email:    "moodbidri@udal.gov.in",
		Password: "panchayat1",
	}
}

func TestPanchayatServiceCreate(t *testing.T) {
	repo := &mockPanchayatRepo{}
	accounts := &mockAccountCreator{}
	cache := &mockInvalidator{}
	svc := NewPanchayatService(repo, accounts, cache, validator.New(), zap.NewNop())

	gp, err := svc.Create(context.Background(), validCreatePanchayat())
	require.NoError(t, err)
	assert.Equal(t, models.PanchayatActive, gp.Status)
	assert.False(t, gp.MRFMapped)
	assert.Nil(t, gp.MRFUnitID)
	assert.Zero(t, gp.Households)
	assert.Zero(t, gp.Shops)
	assert.Zero(t, gp.Institutions)
	assert.Zero(t, gp.SWMSheds)
	require.NotNil(t, gp.UserID)
	assert.Equal(t, "acct-1", *gp.UserID)
	assert.Contains(t, cache.patterns, "dash:*")
}

func TestPanchayatServiceCreateInactiveWithMapping(t *testing.T) {
	repo := &mockPanchayatRepo{}
	svc := NewPanchayatService(repo, &mockAccountCreator{}, nil, validator.New(), zap.NewNop())

	unitID := "MRF-001"
	unitName := "Pachanady MRF"
	req := validCreatePanchayat()
	req.Status = models.PanchayatInactive
	req.MRFMapped = true
	req.MRFUnitID = &unitID
	req.MRFUnitName = &unitName

	gp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.PanchayatInactive, gp.Status)
	assert.True(t, gp.MRFMapped)
	require.NotNil(t, gp.MRFUnitID)
	assert.Equal(t, unitID, *gp.MRFUnitID)
	require.NotNil(t, gp.MRFUnitName)
	assert.Equal(t, unitName, *gp.MRFUnitName)
}

func TestPanchayatServiceCreateMappingNeedsUnitID(t *testing.T) {
	repo := &mockPanchayatRepo{}
	svc := NewPanchayatService(repo, &mockAccountCreator{}, nil, validator.New(), zap.NewNop())

	req := validCreatePanchayat()
	req.MRFMapped = true

	gp, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, gp.MRFMapped, "a mapping flag without a unit id is stored as unmapped")
	assert.Nil(t, gp.MRFUnitID)
}

func TestPanchayatServiceCreateRequiresStatus(t *testing.T) {
	repo := &mockPanchayatRepo{}
	accounts := &mockAccountCreator{}
	svc := NewPanchayatService(repo, accounts, nil, validator.New(), zap.NewNop())

	req := validCreatePanchayat()
	req.Status = ""
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, accounts.createCalls)
}

func TestPanchayatServiceCreateDuplicateSkipsAccount(t *testing.T) {
	existing := &models.GramPanchayat{ID: "gp-1", Name: "Moodbidri", Taluk: "Mangaluru"}
	repo := &mockPanchayatRepo{byNameTalk: map[string]*models.GramPanchayat{"Moodbidri|Mangaluru": existing}}
	accounts := &mockAccountCreator{}
	svc := NewPanchayatService(repo, accounts, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), validCreatePanchayat())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Zero(t, accounts.createCalls, "duplicate check must run before account creation")
	assert.Zero(t, repo.createCalls)
}

func TestPanchayatServiceCreateOrphanedAccount(t *testing.T) {
	repo := &mockPanchayatRepo{createErr: errors.New("insert failed")}
	accounts := &mockAccountCreator{}
	svc := NewPanchayatService(repo, accounts, nil, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), validCreatePanchayat())
	require.Error(t, err)
	assert.Equal(t, 1, accounts.createCalls)
	assert.Equal(t, 1, repo.createCalls)
}

func TestPanchayatServiceGetMalformedID(t *testing.T) {
	repo := &mockPanchayatRepo{}
	svc := NewPanchayatService(repo, &mockAccountCreator{}, nil, validator.New(), zap.NewNop())

	gp, err := svc.Get(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.Nil(t, gp)
	assert.Zero(t, repo.findCalls, "malformed ids resolve without a lookup")
}

func TestPanchayatServiceUpdateSparseChanges(t *testing.T) {
	id := uuid.NewString()
	repo := &mockPanchayatRepo{panchayats: map[string]*models.GramPanchayat{id: {ID: id, Name: "Moodbidri"}}}
	svc := NewPanchayatService(repo, &mockAccountCreator{}, nil, validator.New(), zap.NewNop())

	households := 420
	status := models.PanchayatInactive
	_, err := svc.Update(context.Background(), id, UpdatePanchayatRequest{Households: &households, Status: &status})
	require.NoError(t, err)
	require.Len(t, repo.lastChanges, 2)
	assert.Equal(t, "status", repo.lastChanges[0].Column)
	assert.Equal(t, "households", repo.lastChanges[1].Column)
}

func TestPanchayatServiceUpdateAbsent(t *testing.T) {
	repo := &mockPanchayatRepo{}
	svc := NewPanchayatService(repo, &mockAccountCreator{}, nil, validator.New(), zap.NewNop())

	name := "Renamed"
	gp, err := svc.Update(context.Background(), uuid.NewString(), UpdatePanchayatRequest{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, gp)
}

func TestPanchayatServiceMapAndUnmapMRF(t *testing.T) {
	id := uuid.NewString()
	repo := &mockPanchayatRepo{panchayats: map[string]*models.GramPanchayat{id: {ID: id, Name: "Moodbidri"}}}
	cache := &mockInvalidator{}
	svc := NewPanchayatService(repo, &mockAccountCreator{}, cache, validator.New(), zap.NewNop())

	gp, err := svc.MapMRF(context.Background(), id, MapMRFRequest{UnitID: "MRF-001", UnitName: "Pachanady MRF"})
	require.NoError(t, err)
	require.NotNil(t, gp)
	assert.True(t, gp.MRFMapped)
	require.NotNil(t, repo.lastUnitID)
	assert.Equal(t, "MRF-001", *repo.lastUnitID)
	require.NotNil(t, repo.lastUnitName)
	assert.Equal(t, "Pachanady MRF", *repo.lastUnitName)

	gp, err = svc.UnmapMRF(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, gp)
	assert.False(t, gp.MRFMapped)
	assert.Nil(t, repo.lastUnitID)
	assert.Nil(t, repo.lastUnitName)
	assert.Contains(t, cache.patterns, "dash:*")
}

func TestPanchayatServiceDelete(t *testing.T) {
	id := uuid.NewString()
	repo := &mockPanchayatRepo{panchayats: map[string]*models.GramPanchayat{id: {ID: id}}}
	svc := NewPanchayatService(repo, &mockAccountCreator{}, nil, validator.New(), zap.NewNop())

	found, err := svc.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = svc.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, found)
}
