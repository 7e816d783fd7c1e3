package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deiondz/udal-gp/internal/models"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
)

type mockMRFRepo struct {
	mrfs        map[string]*models.MRF
	lastChanges []models.FieldChange
}

func (m *mockMRFRepo) List(ctx context.Context) ([]models.MRF, error) {
	var out []models.MRF
	for _, mrf := range m.mrfs {
		out = append(out, *mrf)
	}
	return out, nil
}

func (m *mockMRFRepo) FindByID(ctx context.Context, id string) (*models.MRF, error) {
	if mrf, ok := m.mrfs[id]; ok {
		copy := *mrf
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMRFRepo) FindByUnitID(ctx context.Context, unitID string) (*models.MRF, error) {
	for _, mrf := range m.mrfs {
		if mrf.UnitID != nil && *mrf.UnitID == unitID {
			copy := *mrf
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockMRFRepo) Create(ctx context.Context, mrf *models.MRF) error {
	if mrf.ID == "" {
		mrf.ID = uuid.NewString()
	}
	if m.mrfs == nil {
		m.mrfs = make(map[string]*models.MRF)
	}
	copy := *mrf
	m.mrfs[mrf.ID] = &copy
	return nil
}

func (m *mockMRFRepo) Update(ctx context.Context, id string, changes []models.FieldChange) (bool, error) {
	m.lastChanges = changes
	_, ok := m.mrfs[id]
	return ok, nil
}

func (m *mockMRFRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := m.mrfs[id]; ok {
		delete(m.mrfs, id)
		return true, nil
	}
	return false, nil
}

func TestMRFServiceCreateDefaultsStatus(t *testing.T) {
	repo := &mockMRFRepo{}
	svc := NewMRFService(repo, validator.New(), zap.NewNop())

	mrf, err := svc.Create(context.Background(), CreateMRFRequest{Name: "Pachanady MRF"})
	require.NoError(t, err)
	require.NotNil(t, mrf.Status)
	assert.Equal(t, models.MRFActive, *mrf.Status)
	assert.Nil(t, mrf.UnitID)
}

func TestMRFServiceCreateDuplicateUnitID(t *testing.T) {
	unit := "MRF-001"
	existing := &models.MRF{ID: uuid.NewString(), UnitID: &unit, Name: "Pachanady MRF"}
	repo := &mockMRFRepo{mrfs: map[string]*models.MRF{existing.ID: existing}}
	svc := NewMRFService(repo, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateMRFRequest{Name: "Vamanjoor MRF", UnitID: &unit})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestMRFServiceUpdateKeepsOwnUnitID(t *testing.T) {
	unit := "MRF-001"
	existing := &models.MRF{ID: uuid.NewString(), UnitID: &unit, Name: "Pachanady MRF"}
	repo := &mockMRFRepo{mrfs: map[string]*models.MRF{existing.ID: existing}}
	svc := NewMRFService(repo, validator.New(), zap.NewNop())

	name := "Pachanady MRF Unit"
	mrf, err := svc.Update(context.Background(), existing.ID, UpdateMRFRequest{UnitID: &unit, Name: &name})
	require.NoError(t, err)
	require.NotNil(t, mrf)
	require.Len(t, repo.lastChanges, 2)
	assert.Equal(t, "unit_id", repo.lastChanges[0].Column)
	assert.Equal(t, "name", repo.lastChanges[1].Column)
}

func TestMRFServiceUpdateConflictingUnitID(t *testing.T) {
	unitA, unitB := "MRF-001", "MRF-002"
	a := &models.MRF{ID: uuid.NewString(), UnitID: &unitA, Name: "Pachanady MRF"}
	b := &models.MRF{ID: uuid.NewString(), UnitID: &unitB, Name: "Vamanjoor MRF"}
	repo := &mockMRFRepo{mrfs: map[string]*models.MRF{a.ID: a, b.ID: b}}
	svc := NewMRFService(repo, validator.New(), zap.NewNop())

	_, err := svc.Update(context.Background(), b.ID, UpdateMRFRequest{UnitID: &unitA})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestMRFServiceGetMalformedID(t *testing.T) {
	svc := NewMRFService(&mockMRFRepo{}, validator.New(), zap.NewNop())

	mrf, err := svc.Get(context.Background(), "MRF-001")
	require.NoError(t, err)
	assert.Nil(t, mrf)
}

func TestMRFServiceDeleteAbsent(t *testing.T) {
	svc := NewMRFService(&mockMRFRepo{}, validator.New(), zap.NewNop())

	found, err := svc.Delete(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.False(t, found)
}
