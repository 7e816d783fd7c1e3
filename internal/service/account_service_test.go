package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/deiondz/udal-gp/internal/models"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
)

type mockAccountUserRepo struct {
	users    map[string]*models.User
	banCalls []bool
}

func (m *mockAccountUserRepo) List(ctx context.Context, q models.ListUsersQuery) ([]models.User, int, error) {
	var out []models.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockAccountUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockAccountUserRepo) Update(ctx context.Context, user *models.User) error {
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockAccountUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if u, ok := m.users[id]; ok {
		u.PasswordHash = passwordHash
		u.UpdatedAt = updatedAt
	}
	return nil
}

func (m *mockAccountUserRepo) SetRole(ctx context.Context, id string, role models.UserRole) error {
	if u, ok := m.users[id]; ok {
		u.Role = role
	}
	return nil
}

func (m *mockAccountUserRepo) SetBan(ctx context.Context, id string, banned bool, reason *string, expires *time.Time) error {
	m.banCalls = append(m.banCalls, banned)
	if u, ok := m.users[id]; ok {
		u.Banned = banned
		u.BanReason = reason
		u.BanExpires = expires
	}
	return nil
}

func (m *mockAccountUserRepo) Delete(ctx context.Context, id string) error {
	delete(m.users, id)
	return nil
}

type mockSessionRepo struct {
	sessions map[string]*models.Session
}

func (m *mockSessionRepo) Create(ctx context.Context, session *models.Session) error {
	if m.sessions == nil {
		m.sessions = make(map[string]*models.Session)
	}
	copy := *session
	m.sessions[session.Token] = &copy
	return nil
}

func (m *mockSessionRepo) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	if s, ok := m.sessions[token]; ok {
		copy := *s
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSessionRepo) ListByUser(ctx context.Context, userID string) ([]models.Session, error) {
	var out []models.Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockSessionRepo) DeleteByToken(ctx context.Context, token string) (bool, error) {
	if _, ok := m.sessions[token]; ok {
		delete(m.sessions, token)
		return true, nil
	}
	return false, nil
}

func (m *mockSessionRepo) DeleteByUser(ctx context.Context, userID string) error {
	for token, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, token)
		}
	}
	return nil
}

func testAccountConfig() AccountConfig {
	return AccountConfig{
		Secret:           "test-secret",
		TokenExpiry:      time.Hour,
		SessionExpiry:    24 * time.Hour,
		ImpersonationTTL: time.Hour,
		Issuer:           "udal-gp",
	}
}

func seededUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "user-1",
		Email:        "gp@udal.gov.in",
		PasswordHash: string(hash),
		Name:         "Udal GP",
		Role:         models.RoleUser,
	}
}

func TestAccountServiceLogin(t *testing.T) {
	user := seededUser(t, "panchayat1")
	users := &mockAccountUserRepo{users: map[string]*models.User{user.ID: user}}
	sessions := &mockSessionRepo{}
	svc := NewAccountService(users, sessions, zap.NewNop(), testAccountConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "panchayat1", IP: "10.0.0.1", UserAgent: "tests"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.SessionToken)
	assert.Equal(t, user.ID, resp.User.ID)

	stored, err := sessions.FindByToken(context.Background(), resp.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.UserID)
	assert.Nil(t, stored.ImpersonatedBy)
	require.NotNil(t, stored.IPAddress)
	assert.Equal(t, "10.0.0.1", *stored.IPAddress)
}

func TestAccountServiceLoginWrongPassword(t *testing.T) {
	user := seededUser(t, "panchayat1")
	users := &mockAccountUserRepo{users: map[string]*models.User{user.ID: user}}
	svc := NewAccountService(users, &mockSessionRepo{}, zap.NewNop(), testAccountConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAccountServiceLoginUnknownEmail(t *testing.T) {
	svc := NewAccountService(&mockAccountUserRepo{}, &mockSessionRepo{}, zap.NewNop(), testAccountConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@udal.gov.in", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAccountServiceLoginBanned(t *testing.T) {
	user := seededUser(t, "panchayat1")
	user.Banned = true
	reason := "spam"
	user.BanReason = &reason
	users := &mockAccountUserRepo{users: map[string]*models.User{user.ID: user}}
	svc := NewAccountService(users, &mockSessionRepo{}, zap.NewNop(), testAccountConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "panchayat1"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrBanned.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "spam")
}

func TestAccountServiceLoginExpiredBanLifted(t *testing.T) {
	user := seededUser(t, "panchayat1")
	user.Banned = true
	expired := time.Now().UTC().Add(-time.Hour)
	user.BanExpires = &expired
	users := &mockAccountUserRepo{users: map[string]*models.User{user.ID: user}}
	svc := NewAccountService(users, &mockSessionRepo{}, zap.NewNop(), testAccountConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "panchayat1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, users.banCalls)
	assert.False(t, users.banCalls[len(users.banCalls)-1], "expired ban is lifted on login")
}

func TestAccountServiceCreateUserDuplicateEmail(t *testing.T) {
	user := seededUser(t, "panchayat1")
	users := &mockAccountUserRepo{users: map[string]*models.User{user.ID: user}}
	svc := NewAccountService(users, &mockSessionRepo{}, zap.NewNop(), testAccountConfig())

	_, err := svc.CreateUser(context.Background(), CreateAccountRequest{Email: user.Email, Password: "longenough", Name: "Duplicate"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAccountServiceValidateToken(t *testing.T) {
	user := seededUser(t, "panchayat1")
	users := &mockAccountUserRepo{users: map[string]*models.User{user.ID: user}}
	svc := NewAccountService(users, &mockSessionRepo{}, zap.NewNop(), testAccountConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "panchayat1"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Empty(t, claims.ImpersonatedBy)

	_, err = svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAccountServiceImpersonate(t *testing.T) {
	user := seededUser(t, "panchayat1")
	users := &mockAccountUserRepo{users: map[string]*models.User{user.ID: user}}
	sessions := &mockSessionRepo{}
	svc := NewAccountService(users, sessions, zap.NewNop(), testAccountConfig())

	resp, err := svc.ImpersonateUser(context.Background(), "admin-9", user.ID)
	require.NoError(t, err)

	stored, err := sessions.FindByToken(context.Background(), resp.SessionToken)
	require.NoError(t, err)
	require.NotNil(t, stored.ImpersonatedBy)
	assert.Equal(t, "admin-9", *stored.ImpersonatedBy)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "admin-9", claims.ImpersonatedBy)
}

func TestAccountServiceBanRevokesSessions(t *testing.T) {
	user := seededUser(t, "panchayat1")
	users := &mockAccountUserRepo{users: map[string]*models.User{user.ID: user}}
	sessions := &mockSessionRepo{}
	svc := NewAccountService(users, sessions, zap.NewNop(), testAccountConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: user.Email, Password: "panchayat1"})
	require.NoError(t, err)
	active, err := svc.ListSessions(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)

	require.NoError(t, svc.BanUser(context.Background(), user.ID, nil, nil))
	active, err = svc.ListSessions(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.True(t, users.users[user.ID].Banned)
	assert.Nil(t, users.users[user.ID].BanExpires)
}
