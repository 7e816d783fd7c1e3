package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/deiondz/udal-gp/internal/models"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
)

type accountUserRepository interface {
	List(ctx context.Context, q models.ListUsersQuery) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	SetRole(ctx context.Context, id string, role models.UserRole) error
	SetBan(ctx context.Context, id string, banned bool, reason *string, expires *time.Time) error
	Delete(ctx context.Context, id string) error
}

type accountSessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByToken(ctx context.Context, token string) (*models.Session, error)
	ListByUser(ctx context.Context, userID string) ([]models.Session, error)
	DeleteByToken(ctx context.Context, token string) (bool, error)
	DeleteByUser(ctx context.Context, userID string) error
}

// AccountConfig defines token and session settings for the account service.
type AccountConfig struct {
	Secret           string
	TokenExpiry      time.Duration
	SessionExpiry    time.Duration
	ImpersonationTTL time.Duration
	Issuer           string
}

// CreateAccountRequest carries the fields needed to provision an account.
type CreateAccountRequest struct {
	Email          string
	Password       string
	Name           string
	Role           models.UserRole
	ContactDetails *string
}

// UpdateAccountData lists account fields to change; nil pointers leave the
// stored value untouched.
type UpdateAccountData struct {
	Name           *string
	Email          *string
	Role           *models.UserRole
	ContactDetails *string
}

// AccountService is the auth provider: it owns account records, credentials,
// sessions and token issuance. Admin-panel operations delegate here after
// validation.
type AccountService struct {
	users    accountUserRepository
	sessions accountSessionRepository
	logger   *zap.Logger
	config   AccountConfig
	now      func() time.Time
}

// NewAccountService constructs an AccountService instance.
func NewAccountService(users accountUserRepository, sessions accountSessionRepository, logger *zap.Logger, config AccountConfig) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TokenExpiry <= 0 {
		config.TokenExpiry = 24 * time.Hour
	}
	if config.SessionExpiry <= 0 {
		config.SessionExpiry = 7 * 24 * time.Hour
	}
	if config.ImpersonationTTL <= 0 {
		config.ImpersonationTTL = time.Hour
	}
	return &AccountService{users: users, sessions: sessions, logger: logger, config: config, now: time.Now}
}

// ListUsers returns accounts matching the query, normalized to a UserList.
func (s *AccountService) ListUsers(ctx context.Context, q models.ListUsersQuery) (*models.UserList, error) {
	users, total, err := s.users.List(ctx, q)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	if users == nil {
		users = []models.User{}
	}
	return &models.UserList{Users: users, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// GetUser returns the account with the given id, or nil when absent.
func (s *AccountService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

// CreateUser provisions a new account with a hashed password.
func (s *AccountService) CreateUser(ctx context.Context, req CreateAccountRequest) (*models.User, error) {
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("email %q already exists", req.Email))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		ID:             uuid.NewString(),
		Email:          req.Email,
		PasswordHash:   string(passwordHash),
		Name:           req.Name,
		Role:           role,
		ContactDetails: req.ContactDetails,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}
	return user, nil
}

// UpdateUser applies the supplied account changes.
func (s *AccountService) UpdateUser(ctx context.Context, id string, data UpdateAccountData) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if data.Email != nil && *data.Email != user.Email {
		if _, err := s.users.FindByEmail(ctx, *data.Email); err == nil {
			return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("email %q already exists", *data.Email))
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email uniqueness")
		}
		user.Email = *data.Email
	}
	if data.Name != nil {
		user.Name = *data.Name
	}
	if data.Role != nil {
		user.Role = *data.Role
	}
	if data.ContactDetails != nil {
		user.ContactDetails = data.ContactDetails
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}
	return user, nil
}

// RemoveUser deletes an account and all its sessions.
func (s *AccountService) RemoveUser(ctx context.Context, id string) error {
	if err := s.sessions.DeleteByUser(ctx, id); err != nil {
		s.logger.Warn("failed to delete user sessions", zap.String("user_id", id), zap.Error(err))
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	return nil
}

// SetRole changes the account role.
func (s *AccountService) SetRole(ctx context.Context, id string, role models.UserRole) error {
	if err := s.users.SetRole(ctx, id, role); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set role")
	}
	return nil
}

// SetPassword replaces the account password.
func (s *AccountService) SetPassword(ctx context.Context, id, newPassword string) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	if err := s.users.UpdatePassword(ctx, id, string(passwordHash), s.now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set password")
	}
	return nil
}

// BanUser marks the account banned and revokes its sessions. A nil expiresIn
// bans indefinitely.
func (s *AccountService) BanUser(ctx context.Context, id string, reason *string, expiresIn *time.Duration) error {
	var expires *time.Time
	if expiresIn != nil {
		t := s.now().UTC().Add(*expiresIn)
		expires = &t
	}
	if err := s.users.SetBan(ctx, id, true, reason, expires); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to ban user")
	}
	if err := s.sessions.DeleteByUser(ctx, id); err != nil {
		s.logger.Warn("failed to revoke sessions on ban", zap.String("user_id", id), zap.Error(err))
	}
	return nil
}

// UnbanUser clears the ban flag.
func (s *AccountService) UnbanUser(ctx context.Context, id string) error {
	if err := s.users.SetBan(ctx, id, false, nil, nil); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unban user")
	}
	return nil
}

// ImpersonateUser issues a session for the target marked with the acting
// admin's id, plus an access token carrying the impersonation claim.
func (s *AccountService) ImpersonateUser(ctx context.Context, actorID, targetID string) (*models.LoginResponse, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	token, err := generateSessionToken()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}
	session := &models.Session{
		ID:             uuid.NewString(),
		Token:          token,
		UserID:         target.ID,
		ExpiresAt:      s.now().UTC().Add(s.config.ImpersonationTTL),
		CreatedAt:      s.now().UTC(),
		UserAgent:      "impersonation",
		ImpersonatedBy: &actorID,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist impersonation session")
	}

	accessToken, err := s.generateAccessToken(target, actorID, s.config.ImpersonationTTL)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		SessionToken: session.Token,
		ExpiresIn:    int64(s.config.ImpersonationTTL.Seconds()),
		IssuedAt:     s.now().UTC(),
		User: models.UserInfo{
			ID:    target.ID,
			Email: target.Email,
			Name:  target.Name,
			Role:  target.Role,
		},
	}, nil
}

// ListSessions returns the sessions of a user.
func (s *AccountService) ListSessions(ctx context.Context, userID string) ([]models.Session, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	if sessions == nil {
		sessions = []models.Session{}
	}
	return sessions, nil
}

// RevokeSession invalidates a single session by token.
func (s *AccountService) RevokeSession(ctx context.Context, token string) error {
	if _, err := s.sessions.DeleteByToken(ctx, token); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke session")
	}
	return nil
}

// RevokeAllSessions invalidates every session of a user.
func (s *AccountService) RevokeAllSessions(ctx context.Context, userID string) error {
	if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke sessions")
	}
	return nil
}

// Login authenticates a user and returns the issued token pair. Expired bans
// are lifted on the way in.
func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	if user.Banned {
		if user.BanExpires != nil && s.now().UTC().After(*user.BanExpires) {
			if err := s.users.SetBan(ctx, user.ID, false, nil, nil); err != nil {
				s.logger.Warn("failed to lift expired ban", zap.String("user_id", user.ID), zap.Error(err))
			}
		} else {
			msg := "account is banned"
			if user.BanReason != nil && *user.BanReason != "" {
				msg = fmt.Sprintf("account is banned: %s", *user.BanReason)
			}
			return nil, appErrors.Clone(appErrors.ErrBanned, msg)
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	token, err := generateSessionToken()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session token")
	}
	var ip *string
	if req.IP != "" {
		ip = &req.IP
	}
	session := &models.Session{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: s.now().UTC().Add(s.config.SessionExpiry),
		CreatedAt: s.now().UTC(),
		IPAddress: ip,
		UserAgent: req.UserAgent,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	accessToken, err := s.generateAccessToken(user, "", s.config.TokenExpiry)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		SessionToken: session.Token,
		ExpiresIn:    int64(s.config.TokenExpiry.Seconds()),
		IssuedAt:     s.now().UTC(),
		User: models.UserInfo{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
	}, nil
}

// Logout revokes the session identified by its token.
func (s *AccountService) Logout(ctx context.Context, sessionToken string) error {
	return s.RevokeSession(ctx, sessionToken)
}

// ValidateToken parses and verifies an access token, returning its claims.
func (s *AccountService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func (s *AccountService) generateAccessToken(user *models.User, impersonatedBy string, expiry time.Duration) (string, error) {
	now := s.now().UTC()
	claims := &models.JWTClaims{
		UserID:         user.ID,
		Role:           user.Role,
		Email:          user.Email,
		ImpersonatedBy: impersonatedBy,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func generateSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
