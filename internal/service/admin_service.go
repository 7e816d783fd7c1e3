package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/deiondz/udal-gp/internal/models"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
)

type authProvider interface {
	ListUsers(ctx context.Context, q models.ListUsersQuery) (*models.UserList, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, req CreateAccountRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id string, data UpdateAccountData) (*models.User, error)
	RemoveUser(ctx context.Context, id string) error
	SetRole(ctx context.Context, id string, role models.UserRole) error
	SetPassword(ctx context.Context, id, newPassword string) error
	BanUser(ctx context.Context, id string, reason *string, expiresIn *time.Duration) error
	UnbanUser(ctx context.Context, id string) error
	ImpersonateUser(ctx context.Context, actorID, targetID string) (*models.LoginResponse, error)
	ListSessions(ctx context.Context, userID string) ([]models.Session, error)
	RevokeSession(ctx context.Context, token string) error
	RevokeAllSessions(ctx context.Context, userID string) error
}

// CreateUserRequest is the admin-panel payload for provisioning an account.
type CreateUserRequest struct {
	Email          string          `json:"email" validate:"required,email"`
	Password       string          `json:"password" validate:"required,min=8"`
	Name           string          `json:"name" validate:"required"`
	Role           models.UserRole `json:"role" validate:"omitempty,oneof=admin user"`
	ContactDetails *string         `json:"contactDetails"`
}

// UpdateUserRequest lists admin-panel account changes; nil fields are left
// untouched.
type UpdateUserRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1"`
	Email          *string          `json:"email" validate:"omitempty,email"`
	Role           *models.UserRole `json:"role" validate:"omitempty,oneof=admin user"`
	ContactDetails *string          `json:"contactDetails"`
}

// BanUserRequest carries the ban payload. ExpiresIn of nil bans indefinitely.
type BanUserRequest struct {
	Reason    *string        `json:"reason"`
	ExpiresIn *time.Duration `json:"expiresIn" swaggertype:"integer"`
}

// AdminService validates admin-panel requests and delegates account work to
// the auth provider. Actions an admin attempts against their own account are
// rejected before the provider is ever called.
type AdminService struct {
	provider  authProvider
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAdminService creates an instance of AdminService.
func NewAdminService(provider authProvider, validate *validator.Validate, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AdminService{provider: provider, validator: validate, logger: logger}
}

// ListUsers validates the query, applies defaults and delegates.
func (s *AdminService) ListUsers(ctx context.Context, q models.ListUsersQuery) (*models.UserList, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user listing query")
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
	if q.SearchValue != "" && q.SearchField == "" {
		q.SearchField = "email"
	}
	if q.SearchValue != "" && q.SearchOperator == "" {
		q.SearchOperator = "contains"
	}
	return s.provider.ListUsers(ctx, q)
}

// GetUser returns a single account, or nil when absent.
func (s *AdminService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.provider.GetUser(ctx, id)
}

// CreateUser provisions a new account through the provider.
func (s *AdminService) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid create user payload")
	}
	return s.provider.CreateUser(ctx, CreateAccountRequest{
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
		Role:           req.Role,
		ContactDetails: req.ContactDetails,
	})
}

// UpdateUser applies account changes through the provider. Role changes
// against the actor's own account are rejected.
func (s *AdminService) UpdateUser(ctx context.Context, actorID, targetID string, req UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update user payload")
	}
	if req.Name == nil && req.Email == nil && req.Role == nil && req.ContactDetails == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one field must be provided")
	}
	if req.Role != nil && actorID == targetID {
		return nil, appErrors.Clone(appErrors.ErrSelfAction, "you cannot change your own role")
	}
	return s.provider.UpdateUser(ctx, targetID, UpdateAccountData{
		Name:           req.Name,
		Email:          req.Email,
		Role:           req.Role,
		ContactDetails: req.ContactDetails,
	})
}

// SetRole changes an account role. The actor cannot change their own role.
func (s *AdminService) SetRole(ctx context.Context, actorID, targetID string, role models.UserRole) error {
	if actorID == targetID {
		return appErrors.Clone(appErrors.ErrSelfAction, "you cannot change your own role")
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return appErrors.Clone(appErrors.ErrValidation, "role must be admin or user")
	}
	return s.provider.SetRole(ctx, targetID, role)
}

// RemoveUser deletes an account. The actor cannot delete their own account.
func (s *AdminService) RemoveUser(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return appErrors.Clone(appErrors.ErrSelfAction, "you cannot delete your own account")
	}
	return s.provider.RemoveUser(ctx, targetID)
}

// SetPassword replaces an account password.
func (s *AdminService) SetPassword(ctx context.Context, targetID, newPassword string) error {
	if len(newPassword) < 8 {
		return appErrors.Clone(appErrors.ErrValidation, "password must be at least 8 characters")
	}
	return s.provider.SetPassword(ctx, targetID, newPassword)
}

// BanUser bans an account and revokes its sessions. The actor cannot ban
// themselves.
func (s *AdminService) BanUser(ctx context.Context, actorID, targetID string, req BanUserRequest) error {
	if actorID == targetID {
		return appErrors.Clone(appErrors.ErrSelfAction, "you cannot ban yourself")
	}
	if req.ExpiresIn != nil && *req.ExpiresIn <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "ban expiry must be positive")
	}
	return s.provider.BanUser(ctx, targetID, req.Reason, req.ExpiresIn)
}

// UnbanUser lifts the ban on an account.
func (s *AdminService) UnbanUser(ctx context.Context, targetID string) error {
	return s.provider.UnbanUser(ctx, targetID)
}

// ImpersonateUser starts an impersonation session against the target account.
func (s *AdminService) ImpersonateUser(ctx context.Context, actorID, targetID string) (*models.LoginResponse, error) {
	if actorID == targetID {
		return nil, appErrors.Clone(appErrors.ErrSelfAction, "you cannot impersonate yourself")
	}
	resp, err := s.provider.ImpersonateUser(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("impersonation session started",
		zap.String("actor_id", actorID),
		zap.String("target_id", targetID))
	return resp, nil
}

// ListSessions returns the sessions of an account.
func (s *AdminService) ListSessions(ctx context.Context, userID string) ([]models.Session, error) {
	return s.provider.ListSessions(ctx, userID)
}

// RevokeSession invalidates a single session by token.
func (s *AdminService) RevokeSession(ctx context.Context, token string) error {
	if token == "" {
		return appErrors.Clone(appErrors.ErrValidation, "session token is required")
	}
	return s.provider.RevokeSession(ctx, token)
}

// RevokeAllSessions invalidates every session of an account.
func (s *AdminService) RevokeAllSessions(ctx context.Context, userID string) error {
	return s.provider.RevokeAllSessions(ctx, userID)
}
