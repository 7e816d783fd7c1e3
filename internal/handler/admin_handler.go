package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deiondz/udal-gp/internal/models"
	"github.com/deiondz/udal-gp/internal/service"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
	"github.com/deiondz/udal-gp/pkg/response"
)

// AdminHandler handles the user administration endpoints.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{service: svc}
}

type setRoleRequest struct {
	Role models.UserRole `json:"role"`
}

type setPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

type banRequest struct {
	BanReason    *string `json:"banReason"`
	BanExpiresIn *int64  `json:"banExpiresIn"`
}

type revokeSessionRequest struct {
	SessionToken string `json:"sessionToken"`
}

// ListUsers godoc
// @Summary List users
// @Description List accounts with search, filtering, sorting and pagination
// @Tags Admin
// @Produce json
// @Param searchValue query string false "Search term"
// @Param searchField query string false "email or name"
// @Param searchOperator query string false "contains, starts_with or ends_with"
// @Param limit query int false "Page size (1-100, default 10)"
// @Param offset query int false "Rows to skip"
// @Param sortBy query string false "Sort column"
// @Param sortDirection query string false "asc or desc"
// @Param filterField query string false "Filter column"
// @Param filterValue query string false "Filter value"
// @Param filterOperator query string false "eq, ne, lt, lte, gt or gte"
// @Success 200 {object} response.Envelope
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var q models.ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}

	list, err := h.service.ListUsers(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// GetUser godoc
// @Summary Get user
// @Description Get one account by id
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if user == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "user not found"))
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// CreateUser godoc
// @Summary Create user
// @Description Provision a new account
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body service.CreateUserRequest true "Create user payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// UpdateUser godoc
// @Summary Update user
// @Description Update account attributes; omitted fields are untouched
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body service.UpdateUserRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// DeleteUser godoc
// @Summary Delete user
// @Description Delete an account. Admins cannot delete their own account.
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.RemoveUser(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetRole godoc
// @Summary Set role
// @Description Change an account role. Admins cannot change their own role.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body setRoleRequest true "Role"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) SetRole(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.SetRole(c.Request.Context(), claims.UserID, c.Param("id"), req.Role); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetPassword godoc
// @Summary Set password
// @Description Replace an account password
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body setPasswordRequest true "New password"
// @Success 204
// @Router /admin/users/{id}/password [put]
func (h *AdminHandler) SetPassword(c *gin.Context) {
	var req setPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.SetPassword(c.Request.Context(), c.Param("id"), req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BanUser godoc
// @Summary Ban user
// @Description Ban an account and revoke its sessions. banExpiresIn is in seconds; omit it for an indefinite ban. Admins cannot ban themselves.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body banRequest true "Ban payload"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Router /admin/users/{id}/ban [post]
func (h *AdminHandler) BanUser(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req banRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	ban := service.BanUserRequest{Reason: req.BanReason}
	if req.BanExpiresIn != nil {
		d := time.Duration(*req.BanExpiresIn) * time.Second
		ban.ExpiresIn = &d
	}

	if err := h.service.BanUser(c.Request.Context(), claims.UserID, c.Param("id"), ban); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UnbanUser godoc
// @Summary Unban user
// @Description Lift the ban on an account
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 204
// @Router /admin/users/{id}/ban [delete]
func (h *AdminHandler) UnbanUser(c *gin.Context) {
	if err := h.service.UnbanUser(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ImpersonateUser godoc
// @Summary Impersonate user
// @Description Start an impersonation session against the target account
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/users/{id}/impersonate [post]
func (h *AdminHandler) ImpersonateUser(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	resp, err := h.service.ImpersonateUser(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// ListSessions godoc
// @Summary List sessions
// @Description List the sessions of an account
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /admin/users/{id}/sessions [get]
func (h *AdminHandler) ListSessions(c *gin.Context) {
	sessions, err := h.service.ListSessions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// RevokeAllSessions godoc
// @Summary Revoke all sessions
// @Description Invalidate every session of an account
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 204
// @Router /admin/users/{id}/sessions [delete]
func (h *AdminHandler) RevokeAllSessions(c *gin.Context) {
	if err := h.service.RevokeAllSessions(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RevokeSession godoc
// @Summary Revoke session
// @Description Invalidate a single session by its token
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body revokeSessionRequest true "Session token"
// @Success 204
// @Router /admin/sessions/revoke [post]
func (h *AdminHandler) RevokeSession(c *gin.Context) {
	var req revokeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.RevokeSession(c.Request.Context(), req.SessionToken); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
