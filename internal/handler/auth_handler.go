package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deiondz/udal-gp/internal/models"
	"github.com/deiondz/udal-gp/internal/service"
	appErrors "github.com/deiondz/udal-gp/pkg/errors"
	"github.com/deiondz/udal-gp/pkg/response"
)

// AuthHandler handles login, logout and identity endpoints.
type AuthHandler struct {
	accounts *service.AccountService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type logoutRequest struct {
	SessionToken string `json:"sessionToken"`
}

// Login godoc
// @Summary Login
// @Description Authenticate with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	resp, err := h.accounts.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Logout godoc
// @Summary Logout
// @Description Revoke the current session
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body logoutRequest true "Session token"
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.accounts.Logout(c.Request.Context(), req.SessionToken); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Me godoc
// @Summary Current identity
// @Description Return the claims of the presented access token
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	info := models.UserInfo{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
	meta := map[string]interface{}{}
	if claims.ImpersonatedBy != "" {
		meta["impersonatedBy"] = claims.ImpersonatedBy
	}
	response.JSON(c, http.StatusOK, info, nil, meta)
}
