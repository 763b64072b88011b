package handler

import (
	"github.com/gin-gonic/gin"

	appauth "github.com/xiebiao/catalog/internal/application/auth"
	"github.com/xiebiao/catalog/internal/interface/http/dto"
	"github.com/xiebiao/catalog/internal/interface/http/middleware"
	"github.com/xiebiao/catalog/pkg/response"
)

type AuthHandler struct {
	login   *appauth.LoginUseCase
	logout  *appauth.LogoutUseCase
	refresh *appauth.RefreshUseCase
}

func NewAuthHandler(login *appauth.LoginUseCase, logout *appauth.LogoutUseCase, refresh *appauth.RefreshUseCase) *AuthHandler {
	return &AuthHandler{login: login, logout: logout, refresh: refresh}
}

// Login godoc
// @Summary      Log in
// @Description  Checks email and password and returns a JWT token pair carrying the roles.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "credentials"
// @Success      200 {object} response.Response{data=appauth.LoginResponse}
// @Failure      401 {object} response.Response "bad credentials"
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.login.Execute(c.Request.Context(), appauth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// Logout godoc
// @Summary      Log out
// @Description  Ends the session and revokes the access token.
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	if err := h.logout.Execute(c.Request.Context(), p.UserID, middleware.GetAccessToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Refresh godoc
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshRequest true "refresh token"
// @Success      200 {object} response.Response{data=appauth.RefreshResponse}
// @Failure      401 {object} response.Response
// @Router       /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.refresh.Execute(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}
