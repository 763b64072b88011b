package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/catalog/internal/application/user"
	"github.com/xiebiao/catalog/internal/interface/http/dto"
	"github.com/xiebiao/catalog/internal/interface/http/middleware"
	"github.com/xiebiao/catalog/pkg/response"
)

type UserHandler struct {
	users *appuser.Service
}

func NewUserHandler(users *appuser.Service) *UserHandler {
	return &UserHandler{users: users}
}

// Signup godoc
// @Summary      Create a client account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body dto.SignupRequest true "account"
// @Success      201 {object} response.Response{data=appuser.UserDTO}
// @Failure      422 {object} response.Response{data=response.ValidationData} "invalid input or email already exists"
// @Router       /api/v1/users/signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.users.Signup(c.Request.Context(), appuser.SignupRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, out)
}

// Me godoc
// @Summary      The logged in account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.UserDTO}
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	out, err := h.users.Me(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page  query  int     false  "zero-based page"
// @Param        size  query  int     false  "page size"
// @Param        sort  query  string  false  "id|email|firstName[,asc|desc]"
// @Success      200 {object} response.Response{data=pagination.Page[appuser.UserDTO]}
// @Router       /api/v1/users [get]
func (h *UserHandler) List(c *gin.Context) {
	req, ok := pageRequest(c)
	if !ok {
		return
	}
	page, err := h.users.FindAllPaged(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Page(c, page)
}

// Get godoc
// @Summary      Find a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "user id"
// @Success      200 {object} response.Response{data=appuser.UserDTO}
// @Failure      404 {object} response.Response
// @Router       /api/v1/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.users.FindByID(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// Create godoc
// @Summary      Create a user with roles
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UserInsertRequest true "user"
// @Success      201 {object} response.Response{data=appuser.UserDTO}
// @Failure      422 {object} response.Response{data=response.ValidationData}
// @Router       /api/v1/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.UserInsertRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.users.Insert(c.Request.Context(), middleware.GetPrincipal(c), appuser.InsertRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		RoleIDs:   req.RoleIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, out)
}

// Update godoc
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  int                    true  "user id"
// @Param        request  body  dto.UserUpdateRequest  true  "user"
// @Success      200 {object} response.Response{data=appuser.UserDTO}
// @Failure      404 {object} response.Response
// @Failure      422 {object} response.Response{data=response.ValidationData}
// @Router       /api/v1/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UserUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.users.Update(c.Request.Context(), middleware.GetPrincipal(c), id, appuser.UpdateRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		RoleIDs:   req.RoleIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, out)
}

// Delete godoc
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  int  true  "user id"
// @Success      204
// @Failure      404 {object} response.Response
// @Failure      409 {object} response.Response
// @Router       /api/v1/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), middleware.GetPrincipal(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
