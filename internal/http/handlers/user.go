package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/docqa-backend/internal/http/response"
	"github.com/yungbote/docqa-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /users/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	me, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, me)
}

// POST /users
// body: { "email": "...", "password": "..." }
func (uh *UserHandler) Create(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "validation_error", err)
		return
	}
	if !requireFields(c, "email", req.Email, "password", req.Password) {
		return
	}
	u, err := uh.userService.Create(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, u)
}

// GET /users?skip=0&limit=100
func (uh *UserHandler) List(c *gin.Context) {
	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 100)
	if !ok {
		return
	}
	users, err := uh.userService.List(c.Request.Context(), skip, limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, users)
}

// GET /users/:user_id
func (uh *UserHandler) Get(c *gin.Context) {
	id, ok := pathUint(c, "user_id")
	if !ok {
		return
	}
	u, err := uh.userService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, u)
}

// GET /users/email/:email
func (uh *UserHandler) GetByEmail(c *gin.Context) {
	u, err := uh.userService.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, u)
}

// PUT /users/:user_id
// body: { "email": "...", "username": "..." }. A password field is accepted and ignored.
func (uh *UserHandler) Update(c *gin.Context) {
	id, ok := pathUint(c, "user_id")
	if !ok {
		return
	}
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, "validation_error", err)
		return
	}
	if !requireFields(c, "email", req.Email) {
		return
	}
	u, err := uh.userService.Update(c.Request.Context(), id, services.UpdateUserInput{
		Email:    req.Email,
		Username: req.Username,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, u)
}

// DELETE /users/:user_id
func (uh *UserHandler) Delete(c *gin.Context) {
	id, ok := pathUint(c, "user_id")
	if !ok {
		return
	}
	if err := uh.userService.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// POST /users/change_password
// form or JSON: email, old_password, new_password
func (uh *UserHandler) ChangePassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email" form:"email"`
		OldPassword string `json:"old_password" form:"old_password"`
		NewPassword string `json:"new_password" form:"new_password"`
	}
	if !bindJSONOrForm(c, &req) {
		return
	}
	if !requireFields(c, "old_password", req.OldPassword, "new_password", req.NewPassword) {
		return
	}
	u, err := uh.userService.ChangePassword(c.Request.Context(), services.ChangePasswordInput{
		Email:       req.Email,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, u)
}
