package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeclash/codeclash/internal/domain"
	"github.com/codeclash/codeclash/internal/user"
)

// userResponse hides the password hash from every user-facing payload.
type userResponse struct {
	UserID     string    `json:"userId"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	IsAdmin    bool      `json:"isAdmin"`
	CreateTime time.Time `json:"createTime"`
	UpdateTime time.Time `json:"updateTime"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		UserID:     u.UserID,
		Username:   u.Username,
		Email:      u.Email,
		IsAdmin:    u.IsAdmin,
		CreateTime: u.CreateTime,
		UpdateTime: u.UpdateTime,
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (a *API) registerUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, invalidArgument(err))
		return
	}

	u, err := a.users.Register(c.Request.Context(), user.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(u)})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (a *API) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, invalidArgument(err))
		return
	}

	resp, err := a.users.Login(c.Request.Context(), user.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": resp.Token,
		"user":  toUserResponse(resp.User),
	})
}

func (a *API) listUsers(c *gin.Context) {
	users, err := a.users.List(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}

	c.JSON(http.StatusOK, resp)
}

func (a *API) getUser(c *gin.Context) {
	u, err := a.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(u))
}

type updateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password" binding:"omitempty,min=8"`
}

func (a *API) updateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErr(c, invalidArgument(err))
		return
	}

	u, err := a.users.Update(c.Request.Context(), user.UpdateRequest{
		UserID:   c.Param("id"),
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(u))
}

func (a *API) deleteUser(c *gin.Context) {
	if err := a.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
