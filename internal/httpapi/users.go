package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hirafie/hirafie-backend/internal/domain/user"
)

// Register creates an account and returns it with an access token.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, h.v, &req) {
		return
	}

	u, token, err := h.users.Register(c.Request.Context(), user.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      user.Role(req.Role),
		Category:  user.Category(req.Category),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(u), "token": token})
}

// Login exchanges credentials for an access token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, h.v, &req) {
		return
	}

	u, token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(u), "token": token})
}

// SendVerificationEmail re-sends the verification email for the actor.
func (h *Handler) SendVerificationEmail(c *gin.Context) {
	if err := h.users.SendVerificationEmail(c.Request.Context(), actor(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// VerifyEmail consumes a verification token.
func (h *Handler) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if !bindAndValidate(c, h.v, &req) {
		return
	}
	if err := h.users.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ForgotPassword issues a reset token for the account.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bindAndValidate(c, h.v, &req) {
		return
	}
	if err := h.users.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ResetPassword consumes a reset token and sets a new password.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindAndValidate(c, h.v, &req) {
		return
	}
	if err := h.users.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListUsers returns a page of accounts.
func (h *Handler) ListUsers(c *gin.Context) {
	filter := user.Filter{
		Role:     user.Role(c.Query("role")),
		Category: user.Category(c.Query("category")),
	}

	page, err := h.users.List(c.Request.Context(), filter, pageOptions(c), actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	results := make([]userResponse, len(page.Results))
	for i := range page.Results {
		results[i] = toUserResponse(&page.Results[i])
	}
	c.JSON(http.StatusOK, userPageResponse{
		Results:      results,
		Page:         page.Page,
		Limit:        page.Limit,
		TotalPages:   page.TotalPages,
		TotalResults: page.TotalResults,
	})
}

// GetUser returns one account.
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("userId"), actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

// UpdateUser patches one account.
func (h *Handler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if !bindAndValidate(c, h.v, &req) {
		return
	}

	in := user.UpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	}
	if req.Category != nil {
		cat := user.Category(*req.Category)
		in.Category = &cat
	}

	u, err := h.users.Update(c.Request.Context(), c.Param("userId"), in, actor(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

// DeleteUser removes one account.
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("userId"), actor(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
