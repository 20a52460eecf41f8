// Package httpapi exposes the domain services over a JSON REST API. Routing
// uses gin; request bodies are validated with go-playground/validator before
// they reach the domain layer.
package httpapi

import (
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hirafie/hirafie-backend/internal/domain/order"
	"github.com/hirafie/hirafie-backend/internal/domain/post"
	"github.com/hirafie/hirafie-backend/internal/domain/rights"
	"github.com/hirafie/hirafie-backend/internal/domain/user"
)

// Handler carries the domain services behind the REST surface.
type Handler struct {
	users  *user.Service
	posts  *post.Service
	orders *order.Service
	v      *validatorv10.Validate
	lg     *zap.Logger
}

// New constructs a Handler with the required domain services.
func New(users *user.Service, posts *post.Service, orders *order.Service, lg *zap.Logger) *Handler {
	return &Handler{
		users:  users,
		posts:  posts,
		orders: orders,
		v:      newValidator(),
		lg:     lg,
	}
}

// NewEngine builds the gin engine with all routes registered. The engine is
// plain (no gin middleware): recovery, logging, CORS, and rate limiting are
// applied by the surrounding net/http middleware chain.
func (h *Handler) NewEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	h.register(r)
	return r
}

func (h *Handler) register(r *gin.Engine) {
	v1 := r.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/send-verification-email", h.authenticate(), h.SendVerificationEmail)
	auth.POST("/verify-email", h.VerifyEmail)
	auth.POST("/forgot-password", h.ForgotPassword)
	auth.POST("/reset-password", h.ResetPassword)

	posts := v1.Group("/posts")
	posts.GET("", h.authenticate(rights.GetPosts), h.ListPosts)
	posts.POST("", h.authenticate(rights.CreatePost), h.CreatePost)
	posts.GET("/:postId", h.authenticate(rights.GetPost), h.GetPost)
	posts.PATCH("/:postId", h.authenticate(rights.UpdatePost), h.UpdatePost)
	posts.DELETE("/:postId", h.authenticate(rights.DeletePost), h.DeletePost)
	posts.POST("/:postId/media", h.authenticate(rights.UpdatePost), h.UploadPostMedia)
	posts.DELETE("/:postId/media/:mediaId", h.authenticate(rights.UpdatePost), h.DeletePostMedia)

	orders := v1.Group("/orders")
	orders.POST("", h.authenticate(rights.CreateOrder), h.CreateOrder)
	orders.GET("", h.authenticate(rights.GetOrders), h.ListOrders)
	orders.GET("/:orderId", h.authenticate(rights.GetOrder), h.GetOrder)
	orders.PATCH("/:orderId", h.authenticate(rights.UpdateOrder), h.UpdateOrder)
	orders.DELETE("/:orderId", h.authenticate(rights.DeleteOrder), h.DeleteOrder)

	users := v1.Group("/users")
	users.GET("", h.authenticate(rights.GetUsers), h.ListUsers)
	users.GET("/:userId", h.authenticate(rights.GetUser), h.GetUser)
	users.PATCH("/:userId", h.authenticate(rights.UpdateUser), h.UpdateUser)
	users.DELETE("/:userId", h.authenticate(rights.DeleteUser), h.DeleteUser)
}
