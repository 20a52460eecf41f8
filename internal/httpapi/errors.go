package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/hirafie/hirafie-backend/internal/domain/order"
	"github.com/hirafie/hirafie-backend/internal/domain/post"
	"github.com/hirafie/hirafie-backend/internal/domain/user"
)

// respondError maps domain errors onto HTTP responses. Policy violations
// surface with their message; anything unrecognized is logged and returned
// as a generic 500 so internal state never leaks.
func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		orderVE *order.ValidationError
		postVE  *post.ValidationError
		userVE  *user.ValidationError
	)
	switch {
	case errors.As(err, &orderVE):
		respond(c, http.StatusBadRequest, orderVE.Reason)

	case errors.As(err, &postVE):
		respond(c, http.StatusBadRequest, postVE.Reason)

	case errors.As(err, &userVE):
		respond(c, http.StatusBadRequest, userVE.Reason)

	case errors.Is(err, user.ErrUnauthenticated),
		errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrInvalidToken):
		respond(c, http.StatusUnauthorized, err.Error())

	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, post.ErrInactive),
		errors.Is(err, user.ErrEmailTaken):
		respond(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, order.ErrForbidden),
		errors.Is(err, post.ErrForbidden),
		errors.Is(err, user.ErrForbidden):
		respond(c, http.StatusForbidden, err.Error())

	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, post.ErrNotFound),
		errors.Is(err, post.ErrMediaNotFound),
		errors.Is(err, user.ErrNotFound):
		respond(c, http.StatusNotFound, err.Error())

	default:
		h.lg.Error("Unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		respond(c, http.StatusInternalServerError, "internal server error")
	}
}

func respond(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"code": status, "message": message})
}
