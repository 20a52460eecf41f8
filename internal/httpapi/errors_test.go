package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/hirafie/hirafie-backend/internal/domain/order"
	"github.com/hirafie/hirafie-backend/internal/domain/post"
	"github.com/hirafie/hirafie-backend/internal/domain/user"
)

func TestRespondError_ValidationErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{lg: zap.NewNop()}

	tests := []struct {
		name string
		err  error
		body string
	}{
		{"order", &order.ValidationError{Reason: "quantity must be positive"}, "quantity must be positive"},
		{"post", &post.ValidationError{Reason: "price must not be negative"}, "price must not be negative"},
		{"user", &user.ValidationError{Reason: "artisan category is required"}, "artisan category is required"},
		{"wrapped", errors.Wrap(&user.ValidationError{Reason: "unknown category"}, "update user"), "unknown category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			h.respondError(c, tt.err)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestRespondError_UnknownStaysOpaque(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{lg: zap.NewNop()}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.respondError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}
