package utils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"meeteasy-backend/services"
)

func TestServiceErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err        error
		wantStatus int
	}{
		{fmt.Errorf("%w: title is required", services.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: meeting m1", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: not the creator", services.ErrPermissionDenied), http.StatusForbidden},
		{fmt.Errorf("%w: no unique code", services.ErrCodeGenerationExhausted), http.StatusServiceUnavailable},
		{fmt.Errorf("%w: get meeting", services.ErrBackendUnavailable), http.StatusServiceUnavailable},
		{fmt.Errorf("something else broke"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		ServiceError(c, tc.err)

		assert.Equal(t, tc.wantStatus, w.Code, "error: %v", tc.err)
		assert.Contains(t, w.Body.String(), `"success":false`)
	}
}

func TestGetCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetCurrentUserID(c))

	c.Set("user_id", "alice")
	assert.Equal(t, "alice", GetCurrentUserID(c))
}
