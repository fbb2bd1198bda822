package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendServiceErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", fmt.Errorf("player 9: %w", ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{"invalid", fmt.Errorf("ids: %w", ErrInvalidInput), http.StatusBadRequest, ErrCodeValidation},
		{"conflict", ErrConflict, http.StatusConflict, ErrCodeConflict},
		{"version exists", fmt.Errorf("v1: %w", ErrVersionExists), http.StatusConflict, ErrCodeConflict},
		{"upstream", fmt.Errorf("teams: %w", ErrUpstream), http.StatusBadGateway, ErrCodeUpstream},
		{"other", fmt.Errorf("disk full"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			SendServiceError(c, tt.err, "Request failed")

			assert.Equal(t, tt.status, w.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "Request failed", resp.Error.Message)
		})
	}
}

func TestSendSuccessWithMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SendSuccessWithMeta(c, []int{1, 2}, &Meta{Limit: 2, Offset: 4})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":[1,2],"meta":{"limit":2,"offset":4}}`, w.Body.String())
}

func TestAppErrorString(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: missing", NewAppError(ErrCodeNotFound, "missing").Error())
	assert.Equal(t, "CONFLICT: taken - v1", NewAppError(ErrCodeConflict, "taken", "v1").Error())
}
