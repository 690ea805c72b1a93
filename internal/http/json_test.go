package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/panai/console/internal/errors"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid", func(t *testing.T) {
		var p payload
		rec := httptest.NewRecorder()
		ok := DecodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"beta"}`)), &p)
		assert.True(t, ok)
		assert.Equal(t, "beta", p.Name)
	})

	t.Run("unknown field", func(t *testing.T) {
		var p payload
		rec := httptest.NewRecorder()
		ok := DecodeJSON(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nome":"beta"}`)), &p)
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"invalid_json"`)
	})
}

func TestWriteAppError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", apperrors.ValidationField("email", "Email is required"), http.StatusUnprocessableEntity, `"fields":{"email":"Email is required"}`},
		{"not found", apperrors.NotFound("no such lead"), http.StatusNotFound, `"message":"no such lead"`},
		{"conflict", apperrors.Conflict("duplicate"), http.StatusConflict, `"error":"conflict"`},
		{"unavailable", apperrors.Unavailable("database down"), http.StatusServiceUnavailable, `"error":"unavailable"`},
		{"plain error hides details", errors.New("pq: password authentication failed"), http.StatusInternalServerError, `"message":"try later"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeAppError(rec, tt.err, "try later")
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.body)
			assert.NotContains(t, rec.Body.String(), "password")
		})
	}
}

func TestWantsJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/sales", nil)
	assert.False(t, wantsJSON(r))

	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	assert.True(t, wantsJSON(r))

	r = httptest.NewRequest(http.MethodPost, "/sales", nil)
	r.Header.Set("Accept", "application/json")
	assert.True(t, wantsJSON(r))
}
