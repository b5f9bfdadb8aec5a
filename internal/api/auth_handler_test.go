package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"omnirag/console/internal/api"
	app_errors "omnirag/console/internal/errors"
	"omnirag/console/internal/interfaces/mocks"
	"omnirag/console/internal/service"
)

func setupAuthHandler(t *testing.T) (*api.AuthHandler, *mocks.MockAuthService) {
	mockAuthSvc := mocks.NewMockAuthService(t)
	return api.NewAuthHandler(mockAuthSvc), mockAuthSvc
}

// TestAuthHandler_HandleTokenStatus tests the GET /v1/auth/token endpoint.
func TestAuthHandler_HandleTokenStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// ARRANGE
		handler, mockAuthSvc := setupAuthHandler(t)
		mockAuthSvc.On("Status", mock.Anything).Return(&service.TokenStatus{Configured: true, Source: "store"}, nil).Once()

		// ACT
		req := httptest.NewRequest(http.MethodGet, "/v1/auth/token", nil)
		rr := httptest.NewRecorder()
		handler.HandleTokenStatus(rr, req)

		// ASSERT
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"configured":true,"source":"store"}`, rr.Body.String())
	})

	t.Run("Failure", func(t *testing.T) {
		handler, mockAuthSvc := setupAuthHandler(t)
		mockAuthSvc.On("Status", mock.Anything).Return(nil, app_errors.ErrInternal).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/auth/token", nil)
		rr := httptest.NewRecorder()
		handler.HandleTokenStatus(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

// TestAuthHandler_HandleSetToken tests the POST /v1/auth/token endpoint.
func TestAuthHandler_HandleSetToken(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockAuthSvc := setupAuthHandler(t)
		mockAuthSvc.On("SetToken", mock.Anything, "abc.def").Return(nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", strings.NewReader(`{"token":"abc.def"}`))
		rr := httptest.NewRecorder()
		handler.HandleSetToken(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Invalid JSON", func(t *testing.T) {
		handler, _ := setupAuthHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", strings.NewReader(`{invalid`))
		rr := httptest.NewRecorder()
		handler.HandleSetToken(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid request payload")
	})

	t.Run("Failure - Validation Error", func(t *testing.T) {
		handler, mockAuthSvc := setupAuthHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", strings.NewReader(`{"token":""}`))
		rr := httptest.NewRecorder()
		handler.HandleSetToken(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Field 'Token' failed on the 'required' tag")
		mockAuthSvc.AssertNotCalled(t, "SetToken", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Non-printable token", func(t *testing.T) {
		handler, _ := setupAuthHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", strings.NewReader(`{"token":"abc\u0007"}`))
		rr := httptest.NewRecorder()
		handler.HandleSetToken(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "'printascii' tag")
	})
}

// TestAuthHandler_HandleClearToken tests the DELETE /v1/auth/token endpoint.
func TestAuthHandler_HandleClearToken(t *testing.T) {
	handler, mockAuthSvc := setupAuthHandler(t)
	mockAuthSvc.On("ClearToken", mock.Anything).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/v1/auth/token", nil)
	rr := httptest.NewRecorder()
	handler.HandleClearToken(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
