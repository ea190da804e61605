package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		err    *HTTPError
		status int
		code   ErrorCode
	}{
		{NotFound("Order not found", OrderNotFound), http.StatusNotFound, OrderNotFound},
		{Unauthorized("Unauthorized", UnauthorizedAccess), http.StatusUnauthorized, UnauthorizedAccess},
		{Conflict("User already exists!", UserAlreadyExists), http.StatusConflict, UserAlreadyExists},
		{BadRequest("Address does not belong to user", AddressDoesNotBelong), http.StatusBadRequest, AddressDoesNotBelong},
		{Validation("Unprocessable entity", nil), http.StatusUnprocessableEntity, UnprocessableEntity},
		{Internal(OrderTransactionFailed, errors.New("deadlock")), http.StatusInternalServerError, OrderTransactionFailed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, tt.err.StatusCode, tt.err.Message)
		assert.Equal(t, tt.code, tt.err.ErrorCode, tt.err.Message)
	}
}

func TestFromAndIs(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := fmt.Errorf("placing order: %w", NotFound("Product 3 no longer exists", ProductNotFound).WithCause(cause))

	assert.True(t, Is(wrapped, ProductNotFound))
	assert.False(t, Is(wrapped, OrderNotFound))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, http.StatusNotFound, From(wrapped).StatusCode)

	plain := From(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, plain.StatusCode)
	assert.Equal(t, InternalException, plain.ErrorCode)
	assert.Equal(t, "Something went wrong", plain.Message)
}

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	Write(rec, req, Validation("Unprocessable entity", map[string]string{"quantity": "must be at least 1"}))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Unprocessable entity","errorCode":2001,"errors":{"quantity":"must be at least 1"}}`, rec.Body.String())
}

func TestWrite_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	Write(rec, req, errors.New("dial tcp 10.0.0.3:3306: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Something went wrong", body["message"])
	assert.EqualValues(t, InternalException, body["errorCode"])
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
	assert.NotContains(t, body, "errors")
}
