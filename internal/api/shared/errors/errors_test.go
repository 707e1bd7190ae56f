package errors_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apierrors "github.com/cardkeeper/card-indexer/internal/api/shared/errors"
)

func TestErrorCode_Status(t *testing.T) {
	tests := []struct {
		code apierrors.ErrorCode
		want int
	}{
		{apierrors.ErrCodeBadRequest, http.StatusBadRequest},
		{apierrors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{apierrors.ErrCodeNotFound, http.StatusNotFound},
		{apierrors.ErrCodeConflict, http.StatusConflict},
		{apierrors.ErrCodeValidationFailed, http.StatusUnprocessableEntity},
		{apierrors.ErrCodeRateLimited, http.StatusTooManyRequests},
		{apierrors.ErrCodeServiceError, http.StatusBadGateway},
		{apierrors.ErrCodeInternalError, http.StatusInternalServerError},
		{apierrors.ErrorCode("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.Status())
		})
	}
}

func TestNew_JoinsDetails(t *testing.T) {
	err := apierrors.New(apierrors.ErrCodeBadRequest, "Invalid request body", "count is required", "wishlist must be a boolean")
	assert.Equal(t, "count is required, wishlist must be a boolean", err.Details)
	assert.Equal(t, http.StatusBadRequest, err.Status())
	assert.JSONEq(t, `{"code":"bad_request","message":"Invalid request body","details":"count is required, wishlist must be a boolean"}`, err.Error())
}
