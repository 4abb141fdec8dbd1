package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultVariants(t *testing.T) {
	t.Parallel()

	success := OK(http.StatusOK, "payload")
	assert.False(t, success.IsFailure())
	assert.Equal(t, http.StatusOK, success.StatusCode)
	assert.Equal(t, "payload", success.Payload)
	assert.Empty(t, success.Reason)

	created := Created("payload")
	assert.False(t, created.IsFailure())
	assert.Equal(t, http.StatusCreated, created.StatusCode)

	failure := Fail(http.StatusBadRequest, "nope")
	assert.True(t, failure.IsFailure())
	assert.Equal(t, "nope", failure.Reason)
	assert.Nil(t, failure.Payload)

	coded := FailCode(http.StatusBadRequest, "nope", "VALIDATION_FAILED")
	assert.True(t, coded.IsFailure())
	assert.Equal(t, "VALIDATION_FAILED", coded.ErrorCode)
}
