package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestReconError_Format tests the error string format
func TestReconError_Format(t *testing.T) {
	plain := NewError(TARGET_INVALID, "target is required")
	assert.Equal(t, "[TARGET_INVALID] target is required", plain.Error())

	wrapped := WrapError(DB_QUERY_FAILED, "failed to create scan", errors.New("disk I/O error"))
	assert.Equal(t, "[DB_QUERY_FAILED] failed to create scan: disk I/O error", wrapped.Error())
}

// TestReconError_Unwrap tests the error chain
func TestReconError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(UPSTREAM_ANALYSIS_FAILED, "provider call failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

// TestIsCode tests code matching through wrapped chains
func TestIsCode(t *testing.T) {
	err := NewError(RATE_LIMIT_EXCEEDED, "rate limit exceeded for scan")
	outer := fmt.Errorf("request rejected: %w", err)

	assert.True(t, IsCode(outer, RATE_LIMIT_EXCEEDED))
	assert.False(t, IsCode(outer, RATE_LIMIT_STORE_ERROR))
	assert.False(t, IsCode(errors.New("plain"), RATE_LIMIT_EXCEEDED))
}

// TestNewRetryableError tests the retryability hint
func TestNewRetryableError(t *testing.T) {
	err := NewRetryableError(UPSTREAM_RECON_FAILED, "dns timeout")
	assert.True(t, err.Retryable)
	assert.False(t, NewError(VALIDATION_FAILED, "bad input").Retryable)
}
