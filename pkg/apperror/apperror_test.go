package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorImplementsErrorInterface(t *testing.T) {
	e := New(ErrPinIncorrect, CategoryExpected)
	assert.Equal(t, ErrPinIncorrect, e.Error())
}

func TestErrorWithDescription(t *testing.T) {
	e := Wrap(ErrStorageUnavailable, CategoryCritical, errors.New("disk full"))
	assert.Equal(t, "storage_unavailable: disk full", e.Error())
	assert.ErrorContains(t, e, "disk full")
}

func TestErrorUnwrapsCause(t *testing.T) {
	cause := errors.New("root cause")
	e := Wrap(ErrInternal, CategoryCritical, cause)
	assert.ErrorIs(t, e, cause)
}

func TestStatusCodeExplicitOverride(t *testing.T) {
	e := &Error{Code: ErrInternal, HTTPStatus: http.StatusTeapot}
	assert.Equal(t, http.StatusTeapot, StatusCode(e))
}

func TestStatusCodeInferredFromCode(t *testing.T) {
	cases := map[string]int{
		ErrPinIncorrect:         http.StatusUnauthorized,
		ErrWalletBlocked:        http.StatusForbidden,
		ErrWalletLocked:         http.StatusForbidden,
		ErrAttestationExpired:   http.StatusGone,
		ErrKeyAttestationFailed: http.StatusUnauthorized,
		ErrStorageUnavailable:   http.StatusServiceUnavailable,
		ErrInternal:             http.StatusInternalServerError,
		"totally_unknown_code":  http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, StatusCode(&Error{Code: code}), code)
	}
}
