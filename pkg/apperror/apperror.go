// Package apperror is the wallet-side error taxonomy: an OAuth2/OpenID4VCI-
// shaped {error, error_description} wire representation (matching
// pkg/openid4vci and pkg/openid4vp's own error types) plus a reporting
// category used to decide whether an error is worth surfacing to telemetry
// at all.
package apperror

import "net/http"

// Error is the wallet's error response shape, compatible with the
// {error, error_description, error_uri} triple pkg/openid4vci.Error and
// pkg/openid4vp already use on the wire.
type Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
	URI         string `json:"error_uri,omitempty"`

	// HTTPStatus overrides the status StatusCode would otherwise infer
	// from Code, for errors with no natural place in the Code table.
	HTTPStatus int `json:"-"`
	// Category decides whether this error is worth reporting to
	// telemetry, and whether it may carry sensitive payload data.
	Category Category `json:"-"`
	// Err is the underlying cause, if any, used for error-chain
	// unwrapping and Source().
	Err error `json:"-"`
}

func (e *Error) Error() string {
	if e.Description != "" {
		return e.Code + ": " + e.Description
	}
	return e.Code
}

// Unwrap exposes the wrapped cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error with the given code and category.
func New(code string, category Category) *Error {
	return &Error{Code: code, Category: category}
}

// Wrap constructs an Error that wraps cause, attributing cause's message
// as the description.
func Wrap(code string, category Category, cause error) *Error {
	desc := ""
	if cause != nil {
		desc = cause.Error()
	}
	return &Error{Code: code, Description: desc, Category: category, Err: cause}
}

// Well-known wallet-side error codes not already covered by
// pkg/openid4vci's OAuth2/OpenID4VCI error tables.
const (
	ErrPinIncorrect       = "pin_incorrect"
	ErrWalletBlocked      = "wallet_blocked"
	ErrWalletLocked       = "wallet_locked"
	ErrAttestationExpired = "attestation_expired"
	ErrKeyAttestationFailed = "key_attestation_failed"
	ErrStorageUnavailable = "storage_unavailable"
	ErrInternal           = "internal_error"
)

// StatusCode returns the HTTP status code for err: HTTPStatus if
// explicitly set, otherwise inferred from Code, falling back to 500 for
// an unrecognized code rather than openid4vci.StatusCode's 418 sentinel,
// since an apperror with an unrecognized code is a genuine server defect
// rather than a signal of a missing switch case during development.
func StatusCode(err *Error) int {
	if err.HTTPStatus != 0 {
		return err.HTTPStatus
	}
	switch err.Code {
	case ErrPinIncorrect:
		return http.StatusUnauthorized
	case ErrWalletBlocked, ErrWalletLocked:
		return http.StatusForbidden
	case ErrAttestationExpired:
		return http.StatusGone
	case ErrKeyAttestationFailed:
		return http.StatusUnauthorized
	case ErrStorageUnavailable:
		return http.StatusServiceUnavailable
	case ErrInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Response is the envelope returned to API callers.
type Response struct {
	Error *Error `json:"error"`
}
