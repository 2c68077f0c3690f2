// Package apierror builds the problem+json errors shared by the API server,
// its auth layer and the client.
package apierror

import (
	"errors"

	"github.com/Alia5/padbind/apitypes"
)

func newErr(status int, title, detail string) *apitypes.ApiError {
	return &apitypes.ApiError{Status: status, Title: title, Detail: detail}
}

func ErrBadRequest(detail string) *apitypes.ApiError { return newErr(400, "Bad Request", detail) }
func ErrUnauthorized(detail string) *apitypes.ApiError {
	return newErr(401, "Unauthorized", detail)
}
func ErrNotFound(detail string) *apitypes.ApiError { return newErr(404, "Not Found", detail) }
func ErrConflict(detail string) *apitypes.ApiError { return newErr(409, "Conflict", detail) }
func ErrInternal(detail string) *apitypes.ApiError {
	return newErr(500, "Internal Server Error", detail)
}

// WrapError normalizes any error into *apitypes.ApiError. Errors that are not
// API errors become 500s.
func WrapError(err error) *apitypes.ApiError {
	if err == nil {
		return nil
	}
	var pe *apitypes.ApiError
	if errors.As(err, &pe) {
		return pe
	}
	var ve apitypes.ApiError
	if errors.As(err, &ve) {
		return &ve
	}
	return ErrInternal(err.Error())
}
