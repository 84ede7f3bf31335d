package controllers

import (
	"errors"
	"net/http"
	"wedding/src/types"
)

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	var conflict *types.AvailabilityConflictError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &conflict), errors.Is(err, types.ErrDuplicateEntry):
		return http.StatusConflict
	case errors.Is(err, types.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrTooManyAttempts):
		return http.StatusTooManyRequests
	case errors.Is(err, types.ErrAlreadyConfirmed),
		errors.Is(err, types.ErrAlreadyCancelled),
		errors.Is(err, types.ErrInvalidInventory),
		errors.Is(err, types.ErrInvalidEmail),
		errors.Is(err, types.ErrInvalidUpload):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrStorageNotEnabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
