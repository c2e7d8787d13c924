package core

import (
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	AppAccountErrorInvalidArgument  = "APP_ACCOUNT_INVALID_ARGUMENT"
	AppAccountErrorNotFound         = "APP_ACCOUNT_NOT_FOUND"
	AppAccountErrorAlreadyExists    = "APP_ACCOUNT_ALREADY_EXISTS"
	AppAccountErrorPermissionDenied = "APP_ACCOUNT_PERMISSION_DENIED"
	AppAccountErrorAlreadyGranted   = "APP_ACCOUNT_ALREADY_GRANTED"
	AppAccountErrorNotGranted       = "APP_ACCOUNT_NOT_GRANTED"
	AppAccountErrorInternal         = "APP_ACCOUNT_INTERNAL_ERROR"
)

func invalidArgumentError(message string) *goerrors.Error {
	return newAppAccountError(message, goerrors.CategoryBadInput, AppAccountErrorInvalidArgument)
}

func notFoundError(message string) *goerrors.Error {
	return newAppAccountError(message, goerrors.CategoryNotFound, AppAccountErrorNotFound)
}

func alreadyExistsError(message string) *goerrors.Error {
	return newAppAccountError(message, goerrors.CategoryConflict, AppAccountErrorAlreadyExists)
}

func permissionDeniedError(message string) *goerrors.Error {
	return newAppAccountError(message, goerrors.CategoryAuthz, AppAccountErrorPermissionDenied)
}

func alreadyGrantedError(message string) *goerrors.Error {
	return newAppAccountError(message, goerrors.CategoryConflict, AppAccountErrorAlreadyGranted)
}

func notGrantedError(message string) *goerrors.Error {
	return newAppAccountError(message, goerrors.CategoryConflict, AppAccountErrorNotGranted)
}

// NotFoundError is used by store implementations to report a missing account
// or registration with the canonical envelope.
func NotFoundError(message string) error {
	return notFoundError(message)
}

// AlreadyExistsError is used by store implementations to report a duplicate
// account or registration with the canonical envelope.
func AlreadyExistsError(message string) error {
	return alreadyExistsError(message)
}

func appAccountErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureAppAccountErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "not found"):
		return newAppAccountError(err.Error(), goerrors.CategoryNotFound, AppAccountErrorNotFound)
	case strings.Contains(msg, "already exists"), strings.Contains(msg, "unique constraint"):
		return newAppAccountError(err.Error(), goerrors.CategoryConflict, AppAccountErrorAlreadyExists)
	case strings.Contains(msg, "permission"):
		return newAppAccountError(err.Error(), goerrors.CategoryAuthz, AppAccountErrorPermissionDenied)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "exceeds"):
		return newAppAccountError(err.Error(), goerrors.CategoryBadInput, AppAccountErrorInvalidArgument)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	if mapped.Category == goerrors.CategoryInternal {
		mapped.TextCode = AppAccountErrorInternal
	}
	return ensureAppAccountErrorEnvelope(mapped)
}

func newAppAccountError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureAppAccountErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureAppAccountErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = appAccountStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultAppAccountTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultAppAccountTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return AppAccountErrorInvalidArgument
	case goerrors.CategoryNotFound:
		return AppAccountErrorNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return AppAccountErrorPermissionDenied
	case goerrors.CategoryConflict:
		return AppAccountErrorAlreadyExists
	default:
		return AppAccountErrorInternal
	}
}

func appAccountStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// StatusCode returns 0 for a nil error and a non-zero status otherwise.
func StatusCode(err error) int {
	if err == nil {
		return 0
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Code != 0 {
		return richErr.Code
	}
	return http.StatusInternalServerError
}

// hasTextCode walks the whole chain so envelopes added by dispatchers do not
// hide the service error underneath.
func hasTextCode(err error, textCode string) bool {
	for current := err; current != nil; current = errors.Unwrap(current) {
		if richErr, ok := current.(*goerrors.Error); ok && richErr.TextCode == textCode {
			return true
		}
	}
	return false
}

func IsInvalidArgument(err error) bool {
	return hasTextCode(err, AppAccountErrorInvalidArgument)
}

func IsNotFound(err error) bool {
	return hasTextCode(err, AppAccountErrorNotFound)
}

func IsAlreadyExists(err error) bool {
	return hasTextCode(err, AppAccountErrorAlreadyExists)
}

func IsPermissionDenied(err error) bool {
	return hasTextCode(err, AppAccountErrorPermissionDenied)
}

func IsAlreadyGranted(err error) bool {
	return hasTextCode(err, AppAccountErrorAlreadyGranted)
}

func IsNotGranted(err error) bool {
	return hasTextCode(err, AppAccountErrorNotGranted)
}
