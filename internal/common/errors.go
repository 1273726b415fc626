// Package common defines shared sentinel errors and small random helpers used
// across client and server layers. Callers should match these values with
// errors.Is.
package common

import "errors"

var (
	// repository-level errors
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// service-level errors
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")

	// token lifecycle errors
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// enrollment / provisioning errors
	ErrProvisioningFailed = errors.New("provisioning failed")
)
