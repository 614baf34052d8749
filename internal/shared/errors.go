package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Photo and upload errors
	ErrValidation = fmt.Errorf("validation failed")
	ErrTransport  = fmt.Errorf("storage request failed")
	ErrNotFound   = fmt.Errorf("object not found")

	// Service errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrAuthFailed         = fmt.Errorf("authentication failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
