package exceptions

import "clinic-service/internal/pkg/constvars"

func ErrInvalidAPIKey(err error) *CustomError {
	return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotAuthorized, constvars.ErrDevInvalidAPIKey)
}

func ErrAPIKeyRequired(err error) *CustomError {
	return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientNotAuthorized, constvars.ErrDevAPIKeyRequired)
}
