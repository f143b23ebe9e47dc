package handler

import (
	"errors"

	"pulsehub-api/internal/service"
	"pulsehub-api/internal/upstream"
	"pulsehub-api/pkg/apierror"
)

// serviceError maps service-layer failures onto API error responses.
// Caller mistakes become 4xx; provider failures become 502 so clients
// can distinguish them from our own faults.
func serviceError(err error) *apierror.Error {
	var unknownCategory *upstream.ErrUnknownCategory
	if errors.As(err, &unknownCategory) {
		return apierror.BadRequest(unknownCategory.Error())
	}

	var unknownProvider *service.ErrUnknownProvider
	if errors.As(err, &unknownProvider) {
		return apierror.NotFound(unknownProvider.Error())
	}

	var status *upstream.StatusError
	if errors.As(err, &status) {
		return apierror.BadGateway(status.Error())
	}

	return apierror.InternalError("")
}
