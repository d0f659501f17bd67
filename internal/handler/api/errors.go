package api

import (
	"errors"

	"AstroChart/internal/domain/models"
	domrepo "AstroChart/internal/domain/repository"
	"AstroChart/internal/usecase"
	xhttp "AstroChart/pkg/http"
)

// toAppError maps use case errors onto HTTP errors. upstream is the status
// family used for anything unrecognised.
func toAppError(err error, upstream func(string) *xhttp.AppError) *xhttp.AppError {
	var appErr *xhttp.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, usecase.ErrInvalidBirthDate):
		return xhttp.BadRequestError("birth date does not exist").WithError(err)
	case errors.Is(err, domrepo.ErrPlaceNotFound):
		return xhttp.BadRequestError("unknown place").WithField("placeId").WithError(err)
	case errors.Is(err, models.ErrMissingBody):
		return xhttp.BadRequestError(err.Error()).WithField("planetaryPositions").WithError(err)
	case errors.Is(err, models.ErrChartNotFound):
		return xhttp.NotFoundError("chart not found").WithError(err)
	default:
		return upstream(err.Error()).WithError(err)
	}
}

func errorKind(e *xhttp.AppError) string {
	switch e.Status {
	case 400:
		return "bad_request"
	case 404:
		return "not_found"
	case 429:
		return "rate_limited"
	case 502:
		return "upstream"
	default:
		return "internal"
	}
}
