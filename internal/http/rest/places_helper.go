package rest

import (
	"errors"

	googlemaps "github.com/pukarojha/wherewego_api/internal/http/google"
	"github.com/pukarojha/wherewego_api/util/tracing"
	"github.com/pukarojha/wherewego_api/util/values"
)

// respondWithProviderError maps the provider failure taxonomy onto response
// statuses: transport failures are server errors, semantic statuses surface
// as the closest HTTP equivalent with the provider's message attached.
func respondWithProviderError(err error, fallback string, tc *tracing.Context) *ServerResponse {
	var provErr *googlemaps.ProviderError
	if !errors.As(err, &provErr) {
		return respondWithError(err, fallback, values.Error, tc)
	}

	message := provErr.Message
	if message == "" {
		message = fallback
	}

	switch provErr.Code {
	case googlemaps.StatusRequestFailed:
		return respondWithError(err, message, values.Error, tc)
	case "ZERO_RESULTS", "NOT_FOUND":
		return respondWithError(err, message, values.NotFound, tc)
	case "INVALID_REQUEST":
		return respondWithError(err, message, values.BadRequestBody, tc)
	default:
		return respondWithError(err, message, values.Unprocessable, tc)
	}
}
