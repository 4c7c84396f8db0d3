package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinescope/cinescope-server/internal/http/response"
)

// EnvelopeVersion is sent as "v" in every response body.
const EnvelopeVersion = response.Version

// APIEnvelope wraps successful responses and plain errors.
type APIEnvelope = response.Envelope

// APIErrorEnvelope wraps coded errors.
type APIErrorEnvelope = response.ErrorEnvelope

// EnvelopeTransformer wraps every huma response body in the API envelope.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, err := strconv.Atoi(status)
	if err != nil {
		code = 0
	}

	switch body := v.(type) {
	case *APIError:
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Error:   body.Message,
			Code:    body.Code,
			Message: body.Message,
			Details: body.Details,
		}, nil
	case error:
		return APIEnvelope{
			Version: EnvelopeVersion,
			Error:   body.Error(),
		}, nil
	default:
		return APIEnvelope{
			Version: EnvelopeVersion,
			Success: code < 400,
			Data:    v,
		}, nil
	}
}
