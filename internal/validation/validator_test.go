package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinescope/cinescope-server/internal/errors"
	"github.com/cinescope/cinescope-server/internal/validation"
)

type sortRequest struct {
	Sort string `json:"sort" validate:"required,oneof=relevance newest oldest rating title"`
}

type slideRequest struct {
	Index int `json:"index" validate:"gte=0"`
}

type queryRequest struct {
	Query string `json:"query" validate:"max=200"`
}

func TestValidator_Success(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(sortRequest{Sort: "rating"}))
	assert.NoError(t, v.Validate(slideRequest{Index: 0}))
	assert.NoError(t, v.Validate(queryRequest{Query: "   "}))
}

func TestValidator_Errors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       any
		wantField string
		wantMsg   string
	}{
		{"missing sort", sortRequest{}, "sort", "is required"},
		{"unknown sort", sortRequest{Sort: "popularity"}, "sort", "must be one of: relevance newest oldest rating title"},
		{"negative slide", slideRequest{Index: -1}, "index", "must be greater than or equal to 0"},
		{"query too long", queryRequest{Query: string(make([]byte, 201))}, "query", "must not exceed 200 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *errors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
			assert.True(t, errors.Is(err, errors.ErrValidation))

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestStruct_SharedValidator(t *testing.T) {
	assert.NoError(t, validation.Struct(sortRequest{Sort: "title"}))
	assert.Error(t, validation.Struct(sortRequest{Sort: "nope"}))
}
