package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinescope/cinescope-server/internal/domain"
)

func (s *Server) registerTitleRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getTitle",
		Method:      http.MethodGet,
		Path:        "/api/v1/titles/{id}",
		Summary:     "Get title details",
		Description: "Looks up the full record for a catalog id, as shown in the detail overlay",
		Tags:        []string{"Titles"},
	}, s.handleGetTitle)
}

// GetTitleInput contains parameters for getting a title.
type GetTitleInput struct {
	ID string `path:"id" doc:"Catalog ID" example:"tt0372784"`
}

// TitleOutput wraps a title detail.
type TitleOutput struct {
	Body *domain.Detail
}

func (s *Server) handleGetTitle(ctx context.Context, input *GetTitleInput) (*TitleOutput, error) {
	detail, err := s.services.Title.Get(ctx, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &TitleOutput{Body: detail}, nil
}
