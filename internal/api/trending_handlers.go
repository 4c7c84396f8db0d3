package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinescope/cinescope-server/internal/trending"
	"github.com/cinescope/cinescope-server/internal/validation"
)

func (s *Server) registerTrendingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getTrending",
		Method:      http.MethodGet,
		Path:        "/api/v1/trending",
		Summary:     "Get trending carousel",
		Description: "Returns the carousel state, including the cards on the current slide",
		Tags:        []string{"Trending"},
	}, s.handleGetTrending)

	huma.Register(s.api, huma.Operation{
		OperationID: "advanceTrending",
		Method:      http.MethodPost,
		Path:        "/api/v1/trending/advance",
		Summary:     "Advance carousel",
		Description: "Moves one slide forward or back, wrapping at either end",
		Tags:        []string{"Trending"},
	}, s.handleAdvanceTrending)

	huma.Register(s.api, huma.Operation{
		OperationID: "setTrendingSlide",
		Method:      http.MethodPut,
		Path:        "/api/v1/trending/slide",
		Summary:     "Go to slide",
		Description: "Jumps to a slide by index",
		Tags:        []string{"Trending"},
	}, s.handleSetTrendingSlide)

	huma.Register(s.api, huma.Operation{
		OperationID: "setTrendingViewport",
		Method:      http.MethodPut,
		Path:        "/api/v1/trending/viewport",
		Summary:     "Set viewport",
		Description: "Sets cards per slide from an explicit count or a display width in pixels. Count wins when both are given.",
		Tags:        []string{"Trending"},
	}, s.handleSetTrendingViewport)
}

// === DTOs ===

// TrendingOutput contains the carousel state.
type TrendingOutput struct {
	Body trending.CarouselState
}

// AdvanceRequest is the request body for advancing the carousel.
type AdvanceRequest struct {
	Direction string `json:"direction" validate:"required,oneof=next prev" doc:"Direction" example:"next"`
}

// AdvanceInput wraps the advance request.
type AdvanceInput struct {
	Body AdvanceRequest
}

// GoToSlideRequest is the request body for jumping to a slide.
type GoToSlideRequest struct {
	Index int `json:"index" validate:"gte=0" doc:"Zero-based slide index"`
}

// GoToSlideInput wraps the go to slide request.
type GoToSlideInput struct {
	Body GoToSlideRequest
}

// ViewportRequest is the request body for setting the viewport.
type ViewportRequest struct {
	Count int `json:"count,omitempty" validate:"gte=0" doc:"Cards per slide"`
	Width int `json:"width,omitempty" validate:"gte=0" doc:"Display width in pixels"`
}

// ViewportInput wraps the viewport request.
type ViewportInput struct {
	Body ViewportRequest
}

// === Handlers ===

func (s *Server) handleGetTrending(_ context.Context, _ *struct{}) (*TrendingOutput, error) {
	return &TrendingOutput{Body: s.services.Trending.Snapshot()}, nil
}

func (s *Server) handleAdvanceTrending(_ context.Context, input *AdvanceInput) (*TrendingOutput, error) {
	if err := validation.Struct(input.Body); err != nil {
		return nil, apiError(err)
	}
	st, err := s.services.Trending.Advance(input.Body.Direction)
	if err != nil {
		return nil, apiError(err)
	}
	return &TrendingOutput{Body: st}, nil
}

func (s *Server) handleSetTrendingSlide(_ context.Context, input *GoToSlideInput) (*TrendingOutput, error) {
	if err := validation.Struct(input.Body); err != nil {
		return nil, apiError(err)
	}
	st, err := s.services.Trending.GoTo(input.Body.Index)
	if err != nil {
		return nil, apiError(err)
	}
	return &TrendingOutput{Body: st}, nil
}

func (s *Server) handleSetTrendingViewport(_ context.Context, input *ViewportInput) (*TrendingOutput, error) {
	if err := validation.Struct(input.Body); err != nil {
		return nil, apiError(err)
	}
	st, err := s.services.Trending.SetViewport(input.Body.Count, input.Body.Width)
	if err != nil {
		return nil, apiError(err)
	}
	return &TrendingOutput{Body: st}, nil
}
