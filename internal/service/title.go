package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/cinescope/cinescope-server/internal/domain"
	domainerrors "github.com/cinescope/cinescope-server/internal/errors"
	"github.com/cinescope/cinescope-server/internal/metadata/omdb"
)

// TitleLookup fetches a single title's full record.
type TitleLookup interface {
	GetByID(ctx context.Context, id string) (*domain.Detail, error)
}

// TitleService serves the detail view for one title.
type TitleService struct {
	catalog TitleLookup
	logger  *slog.Logger
}

// NewTitleService creates a new title service.
func NewTitleService(catalog TitleLookup, logger *slog.Logger) *TitleService {
	return &TitleService{
		catalog: catalog,
		logger:  logger,
	}
}

// Get returns the full record for a catalog ID such as "tt0133093".
func (s *TitleService) Get(ctx context.Context, titleID string) (*domain.Detail, error) {
	titleID = strings.TrimSpace(titleID)
	if titleID == "" {
		return nil, domainerrors.Validation("title id is required")
	}

	d, err := s.catalog.GetByID(ctx, titleID)
	if err != nil {
		return nil, catalogError(err, titleID)
	}
	return d, nil
}

// catalogError maps catalog client failures onto coded domain errors.
func catalogError(err error, key string) error {
	switch {
	case omdb.IsEmptyResult(err):
		return domainerrors.NotFoundf("title %s not found", key).WithCause(err)
	case errors.Is(err, omdb.ErrRateLimited):
		return domainerrors.RateLimited("catalog request limit reached").WithCause(err)
	case errors.Is(err, omdb.ErrBadRequest):
		return domainerrors.Validationf("catalog rejected lookup for %q", key).WithCause(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domainerrors.Unavailable("catalog lookup timed out").WithCause(err)
	default:
		return domainerrors.Upstream(err, "catalog lookup failed")
	}
}
