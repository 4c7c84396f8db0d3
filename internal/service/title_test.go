package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cinescope/cinescope-server/internal/domain"
	domainerrors "github.com/cinescope/cinescope-server/internal/errors"
	"github.com/cinescope/cinescope-server/internal/metadata/omdb"
	"github.com/cinescope/cinescope-server/internal/metadata/omdb/omdbmock"
)

func TestTitleService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	catalog := omdbmock.NewMockCatalog(ctrl)
	svc := NewTitleService(catalog, testLogger())

	want := &domain.Detail{Summary: domain.Summary{ID: "tt0133093", Title: "The Matrix"}}
	catalog.EXPECT().GetByID(gomock.Any(), "tt0133093").Return(want, nil)

	got, err := svc.Get(context.Background(), " tt0133093 ")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTitleService_Get_Errors(t *testing.T) {
	tests := []struct {
		name     string
		upstream error
		want     error
	}{
		{"not found", &omdb.Error{Op: "getByID", Err: omdb.ErrEmptyResult}, domainerrors.ErrNotFound},
		{"rate limited", &omdb.Error{Op: "getByID", Err: omdb.ErrRateLimited}, domainerrors.ErrRateLimited},
		{"bad request", &omdb.Error{Op: "getByID", Err: omdb.ErrBadRequest}, domainerrors.ErrValidation},
		{"timeout", context.DeadlineExceeded, domainerrors.ErrUnavailable},
		{"server", &omdb.Error{Op: "getByID", Err: omdb.ErrServer}, domainerrors.ErrUpstream},
		{"network", errors.New("connection refused"), domainerrors.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			catalog := omdbmock.NewMockCatalog(ctrl)
			catalog.EXPECT().GetByID(gomock.Any(), "tt1").Return(nil, tt.upstream)

			_, err := NewTitleService(catalog, testLogger()).Get(context.Background(), "tt1")
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.upstream, "cause is kept")
		})
	}
}

func TestTitleService_Get_BlankID(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewTitleService(omdbmock.NewMockCatalog(ctrl), testLogger())

	_, err := svc.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
