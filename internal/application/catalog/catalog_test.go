package catalog

import (
	"context"
	"testing"

	"github.com/baechuer/trip-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) ListCities(ctx context.Context, f CityFilter) ([]*domain.City, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*domain.City), args.Error(1)
}

func (m *mockRepo) GetCity(ctx context.Context, id string) (*domain.City, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*domain.City), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) ListActivities(ctx context.Context, cityID string, category *domain.ActivityCategory) ([]*domain.Activity, error) {
	args := m.Called(ctx, cityID, category)
	return args.Get(0).([]*domain.Activity), args.Error(1)
}

func TestListCities_ClampsLimit(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		in   int
		want int
	}{
		{"default", 0, DefaultCityLimit},
		{"negative", -5, DefaultCityLimit},
		{"capped", 1000, MaxCityLimit},
		{"kept", 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			repo.On("ListCities", ctx, CityFilter{Query: "par", Country: "France", Limit: tt.want}).
				Return([]*domain.City{{ID: "paris"}}, nil)

			out, err := New(repo).ListCities(ctx, " par ", "France ", tt.in)
			require.NoError(t, err)
			assert.Len(t, out, 1)
			repo.AssertExpectations(t)
		})
	}
}

func TestListActivities(t *testing.T) {
	ctx := context.Background()

	t.Run("parses_category_once", func(t *testing.T) {
		repo := new(mockRepo)
		food := domain.CategoryFood
		repo.On("GetCity", ctx, "rome").Return(&domain.City{ID: "rome"}, nil)
		repo.On("ListActivities", ctx, "rome", &food).Return([]*domain.Activity{{ID: "pasta"}}, nil)

		out, err := New(repo).ListActivities(ctx, "rome", "FOOD")
		require.NoError(t, err)
		assert.Equal(t, "pasta", out[0].ID)
		repo.AssertExpectations(t)
	})

	t.Run("no_category_lists_all", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetCity", ctx, "rome").Return(&domain.City{ID: "rome"}, nil)
		repo.On("ListActivities", ctx, "rome", (*domain.ActivityCategory)(nil)).Return([]*domain.Activity{}, nil)

		_, err := New(repo).ListActivities(ctx, "rome", "")
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unknown_category_rejected_before_store", func(t *testing.T) {
		repo := new(mockRepo)
		_, err := New(repo).ListActivities(ctx, "rome", "casino")
		assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
		repo.AssertNotCalled(t, "GetCity", mock.Anything, mock.Anything)
	})

	t.Run("unknown_city", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("GetCity", ctx, "atlantis").Return(nil, domain.ErrNotFound("city not found"))

		_, err := New(repo).ListActivities(ctx, "atlantis", "")
		assert.Equal(t, domain.CodeNotFound, domain.CodeOf(err))
	})
}
