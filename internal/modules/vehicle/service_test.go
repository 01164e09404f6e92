package vehicle

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, v *Vehicle) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockRepository) Update(ctx context.Context, v *Vehicle) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockRepository) Get(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*Vehicle); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]Vehicle, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Vehicle), args.Error(1)
}

func (m *MockRepository) SearchByModel(ctx context.Context, fragment string) ([]Vehicle, error) {
	args := m.Called(ctx, fragment)
	return args.Get(0).([]Vehicle), args.Error(1)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, id)
	if ids, ok := args.Get(0).([]uuid.UUID); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTripIndex struct {
	mock.Mock
}

func (m *MockTripIndex) Remove(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

var fixedNow = time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)

func newTestService(repo *MockRepository, trips *MockTripIndex) *Service {
	return NewService(repo, trips, zap.NewNop(), func() time.Time { return fixedNow })
}

func TestService_Create(t *testing.T) {
	repo, trips := new(MockRepository), new(MockTripIndex)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*vehicle.Vehicle")).Return(nil).Once()

	got, err := newTestService(repo, trips).Create(context.Background(), Fields{
		Model:    "  Onix ",
		Plate:    "abc1d23",
		PhotoURL: "https://example.com/onix.jpg",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, "Onix", got.Model)
	assert.Equal(t, "ABC1D23", got.Plate)
	assert.Equal(t, fixedNow, got.CreatedAt)
	assert.Equal(t, fixedNow, got.UpdatedAt)
	repo.AssertExpectations(t)
}

func TestService_CreateValidation(t *testing.T) {
	valid := Fields{Model: "Onix", Plate: "ABC1D23", PhotoURL: "https://example.com/a.jpg"}
	tests := []struct {
		name   string
		mutate func(f *Fields)
	}{
		{"blank model", func(f *Fields) { f.Model = "  " }},
		{"blank plate", func(f *Fields) { f.Plate = "" }},
		{"blank photo", func(f *Fields) { f.PhotoURL = "" }},
		{"photo too long", func(f *Fields) { f.PhotoURL = "https://x/" + strings.Repeat("a", maxPhotoURLLen) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			f := valid
			tt.mutate(&f)
			_, err := newTestService(repo, new(MockTripIndex)).Create(context.Background(), f)
			assert.ErrorIs(t, err, ErrBadRequest)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_CreateDuplicatePlate(t *testing.T) {
	repo := new(MockRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(ErrDuplicatePlate).Once()

	_, err := newTestService(repo, new(MockTripIndex)).Create(context.Background(), Fields{
		Model: "Onix", Plate: "ABC1D23", PhotoURL: "https://example.com/a.jpg",
	})
	assert.ErrorIs(t, err, ErrDuplicatePlate)
}

func TestService_Update(t *testing.T) {
	repo := new(MockRepository)
	id := uuid.New()
	created := fixedNow.Add(-time.Hour)
	repo.On("Get", mock.Anything, id).Return(&Vehicle{ID: id, Model: "Onix", Plate: "ABC1D23", PhotoURL: "a", CreatedAt: created}, nil).Once()
	repo.On("Update", mock.Anything, mock.AnythingOfType("*vehicle.Vehicle")).Return(nil).Once()

	got, err := newTestService(repo, new(MockTripIndex)).Update(context.Background(), id, Fields{
		Model: "HB20", Plate: "xyz9a87", PhotoURL: "b",
	})
	require.NoError(t, err)
	assert.Equal(t, "HB20", got.Model)
	assert.Equal(t, "XYZ9A87", got.Plate)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, fixedNow, got.UpdatedAt)
	repo.AssertExpectations(t)
}

func TestService_UpdateNotFound(t *testing.T) {
	repo := new(MockRepository)
	id := uuid.New()
	repo.On("Get", mock.Anything, id).Return(nil, ErrNotFound).Once()

	_, err := newTestService(repo, new(MockTripIndex)).Update(context.Background(), id, Fields{
		Model: "HB20", Plate: "XYZ9A87", PhotoURL: "b",
	})
	assert.ErrorIs(t, err, ErrNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_SearchByModel(t *testing.T) {
	repo := new(MockRepository)
	repo.On("SearchByModel", mock.Anything, "onix").Return([]Vehicle{{Model: "Onix"}}, nil).Once()
	svc := newTestService(repo, new(MockTripIndex))

	got, err := svc.SearchByModel(context.Background(), " onix ")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.SearchByModel(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrBadRequest)
	repo.AssertExpectations(t)
}

func TestService_DeleteRemovesTripOrigins(t *testing.T) {
	repo, trips := new(MockRepository), new(MockTripIndex)
	id := uuid.New()
	a, b := uuid.New(), uuid.New()
	repo.On("Delete", mock.Anything, id).Return([]uuid.UUID{a, b}, nil).Once()
	trips.On("Remove", mock.Anything, a).Return(nil).Once()
	trips.On("Remove", mock.Anything, b).Return(errors.New("redis down")).Once()

	require.NoError(t, newTestService(repo, trips).Delete(context.Background(), id))
	trips.AssertExpectations(t)
}

func TestService_DeleteNotFound(t *testing.T) {
	repo, trips := new(MockRepository), new(MockTripIndex)
	id := uuid.New()
	repo.On("Delete", mock.Anything, id).Return(nil, ErrNotFound).Once()

	assert.ErrorIs(t, newTestService(repo, trips).Delete(context.Background(), id), ErrNotFound)
	trips.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestLikeEscaper(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, likeEscaper.Replace(`50%_off\`))
}
