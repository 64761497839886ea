package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"craftmarket/internal/domain"
	"craftmarket/internal/repository"
)

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	args := m.Called(ctx, s)
	if s != nil {
		s.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *MockServiceRepository) List(ctx context.Context, f repository.ServiceFilter, limit, offset int) ([]domain.Service, int64, error) {
	args := m.Called(ctx, f, limit, offset)
	return args.Get(0).([]domain.Service), args.Get(1).(int64), args.Error(2)
}

func (m *MockServiceRepository) ListByMaster(ctx context.Context, masterID int64, limit, offset int) ([]domain.Service, int64, error) {
	args := m.Called(ctx, masterID, limit, offset)
	return args.Get(0).([]domain.Service), args.Get(1).(int64), args.Error(2)
}

func (m *MockServiceRepository) Update(ctx context.Context, s *domain.Service) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockServiceRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockServiceRepository) IncrementViews(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserReader struct {
	mock.Mock
}

func (m *MockUserReader) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newTestService() (*Service, *MockServiceRepository, *MockUserReader) {
	services := new(MockServiceRepository)
	users := new(MockUserReader)
	return NewService(services, users), services, users
}

func TestService_Create_DefaultsCurrencyAndActive(t *testing.T) {
	svc, services, _ := newTestService()

	services.On("Create", mock.Anything, mock.Anything).Return(nil)

	created, err := svc.Create(context.Background(), 2, CreateServiceRequest{
		Title:       "Свитер ручной вязки",
		Description: "Теплый свитер из мериносовой шерсти по вашим меркам",
		Category:    "knitting",
		Price:       8500,
	})

	assert.NoError(t, err)
	assert.Equal(t, "RUB", created.Currency)
	assert.True(t, created.IsActive)
	assert.Equal(t, int64(2), created.MasterID)
}

func TestService_Create_UnknownCategory(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), 2, CreateServiceRequest{
		Title:       "Свитер ручной вязки",
		Description: "Теплый свитер из мериносовой шерсти по вашим меркам",
		Category:    "blacksmithing",
		Price:       8500,
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_Get_BumpsViewsAndAttachesMaster(t *testing.T) {
	svc, services, users := newTestService()

	listing := &domain.Service{ID: 5, MasterID: 2, Title: "Свитер", Views: 10}
	services.On("GetByID", mock.Anything, int64(5)).Return(listing, nil)
	services.On("IncrementViews", mock.Anything, int64(5)).Return(nil)
	users.On("GetByID", mock.Anything, int64(2)).Return(&domain.User{ID: 2, Name: "Елена", Rating: 4.75, TotalReviews: 4}, nil)

	resp, err := svc.Get(context.Background(), 5)

	assert.NoError(t, err)
	assert.Equal(t, int64(11), resp.Views)
	assert.Equal(t, "Елена", resp.Master.Name)
	assert.Equal(t, 4.75, resp.Master.Rating)
}

func TestService_Update_OwnerOnly(t *testing.T) {
	svc, services, _ := newTestService()

	listing := &domain.Service{ID: 5, MasterID: 2, Title: "Свитер"}
	services.On("GetByID", mock.Anything, int64(5)).Return(listing, nil)

	newTitle := "Кардиган на заказ"
	_, err := svc.Update(context.Background(), 3, 5, UpdateServiceRequest{Title: &newTitle})

	assert.ErrorIs(t, err, ErrAccessDenied)
	services.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_Update_AppliesFields(t *testing.T) {
	svc, services, _ := newTestService()

	listing := &domain.Service{ID: 5, MasterID: 2, Title: "Свитер", Price: 8500, IsActive: true}
	services.On("GetByID", mock.Anything, int64(5)).Return(listing, nil)
	services.On("Update", mock.Anything, mock.Anything).Return(nil)

	price := 9000.0
	inactive := false
	updated, err := svc.Update(context.Background(), 2, 5, UpdateServiceRequest{Price: &price, IsActive: &inactive})

	assert.NoError(t, err)
	assert.Equal(t, 9000.0, updated.Price)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Свитер", updated.Title)
}

func TestService_Delete_NotFound(t *testing.T) {
	svc, services, _ := newTestService()

	services.On("GetByID", mock.Anything, int64(5)).Return(nil, gorm.ErrRecordNotFound)

	err := svc.Delete(context.Background(), 2, 5)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_List_UnknownCategoryRejected(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.List(context.Background(), ListQuery{Category: "alchemy"})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_List_ClampsPagination(t *testing.T) {
	svc, services, _ := newTestService()

	services.On("List", mock.Anything, mock.Anything, 20, 0).Return([]domain.Service{}, int64(0), nil)

	result, err := svc.List(context.Background(), ListQuery{Limit: 500, Offset: -3})

	assert.NoError(t, err)
	assert.Equal(t, 20, result.Limit)
	assert.Equal(t, 0, result.Offset)
	services.AssertExpectations(t)
}
