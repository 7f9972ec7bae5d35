package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/skumar93/folio/models"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockStore) GetPortfolio(ctx context.Context, ownerId string) (models.PortfolioDocument, error) {
	args := m.Called(ctx, ownerId)
	return args.Get(0).(models.PortfolioDocument), args.Error(1)
}

func (m *MockStore) PutPortfolio(ctx context.Context, ownerId string, doc models.PortfolioDocument) error {
	args := m.Called(ctx, ownerId, doc)
	return args.Error(0)
}

func (m *MockStore) PutPortfolioSections(ctx context.Context, ownerId string, doc models.PortfolioDocument, fields []string) error {
	args := m.Called(ctx, ownerId, doc, fields)
	return args.Error(0)
}

func (m *MockStore) FindPortfolioBySlug(ctx context.Context, slug string) (models.PublishedPortfolio, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.PublishedPortfolio), args.Error(1)
}

func (m *MockStore) GetAccountTier(ctx context.Context, ownerId string) (models.AccountTier, error) {
	args := m.Called(ctx, ownerId)
	return args.Get(0).(models.AccountTier), args.Error(1)
}

func (m *MockStore) IncrementPortfolioViews(ctx context.Context, ownerId string, count int) error {
	args := m.Called(ctx, ownerId, count)
	return args.Error(0)
}
