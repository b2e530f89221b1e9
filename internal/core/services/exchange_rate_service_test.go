package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/walletledger/wallet_ledger_app/internal/apperrors"
	"github.com/walletledger/wallet_ledger_app/internal/core/domain"
	portssvc "github.com/walletledger/wallet_ledger_app/internal/core/ports/services"
	"github.com/walletledger/wallet_ledger_app/internal/core/services"
)

// --- Mock RateFeed ---
type MockRateFeed struct {
	mock.Mock
}

func (m *MockRateFeed) FetchLatestRates(ctx context.Context) (*domain.RateTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateTable), args.Error(1)
}

// --- Mock ExchangeRateRepository ---
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) FindRatesForDate(ctx context.Context, quotationDate time.Time) (*domain.RateTable, error) {
	args := m.Called(ctx, quotationDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateTable), args.Error(1)
}

func (m *MockExchangeRateRepository) FindMostRecentRates(ctx context.Context) (*domain.RateTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateTable), args.Error(1)
}

func (m *MockExchangeRateRepository) SaveRates(ctx context.Context, table domain.RateTable) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

// --- Test Suite ---
type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockFeed     *MockRateFeed
	mockRateRepo *MockExchangeRateRepository
	service      portssvc.ExchangeRateSvcFacade
}

func (suite *ExchangeRateServiceTestSuite) SetupTest() {
	suite.mockFeed = new(MockRateFeed)
	suite.mockRateRepo = new(MockExchangeRateRepository)
	suite.service = services.NewExchangeRateService(suite.mockFeed, suite.mockRateRepo)
}

// --- Test Cases ---

func (suite *ExchangeRateServiceTestSuite) TestRefreshLatestRates_StoresNewTable() {
	ctx := context.Background()
	table := testRates()

	suite.mockFeed.On("FetchLatestRates", ctx).Return(table, nil).Once()
	suite.mockRateRepo.On("FindRatesForDate", ctx, table.QuotationDate).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRateRepo.On("SaveRates", ctx, *table).Return(nil).Once()

	err := suite.service.RefreshLatestRates(ctx)

	suite.Require().NoError(err)
	suite.mockFeed.AssertExpectations(suite.T())
	suite.mockRateRepo.AssertExpectations(suite.T())
}

func (suite *ExchangeRateServiceTestSuite) TestRefreshLatestRates_ExistingDateIsNoOp() {
	ctx := context.Background()
	table := testRates()

	suite.mockFeed.On("FetchLatestRates", ctx).Return(table, nil).Once()
	suite.mockRateRepo.On("FindRatesForDate", ctx, table.QuotationDate).Return(table, nil).Once()

	err := suite.service.RefreshLatestRates(ctx)

	suite.Require().NoError(err)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveRates", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestRefreshLatestRates_FeedErrorPropagates() {
	ctx := context.Background()

	suite.mockFeed.On("FetchLatestRates", ctx).Return(nil, assert.AnError).Once()

	err := suite.service.RefreshLatestRates(ctx)

	suite.Require().ErrorIs(err, assert.AnError)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "FindRatesForDate", mock.Anything, mock.Anything)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveRates", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestRefreshLatestRates_LookupErrorPropagates() {
	ctx := context.Background()
	table := testRates()

	suite.mockFeed.On("FetchLatestRates", ctx).Return(table, nil).Once()
	suite.mockRateRepo.On("FindRatesForDate", ctx, table.QuotationDate).Return(nil, assert.AnError).Once()

	err := suite.service.RefreshLatestRates(ctx)

	suite.Require().ErrorIs(err, assert.AnError)
	suite.mockRateRepo.AssertNotCalled(suite.T(), "SaveRates", mock.Anything, mock.Anything)
}

func (suite *ExchangeRateServiceTestSuite) TestGetMostRecentRates_Delegates() {
	ctx := context.Background()
	table := testRates()

	suite.mockRateRepo.On("FindMostRecentRates", ctx).Return(table, nil).Once()

	got, err := suite.service.GetMostRecentRates(ctx)

	suite.Require().NoError(err)
	suite.Equal(table, got)
}

func (suite *ExchangeRateServiceTestSuite) TestGetMostRecentRates_Unavailable() {
	ctx := context.Background()

	suite.mockRateRepo.On("FindMostRecentRates", ctx).Return(nil, apperrors.ErrRatesUnavailable).Once()

	_, err := suite.service.GetMostRecentRates(ctx)

	suite.Require().ErrorIs(err, apperrors.ErrRatesUnavailable)
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
