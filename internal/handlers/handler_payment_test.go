package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/studiaconsult/ledger_backend/internal/apperrors"
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	portssvc "github.com/studiaconsult/ledger_backend/internal/core/ports/services"
	"github.com/studiaconsult/ledger_backend/internal/dto"
	"github.com/studiaconsult/ledger_backend/internal/handlers"
)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest, creatorUserID string) (*domain.Payment, *domain.ValidationResult, error) {
	args := m.Called(ctx, req, creatorUserID)
	var payment *domain.Payment
	if args.Get(0) != nil {
		payment = args.Get(0).(*domain.Payment)
	}
	var result *domain.ValidationResult
	if args.Get(1) != nil {
		result = args.Get(1).(*domain.ValidationResult)
	}
	return payment, result, args.Error(2)
}

func (m *MockPaymentService) ValidatePayment(ctx context.Context, paymentID string, allocations []dto.AllocationInput, validatorUserID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID, allocations, validatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) RejectPayment(ctx context.Context, paymentID string, userID string) error {
	args := m.Called(ctx, paymentID, userID)
	return args.Error(0)
}

func (m *MockPaymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentService) GetPaymentAllocations(ctx context.Context, paymentID string) ([]domain.PaymentAllocation, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentAllocation), args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListPaymentsResponse), args.Error(1)
}

var _ portssvc.PaymentSvcFacade = (*MockPaymentService)(nil)

// --- Mock AllocationService ---
type MockAllocationService struct {
	mock.Mock
}

func (m *MockAllocationService) SuggestAllocation(ctx context.Context, paymentID string, filters dto.SuggestAllocationFilters) ([]domain.AllocationSuggestion, error) {
	args := m.Called(ctx, paymentID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AllocationSuggestion), args.Error(1)
}

func (m *MockAllocationService) AllocatePayment(ctx context.Context, paymentID string, inputs []dto.AllocationInput, userID string) ([]domain.PaymentAllocation, []domain.ObligationSchedule, error) {
	args := m.Called(ctx, paymentID, inputs, userID)
	var allocations []domain.PaymentAllocation
	if args.Get(0) != nil {
		allocations = args.Get(0).([]domain.PaymentAllocation)
	}
	var schedules []domain.ObligationSchedule
	if args.Get(1) != nil {
		schedules = args.Get(1).([]domain.ObligationSchedule)
	}
	return allocations, schedules, args.Error(2)
}

func (m *MockAllocationService) ApplyAllocationsTx(ctx context.Context, tx pgx.Tx, payment *domain.Payment, inputs []dto.AllocationInput, userID string, now time.Time) ([]domain.PaymentAllocation, []domain.ObligationSchedule, error) {
	args := m.Called(ctx, tx, payment, inputs, userID, now)
	var allocations []domain.PaymentAllocation
	if args.Get(0) != nil {
		allocations = args.Get(0).([]domain.PaymentAllocation)
	}
	var schedules []domain.ObligationSchedule
	if args.Get(1) != nil {
		schedules = args.Get(1).([]domain.ObligationSchedule)
	}
	return allocations, schedules, args.Error(2)
}

func (m *MockAllocationService) RefreshScheduleStatus(ctx context.Context, scheduleID string, userID string) (*domain.ObligationSchedule, error) {
	args := m.Called(ctx, scheduleID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ObligationSchedule), args.Error(1)
}

func (m *MockAllocationService) GetRemainingAmount(ctx context.Context, scheduleID string) (int64, error) {
	args := m.Called(ctx, scheduleID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAllocationService) GetAllocationStats(ctx context.Context, paymentID string) (*domain.AllocationStats, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AllocationStats), args.Error(1)
}

var _ portssvc.AllocationSvcFacade = (*MockAllocationService)(nil)

// --- Test Suite ---
type PaymentHandlerTestSuite struct {
	suite.Suite
	router                *gin.Engine
	mockPaymentService    *MockPaymentService
	mockAllocationService *MockAllocationService
	jwtSecret             string
}

func (suite *PaymentHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "ledger-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockPaymentService = new(MockPaymentService)
	suite.mockAllocationService = new(MockAllocationService)

	svcs := &portssvc.ServiceContainer{
		Payment:    suite.mockPaymentService,
		Allocation: suite.mockAllocationService,
	}
	handlers.RegisterRoutes(suite.router, svcs, suite.jwtSecret)
}

func (suite *PaymentHandlerTestSuite) authedRequest(method, url string, body []byte, userID string) *http.Request {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	req.Header.Set("Accept", "application/json")
	return req
}

// --- Test Cases ---

func (suite *PaymentHandlerTestSuite) TestGetPayment_Success() {
	paymentID := uuid.NewString()
	userID := uuid.NewString()
	payment := &domain.Payment{
		PaymentID:        paymentID,
		CounterpartyKind: domain.CounterpartyStudent,
		CounterpartyID:   "student-1",
		Amount:           10000,
		CurrencyCode:     "EUR",
		PaymentDate:      time.Now(),
		Status:           domain.PaymentPendingValidation,
	}

	suite.mockPaymentService.On("GetPaymentByID", mock.Anything, paymentID).Return(payment, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, "/api/v1/payments/"+paymentID, nil, userID))

	suite.Equal(http.StatusOK, w.Code)

	var body dto.PaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(paymentID, body.PaymentID)
	suite.Equal(int64(10000), body.Amount)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestGetPayment_NotFound() {
	paymentID := uuid.NewString()

	suite.mockPaymentService.On("GetPaymentByID", mock.Anything, paymentID).
		Return(nil, apperrors.NewNotFoundError("payment not found")).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodGet, "/api/v1/payments/"+paymentID, nil, uuid.NewString()))

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PaymentHandlerTestSuite) TestGetPayment_Unauthorized() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/payments/"+uuid.NewString(), nil)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "GetPaymentByID", mock.Anything, mock.Anything)
}

func (suite *PaymentHandlerTestSuite) TestCreatePayment_BlockedReturnsAlerts() {
	userID := uuid.NewString()
	result := &domain.ValidationResult{Alerts: []domain.Alert{
		{Level: domain.AlertError, Code: "UNKNOWN_COUNTERPARTY", Message: "STUDENT student-1 not found"},
	}}

	suite.mockPaymentService.On("CreatePayment", mock.Anything, mock.AnythingOfType("dto.CreatePaymentRequest"), userID).
		Return(nil, result, apperrors.NewAppError(422, "payment blocked by validation errors", apperrors.ErrValidationBlocked)).Once()

	body, _ := json.Marshal(dto.CreatePaymentRequest{
		CounterpartyKind: domain.CounterpartyStudent,
		CounterpartyID:   "student-1",
		Amount:           10000,
		CurrencyCode:     "EUR",
		PaymentDate:      time.Now(),
	})

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, "/api/v1/payments", body, userID))

	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error  string         `json:"error"`
		Alerts []domain.Alert `json:"alerts"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Alerts, 1)
	suite.Equal("UNKNOWN_COUNTERPARTY", resp.Alerts[0].Code)
}

func (suite *PaymentHandlerTestSuite) TestCreatePayment_UnsupportedCurrencyFailsBinding() {
	userID := uuid.NewString()

	body, _ := json.Marshal(dto.CreatePaymentRequest{
		CounterpartyKind: domain.CounterpartyStudent,
		CounterpartyID:   "student-1",
		Amount:           10000,
		CurrencyCode:     "GBP",
		PaymentDate:      time.Now(),
	})

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, "/api/v1/payments", body, userID))

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockPaymentService.AssertNotCalled(suite.T(), "CreatePayment", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentHandlerTestSuite) TestValidatePayment_EmptyBodyUsesSuggestion() {
	paymentID := uuid.NewString()
	userID := uuid.NewString()
	validated := &domain.Payment{
		PaymentID: paymentID,
		Amount:    10000,
		Status:    domain.PaymentValidated,
	}

	suite.mockPaymentService.On("ValidatePayment", mock.Anything, paymentID, []dto.AllocationInput(nil), userID).
		Return(validated, nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, "/api/v1/payments/"+paymentID+"/validate", nil, userID))

	suite.Equal(http.StatusOK, w.Code)

	var body dto.PaymentResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(domain.PaymentValidated, body.Status)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

func (suite *PaymentHandlerTestSuite) TestAllocatePayment_OverfillRejected() {
	paymentID := uuid.NewString()
	userID := uuid.NewString()
	inputs := []dto.AllocationInput{{ScheduleID: "sch-1", Amount: 99999}}

	suite.mockAllocationService.On("AllocatePayment", mock.Anything, paymentID, inputs, userID).
		Return(nil, nil, apperrors.NewAppError(422, "allocation 99999 exceeds remaining amount 5000 of schedule sch-1", apperrors.ErrAllocationExceedsSchedule)).Once()

	body, _ := json.Marshal(inputs)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, "/api/v1/payments/"+paymentID+"/allocations", body, userID))

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *PaymentHandlerTestSuite) TestRejectPayment_NoContent() {
	paymentID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockPaymentService.On("RejectPayment", mock.Anything, paymentID, userID).Return(nil).Once()

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, suite.authedRequest(http.MethodPost, "/api/v1/payments/"+paymentID+"/reject", nil, userID))

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockPaymentService.AssertExpectations(suite.T())
}

// --- Run Test Suite ---
func TestPaymentHandler(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}
