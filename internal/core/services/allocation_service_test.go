package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/studiaconsult/ledger_backend/internal/apperrors"
	"github.com/studiaconsult/ledger_backend/internal/core/domain"
	"github.com/studiaconsult/ledger_backend/internal/core/services"
	"github.com/studiaconsult/ledger_backend/internal/dto"
)

type AllocationServiceTestSuite struct {
	suite.Suite
	mockScheduleRepo *MockScheduleRepository
	mockPaymentRepo  *MockPaymentRepository
	service          *services.AllocationService
}

func (s *AllocationServiceTestSuite) SetupTest() {
	s.mockScheduleRepo = new(MockScheduleRepository)
	s.mockPaymentRepo = new(MockPaymentRepository)
	s.service = services.NewAllocationService(s.mockScheduleRepo, s.mockPaymentRepo)
}

func (s *AllocationServiceTestSuite) newPayment(amount int64) *domain.Payment {
	return &domain.Payment{
		PaymentID:        uuid.NewString(),
		CounterpartyKind: domain.CounterpartyStudent,
		CounterpartyID:   "student-1",
		Amount:           amount,
		CurrencyCode:     "EUR",
		PaymentDate:      time.Now(),
		Status:           domain.PaymentPendingValidation,
	}
}

func (s *AllocationServiceTestSuite) newSchedule(id string, amount, paid int64, status domain.ScheduleStatus, due time.Time) domain.ObligationSchedule {
	return domain.ObligationSchedule{
		ScheduleID:       id,
		CounterpartyKind: domain.CounterpartyStudent,
		CounterpartyID:   "student-1",
		Amount:           amount,
		CurrencyCode:     "EUR",
		DueDate:          due,
		PaidAmount:       paid,
		Status:           status,
	}
}

func (s *AllocationServiceTestSuite) TestSuggestAllocation_OldestDebtFirst() {
	ctx := context.Background()
	payment := s.newPayment(15000)
	future := time.Now().Add(30 * 24 * time.Hour)

	overdue := s.newSchedule("sch-overdue", 5000, 0, domain.ScheduleOverdue, time.Now().Add(-48*time.Hour))
	partial := s.newSchedule("sch-partial", 6000, 3000, domain.SchedulePartial, future)
	pending := s.newSchedule("sch-pending", 10000, 0, domain.SchedulePending, future.Add(24*time.Hour))

	s.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	s.mockPaymentRepo.On("SumAllocationsByPaymentID", ctx, payment.PaymentID).Return(int64(0), nil).Once()
	// deliberately out of order, the engine must sort
	s.mockScheduleRepo.On("ListOpenSchedules", ctx, domain.CounterpartyStudent, "student-1", "EUR").
		Return([]domain.ObligationSchedule{pending, partial, overdue}, nil).Once()

	suggestions, err := s.service.SuggestAllocation(ctx, payment.PaymentID, dto.SuggestAllocationFilters{})

	s.Require().NoError(err)
	s.Require().Len(suggestions, 3)
	s.Equal("sch-overdue", suggestions[0].ScheduleID)
	s.Equal(int64(5000), suggestions[0].Amount)
	s.Equal("sch-partial", suggestions[1].ScheduleID)
	s.Equal(int64(3000), suggestions[1].Amount) // only the remaining part
	s.Equal("sch-pending", suggestions[2].ScheduleID)
	s.Equal(int64(7000), suggestions[2].Amount) // remainder, not the full target
}

func (s *AllocationServiceTestSuite) TestSuggestAllocation_OverdueByTimeOutranksStoredStatus() {
	ctx := context.Background()
	payment := s.newPayment(6000)

	// Due 48h ago but still stored PENDING: nothing touched the schedule
	// since it went overdue, so only a derived status can rank it first.
	staleOverdue := s.newSchedule("sch-stale-overdue", 5000, 0, domain.SchedulePending, time.Now().Add(-48*time.Hour))
	partial := s.newSchedule("sch-partial", 6000, 3000, domain.SchedulePartial, time.Now().Add(30*24*time.Hour))

	s.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	s.mockPaymentRepo.On("SumAllocationsByPaymentID", ctx, payment.PaymentID).Return(int64(0), nil).Once()
	s.mockScheduleRepo.On("ListOpenSchedules", ctx, domain.CounterpartyStudent, "student-1", "EUR").
		Return([]domain.ObligationSchedule{partial, staleOverdue}, nil).Once()

	suggestions, err := s.service.SuggestAllocation(ctx, payment.PaymentID, dto.SuggestAllocationFilters{})

	s.Require().NoError(err)
	s.Require().Len(suggestions, 2)
	s.Equal("sch-stale-overdue", suggestions[0].ScheduleID)
	s.Equal(domain.ScheduleOverdue, suggestions[0].Status)
	s.Equal(int64(5000), suggestions[0].Amount)
	s.Equal("sch-partial", suggestions[1].ScheduleID)
	s.Equal(int64(1000), suggestions[1].Amount)
}

func (s *AllocationServiceTestSuite) TestSuggestAllocation_StopsWhenRemainderCovered() {
	ctx := context.Background()
	payment := s.newPayment(4000)
	future := time.Now().Add(30 * 24 * time.Hour)

	first := s.newSchedule("sch-1", 3000, 0, domain.SchedulePending, future)
	second := s.newSchedule("sch-2", 3000, 0, domain.SchedulePending, future.Add(24*time.Hour))
	third := s.newSchedule("sch-3", 3000, 0, domain.SchedulePending, future.Add(48*time.Hour))

	s.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	s.mockPaymentRepo.On("SumAllocationsByPaymentID", ctx, payment.PaymentID).Return(int64(0), nil).Once()
	s.mockScheduleRepo.On("ListOpenSchedules", ctx, domain.CounterpartyStudent, "student-1", "EUR").
		Return([]domain.ObligationSchedule{first, second, third}, nil).Once()

	suggestions, err := s.service.SuggestAllocation(ctx, payment.PaymentID, dto.SuggestAllocationFilters{})

	s.Require().NoError(err)
	s.Require().Len(suggestions, 2)
	s.Equal(int64(3000), suggestions[0].Amount)
	s.Equal(int64(1000), suggestions[1].Amount)
}

func (s *AllocationServiceTestSuite) TestSuggestAllocation_NothingLeftToAllocate() {
	ctx := context.Background()
	payment := s.newPayment(5000)

	s.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	s.mockPaymentRepo.On("SumAllocationsByPaymentID", ctx, payment.PaymentID).Return(int64(5000), nil).Once()

	suggestions, err := s.service.SuggestAllocation(ctx, payment.PaymentID, dto.SuggestAllocationFilters{})

	s.Require().NoError(err)
	s.Empty(suggestions)
	s.mockScheduleRepo.AssertNotCalled(s.T(), "ListOpenSchedules", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AllocationServiceTestSuite) TestAllocatePayment_Success() {
	ctx := context.Background()
	payment := s.newPayment(10000)
	future := time.Now().Add(30 * 24 * time.Hour)
	schedule := s.newSchedule("sch-1", 10000, 0, domain.SchedulePending, future)

	s.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	s.mockScheduleRepo.On("Begin", ctx).Return(nil, nil).Once()
	s.mockPaymentRepo.On("FindPaymentByIDForUpdate", ctx, mock.Anything, payment.PaymentID).Return(payment, nil).Once()
	s.mockPaymentRepo.On("SumAllocationsByPaymentIDTx", ctx, mock.Anything, payment.PaymentID).Return(int64(0), nil).Once()
	s.mockScheduleRepo.On("FindSchedulesByIDsForUpdate", ctx, mock.Anything, []string{"sch-1"}).
		Return(map[string]domain.ObligationSchedule{"sch-1": schedule}, nil).Once()
	s.mockPaymentRepo.On("SaveAllocationsTx", ctx, mock.Anything, mock.AnythingOfType("[]domain.PaymentAllocation")).Return(nil).Once()
	s.mockScheduleRepo.On("SumAllocationsByScheduleIDTx", ctx, mock.Anything, "sch-1").Return(int64(10000), nil).Once()
	s.mockScheduleRepo.On("UpdateSchedulePaymentStateTx", ctx, mock.Anything, mock.AnythingOfType("domain.ObligationSchedule")).Return(nil).Once()
	s.mockScheduleRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	s.mockScheduleRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()

	allocations, schedules, err := s.service.AllocatePayment(ctx, payment.PaymentID, []dto.AllocationInput{
		{ScheduleID: "sch-1", Amount: 10000},
	}, "user-1")

	s.Require().NoError(err)
	s.Require().Len(allocations, 1)
	s.Equal(int64(10000), allocations[0].Amount)
	s.Equal("EUR", allocations[0].CurrencyCode)

	s.Require().Len(schedules, 1)
	s.Equal(domain.SchedulePaid, schedules[0].Status)
	s.Equal(int64(10000), schedules[0].PaidAmount)
	s.Require().NotNil(schedules[0].PaidDate)

	s.mockScheduleRepo.AssertNumberOfCalls(s.T(), "Commit", 1)
}

func (s *AllocationServiceTestSuite) TestAllocatePayment_CurrencyMismatch() {
	ctx := context.Background()
	payment := s.newPayment(10000) // EUR
	schedule := s.newSchedule("sch-1", 10000, 0, domain.SchedulePending, time.Now().Add(time.Hour))
	schedule.CurrencyCode = "MAD"

	s.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	s.mockScheduleRepo.On("Begin", ctx).Return(nil, nil).Once()
	s.mockPaymentRepo.On("FindPaymentByIDForUpdate", ctx, mock.Anything, payment.PaymentID).Return(payment, nil).Once()
	s.mockPaymentRepo.On("SumAllocationsByPaymentIDTx", ctx, mock.Anything, payment.PaymentID).Return(int64(0), nil).Once()
	s.mockScheduleRepo.On("FindSchedulesByIDsForUpdate", ctx, mock.Anything, []string{"sch-1"}).
		Return(map[string]domain.ObligationSchedule{"sch-1": schedule}, nil).Once()
	s.mockScheduleRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()

	_, _, err := s.service.AllocatePayment(ctx, payment.PaymentID, []dto.AllocationInput{
		{ScheduleID: "sch-1", Amount: 5000},
	}, "user-1")

	s.Require().ErrorIs(err, apperrors.ErrCurrencyMismatch)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "SaveAllocationsTx", mock.Anything, mock.Anything, mock.Anything)
	s.mockScheduleRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

func (s *AllocationServiceTestSuite) TestAllocatePayment_ExceedsScheduleRemaining() {
	ctx := context.Background()
	payment := s.newPayment(10000)
	schedule := s.newSchedule("sch-1", 5000, 4000, domain.SchedulePartial, time.Now().Add(time.Hour))

	s.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	s.mockScheduleRepo.On("Begin", ctx).Return(nil, nil).Once()
	s.mockPaymentRepo.On("FindPaymentByIDForUpdate", ctx, mock.Anything, payment.PaymentID).Return(payment, nil).Once()
	s.mockPaymentRepo.On("SumAllocationsByPaymentIDTx", ctx, mock.Anything, payment.PaymentID).Return(int64(0), nil).Once()
	s.mockScheduleRepo.On("FindSchedulesByIDsForUpdate", ctx, mock.Anything, []string{"sch-1"}).
		Return(map[string]domain.ObligationSchedule{"sch-1": schedule}, nil).Once()
	s.mockScheduleRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()

	// remaining is 1000, asking for 1001
	_, _, err := s.service.AllocatePayment(ctx, payment.PaymentID, []dto.AllocationInput{
		{ScheduleID: "sch-1", Amount: 1001},
	}, "user-1")

	s.Require().ErrorIs(err, apperrors.ErrAllocationExceedsSchedule)
	s.mockScheduleRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

func (s *AllocationServiceTestSuite) TestAllocatePayment_ExceedsPaymentAmount() {
	ctx := context.Background()
	payment := s.newPayment(5000)

	s.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	s.mockScheduleRepo.On("Begin", ctx).Return(nil, nil).Once()
	s.mockPaymentRepo.On("FindPaymentByIDForUpdate", ctx, mock.Anything, payment.PaymentID).Return(payment, nil).Once()
	s.mockPaymentRepo.On("SumAllocationsByPaymentIDTx", ctx, mock.Anything, payment.PaymentID).Return(int64(0), nil).Once()
	s.mockScheduleRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()

	_, _, err := s.service.AllocatePayment(ctx, payment.PaymentID, []dto.AllocationInput{
		{ScheduleID: "sch-1", Amount: 6000},
	}, "user-1")

	s.Require().ErrorIs(err, apperrors.ErrAllocationExceedsPayment)
	s.mockScheduleRepo.AssertNotCalled(s.T(), "FindSchedulesByIDsForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AllocationServiceTestSuite) TestAllocatePayment_RevalidatesAgainstFreshReads() {
	ctx := context.Background()
	// The caller holds a stale payment showing nothing allocated; a concurrent
	// settlement already consumed 4000 of the 5000. The locked re-read must
	// catch the overfill.
	stale := s.newPayment(5000)

	s.mockPaymentRepo.On("FindPaymentByID", ctx, stale.PaymentID).Return(stale, nil).Once()
	s.mockScheduleRepo.On("Begin", ctx).Return(nil, nil).Once()
	s.mockPaymentRepo.On("FindPaymentByIDForUpdate", ctx, mock.Anything, stale.PaymentID).Return(stale, nil).Once()
	s.mockPaymentRepo.On("SumAllocationsByPaymentIDTx", ctx, mock.Anything, stale.PaymentID).Return(int64(4000), nil).Once()
	s.mockScheduleRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()

	_, _, err := s.service.AllocatePayment(ctx, stale.PaymentID, []dto.AllocationInput{
		{ScheduleID: "sch-1", Amount: 2000},
	}, "user-1")

	s.Require().ErrorIs(err, apperrors.ErrAllocationExceedsPayment)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "SaveAllocationsTx", mock.Anything, mock.Anything, mock.Anything)
	s.mockScheduleRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

func (s *AllocationServiceTestSuite) TestAllocatePayment_RejectsConcurrentlyValidatedPayment() {
	ctx := context.Background()
	stale := s.newPayment(5000)
	validated := *stale
	validated.Status = domain.PaymentValidated

	s.mockPaymentRepo.On("FindPaymentByID", ctx, stale.PaymentID).Return(stale, nil).Once()
	s.mockScheduleRepo.On("Begin", ctx).Return(nil, nil).Once()
	// the locked re-read sees the status a concurrent settlement already flipped
	s.mockPaymentRepo.On("FindPaymentByIDForUpdate", ctx, mock.Anything, stale.PaymentID).Return(&validated, nil).Once()
	s.mockScheduleRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()

	_, _, err := s.service.AllocatePayment(ctx, stale.PaymentID, []dto.AllocationInput{
		{ScheduleID: "sch-1", Amount: 2000},
	}, "user-1")

	s.Require().ErrorIs(err, apperrors.ErrConflict)
	s.mockPaymentRepo.AssertNotCalled(s.T(), "SaveAllocationsTx", mock.Anything, mock.Anything, mock.Anything)
	s.mockScheduleRepo.AssertNotCalled(s.T(), "Commit", mock.Anything, mock.Anything)
}

func (s *AllocationServiceTestSuite) TestAllocatePayment_MatchesRecordedSettlementCurrency() {
	ctx := context.Background()
	payment := s.newPayment(5000) // EUR
	future := time.Now().Add(30 * 24 * time.Hour)

	// Contract priced in MAD, but the student was observed settling in EUR.
	schedule := s.newSchedule("sch-1", 5000, 0, domain.SchedulePending, future)
	schedule.CurrencyCode = "MAD"
	observed := "EUR"
	schedule.SettlementCurrencyCode = &observed

	s.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	s.mockScheduleRepo.On("Begin", ctx).Return(nil, nil).Once()
	s.mockPaymentRepo.On("FindPaymentByIDForUpdate", ctx, mock.Anything, payment.PaymentID).Return(payment, nil).Once()
	s.mockPaymentRepo.On("SumAllocationsByPaymentIDTx", ctx, mock.Anything, payment.PaymentID).Return(int64(0), nil).Once()
	s.mockScheduleRepo.On("FindSchedulesByIDsForUpdate", ctx, mock.Anything, []string{"sch-1"}).
		Return(map[string]domain.ObligationSchedule{"sch-1": schedule}, nil).Once()
	s.mockPaymentRepo.On("SaveAllocationsTx", ctx, mock.Anything, mock.AnythingOfType("[]domain.PaymentAllocation")).Return(nil).Once()
	s.mockScheduleRepo.On("SumAllocationsByScheduleIDTx", ctx, mock.Anything, "sch-1").Return(int64(5000), nil).Once()
	s.mockScheduleRepo.On("UpdateSchedulePaymentStateTx", ctx, mock.Anything, mock.AnythingOfType("domain.ObligationSchedule")).Return(nil).Once()
	s.mockScheduleRepo.On("Commit", ctx, mock.Anything).Return(nil).Once()
	s.mockScheduleRepo.On("Rollback", ctx, mock.Anything).Return(nil).Maybe()

	allocations, _, err := s.service.AllocatePayment(ctx, payment.PaymentID, []dto.AllocationInput{
		{ScheduleID: "sch-1", Amount: 5000},
	}, "user-1")

	s.Require().NoError(err)
	s.Require().Len(allocations, 1)
	s.Equal("EUR", allocations[0].CurrencyCode)
}

func (s *AllocationServiceTestSuite) TestAllocatePayment_RejectsNonPositiveAmount() {
	ctx := context.Background()
	payment := s.newPayment(5000)

	s.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	s.mockScheduleRepo.On("Begin", ctx).Return(nil, nil).Once()
	s.mockScheduleRepo.On("Rollback", ctx, mock.Anything).Return(nil).Once()

	_, _, err := s.service.AllocatePayment(ctx, payment.PaymentID, []dto.AllocationInput{
		{ScheduleID: "sch-1", Amount: 0},
	}, "user-1")

	s.Require().ErrorIs(err, apperrors.ErrInvalidAmount)
}

func (s *AllocationServiceTestSuite) TestRefreshScheduleStatus_ExactPayoffMarksPaid() {
	ctx := context.Background()
	schedule := s.newSchedule("sch-1", 9000, 6000, domain.SchedulePartial, time.Now().Add(time.Hour))

	s.mockScheduleRepo.On("FindScheduleByID", ctx, "sch-1").Return(&schedule, nil).Once()
	s.mockScheduleRepo.On("SumAllocationsByScheduleID", ctx, "sch-1").Return(int64(9000), nil).Once()
	s.mockScheduleRepo.On("UpdateSchedulePaymentState", ctx, mock.AnythingOfType("domain.ObligationSchedule")).Return(nil).Once()

	updated, err := s.service.RefreshScheduleStatus(ctx, "sch-1", "user-1")

	s.Require().NoError(err)
	s.Equal(domain.SchedulePaid, updated.Status)
	s.Equal(int64(9000), updated.PaidAmount)
	s.Require().NotNil(updated.PaidDate)
}

func (s *AllocationServiceTestSuite) TestRefreshScheduleStatus_Idempotent() {
	ctx := context.Background()
	paidDate := time.Now().Add(-time.Hour)
	schedule := s.newSchedule("sch-1", 9000, 9000, domain.SchedulePaid, time.Now().Add(time.Hour))
	schedule.PaidDate = &paidDate

	s.mockScheduleRepo.On("FindScheduleByID", ctx, "sch-1").Return(&schedule, nil).Once()
	s.mockScheduleRepo.On("SumAllocationsByScheduleID", ctx, "sch-1").Return(int64(9000), nil).Once()
	s.mockScheduleRepo.On("UpdateSchedulePaymentState", ctx, mock.AnythingOfType("domain.ObligationSchedule")).Return(nil).Once()

	updated, err := s.service.RefreshScheduleStatus(ctx, "sch-1", "user-1")

	s.Require().NoError(err)
	s.Equal(domain.SchedulePaid, updated.Status)
	// an already stamped paid date is preserved, not re-stamped
	s.Require().NotNil(updated.PaidDate)
	s.True(updated.PaidDate.Equal(paidDate))
}

func (s *AllocationServiceTestSuite) TestGetRemainingAmount_NeverNegative() {
	ctx := context.Background()
	schedule := s.newSchedule("sch-1", 5000, 0, domain.SchedulePending, time.Now())

	s.mockScheduleRepo.On("FindScheduleByID", ctx, "sch-1").Return(&schedule, nil).Once()
	s.mockScheduleRepo.On("SumAllocationsByScheduleID", ctx, "sch-1").Return(int64(6000), nil).Once()

	remaining, err := s.service.GetRemainingAmount(ctx, "sch-1")

	s.Require().NoError(err)
	s.Equal(int64(0), remaining)
}

func (s *AllocationServiceTestSuite) TestGetAllocationStats() {
	ctx := context.Background()
	payment := s.newPayment(10000)
	paidSchedule := s.newSchedule("sch-paid", 4000, 4000, domain.SchedulePaid, time.Now())
	partialSchedule := s.newSchedule("sch-partial", 8000, 3000, domain.SchedulePartial, time.Now())

	s.mockPaymentRepo.On("FindPaymentByID", ctx, payment.PaymentID).Return(payment, nil).Once()
	s.mockPaymentRepo.On("FindAllocationsByPaymentID", ctx, payment.PaymentID).Return([]domain.PaymentAllocation{
		{AllocationID: "a1", PaymentID: payment.PaymentID, ScheduleID: "sch-paid", Amount: 4000, CurrencyCode: "EUR"},
		{AllocationID: "a2", PaymentID: payment.PaymentID, ScheduleID: "sch-partial", Amount: 3000, CurrencyCode: "EUR"},
	}, nil).Once()
	s.mockScheduleRepo.On("FindScheduleByID", ctx, "sch-paid").Return(&paidSchedule, nil).Once()
	s.mockScheduleRepo.On("FindScheduleByID", ctx, "sch-partial").Return(&partialSchedule, nil).Once()

	stats, err := s.service.GetAllocationStats(ctx, payment.PaymentID)

	s.Require().NoError(err)
	s.Equal(int64(7000), stats.TotalAllocated)
	s.Equal(int64(3000), stats.RemainingAmount)
	s.Equal(1, stats.SchedulesFullyPaid)
	s.Equal(1, stats.SchedulesPartiallyPaid)
}

func TestAllocationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AllocationServiceTestSuite))
}
