package services

import (
	portsrepo "github.com/studiaconsult/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/studiaconsult/ledger_backend/internal/core/ports/services"
	"github.com/studiaconsult/ledger_backend/internal/platform/audit"
)

// NewServiceContainer wires all services with their repository dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider, auditor audit.Publisher, autoValidatePayments bool) *portssvc.ServiceContainer {
	validationSvc := NewValidationService(repos.CounterpartyRepo, repos.AccountRepo, repos.PaymentRepo, repos.ScheduleRepo)
	allocationSvc := NewAllocationService(repos.ScheduleRepo, repos.PaymentRepo)

	return &portssvc.ServiceContainer{
		Account:    NewAccountService(repos.AccountRepo, repos.JournalRepo),
		Journal:    NewJournalService(repos.JournalRepo, repos.AccountRepo),
		Schedule:   NewScheduleService(repos.ScheduleRepo, repos.CounterpartyRepo),
		Allocation: allocationSvc,
		Payment:    NewPaymentService(repos.PaymentRepo, repos.JournalRepo, validationSvc, allocationSvc, auditor, autoValidatePayments),
		Validation: validationSvc,
		Reporting:  NewReportingService(repos.AccountRepo, repos.JournalRepo),
	}
}
