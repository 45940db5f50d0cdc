package services

import (
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	options := []ServiceOption{
		WithDefaultLocation(cfg.DefaultLocationID),
		WithAmountTolerance(cfg.AmountTolerance),
	}
	return NewServiceContainerWithOptions(repos, options...)
}

// NewServiceContainerWithOptions wires the services with explicit options.
func NewServiceContainerWithOptions(repos portsrepo.RepositoryProvider, options ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The account directory is used by every other engine for account checks
	container.Account = NewAccountService(repos, options...)
	container.Journal = NewJournalService(repos, container.Account, options...)
	container.Inventory = NewInventoryService(repos, options...)
	container.Document = NewDocumentService(repos, options...)
	container.Payment = NewPaymentService(repos, container.Account, container.Journal, container.Document, options...)

	container.Transaction = NewTransactionService(repos, TransactionDeps{
		Accounts:  container.Account,
		Journals:  container.Journal,
		Inventory: container.Inventory,
		Documents: container.Document,
		Payments:  container.Payment,
	}, options...)

	return container
}
