package pgsql

import (
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func newRepositories(db querier) portsrepo.Repositories {
	return portsrepo.Repositories{
		Accounts:     newPgxAccountRepository(db),
		PostingRules: newPgxPostingRuleRepository(db),
		Journals:     newPgxJournalRepository(db),
		Inventory:    newPgxInventoryRepository(db),
		Documents:    newPgxDocumentRepository(db),
		Payments:     newPgxPaymentRepository(db),
	}
}

// NewRepositoryProvider wires pool-backed repositories for reads and a transactional unit of work.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Repos:      newRepositories(dbPool),
		UnitOfWork: newPgxUnitOfWork(dbPool),
	}
}
