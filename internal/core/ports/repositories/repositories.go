package repositories

// Repositories groups the repositories of one storage scope. Inside UnitOfWork.Execute they all
// share the same transaction.
type Repositories struct {
	Accounts     AccountRepositoryFacade
	PostingRules PostingRuleRepository
	Journals     JournalRepositoryFacade
	Inventory    InventoryRepositoryFacade
	Documents    DocumentRepositoryFacade
	Payments     PaymentRepositoryFacade
}

// RepositoryProvider holds everything services need from storage.
// Repos serve reads outside a unit of work; UnitOfWork opens atomic scopes.
type RepositoryProvider struct {
	Repos      Repositories
	UnitOfWork UnitOfWork
}
