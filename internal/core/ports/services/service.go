package services

// ServiceContainer holds instances of all the application services.
// It is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Account     AccountSvcFacade
	Journal     JournalSvcFacade
	Inventory   InventorySvcFacade
	Document    DocumentSvcFacade
	Payment     PaymentSvcFacade
	Transaction TransactionSvcFacade
}
