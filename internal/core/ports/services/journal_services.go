package services

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/shopspring/decimal"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalEntry retrieves a journal entry with its lines.
	GetJournalEntry(ctx context.Context, businessID string, journalID string) (*domain.JournalEntry, error)

	// GetAccountBalance returns the account's balance signed by its normal side.
	GetAccountBalance(ctx context.Context, businessID string, accountID string) (decimal.Decimal, error)

	// GetTrialBalance returns per-account debit and credit totals of the business.
	GetTrialBalance(ctx context.Context, businessID string) (*domain.TrialBalance, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// PostJournal validates and posts a balanced entry in its own unit of work.
	PostJournal(ctx context.Context, businessID string, req dto.PostJournalRequest, userID string) (*domain.JournalEntry, error)

	// ReverseJournal posts the mirror image of an entry and marks the original REVERSED.
	ReverseJournal(ctx context.Context, businessID string, journalID string, reason string, userID string) (*domain.JournalEntry, error)
}

// JournalTxSvc exposes journal posting inside a caller's unit of work.
type JournalTxSvc interface {
	PostTx(ctx context.Context, repos portsrepo.Repositories, businessID string, draft domain.JournalDraft, userID string) (*domain.JournalEntry, error)
	ReverseTx(ctx context.Context, repos portsrepo.Repositories, businessID string, journalID string, reason string, userID string) (*domain.JournalEntry, error)

	// ReverseBySourceTx reverses every POSTED entry caused by source.
	ReverseBySourceTx(ctx context.Context, repos portsrepo.Repositories, businessID string, source domain.Reference, reason string, userID string) ([]domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalTxSvc
}
