package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a journal entry with its ledger lines.
	FindJournalByID(ctx context.Context, businessID, journalID string) (*domain.JournalEntry, error)

	// FindJournalByIDForUpdate is FindJournalByID with the header row locked.
	FindJournalByIDForUpdate(ctx context.Context, businessID, journalID string) (*domain.JournalEntry, error)

	// FindPostedJournalsBySource returns the POSTED entries caused by source, oldest first.
	FindPostedJournalsBySource(ctx context.Context, businessID string, source domain.Reference) ([]domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournal persists a journal entry and all of its ledger lines.
	SaveJournal(ctx context.Context, entry domain.JournalEntry) error

	// UpdateJournalStatusAndLinks updates the status and reversal linkage of an entry.
	UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, originalJournalID *string, updatedByUserID string, updatedAt time.Time) error
}

// LedgerReader aggregates posted ledger lines.
type LedgerReader interface {
	// SumAccountActivity returns the debit and credit totals of one account.
	SumAccountActivity(ctx context.Context, businessID string, account domain.Account) (domain.AccountActivity, error)

	// SumActivityByAccount returns the totals of every account with ledger lines, ordered by code.
	SumActivityByAccount(ctx context.Context, businessID string) ([]domain.AccountActivity, error)

	// CountLedgerEntries counts ledger lines posted to an account.
	CountLedgerEntries(ctx context.Context, businessID, accountID string) (int, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
	LedgerReader
}
