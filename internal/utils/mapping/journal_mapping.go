package mapping

import (
	"fmt"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/models"
)

// ToModelJournal converts a domain JournalEntry header to a model JournalEntry
func ToModelJournal(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		JournalEntryID:   d.JournalEntryID,
		BusinessID:       d.BusinessID,
		EntryDate:        d.Date,
		Memo:             d.Memo,
		Reference:        d.Reference,
		Source:           ToRefColumns(d.Source),
		Status:           string(d.Status),
		OriginalEntryID:  d.OriginalEntryID,
		ReversingEntryID: d.ReversingEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model JournalEntry and its lines to a domain JournalEntry
func ToDomainJournal(m models.JournalEntry, lines []models.LedgerEntry) (domain.JournalEntry, error) {
	source, err := ToDomainReference(m.Source)
	if err != nil {
		return domain.JournalEntry{}, fmt.Errorf("journal entry %s source: %w", m.JournalEntryID, err)
	}
	entry := domain.JournalEntry{
		JournalEntryID:   m.JournalEntryID,
		BusinessID:       m.BusinessID,
		Date:             m.EntryDate,
		Memo:             m.Memo,
		Reference:        m.Reference,
		Source:           source,
		Status:           domain.JournalStatus(m.Status),
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		Lines:            make([]domain.LedgerEntry, 0, len(lines)),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
	for _, l := range lines {
		line, err := ToDomainLedgerEntry(l)
		if err != nil {
			return domain.JournalEntry{}, err
		}
		entry.Lines = append(entry.Lines, line)
	}
	return entry, nil
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry, businessID string, lineNo int) models.LedgerEntry {
	return models.LedgerEntry{
		LedgerEntryID:  d.LedgerEntryID,
		JournalEntryID: d.JournalEntryID,
		BusinessID:     businessID,
		AccountID:      d.AccountID,
		LineNo:         lineNo,
		DebitAmount:    d.DebitAmount,
		CreditAmount:   d.CreditAmount,
		Party:          ToRefColumns(d.Party),
		Memo:           d.Memo,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) (domain.LedgerEntry, error) {
	party, err := ToDomainReference(m.Party)
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("ledger entry %s party: %w", m.LedgerEntryID, err)
	}
	return domain.LedgerEntry{
		LedgerEntryID:  m.LedgerEntryID,
		JournalEntryID: m.JournalEntryID,
		AccountID:      m.AccountID,
		DebitAmount:    m.DebitAmount,
		CreditAmount:   m.CreditAmount,
		Party:          party,
		Memo:           m.Memo,
	}, nil
}
