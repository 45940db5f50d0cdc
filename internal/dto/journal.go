package dto

import (
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalLineRequest is one debit or credit line of a manual journal.
type JournalLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit" binding:"dgte0"`
	Credit    decimal.Decimal `json:"credit" binding:"dgte0"`
	Party     *ReferenceDTO   `json:"party"`
	Memo      string          `json:"memo"`
}

// PostJournalRequest defines the data needed to post a manual journal entry.
type PostJournalRequest struct {
	Date      time.Time            `json:"date" binding:"required"`
	Memo      string               `json:"memo"`
	Reference string               `json:"reference"`
	Lines     []JournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ReverseJournalRequest carries the reason for a reversal.
type ReverseJournalRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ToJournalDraft converts the request into the engine's input form.
func (r PostJournalRequest) ToJournalDraft() (domain.JournalDraft, error) {
	draft := domain.JournalDraft{
		Date:      r.Date,
		Memo:      r.Memo,
		Reference: r.Reference,
		Lines:     make([]domain.JournalLine, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		party, err := l.Party.ToDomain()
		if err != nil {
			return domain.JournalDraft{}, err
		}
		draft.Lines = append(draft.Lines, domain.JournalLine{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Party:     party,
			Memo:      l.Memo,
		})
	}
	return draft, nil
}

// LedgerEntryResponse defines the data returned for a ledger line.
type LedgerEntryResponse struct {
	LedgerEntryID string          `json:"ledgerEntryID"`
	AccountID     string          `json:"accountID"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Party         *ReferenceDTO   `json:"party,omitempty"`
	Memo          string          `json:"memo,omitempty"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalEntryID   string                `json:"journalEntryID"`
	Date             time.Time             `json:"date"`
	Memo             string                `json:"memo"`
	Reference        string                `json:"reference"`
	Source           *ReferenceDTO         `json:"source,omitempty"`
	Status           domain.JournalStatus  `json:"status"`
	OriginalEntryID  *string               `json:"originalEntryID,omitempty"`
	ReversingEntryID *string               `json:"reversingEntryID,omitempty"`
	Lines            []LedgerEntryResponse `json:"lines"`
	CreatedAt        time.Time             `json:"createdAt"`
	CreatedBy        string                `json:"createdBy"`
}

// ToJournalResponse converts a domain.JournalEntry to JournalResponse DTO.
func ToJournalResponse(j *domain.JournalEntry) JournalResponse {
	lines := make([]LedgerEntryResponse, len(j.Lines))
	for i, l := range j.Lines {
		lines[i] = LedgerEntryResponse{
			LedgerEntryID: l.LedgerEntryID,
			AccountID:     l.AccountID,
			Debit:         l.DebitAmount,
			Credit:        l.CreditAmount,
			Party:         FromReference(l.Party),
			Memo:          l.Memo,
		}
	}
	return JournalResponse{
		JournalEntryID:   j.JournalEntryID,
		Date:             j.Date,
		Memo:             j.Memo,
		Reference:        j.Reference,
		Source:           FromReference(j.Source),
		Status:           j.Status,
		OriginalEntryID:  j.OriginalEntryID,
		ReversingEntryID: j.ReversingEntryID,
		Lines:            lines,
		CreatedAt:        j.CreatedAt,
		CreatedBy:        j.CreatedBy,
	}
}

// ToJournalResponses converts a slice of journal entries.
func ToJournalResponses(entries []domain.JournalEntry) []JournalResponse {
	res := make([]JournalResponse, len(entries))
	for i := range entries {
		res[i] = ToJournalResponse(&entries[i])
	}
	return res
}
