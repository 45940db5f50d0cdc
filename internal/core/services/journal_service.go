package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/shopspring/decimal"
)

// journalService provides core journal posting and reporting operations.
type journalService struct {
	BaseService
	accountSvc portssvc.AccountTxSvc
}

// NewJournalService creates a new JournalService.
func NewJournalService(provider portsrepo.RepositoryProvider, accountSvc portssvc.AccountTxSvc, options ...ServiceOption) portssvc.JournalSvcFacade {
	return &journalService{
		BaseService: newBaseService(provider, options...),
		accountSvc:  accountSvc,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateJournalLines checks line shape and that debits equal credits.
func validateJournalLines(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return apperrors.NewValidationError("lines", "a journal entry needs at least two lines, got %d", len(lines))
	}

	debitsSum := decimal.Zero
	creditsSum := decimal.Zero
	for i, l := range lines {
		if strings.TrimSpace(l.AccountID) == "" {
			return apperrors.NewValidationError("lines", "line %d has no account", i+1)
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return apperrors.NewValidationError("lines", "line %d has a negative amount", i+1)
		}
		if l.Debit.IsPositive() == l.Credit.IsPositive() {
			return apperrors.NewValidationError("lines", "line %d must carry exactly one of debit or credit", i+1)
		}
		debitsSum = debitsSum.Add(l.Debit)
		creditsSum = creditsSum.Add(l.Credit)
	}

	if !debitsSum.Equal(creditsSum) {
		return &apperrors.ImbalancedEntryError{Debits: debitsSum, Credits: creditsSum}
	}
	return nil
}

func (s *journalService) PostTx(ctx context.Context, repos portsrepo.Repositories, businessID string, draft domain.JournalDraft, userID string) (*domain.JournalEntry, error) {
	if err := validateJournalLines(draft.Lines); err != nil {
		return nil, err
	}

	accountIDs := make([]string, len(draft.Lines))
	for i, l := range draft.Lines {
		accountIDs[i] = l.AccountID
	}
	if _, err := s.accountSvc.ResolveActiveAccountsTx(ctx, repos, businessID, accountIDs); err != nil {
		return nil, err
	}

	now := s.now()
	date := draft.Date
	if date.IsZero() {
		date = now
	}

	entry := domain.JournalEntry{
		JournalEntryID: uuid.NewString(),
		BusinessID:     businessID,
		Date:           date,
		Memo:           draft.Memo,
		Reference:      draft.Reference,
		Source:         draft.Source,
		Status:         domain.Posted,
		Lines:          make([]domain.LedgerEntry, len(draft.Lines)),
		AuditFields:    domain.NewAuditFields(userID, now),
	}
	for i, l := range draft.Lines {
		entry.Lines[i] = domain.LedgerEntry{
			LedgerEntryID:  uuid.NewString(),
			JournalEntryID: entry.JournalEntryID,
			AccountID:      l.AccountID,
			DebitAmount:    l.Debit,
			CreditAmount:   l.Credit,
			Party:          l.Party,
			Memo:           l.Memo,
		}
	}

	if err := repos.Journals.SaveJournal(ctx, entry); err != nil {
		return nil, err
	}

	s.LogDebug(ctx, "Journal posted",
		slog.String("journal_id", entry.JournalEntryID),
		slog.Int("line_count", len(entry.Lines)))
	return &entry, nil
}

func (s *journalService) ReverseTx(ctx context.Context, repos portsrepo.Repositories, businessID string, journalID string, reason string, userID string) (*domain.JournalEntry, error) {
	original, err := repos.Journals.FindJournalByIDForUpdate(ctx, businessID, journalID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, apperrors.NewValidationError("journalID", "journal %s is %s, expected POSTED", journalID, original.Status)
	}
	if original.OriginalEntryID != nil {
		return nil, apperrors.NewValidationError("journalID", "journal %s is itself a reversal", journalID)
	}

	now := s.now()
	reversal := domain.JournalEntry{
		JournalEntryID:  uuid.NewString(),
		BusinessID:      businessID,
		Date:            now,
		Memo:            fmt.Sprintf("Reversal of Journal: %s", original.Memo),
		Reference:       original.Reference,
		Source:          original.Source,
		Status:          domain.Posted,
		OriginalEntryID: &original.JournalEntryID,
		Lines:           make([]domain.LedgerEntry, len(original.Lines)),
		AuditFields:     domain.NewAuditFields(userID, now),
	}
	if reason != "" {
		reversal.Memo = fmt.Sprintf("%s (%s)", reversal.Memo, reason)
	}
	for i, l := range original.Lines {
		reversal.Lines[i] = domain.LedgerEntry{
			LedgerEntryID:  uuid.NewString(),
			JournalEntryID: reversal.JournalEntryID,
			AccountID:      l.AccountID,
			DebitAmount:    l.CreditAmount,
			CreditAmount:   l.DebitAmount,
			Party:          l.Party,
			Memo:           l.Memo,
		}
	}

	if err := repos.Journals.SaveJournal(ctx, reversal); err != nil {
		return nil, err
	}
	if err := repos.Journals.UpdateJournalStatusAndLinks(ctx, original.JournalEntryID, domain.Reversed, &reversal.JournalEntryID, nil, userID, now); err != nil {
		return nil, err
	}

	s.LogDebug(ctx, "Journal reversed",
		slog.String("journal_id", original.JournalEntryID),
		slog.String("reversing_journal_id", reversal.JournalEntryID))
	return &reversal, nil
}

func (s *journalService) ReverseBySourceTx(ctx context.Context, repos portsrepo.Repositories, businessID string, source domain.Reference, reason string, userID string) ([]domain.JournalEntry, error) {
	posted, err := repos.Journals.FindPostedJournalsBySource(ctx, businessID, source)
	if err != nil {
		return nil, err
	}
	reversals := make([]domain.JournalEntry, 0, len(posted))
	for _, entry := range posted {
		if entry.OriginalEntryID != nil {
			continue
		}
		rev, err := s.ReverseTx(ctx, repos, businessID, entry.JournalEntryID, reason, userID)
		if err != nil {
			return nil, err
		}
		reversals = append(reversals, *rev)
	}
	return reversals, nil
}

// PostJournal posts a manual journal entry.
func (s *journalService) PostJournal(ctx context.Context, businessID string, req dto.PostJournalRequest, userID string) (*domain.JournalEntry, error) {
	draft, err := req.ToJournalDraft()
	if err != nil {
		return nil, apperrors.NewValidationError("party", "%v", err)
	}

	var entry *domain.JournalEntry
	err = s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		entry, err = s.PostTx(ctx, repos, businessID, draft, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post journal", slog.String("business_id", businessID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal created successfully",
		slog.String("journal_id", entry.JournalEntryID),
		slog.String("business_id", businessID))
	return entry, nil
}

// ReverseJournal creates a new journal entry that reverses a previously posted journal.
func (s *journalService) ReverseJournal(ctx context.Context, businessID string, journalID string, reason string, userID string) (*domain.JournalEntry, error) {
	var reversal *domain.JournalEntry
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		reversal, err = s.ReverseTx(ctx, repos, businessID, journalID, reason, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reverse journal", slog.String("journal_id", journalID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal reversed successfully",
		slog.String("journal_id", journalID),
		slog.String("reversing_journal_id", reversal.JournalEntryID))
	return reversal, nil
}

// GetJournalEntry retrieves a specific journal entry with its ledger lines.
func (s *journalService) GetJournalEntry(ctx context.Context, businessID string, journalID string) (*domain.JournalEntry, error) {
	entry, err := s.repos().Journals.FindJournalByID(ctx, businessID, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal by ID", slog.String("journal_id", journalID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *journalService) GetAccountBalance(ctx context.Context, businessID string, accountID string) (decimal.Decimal, error) {
	repos := s.repos()
	account, err := repos.Accounts.FindAccountByID(ctx, businessID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	activity, err := repos.Journals.SumAccountActivity(ctx, businessID, *account)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum account activity", slog.String("account_id", accountID))
		return decimal.Zero, err
	}
	return activity.Balance(), nil
}

func (s *journalService) GetTrialBalance(ctx context.Context, businessID string) (*domain.TrialBalance, error) {
	activity, err := s.repos().Journals.SumActivityByAccount(ctx, businessID)
	if err != nil {
		s.LogError(ctx, err, "Failed to build trial balance", slog.String("business_id", businessID))
		return nil, err
	}
	tb := &domain.TrialBalance{
		BusinessID:   businessID,
		Accounts:     activity,
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}
	for _, a := range activity {
		tb.TotalDebits = tb.TotalDebits.Add(a.Debits)
		tb.TotalCredits = tb.TotalCredits.Add(a.Credits)
	}
	return tb, nil
}
