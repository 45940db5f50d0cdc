package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type journalRepo struct{ sc scope }

var _ portsrepo.JournalRepositoryFacade = (*journalRepo)(nil)

func cloneJournal(j domain.JournalEntry) domain.JournalEntry {
	j.Lines = append([]domain.LedgerEntry(nil), j.Lines...)
	return j
}

func (r *journalRepo) FindJournalByID(_ context.Context, businessID, journalID string) (*domain.JournalEntry, error) {
	var out *domain.JournalEntry
	err := r.sc.read(func(st *state) error {
		j, ok := st.journals[journalID]
		if !ok || j.BusinessID != businessID {
			return apperrors.NewNotFoundError("journal entry", journalID)
		}
		c := cloneJournal(j)
		out = &c
		return nil
	})
	return out, err
}

// FindJournalByIDForUpdate needs no row lock: units of work are already serialized.
func (r *journalRepo) FindJournalByIDForUpdate(ctx context.Context, businessID, journalID string) (*domain.JournalEntry, error) {
	return r.FindJournalByID(ctx, businessID, journalID)
}

func (r *journalRepo) FindPostedJournalsBySource(_ context.Context, businessID string, source domain.Reference) ([]domain.JournalEntry, error) {
	var out []domain.JournalEntry
	err := r.sc.read(func(st *state) error {
		for _, j := range st.journals {
			if j.BusinessID == businessID && j.Status == domain.Posted && domain.SameReference(j.Source, source) {
				out = append(out, cloneJournal(j))
			}
		}
		sort.Slice(out, func(a, b int) bool {
			return st.journalOrder[out[a].JournalEntryID] < st.journalOrder[out[b].JournalEntryID]
		})
		return nil
	})
	return out, err
}

func (r *journalRepo) SaveJournal(_ context.Context, entry domain.JournalEntry) error {
	return r.sc.write(func(st *state) error {
		if _, exists := st.journals[entry.JournalEntryID]; exists {
			return apperrors.ErrDuplicate
		}
		st.journals[entry.JournalEntryID] = cloneJournal(entry)
		st.journalOrder[entry.JournalEntryID] = st.next()
		return nil
	})
}

func (r *journalRepo) UpdateJournalStatusAndLinks(_ context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, originalJournalID *string, updatedByUserID string, updatedAt time.Time) error {
	return r.sc.write(func(st *state) error {
		j, ok := st.journals[journalID]
		if !ok {
			return apperrors.NewNotFoundError("journal entry", journalID)
		}
		j.Status = status
		if reversingJournalID != nil {
			j.ReversingEntryID = reversingJournalID
		}
		if originalJournalID != nil {
			j.OriginalEntryID = originalJournalID
		}
		j.Touch(updatedByUserID, updatedAt)
		st.journals[journalID] = j
		return nil
	})
}

func (r *journalRepo) SumAccountActivity(_ context.Context, businessID string, account domain.Account) (domain.AccountActivity, error) {
	act := domain.AccountActivity{AccountID: account.AccountID, AccountCode: account.Code, AccountType: account.AccountType}
	err := r.sc.read(func(st *state) error {
		for _, j := range st.journals {
			if j.BusinessID != businessID {
				continue
			}
			for _, l := range j.Lines {
				if l.AccountID == account.AccountID {
					act.Debits = act.Debits.Add(l.DebitAmount)
					act.Credits = act.Credits.Add(l.CreditAmount)
				}
			}
		}
		return nil
	})
	return act, err
}

func (r *journalRepo) SumActivityByAccount(_ context.Context, businessID string) ([]domain.AccountActivity, error) {
	var out []domain.AccountActivity
	err := r.sc.read(func(st *state) error {
		byAccount := make(map[string]*domain.AccountActivity)
		for _, j := range st.journals {
			if j.BusinessID != businessID {
				continue
			}
			for _, l := range j.Lines {
				act, ok := byAccount[l.AccountID]
				if !ok {
					acc := st.accounts[l.AccountID]
					act = &domain.AccountActivity{
						AccountID:   l.AccountID,
						AccountCode: acc.Code,
						AccountType: acc.AccountType,
						Debits:      decimal.Zero,
						Credits:     decimal.Zero,
					}
					byAccount[l.AccountID] = act
				}
				act.Debits = act.Debits.Add(l.DebitAmount)
				act.Credits = act.Credits.Add(l.CreditAmount)
			}
		}
		for _, act := range byAccount {
			out = append(out, *act)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out, err
}

func (r *journalRepo) CountLedgerEntries(_ context.Context, businessID, accountID string) (int, error) {
	n := 0
	err := r.sc.read(func(st *state) error {
		for _, j := range st.journals {
			if j.BusinessID != businessID {
				continue
			}
			for _, l := range j.Lines {
				if l.AccountID == accountID {
					n++
				}
			}
		}
		return nil
	})
	return n, err
}
