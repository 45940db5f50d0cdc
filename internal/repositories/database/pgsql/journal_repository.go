package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/models"
	"github.com/SscSPs/bizledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal and ledger data.
func newPgxJournalRepository(db querier) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{DB: db}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalColumns = `journal_entry_id, business_id, entry_date, memo, reference, source_type, source_id,
	status, original_entry_id, reversing_entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanJournalHeader(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.JournalEntryID,
		&m.BusinessID,
		&m.EntryDate,
		&m.Memo,
		&m.Reference,
		&m.Source.Type,
		&m.Source.ID,
		&m.Status,
		&m.OriginalEntryID,
		&m.ReversingEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveJournal inserts the header and queues every ledger line in one batch.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournal(entry)
	_, err := r.DB.Exec(ctx, `
		INSERT INTO journal_entries (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`,
		m.JournalEntryID,
		m.BusinessID,
		m.EntryDate,
		m.Memo,
		m.Reference,
		m.Source.Type,
		m.Source.ID,
		m.Status,
		m.OriginalEntryID,
		m.ReversingEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapError("insert journal entry "+m.JournalEntryID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO ledger_entries (ledger_entry_id, journal_entry_id, business_id, account_id, line_no,
			debit_amount, credit_amount, party_type, party_id, memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for i, line := range entry.Lines {
		l := mapping.ToModelLedgerEntry(line, entry.BusinessID, i+1)
		batch.Queue(lineQuery,
			l.LedgerEntryID,
			l.JournalEntryID,
			l.BusinessID,
			l.AccountID,
			l.LineNo,
			l.DebitAmount,
			l.CreditAmount,
			l.Party.Type,
			l.Party.ID,
			l.Memo,
		)
	}
	return execBatch(ctx, r.DB, "insert ledger entries for "+m.JournalEntryID, batch)
}

func (r *PgxJournalRepository) findJournal(ctx context.Context, businessID, journalID, lock string) (*domain.JournalEntry, error) {
	query := `SELECT ` + journalColumns + ` FROM journal_entries
		WHERE business_id = $1 AND journal_entry_id = $2` + lock + `;`
	header, err := scanJournalHeader(r.DB.QueryRow(ctx, query, businessID, journalID))
	if err != nil {
		return nil, notFoundOr("find journal entry", "journal entry", journalID, err)
	}
	lines, err := r.findLines(ctx, []string{journalID})
	if err != nil {
		return nil, err
	}
	entry, err := mapping.ToDomainJournal(header, lines[journalID])
	if err != nil {
		return nil, mapError("decode journal entry", err)
	}
	return &entry, nil
}

// FindJournalByID retrieves a journal entry with its ledger lines.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, businessID, journalID string) (*domain.JournalEntry, error) {
	return r.findJournal(ctx, businessID, journalID, "")
}

// FindJournalByIDForUpdate locks the header row until the surrounding transaction ends.
func (r *PgxJournalRepository) FindJournalByIDForUpdate(ctx context.Context, businessID, journalID string) (*domain.JournalEntry, error) {
	return r.findJournal(ctx, businessID, journalID, " FOR UPDATE")
}

// findLines loads the ledger lines of the given entries grouped by entry, in line order.
func (r *PgxJournalRepository) findLines(ctx context.Context, journalIDs []string) (map[string][]models.LedgerEntry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ledger_entry_id, journal_entry_id, business_id, account_id, line_no,
		       debit_amount, credit_amount, party_type, party_id, memo
		FROM ledger_entries
		WHERE journal_entry_id = ANY($1)
		ORDER BY journal_entry_id, line_no;`,
		journalIDs,
	)
	if err != nil {
		return nil, mapError("find ledger entries", err)
	}
	defer rows.Close()

	out := make(map[string][]models.LedgerEntry, len(journalIDs))
	for rows.Next() {
		var l models.LedgerEntry
		if err := rows.Scan(
			&l.LedgerEntryID,
			&l.JournalEntryID,
			&l.BusinessID,
			&l.AccountID,
			&l.LineNo,
			&l.DebitAmount,
			&l.CreditAmount,
			&l.Party.Type,
			&l.Party.ID,
			&l.Memo,
		); err != nil {
			return nil, mapError("scan ledger entry", err)
		}
		out[l.JournalEntryID] = append(out[l.JournalEntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("find ledger entries", err)
	}
	return out, nil
}

// FindPostedJournalsBySource returns the POSTED entries caused by source, oldest first.
func (r *PgxJournalRepository) FindPostedJournalsBySource(ctx context.Context, businessID string, source domain.Reference) ([]domain.JournalEntry, error) {
	kind, id := domain.EncodeReference(source)
	rows, err := r.DB.Query(ctx, `
		SELECT `+journalColumns+` FROM journal_entries
		WHERE business_id = $1 AND source_type = $2 AND source_id = $3 AND status = $4
		ORDER BY seq;`,
		businessID, kind, id, string(domain.Posted),
	)
	if err != nil {
		return nil, mapError("find journals by source", err)
	}
	var headers []models.JournalEntry
	for rows.Next() {
		h, err := scanJournalHeader(rows)
		if err != nil {
			rows.Close()
			return nil, mapError("scan journal entry", err)
		}
		headers = append(headers, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapError("find journals by source", err)
	}
	if len(headers) == 0 {
		return nil, nil
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.JournalEntryID
	}
	lines, err := r.findLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.JournalEntry, 0, len(headers))
	for _, h := range headers {
		e, err := mapping.ToDomainJournal(h, lines[h.JournalEntryID])
		if err != nil {
			return nil, mapError("decode journal entry", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// UpdateJournalStatusAndLinks updates the status and reversal linkage of an entry.
// Nil link arguments leave the stored value unchanged.
func (r *PgxJournalRepository) UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID *string, originalJournalID *string, updatedByUserID string, updatedAt time.Time) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE journal_entries
		SET status = $2,
		    reversing_entry_id = COALESCE($3, reversing_entry_id),
		    original_entry_id = COALESCE($4, original_entry_id),
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE journal_entry_id = $1;`,
		journalID, string(status), reversingJournalID, originalJournalID, updatedAt, updatedByUserID,
	)
	if err != nil {
		return mapError("update journal entry "+journalID, err)
	}
	return expectOne(tag, "journal entry", journalID)
}

// SumAccountActivity returns the debit and credit totals of one account.
func (r *PgxJournalRepository) SumAccountActivity(ctx context.Context, businessID string, account domain.Account) (domain.AccountActivity, error) {
	act := domain.AccountActivity{AccountID: account.AccountID, AccountCode: account.Code, AccountType: account.AccountType}
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(debit_amount), 0), COALESCE(SUM(credit_amount), 0)
		FROM ledger_entries
		WHERE business_id = $1 AND account_id = $2;`,
		businessID, account.AccountID,
	).Scan(&act.Debits, &act.Credits)
	if err != nil {
		return domain.AccountActivity{}, mapError("sum account activity", err)
	}
	return act, nil
}

// SumActivityByAccount returns the totals of every account with ledger lines, ordered by code.
func (r *PgxJournalRepository) SumActivityByAccount(ctx context.Context, businessID string) ([]domain.AccountActivity, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT a.account_id, a.code, a.account_type, SUM(l.debit_amount), SUM(l.credit_amount)
		FROM ledger_entries l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE l.business_id = $1
		GROUP BY a.account_id, a.code, a.account_type
		ORDER BY a.code;`,
		businessID,
	)
	if err != nil {
		return nil, mapError("sum activity by account", err)
	}
	defer rows.Close()

	var out []domain.AccountActivity
	for rows.Next() {
		var (
			act         domain.AccountActivity
			accountType string
			debits      decimal.Decimal
			credits     decimal.Decimal
		)
		if err := rows.Scan(&act.AccountID, &act.AccountCode, &accountType, &debits, &credits); err != nil {
			return nil, mapError("scan account activity", err)
		}
		act.AccountType = domain.AccountType(accountType)
		act.Debits = debits
		act.Credits = credits
		out = append(out, act)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("sum activity by account", err)
	}
	return out, nil
}

// CountLedgerEntries counts ledger lines posted to an account.
func (r *PgxJournalRepository) CountLedgerEntries(ctx context.Context, businessID, accountID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM ledger_entries WHERE business_id = $1 AND account_id = $2;`,
		businessID, accountID,
	).Scan(&n)
	if err != nil {
		return 0, mapError("count ledger entries", err)
	}
	return n, nil
}
