package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/models"
	"github.com/SscSPs/bizledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(db querier) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{DB: db}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, business_id, parent_account_id, code, name, account_type, description,
	is_active, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.BusinessID,
		&m.ParentAccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Description,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, op, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, mapError(op, err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err)
	}
	return accounts, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.DB.Exec(ctx, query,
		m.AccountID,
		m.BusinessID,
		m.ParentAccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.Description,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.DeletedAt,
	)
	return mapError("save account "+m.AccountID, err)
}

// FindAccountByID retrieves a live account of a business.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, businessID, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE business_id = $1 AND account_id = $2 AND deleted_at IS NULL;`
	acc, err := scanAccount(r.DB.QueryRow(ctx, query, businessID, accountID))
	if err != nil {
		return nil, notFoundOr("find account", "account", accountID, err)
	}
	return &acc, nil
}

// FindAccountByCode retrieves a live account by its business-unique code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, businessID, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE business_id = $1 AND code = $2 AND deleted_at IS NULL;`
	acc, err := scanAccount(r.DB.QueryRow(ctx, query, businessID, code))
	if err != nil {
		return nil, notFoundOr("find account by code", "account", code, err)
	}
	return &acc, nil
}

// FindAccountsByIDs retrieves the live accounts among accountIDs, keyed by ID.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE business_id = $1 AND account_id = ANY($2) AND deleted_at IS NULL;`
	accounts, err := r.queryAccounts(ctx, "find accounts by ids", query, businessID, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		out[acc.AccountID] = acc
	}
	return out, nil
}

// ListAccountsByBusiness returns the live chart of accounts ordered by code.
func (r *PgxAccountRepository) ListAccountsByBusiness(ctx context.Context, businessID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE business_id = $1 AND deleted_at IS NULL
		ORDER BY code;`
	return r.queryAccounts(ctx, "list accounts", query, businessID)
}

func (r *PgxAccountRepository) CountActiveChildren(ctx context.Context, businessID, accountID string) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM accounts
		WHERE business_id = $1 AND parent_account_id = $2 AND is_active AND deleted_at IS NULL;`,
		businessID, accountID,
	).Scan(&n)
	if err != nil {
		return 0, mapError("count child accounts", err)
	}
	return n, nil
}

// DeactivateAccount soft-deletes an account.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, businessID, accountID, userID string, now time.Time) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE accounts
		SET is_active = FALSE, deleted_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE business_id = $1 AND account_id = $2 AND deleted_at IS NULL;`,
		businessID, accountID, now, userID,
	)
	if err != nil {
		return mapError("deactivate account "+accountID, err)
	}
	return expectOne(tag, "account", accountID)
}

type PgxPostingRuleRepository struct {
	BaseRepository
}

func newPgxPostingRuleRepository(db querier) *PgxPostingRuleRepository {
	return &PgxPostingRuleRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.PostingRuleRepository = (*PgxPostingRuleRepository)(nil)

// FindPostingAccounts loads every rule binding of a business.
func (r *PgxPostingRuleRepository) FindPostingAccounts(ctx context.Context, businessID string) (domain.PostingAccounts, error) {
	rows, err := r.DB.Query(ctx, `SELECT rule, account_id FROM posting_rules WHERE business_id = $1;`, businessID)
	if err != nil {
		return nil, mapError("find posting rules", err)
	}
	defer rows.Close()

	out := make(domain.PostingAccounts)
	for rows.Next() {
		var rule, accountID string
		if err := rows.Scan(&rule, &accountID); err != nil {
			return nil, mapError("scan posting rule", err)
		}
		out[domain.PostingRule(rule)] = accountID
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("find posting rules", err)
	}
	return out, nil
}

// UpsertPostingRule binds a rule to an account, keeping the original creation audit on rebinds.
func (r *PgxPostingRuleRepository) UpsertPostingRule(ctx context.Context, binding domain.PostingRuleBinding) error {
	m := mapping.ToModelPostingRule(binding)
	_, err := r.DB.Exec(ctx, `
		INSERT INTO posting_rules (business_id, rule, account_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (business_id, rule) DO UPDATE
		SET account_id = EXCLUDED.account_id,
		    last_updated_at = EXCLUDED.last_updated_at,
		    last_updated_by = EXCLUDED.last_updated_by;`,
		m.BusinessID, m.Rule, m.AccountID, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return mapError("upsert posting rule "+m.Rule, err)
	}
	return nil
}
