package pgsql

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/models"
	"github.com/SscSPs/bizledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payments and their allocations.
func newPgxPaymentRepository(db querier) *PgxPaymentRepository {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, business_id, amount, source_type, source_ref_type, source_ref_id, payer_type,
	payer_id, bank_account_id, method, reference, status, refunded_amount, reconciled, reconciled_at, payment_date,
	created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanPaymentHeader(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.BusinessID,
		&m.Amount,
		&m.SourceType,
		&m.Source.Type,
		&m.Source.ID,
		&m.Payer.Type,
		&m.Payer.ID,
		&m.BankAccountID,
		&m.Method,
		&m.Reference,
		&m.Status,
		&m.RefundedAmount,
		&m.Reconciled,
		&m.ReconciledAt,
		&m.PaymentDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	return m, err
}

// findAllocations returns a payment's allocations in creation order.
func (r *PgxPaymentRepository) findAllocations(ctx context.Context, paymentID string) ([]models.PaymentAllocation, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT allocation_id, payment_id, allocation_type, source_transaction_id, allocated_amount, reason,
		       created_at, created_by
		FROM payment_allocations
		WHERE payment_id = $1
		ORDER BY seq;`,
		paymentID,
	)
	if err != nil {
		return nil, mapError("find payment allocations", err)
	}
	defer rows.Close()

	var out []models.PaymentAllocation
	for rows.Next() {
		var a models.PaymentAllocation
		if err := rows.Scan(
			&a.AllocationID,
			&a.PaymentID,
			&a.AllocationType,
			&a.SourceTransactionID,
			&a.AllocatedAmount,
			&a.Reason,
			&a.CreatedAt,
			&a.CreatedBy,
		); err != nil {
			return nil, mapError("scan payment allocation", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("find payment allocations", err)
	}
	return out, nil
}

func (r *PgxPaymentRepository) findPayment(ctx context.Context, id, where string, args ...any) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE deleted_at IS NULL AND ` + where + `;`
	header, err := scanPaymentHeader(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFoundOr("find payment", "payment", id, err)
	}
	allocations, err := r.findAllocations(ctx, header.PaymentID)
	if err != nil {
		return nil, err
	}
	p, err := mapping.ToDomainPayment(header, allocations)
	if err != nil {
		return nil, mapError("decode payment", err)
	}
	return &p, nil
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, businessID, paymentID string) (*domain.Payment, error) {
	return r.findPayment(ctx, paymentID, "business_id = $1 AND payment_id = $2", businessID, paymentID)
}

func (r *PgxPaymentRepository) FindPaymentByIDForUpdate(ctx context.Context, businessID, paymentID string) (*domain.Payment, error) {
	return r.findPayment(ctx, paymentID, "business_id = $1 AND payment_id = $2 FOR UPDATE", businessID, paymentID)
}

func (r *PgxPaymentRepository) FindPaymentByReference(ctx context.Context, businessID, reference string) (*domain.Payment, error) {
	return r.findPayment(ctx, reference, "business_id = $1 AND reference = $2", businessID, reference)
}

// SavePayment inserts the payment row only; allocations go through SaveAllocations.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	_, err := r.DB.Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);`,
		m.PaymentID,
		m.BusinessID,
		m.Amount,
		m.SourceType,
		m.Source.Type,
		m.Source.ID,
		m.Payer.Type,
		m.Payer.ID,
		m.BankAccountID,
		m.Method,
		m.Reference,
		m.Status,
		m.RefundedAmount,
		m.Reconciled,
		m.ReconciledAt,
		m.PaymentDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.DeletedAt,
	)
	return mapError("insert payment "+m.PaymentID, err)
}

// SaveAllocations appends allocations in slice order.
func (r *PgxPaymentRepository) SaveAllocations(ctx context.Context, allocations []domain.PaymentAllocation) error {
	batch := &pgx.Batch{}
	for _, alloc := range allocations {
		a := mapping.ToModelAllocation(alloc)
		batch.Queue(`
			INSERT INTO payment_allocations (allocation_id, payment_id, allocation_type, source_transaction_id,
				allocated_amount, reason, created_at, created_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
			a.AllocationID,
			a.PaymentID,
			a.AllocationType,
			a.SourceTransactionID,
			a.AllocatedAmount,
			a.Reason,
			a.CreatedAt,
			a.CreatedBy,
		)
	}
	return execBatch(ctx, r.DB, "insert payment allocations", batch)
}

func (r *PgxPaymentRepository) UpdatePaymentState(ctx context.Context, payment domain.Payment) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE payments
		SET status = $2, refunded_amount = $3, last_updated_at = $4, last_updated_by = $5
		WHERE payment_id = $1;`,
		payment.PaymentID,
		string(payment.Status),
		payment.RefundedAmount,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return mapError("update payment "+payment.PaymentID, err)
	}
	return expectOne(tag, "payment", payment.PaymentID)
}
