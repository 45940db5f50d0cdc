package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a row of the payments table.
type Payment struct {
	PaymentID      string          `db:"payment_id"`
	BusinessID     string          `db:"business_id"`
	Amount         decimal.Decimal `db:"amount"`
	SourceType     string          `db:"source_type"`
	Source         RefColumns
	Payer          RefColumns
	BankAccountID  string          `db:"bank_account_id"`
	Method         string          `db:"method"`
	Reference      string          `db:"reference"`
	Status         string          `db:"status"`
	RefundedAmount decimal.Decimal `db:"refunded_amount"`
	Reconciled     bool            `db:"reconciled"`
	ReconciledAt   *time.Time      `db:"reconciled_at"`
	PaymentDate    time.Time       `db:"payment_date"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}

// PaymentAllocation is a row of the payment_allocations table.
type PaymentAllocation struct {
	AllocationID        string          `db:"allocation_id"`
	PaymentID           string          `db:"payment_id"`
	AllocationType      string          `db:"allocation_type"`
	SourceTransactionID string          `db:"source_transaction_id"`
	AllocatedAmount     decimal.Decimal `db:"allocated_amount"`
	Reason              string          `db:"reason"`
	CreatedAt           time.Time       `db:"created_at"`
	CreatedBy           string          `db:"created_by"`
}
