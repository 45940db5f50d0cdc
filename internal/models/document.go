package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is a row of the documents table.
type Document struct {
	DocumentID     string `db:"document_id"`
	BusinessID     string `db:"business_id"`
	Kind           string `db:"kind"`
	Number         string `db:"number"`
	Counterparty   RefColumns
	DocumentDate   time.Time       `db:"document_date"`
	DueDate        *time.Time      `db:"due_date"`
	Subtotal       decimal.Decimal `db:"subtotal"`
	TaxAmount      decimal.Decimal `db:"tax_amount"`
	DiscountAmount decimal.Decimal `db:"discount_amount"`
	TotalAmount    decimal.Decimal `db:"total_amount"`
	PaidAmount     decimal.Decimal `db:"paid_amount"`
	BalanceDue     decimal.Decimal `db:"balance_due"`
	Status         string          `db:"status"`
	CancelReason   string          `db:"cancel_reason"`
	PayloadHash    string          `db:"payload_hash"`
	Notes          string          `db:"notes"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}

// DocumentLine is a row of the document_lines table.
type DocumentLine struct {
	LineID      string          `db:"line_id"`
	DocumentID  string          `db:"document_id"`
	LineNo      int             `db:"line_no"`
	ProductID   string          `db:"product_id"`
	LocationID  string          `db:"location_id"`
	AccountID   string          `db:"account_id"`
	Description string          `db:"description"`
	Quantity    decimal.Decimal `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	UnitCost    decimal.Decimal `db:"unit_cost"`
	LineTotal   decimal.Decimal `db:"line_total"`
}
