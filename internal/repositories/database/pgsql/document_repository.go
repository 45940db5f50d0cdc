package pgsql

import (
	"context"

	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/models"
	"github.com/SscSPs/bizledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for sales, purchases, invoices and expenses.
func newPgxDocumentRepository(db querier) *PgxDocumentRepository {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

const documentColumns = `document_id, business_id, kind, number, counterparty_type, counterparty_id, document_date,
	due_date, subtotal, tax_amount, discount_amount, total_amount, paid_amount, balance_due, status, cancel_reason,
	payload_hash, notes, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

func scanDocumentHeader(row pgx.Row) (models.Document, error) {
	var m models.Document
	err := row.Scan(
		&m.DocumentID,
		&m.BusinessID,
		&m.Kind,
		&m.Number,
		&m.Counterparty.Type,
		&m.Counterparty.ID,
		&m.DocumentDate,
		&m.DueDate,
		&m.Subtotal,
		&m.TaxAmount,
		&m.DiscountAmount,
		&m.TotalAmount,
		&m.PaidAmount,
		&m.BalanceDue,
		&m.Status,
		&m.CancelReason,
		&m.PayloadHash,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	return m, err
}

func (r *PgxDocumentRepository) findLines(ctx context.Context, documentID string) ([]models.DocumentLine, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT line_id, document_id, line_no, product_id, location_id, account_id, description,
		       quantity, unit_price, unit_cost, line_total
		FROM document_lines
		WHERE document_id = $1
		ORDER BY line_no;`,
		documentID,
	)
	if err != nil {
		return nil, mapError("find document lines", err)
	}
	defer rows.Close()

	var lines []models.DocumentLine
	for rows.Next() {
		var l models.DocumentLine
		if err := rows.Scan(
			&l.LineID,
			&l.DocumentID,
			&l.LineNo,
			&l.ProductID,
			&l.LocationID,
			&l.AccountID,
			&l.Description,
			&l.Quantity,
			&l.UnitPrice,
			&l.UnitCost,
			&l.LineTotal,
		); err != nil {
			return nil, mapError("scan document line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("find document lines", err)
	}
	return lines, nil
}

// findDocument loads one header matched by where (with $1 bound to the business) plus its lines.
func (r *PgxDocumentRepository) findDocument(ctx context.Context, entity, id, where string, args ...any) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE deleted_at IS NULL AND ` + where + `;`
	header, err := scanDocumentHeader(r.DB.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFoundOr("find "+entity, entity, id, err)
	}
	lines, err := r.findLines(ctx, header.DocumentID)
	if err != nil {
		return nil, err
	}
	doc, err := mapping.ToDomainDocument(header, lines)
	if err != nil {
		return nil, mapError("decode document", err)
	}
	return &doc, nil
}

func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, businessID, documentID string) (*domain.Document, error) {
	return r.findDocument(ctx, "document", documentID,
		"business_id = $1 AND document_id = $2", businessID, documentID)
}

// FindDocumentByIDForUpdate locks the header row; lines are immutable once written.
func (r *PgxDocumentRepository) FindDocumentByIDForUpdate(ctx context.Context, businessID, documentID string) (*domain.Document, error) {
	return r.findDocument(ctx, "document", documentID,
		"business_id = $1 AND document_id = $2 FOR UPDATE", businessID, documentID)
}

func (r *PgxDocumentRepository) FindDocumentByNumber(ctx context.Context, businessID string, kind domain.DocumentKind, number string) (*domain.Document, error) {
	return r.findDocument(ctx, string(kind), number,
		"business_id = $1 AND kind = $2 AND number = $3", businessID, string(kind), number)
}

// SaveDocument inserts the header and its lines. A reused number surfaces as a duplicate.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	m := mapping.ToModelDocument(doc)
	_, err := r.DB.Exec(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);`,
		m.DocumentID,
		m.BusinessID,
		m.Kind,
		m.Number,
		m.Counterparty.Type,
		m.Counterparty.ID,
		m.DocumentDate,
		m.DueDate,
		m.Subtotal,
		m.TaxAmount,
		m.DiscountAmount,
		m.TotalAmount,
		m.PaidAmount,
		m.BalanceDue,
		m.Status,
		m.CancelReason,
		m.PayloadHash,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.DeletedAt,
	)
	if err != nil {
		return mapError("insert document "+m.Number, err)
	}

	batch := &pgx.Batch{}
	for _, line := range doc.Lines {
		l := mapping.ToModelDocumentLine(line)
		batch.Queue(`
			INSERT INTO document_lines (line_id, document_id, line_no, product_id, location_id, account_id,
				description, quantity, unit_price, unit_cost, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`,
			l.LineID,
			m.DocumentID,
			l.LineNo,
			l.ProductID,
			l.LocationID,
			l.AccountID,
			l.Description,
			l.Quantity,
			l.UnitPrice,
			l.UnitCost,
			l.LineTotal,
		)
	}
	return execBatch(ctx, r.DB, "insert document lines for "+m.Number, batch)
}

func (r *PgxDocumentRepository) UpdateDocumentState(ctx context.Context, doc domain.Document) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE documents
		SET paid_amount = $2, balance_due = $3, status = $4, cancel_reason = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE document_id = $1 AND deleted_at IS NULL;`,
		doc.DocumentID,
		doc.PaidAmount,
		doc.BalanceDue,
		string(doc.Status),
		doc.CancelReason,
		doc.LastUpdatedAt,
		doc.LastUpdatedBy,
	)
	if err != nil {
		return mapError("update document "+doc.DocumentID, err)
	}
	return expectOne(tag, "document", doc.DocumentID)
}
