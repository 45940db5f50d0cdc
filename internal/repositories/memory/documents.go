package memory

import (
	"context"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
)

type documentRepo struct{ sc scope }

var _ portsrepo.DocumentRepositoryFacade = (*documentRepo)(nil)

func cloneDocument(d domain.Document) domain.Document {
	d.Lines = append([]domain.DocumentLine(nil), d.Lines...)
	return d
}

func (r *documentRepo) FindDocumentByID(_ context.Context, businessID, documentID string) (*domain.Document, error) {
	var out *domain.Document
	err := r.sc.read(func(st *state) error {
		d, ok := st.documents[documentID]
		if !ok || d.BusinessID != businessID || !activeRecord(d.SoftDelete) {
			return apperrors.NewNotFoundError("document", documentID)
		}
		c := cloneDocument(d)
		out = &c
		return nil
	})
	return out, err
}

func (r *documentRepo) FindDocumentByIDForUpdate(ctx context.Context, businessID, documentID string) (*domain.Document, error) {
	return r.FindDocumentByID(ctx, businessID, documentID)
}

func (r *documentRepo) FindDocumentByNumber(_ context.Context, businessID string, kind domain.DocumentKind, number string) (*domain.Document, error) {
	var out *domain.Document
	err := r.sc.read(func(st *state) error {
		id, ok := st.docNumbers[docKey{businessID, kind, number}]
		if !ok {
			return apperrors.NewNotFoundError(string(kind), number)
		}
		d := cloneDocument(st.documents[id])
		if !activeRecord(d.SoftDelete) {
			return apperrors.NewNotFoundError(string(kind), number)
		}
		out = &d
		return nil
	})
	return out, err
}

func (r *documentRepo) SaveDocument(_ context.Context, doc domain.Document) error {
	return r.sc.write(func(st *state) error {
		key := docKey{doc.BusinessID, doc.Kind, doc.Number}
		if _, exists := st.docNumbers[key]; exists {
			return apperrors.ErrDuplicate
		}
		if _, exists := st.documents[doc.DocumentID]; exists {
			return apperrors.ErrDuplicate
		}
		st.documents[doc.DocumentID] = cloneDocument(doc)
		st.docNumbers[key] = doc.DocumentID
		return nil
	})
}

func (r *documentRepo) UpdateDocumentState(_ context.Context, doc domain.Document) error {
	return r.sc.write(func(st *state) error {
		cur, ok := st.documents[doc.DocumentID]
		if !ok || !activeRecord(cur.SoftDelete) {
			return apperrors.NewNotFoundError("document", doc.DocumentID)
		}
		cur.PaidAmount = doc.PaidAmount
		cur.BalanceDue = doc.BalanceDue
		cur.Status = doc.Status
		cur.CancelReason = doc.CancelReason
		cur.AuditFields = doc.AuditFields
		st.documents[doc.DocumentID] = cur
		return nil
	})
}
