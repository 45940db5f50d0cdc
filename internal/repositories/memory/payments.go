package memory

import (
	"context"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
)

type paymentRepo struct{ sc scope }

var _ portsrepo.PaymentRepositoryFacade = (*paymentRepo)(nil)

func clonePayment(p domain.Payment) domain.Payment {
	p.Allocations = append([]domain.PaymentAllocation(nil), p.Allocations...)
	return p
}

func (r *paymentRepo) FindPaymentByID(_ context.Context, businessID, paymentID string) (*domain.Payment, error) {
	var out *domain.Payment
	err := r.sc.read(func(st *state) error {
		p, ok := st.payments[paymentID]
		if !ok || p.BusinessID != businessID || !activeRecord(p.SoftDelete) {
			return apperrors.NewNotFoundError("payment", paymentID)
		}
		c := clonePayment(p)
		out = &c
		return nil
	})
	return out, err
}

func (r *paymentRepo) FindPaymentByIDForUpdate(ctx context.Context, businessID, paymentID string) (*domain.Payment, error) {
	return r.FindPaymentByID(ctx, businessID, paymentID)
}

func (r *paymentRepo) FindPaymentByReference(_ context.Context, businessID, reference string) (*domain.Payment, error) {
	var out *domain.Payment
	err := r.sc.read(func(st *state) error {
		id, ok := st.paymentRefs[payRefKey{businessID, reference}]
		if !ok {
			return apperrors.NewNotFoundError("payment", reference)
		}
		c := clonePayment(st.payments[id])
		out = &c
		return nil
	})
	return out, err
}

func (r *paymentRepo) SavePayment(_ context.Context, payment domain.Payment) error {
	return r.sc.write(func(st *state) error {
		if _, exists := st.payments[payment.PaymentID]; exists {
			return apperrors.ErrDuplicate
		}
		if payment.Reference != "" {
			key := payRefKey{payment.BusinessID, payment.Reference}
			if _, exists := st.paymentRefs[key]; exists {
				return apperrors.ErrDuplicate
			}
			st.paymentRefs[key] = payment.PaymentID
		}
		payment.Allocations = nil
		st.payments[payment.PaymentID] = payment
		return nil
	})
}

func (r *paymentRepo) SaveAllocations(_ context.Context, allocations []domain.PaymentAllocation) error {
	return r.sc.write(func(st *state) error {
		for _, a := range allocations {
			p, ok := st.payments[a.PaymentID]
			if !ok {
				return apperrors.NewNotFoundError("payment", a.PaymentID)
			}
			p = clonePayment(p)
			p.Allocations = append(p.Allocations, a)
			st.payments[a.PaymentID] = p
		}
		return nil
	})
}

func (r *paymentRepo) UpdatePaymentState(_ context.Context, payment domain.Payment) error {
	return r.sc.write(func(st *state) error {
		cur, ok := st.payments[payment.PaymentID]
		if !ok {
			return apperrors.NewNotFoundError("payment", payment.PaymentID)
		}
		cur.Status = payment.Status
		cur.RefundedAmount = payment.RefundedAmount
		cur.AuditFields = payment.AuditFields
		st.payments[payment.PaymentID] = cur
		return nil
	})
}
