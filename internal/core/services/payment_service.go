package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
)

// paymentService records payments and spreads them over documents.
type paymentService struct {
	BaseService
	accountSvc  portssvc.AccountTxSvc
	journalSvc  portssvc.JournalTxSvc
	documentSvc portssvc.DocumentTxSvc
}

// NewPaymentService creates a new payment service.
func NewPaymentService(provider portsrepo.RepositoryProvider, accountSvc portssvc.AccountTxSvc, journalSvc portssvc.JournalTxSvc, documentSvc portssvc.DocumentTxSvc, options ...ServiceOption) portssvc.PaymentSvcFacade {
	return &paymentService{
		BaseService: newBaseService(provider, options...),
		accountSvc:  accountSvc,
		journalSvc:  journalSvc,
		documentSvc: documentSvc,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// samePayment reports whether a replayed request describes the stored payment.
func samePayment(stored, req domain.Payment) bool {
	return stored.Amount.Equal(req.Amount) &&
		stored.BankAccountID == req.BankAccountID &&
		stored.SourceType == req.SourceType &&
		domain.SameReference(stored.Source, req.Source)
}

func (s *paymentService) CreatePaymentTx(ctx context.Context, repos portsrepo.Repositories, businessID string, payment domain.Payment, userID string) (*domain.Payment, error) {
	if !payment.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount", "must be positive")
	}
	if !payment.SourceType.Valid() {
		return nil, apperrors.NewValidationError("sourceType", "unknown source type %q", payment.SourceType)
	}
	if payment.Payer != nil && !domain.IsParty(payment.Payer) {
		return nil, apperrors.NewValidationError("payer", "must be a customer or vendor")
	}
	switch payment.Status {
	case "":
		payment.Status = domain.PaymentCompleted
	case domain.PaymentPending, domain.PaymentCompleted, domain.PaymentFailed:
	default:
		return nil, apperrors.NewValidationError("paymentStatus", "a new payment cannot be %s", payment.Status)
	}
	payment.Reference = strings.TrimSpace(payment.Reference)

	if payment.Reference != "" {
		existing, err := repos.Payments.FindPaymentByReference(ctx, businessID, payment.Reference)
		switch {
		case err == nil:
			if !samePayment(*existing, payment) {
				return nil, apperrors.NewValidationError("reference", "payment reference %q was already used for a different payment", payment.Reference)
			}
			return existing, nil
		case !errors.Is(err, apperrors.ErrNotFound):
			return nil, err
		}
	}

	accounts, err := s.accountSvc.ResolveActiveAccountsTx(ctx, repos, businessID, []string{payment.BankAccountID})
	if err != nil {
		return nil, err
	}
	if !accounts[payment.BankAccountID].AccountType.IsMoneyAccount() {
		return nil, apperrors.NewValidationError("bankAccountID", "account %s is not a bank or cash account", payment.BankAccountID)
	}

	now := s.now()
	payment.PaymentID = uuid.NewString()
	payment.BusinessID = businessID
	payment.RefundedAmount = decimal.Zero
	payment.Allocations = nil
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = now
	}
	payment.AuditFields = domain.NewAuditFields(userID, now)

	if err := repos.Payments.SavePayment(ctx, payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// CreatePayment records a payment. A concurrent insert of the same reference is answered
// with the payment that won.
func (s *paymentService) CreatePayment(ctx context.Context, businessID string, payment domain.Payment, userID string) (*domain.Payment, error) {
	var created *domain.Payment
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		created, err = s.CreatePaymentTx(ctx, repos, businessID, payment, userID)
		return err
	})
	if errors.Is(err, apperrors.ErrDuplicate) && payment.Reference != "" {
		existing, findErr := s.repos().Payments.FindPaymentByReference(ctx, businessID, strings.TrimSpace(payment.Reference))
		if findErr == nil {
			if samePayment(*existing, payment) {
				return existing, nil
			}
			err = apperrors.NewValidationError("reference", "payment reference %q was already used for a different payment", payment.Reference)
		}
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to create payment", slog.String("business_id", businessID))
		return nil, err
	}
	s.LogInfo(ctx, "Payment recorded",
		slog.String("payment_id", created.PaymentID),
		slog.String("amount", created.Amount.String()))
	return created, nil
}

func (s *paymentService) GetPayment(ctx context.Context, businessID string, paymentID string) (*domain.Payment, error) {
	p, err := s.repos().Payments.FindPaymentByID(ctx, businessID, paymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find payment", slog.String("payment_id", paymentID))
		}
		return nil, err
	}
	return p, nil
}

// controlRule returns the receivable or payable rule money of this payment settles against.
func controlRule(p domain.Payment) domain.PostingRule {
	if p.SourceType.Inbound() {
		return domain.RuleAccountsReceivable
	}
	return domain.RuleAccountsPayable
}

func validateAllocationInputs(allocations []domain.AllocationInput) (decimal.Decimal, error) {
	if len(allocations) == 0 {
		return decimal.Zero, apperrors.NewValidationError("allocations", "at least one allocation is required")
	}
	total := decimal.Zero
	for i, a := range allocations {
		if !a.Amount.IsPositive() {
			return decimal.Zero, apperrors.NewValidationError("allocations", "allocation %d amount must be positive", i+1)
		}
		switch a.Type {
		case domain.AllocationInvoice, domain.AllocationAdjustment:
			if a.DocumentID == "" {
				return decimal.Zero, apperrors.NewValidationError("allocations", "allocation %d needs a document", i+1)
			}
		case domain.AllocationAdvance:
			if a.DocumentID != "" {
				return decimal.Zero, apperrors.NewValidationError("allocations", "advance allocation %d must not name a document", i+1)
			}
		case domain.AllocationRefund:
			return decimal.Zero, apperrors.NewValidationError("allocations", "refunds go through the refund operation")
		default:
			return decimal.Zero, apperrors.NewValidationError("allocations", "unknown allocation type %q", a.Type)
		}
		total = total.Add(a.Amount)
	}
	return total, nil
}

func (s *paymentService) AllocateTx(ctx context.Context, repos portsrepo.Repositories, businessID string, paymentID string, allocations []domain.AllocationInput, userID string) (*domain.Payment, error) {
	requested, err := validateAllocationInputs(allocations)
	if err != nil {
		return nil, err
	}
	p, err := repos.Payments.FindPaymentByIDForUpdate(ctx, businessID, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PaymentCompleted {
		return nil, apperrors.NewValidationError("paymentID", "payment %s is %s, only completed payments can be allocated", paymentID, p.Status)
	}
	if p.SourceType == domain.SourceOthers {
		return nil, apperrors.NewValidationError("paymentID", "payments of source type %s cannot be allocated", p.SourceType)
	}
	if requested.GreaterThan(p.Unallocated()) {
		return nil, &apperrors.OverAllocationError{
			PaymentID: p.PaymentID,
			Available: p.Unallocated(),
			Requested: requested,
		}
	}

	now := s.now()
	records := make([]domain.PaymentAllocation, 0, len(allocations))
	for _, a := range allocations {
		if a.Type.TargetsDocument() {
			doc, err := s.documentSvc.LockTx(ctx, repos, businessID, a.DocumentID)
			if err != nil {
				return nil, err
			}
			if !p.SourceType.Accepts(doc.Kind) {
				return nil, apperrors.NewValidationError("allocations", "a %s payment cannot settle a %s", p.SourceType, doc.Kind)
			}
			if _, err := s.documentSvc.ApplyPaymentTx(ctx, repos, businessID, a.DocumentID, a.Amount, userID); err != nil {
				return nil, err
			}
		}
		records = append(records, domain.PaymentAllocation{
			AllocationID:        uuid.NewString(),
			PaymentID:           p.PaymentID,
			AllocationType:      a.Type,
			SourceTransactionID: a.DocumentID,
			AllocatedAmount:     a.Amount,
			Reason:              a.Reason,
			CreatedAt:           now,
			CreatedBy:           userID,
		})
	}
	if err := repos.Payments.SaveAllocations(ctx, records); err != nil {
		return nil, err
	}

	if err := s.postCash(ctx, repos, businessID, *p, requested, false, "Payment", userID); err != nil {
		return nil, err
	}
	return repos.Payments.FindPaymentByID(ctx, businessID, paymentID)
}

// postCash books amount of p through its bank account. reverse books a refund.
func (s *paymentService) postCash(ctx context.Context, repos portsrepo.Repositories, businessID string, p domain.Payment, amount decimal.Decimal, reverse bool, memo string, userID string) error {
	if !amount.IsPositive() {
		return nil
	}
	rules, err := s.accountSvc.PostingAccountsTx(ctx, repos, businessID)
	if err != nil {
		return err
	}
	control := controlRule(p)
	accounts, err := requireRules(rules, control)
	if err != nil {
		return err
	}
	draft := domain.JournalDraft{
		Date:      s.now(),
		Memo:      fmt.Sprintf("%s %s", memo, p.PaymentID),
		Reference: p.Reference,
		Source:    domain.PaymentRef{ID: p.PaymentID},
		Lines:     cashLines(p.SourceType.Inbound(), reverse, p.BankAccountID, accounts[control], amount, p.Payer),
	}
	_, err = s.journalSvc.PostTx(ctx, repos, businessID, draft, userID)
	return err
}

func (s *paymentService) Allocate(ctx context.Context, businessID string, paymentID string, allocations []domain.AllocationInput, userID string) (*domain.Payment, error) {
	var p *domain.Payment
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		p, err = s.AllocateTx(ctx, repos, businessID, paymentID, allocations, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to allocate payment", slog.String("payment_id", paymentID))
		return nil, err
	}
	s.LogInfo(ctx, "Payment allocated",
		slog.String("payment_id", paymentID),
		slog.Int("allocation_count", len(allocations)))
	return p, nil
}

// Refund returns amount of a payment. Money that was never allocated goes first; the rest
// unwinds allocations newest first and reopens the documents they paid.
func (s *paymentService) Refund(ctx context.Context, businessID string, paymentID string, amount decimal.Decimal, reason string, userID string) (*domain.Payment, error) {
	if !amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount", "must be positive")
	}
	var refunded *domain.Payment
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		p, err := repos.Payments.FindPaymentByIDForUpdate(ctx, businessID, paymentID)
		if err != nil {
			return err
		}
		if p.Status != domain.PaymentCompleted {
			return apperrors.NewValidationError("paymentID", "payment %s is %s, only completed payments can be refunded", paymentID, p.Status)
		}
		if amount.GreaterThan(p.Refundable()) {
			return apperrors.NewValidationError("amount", "refund %s exceeds refundable %s", amount, p.Refundable())
		}

		free := p.Unallocated()
		if free.IsNegative() {
			free = decimal.Zero
		}
		remaining := amount.Sub(minDecimal(amount, free))
		fromAllocations := remaining

		net := make(map[string]decimal.Decimal)
		for _, a := range p.Allocations {
			net[a.SourceTransactionID] = net[a.SourceTransactionID].Add(a.AllocatedAmount)
		}

		now := s.now()
		var records []domain.PaymentAllocation
		for i := len(p.Allocations) - 1; i >= 0 && remaining.IsPositive(); i-- {
			a := p.Allocations[i]
			if a.AllocationType == domain.AllocationRefund || !a.AllocatedAmount.IsPositive() {
				continue
			}
			take := minDecimal(remaining, minDecimal(a.AllocatedAmount, net[a.SourceTransactionID]))
			if !take.IsPositive() {
				continue
			}
			if a.SourceTransactionID != "" {
				if _, err := s.documentSvc.RevertPaymentTx(ctx, repos, businessID, a.SourceTransactionID, take, userID); err != nil {
					return err
				}
			}
			net[a.SourceTransactionID] = net[a.SourceTransactionID].Sub(take)
			remaining = remaining.Sub(take)
			records = append(records, domain.PaymentAllocation{
				AllocationID:        uuid.NewString(),
				PaymentID:           p.PaymentID,
				AllocationType:      domain.AllocationRefund,
				SourceTransactionID: a.SourceTransactionID,
				AllocatedAmount:     take.Neg(),
				Reason:              reason,
				CreatedAt:           now,
				CreatedBy:           userID,
			})
		}
		if remaining.IsPositive() {
			return fmt.Errorf("%w: payment %s allocations do not cover refund of %s", apperrors.ErrInternal, paymentID, amount)
		}
		if len(records) > 0 {
			if err := repos.Payments.SaveAllocations(ctx, records); err != nil {
				return err
			}
		}
		if err := s.postCash(ctx, repos, businessID, *p, fromAllocations, true, "Refund of payment", userID); err != nil {
			return err
		}

		p.RefundedAmount = p.RefundedAmount.Add(amount)
		if p.Refundable().IsZero() {
			p.Status = domain.PaymentRefunded
		}
		p.Touch(userID, now)
		if err := repos.Payments.UpdatePaymentState(ctx, *p); err != nil {
			return err
		}
		refunded, err = repos.Payments.FindPaymentByID(ctx, businessID, paymentID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to refund payment", slog.String("payment_id", paymentID))
		return nil, err
	}
	s.LogInfo(ctx, "Payment refunded",
		slog.String("payment_id", paymentID),
		slog.String("amount", amount.String()))
	return refunded, nil
}
