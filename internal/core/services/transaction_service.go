package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/utils/accounting"
)

// transactionService composes the engines so a business document and all of its effects are
// recorded in one unit of work.
type transactionService struct {
	BaseService
	accountSvc   portssvc.AccountTxSvc
	journalSvc   portssvc.JournalTxSvc
	inventorySvc portssvc.InventoryTxSvc
	documentSvc  portssvc.DocumentTxSvc
	paymentSvc   portssvc.PaymentTxSvc
}

// TransactionDeps lists the engines the orchestrator drives.
type TransactionDeps struct {
	Accounts  portssvc.AccountTxSvc
	Journals  portssvc.JournalTxSvc
	Inventory portssvc.InventoryTxSvc
	Documents portssvc.DocumentTxSvc
	Payments  portssvc.PaymentTxSvc
}

// NewTransactionService creates the transaction orchestrator.
func NewTransactionService(provider portsrepo.RepositoryProvider, deps TransactionDeps, options ...ServiceOption) portssvc.TransactionSvcFacade {
	return &transactionService{
		BaseService:  newBaseService(provider, options...),
		accountSvc:   deps.Accounts,
		journalSvc:   deps.Journals,
		inventorySvc: deps.Inventory,
		documentSvc:  deps.Documents,
		paymentSvc:   deps.Payments,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

var kindLabels = map[domain.DocumentKind]string{
	domain.KindSale:     "Sale",
	domain.KindPurchase: "Purchase",
	domain.KindInvoice:  "Invoice",
	domain.KindExpense:  "Expense",
}

func (s *transactionService) RecordSale(ctx context.Context, businessID string, req dto.DocumentRequest, userID string) (*domain.DocumentOutcome, error) {
	return s.record(ctx, businessID, domain.KindSale, req, userID)
}

func (s *transactionService) RecordPurchase(ctx context.Context, businessID string, req dto.DocumentRequest, userID string) (*domain.DocumentOutcome, error) {
	return s.record(ctx, businessID, domain.KindPurchase, req, userID)
}

func (s *transactionService) RecordExpense(ctx context.Context, businessID string, req dto.DocumentRequest, userID string) (*domain.DocumentOutcome, error) {
	return s.record(ctx, businessID, domain.KindExpense, req, userID)
}

func (s *transactionService) RecordInvoice(ctx context.Context, businessID string, req dto.DocumentRequest, userID string) (*domain.DocumentOutcome, error) {
	return s.record(ctx, businessID, domain.KindInvoice, req, userID)
}

func paymentFromInfo(kind domain.DocumentKind, info dto.PaymentInfoRequest, payer domain.Reference) domain.Payment {
	p := domain.Payment{
		Amount:        info.Amount,
		SourceType:    domain.SourceTypeFor(kind),
		Payer:         payer,
		BankAccountID: info.BankAccountID,
		Method:        info.Method,
		Reference:     info.Reference,
		Status:        domain.PaymentCompleted,
	}
	if info.PaymentDate != nil {
		p.PaymentDate = *info.PaymentDate
	}
	return p
}

// record creates a document of kind with its stock, ledger and payment effects. The document
// number is the idempotency key: an identical retry is answered with the stored document.
func (s *transactionService) record(ctx context.Context, businessID string, kind domain.DocumentKind, req dto.DocumentRequest, userID string) (*domain.DocumentOutcome, error) {
	doc, err := req.ToDocument(kind, s.defaultLocation)
	if err != nil {
		return nil, apperrors.NewValidationError("counterparty", "%v", err)
	}
	var payment *domain.Payment
	if req.Payment != nil {
		if req.Draft {
			return nil, apperrors.NewValidationError("payment", "a draft document cannot be paid")
		}
		p := paymentFromInfo(kind, *req.Payment, doc.Counterparty)
		payment = &p
	}
	doc.PayloadHash = accounting.PayloadHash(doc, payment)

	var outcome *domain.DocumentOutcome
	err = s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		existing, err := s.documentSvc.FindByNumberTx(ctx, repos, businessID, kind, doc.Number)
		switch {
		case err == nil:
			outcome, err = s.replay(ctx, repos, businessID, existing, doc.PayloadHash)
			return err
		case !errors.Is(err, apperrors.ErrNotFound):
			return err
		}

		created, err := s.documentSvc.CreateWithLinesTx(ctx, repos, businessID, doc, userID)
		if err != nil {
			return err
		}
		outcome = &domain.DocumentOutcome{Document: created}

		if created.Status == domain.StatusDraft {
			if kind == domain.KindSale {
				return s.reserveLinesTx(ctx, repos, businessID, created, userID)
			}
			return nil
		}

		if err := s.settleEffectsTx(ctx, repos, businessID, created, userID, outcome); err != nil {
			return err
		}
		if payment == nil {
			return nil
		}

		pay := *payment
		pay.Source = created.Reference()
		p, err := s.paymentSvc.CreatePaymentTx(ctx, repos, businessID, pay, userID)
		if err != nil {
			return err
		}
		alloc := []domain.AllocationInput{{Type: domain.AllocationInvoice, DocumentID: created.DocumentID, Amount: p.Amount}}
		if outcome.Payment, err = s.paymentSvc.AllocateTx(ctx, repos, businessID, p.PaymentID, alloc, userID); err != nil {
			return err
		}
		outcome.Document, err = repos.Documents.FindDocumentByID(ctx, businessID, created.DocumentID)
		return err
	})

	if errors.Is(err, apperrors.ErrDuplicate) {
		// Lost the unique-number race to a concurrent request.
		repos := s.repos()
		if existing, findErr := repos.Documents.FindDocumentByNumber(ctx, businessID, kind, doc.Number); findErr == nil {
			outcome, err = s.replay(ctx, repos, businessID, existing, doc.PayloadHash)
		}
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to record document",
			slog.String("kind", string(kind)),
			slog.String("number", doc.Number))
		return nil, err
	}

	s.LogInfo(ctx, "Document recorded",
		slog.String("document_id", outcome.Document.DocumentID),
		slog.String("kind", string(kind)),
		slog.Bool("replayed", outcome.Replayed))
	return outcome, nil
}

// replay answers a retried request from what the first one stored.
func (s *transactionService) replay(ctx context.Context, repos portsrepo.Repositories, businessID string, existing *domain.Document, payloadHash string) (*domain.DocumentOutcome, error) {
	if existing.PayloadHash != payloadHash {
		return nil, apperrors.NewValidationError("number", "%s number %q was already used with a different payload", existing.Kind, existing.Number)
	}
	outcome := &domain.DocumentOutcome{Document: existing, Replayed: true}
	journals, err := repos.Journals.FindPostedJournalsBySource(ctx, businessID, existing.Reference())
	if err != nil {
		return nil, err
	}
	if len(journals) > 0 {
		outcome.Journal = &journals[0]
	}
	if outcome.Movements, err = repos.Inventory.FindMovementsByReference(ctx, businessID, existing.Reference()); err != nil {
		return nil, err
	}
	return outcome, nil
}

// stockedLines returns the lines of doc that move inventory, ordered by stock key so that
// concurrent documents lock inventory rows in the same order.
func stockedLines(doc *domain.Document) []domain.DocumentLine {
	lines := make([]domain.DocumentLine, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		if l.IsStocked() {
			lines = append(lines, l)
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].ProductID != lines[j].ProductID {
			return lines[i].ProductID < lines[j].ProductID
		}
		return lines[i].LocationID < lines[j].LocationID
	})
	return lines
}

func (s *transactionService) reserveLinesTx(ctx context.Context, repos portsrepo.Repositories, businessID string, doc *domain.Document, userID string) error {
	for _, l := range stockedLines(doc) {
		key := domain.StockKey{ProductID: l.ProductID, LocationID: l.LocationID}
		if _, err := s.inventorySvc.ReserveTx(ctx, repos, businessID, key, l.Quantity, userID); err != nil {
			return err
		}
	}
	return nil
}

func (s *transactionService) releaseLinesTx(ctx context.Context, repos portsrepo.Repositories, businessID string, doc *domain.Document, userID string) error {
	for _, l := range stockedLines(doc) {
		key := domain.StockKey{ProductID: l.ProductID, LocationID: l.LocationID}
		if _, err := s.inventorySvc.ReleaseTx(ctx, repos, businessID, key, l.Quantity, userID); err != nil {
			return err
		}
	}
	return nil
}

// stockLinesTx moves the stocked lines of doc in the given direction and returns the total cost moved.
func (s *transactionService) stockLinesTx(ctx context.Context, repos portsrepo.Repositories, businessID string, doc *domain.Document, mt domain.MovementType, userID string, outcome *domain.DocumentOutcome) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range stockedLines(doc) {
		cost := l.UnitCost
		if mt == domain.MovementIn && cost.IsZero() {
			cost = l.UnitPrice
		}
		m, err := s.inventorySvc.RecordMovementTx(ctx, repos, businessID, domain.MovementInput{
			ProductID:  l.ProductID,
			LocationID: l.LocationID,
			Type:       mt,
			Quantity:   l.Quantity,
			UnitCost:   cost,
			Reference:  doc.Reference(),
			Notes:      fmt.Sprintf("%s %s line %d", kindLabels[doc.Kind], doc.Number, l.LineNo),
		}, userID)
		if err != nil {
			return decimal.Zero, err
		}
		outcome.Movements = append(outcome.Movements, *m)
		total = total.Add(m.TotalCost)
	}
	return total, nil
}

// settleEffectsTx books the stock movements and the settlement journal entry of doc. The whole
// total goes to AR or AP; money received or paid is booked by the payment that settles it.
func (s *transactionService) settleEffectsTx(ctx context.Context, repos portsrepo.Repositories, businessID string, doc *domain.Document, userID string, outcome *domain.DocumentOutcome) error {
	rules, err := s.accountSvc.PostingAccountsTx(ctx, repos, businessID)
	if err != nil {
		return err
	}

	var b entryBuilder
	party := doc.Counterparty
	book := func(debit bool, rule domain.PostingRule, amount decimal.Decimal) error {
		if !amount.IsPositive() {
			return nil
		}
		ids, err := requireRules(rules, rule)
		if err != nil {
			return err
		}
		if debit {
			b.debit(ids[rule], amount, party)
		} else {
			b.credit(ids[rule], amount, party)
		}
		return nil
	}

	total := doc.TotalAmount
	net := total.Sub(doc.TaxAmount)

	switch doc.Kind {
	case domain.KindSale, domain.KindInvoice:
		cogs := decimal.Zero
		if doc.Kind == domain.KindSale {
			if cogs, err = s.stockLinesTx(ctx, repos, businessID, doc, domain.MovementOut, userID, outcome); err != nil {
				return err
			}
		}
		steps := []error{
			book(true, domain.RuleAccountsReceivable, total),
			book(false, domain.RuleSalesRevenue, net),
			book(false, domain.RuleTax, doc.TaxAmount),
			book(true, domain.RuleCOGS, cogs),
			book(false, domain.RuleInventory, cogs),
		}
		if err := firstError(steps); err != nil {
			return err
		}

	case domain.KindPurchase:
		stocked, err := s.stockLinesTx(ctx, repos, businessID, doc, domain.MovementIn, userID, outcome)
		if err != nil {
			return err
		}
		inventoryShare := minDecimal(stocked, net)
		steps := []error{
			book(true, domain.RuleInventory, inventoryShare),
			book(true, domain.RuleExpense, net.Sub(inventoryShare)),
			book(true, domain.RuleTax, doc.TaxAmount),
			book(false, domain.RuleAccountsPayable, total),
		}
		if err := firstError(steps); err != nil {
			return err
		}

	case domain.KindExpense:
		if err := s.bookExpenseLines(&b, rules, doc, net); err != nil {
			return err
		}
		steps := []error{
			book(true, domain.RuleTax, doc.TaxAmount),
			book(false, domain.RuleAccountsPayable, total),
		}
		if err := firstError(steps); err != nil {
			return err
		}
	}

	if b.empty() {
		return nil
	}
	entry, err := s.journalSvc.PostTx(ctx, repos, businessID, domain.JournalDraft{
		Date:      doc.Date,
		Memo:      fmt.Sprintf("%s %s", kindLabels[doc.Kind], doc.Number),
		Reference: doc.Number,
		Source:    doc.Reference(),
		Lines:     b.lines,
	}, userID)
	if err != nil {
		return err
	}
	outcome.Journal = entry
	return nil
}

// bookExpenseLines debits each line's account, or the EXPENSE rule account when a line names
// none. net is spread over the lines; a discount reduces the groups in order.
func (s *transactionService) bookExpenseLines(b *entryBuilder, rules domain.PostingAccounts, doc *domain.Document, net decimal.Decimal) error {
	var order []string
	amounts := make(map[string]decimal.Decimal)
	for _, l := range doc.Lines {
		acc := l.AccountID
		if acc == "" {
			ids, err := requireRules(rules, domain.RuleExpense)
			if err != nil {
				return err
			}
			acc = ids[domain.RuleExpense]
		}
		if _, seen := amounts[acc]; !seen {
			order = append(order, acc)
		}
		amounts[acc] = amounts[acc].Add(l.LineTotal)
	}

	diff := net.Sub(doc.Subtotal)
	if diff.IsPositive() && len(order) > 0 {
		amounts[order[0]] = amounts[order[0]].Add(diff)
	}
	for _, acc := range order {
		if !diff.IsNegative() {
			break
		}
		cut := minDecimal(diff.Neg(), amounts[acc])
		amounts[acc] = amounts[acc].Sub(cut)
		diff = diff.Add(cut)
	}

	for _, acc := range order {
		b.debit(acc, amounts[acc], doc.Counterparty)
	}
	return nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// SettleDocument books a draft: its reservations become stock movements and its ledger entry is posted.
func (s *transactionService) SettleDocument(ctx context.Context, businessID string, documentID string, userID string) (*domain.DocumentOutcome, error) {
	var outcome *domain.DocumentOutcome
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		doc, err := s.documentSvc.LockTx(ctx, repos, businessID, documentID)
		if err != nil {
			return err
		}
		if doc.Status != domain.StatusDraft {
			return apperrors.NewValidationError("documentID", "only draft documents can be settled, %s is %s", documentID, doc.Status)
		}
		if doc.Kind == domain.KindSale {
			if err := s.releaseLinesTx(ctx, repos, businessID, doc, userID); err != nil {
				return err
			}
		}
		settled, err := s.documentSvc.SettleTx(ctx, repos, businessID, documentID, userID)
		if err != nil {
			return err
		}
		outcome = &domain.DocumentOutcome{Document: settled}
		return s.settleEffectsTx(ctx, repos, businessID, settled, userID, outcome)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to settle document", slog.String("document_id", documentID))
		return nil, err
	}
	s.LogInfo(ctx, "Document settled", slog.String("document_id", documentID))
	return outcome, nil
}

// ApplyPayment records money against a document: the payment, its allocation and the cash entry.
// A payment reference seen before is answered with the stored payment.
func (s *transactionService) ApplyPayment(ctx context.Context, businessID string, documentID string, req dto.PaymentInfoRequest, userID string) (*domain.DocumentOutcome, error) {
	var outcome *domain.DocumentOutcome
	var payment domain.Payment
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		doc, err := s.documentSvc.LockTx(ctx, repos, businessID, documentID)
		if err != nil {
			return err
		}
		payment = paymentFromInfo(doc.Kind, req, doc.Counterparty)
		payment.Source = doc.Reference()

		p, err := s.paymentSvc.CreatePaymentTx(ctx, repos, businessID, payment, userID)
		if err != nil {
			return err
		}
		if len(p.Allocations) > 0 {
			outcome, err = s.paymentOutcome(ctx, repos, businessID, documentID, p, true)
			return err
		}

		alloc := []domain.AllocationInput{{Type: domain.AllocationInvoice, DocumentID: documentID, Amount: p.Amount}}
		if p, err = s.paymentSvc.AllocateTx(ctx, repos, businessID, p.PaymentID, alloc, userID); err != nil {
			return err
		}
		outcome, err = s.paymentOutcome(ctx, repos, businessID, documentID, p, false)
		return err
	})
	if errors.Is(err, apperrors.ErrDuplicate) && payment.Reference != "" {
		repos := s.repos()
		if existing, findErr := repos.Payments.FindPaymentByReference(ctx, businessID, payment.Reference); findErr == nil && samePayment(*existing, payment) {
			outcome, err = s.paymentOutcome(ctx, repos, businessID, documentID, existing, true)
		}
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to apply payment", slog.String("document_id", documentID))
		return nil, err
	}
	s.LogInfo(ctx, "Payment applied to document",
		slog.String("document_id", documentID),
		slog.String("payment_id", outcome.Payment.PaymentID),
		slog.Bool("replayed", outcome.Replayed))
	return outcome, nil
}

func (s *transactionService) paymentOutcome(ctx context.Context, repos portsrepo.Repositories, businessID, documentID string, p *domain.Payment, replayed bool) (*domain.DocumentOutcome, error) {
	doc, err := repos.Documents.FindDocumentByID(ctx, businessID, documentID)
	if err != nil {
		return nil, err
	}
	outcome := &domain.DocumentOutcome{Document: doc, Payment: p, Replayed: replayed}
	journals, err := repos.Journals.FindPostedJournalsBySource(ctx, businessID, domain.PaymentRef{ID: p.PaymentID})
	if err != nil {
		return nil, err
	}
	if len(journals) > 0 {
		outcome.Journal = &journals[len(journals)-1]
	}
	return outcome, nil
}

// CancelDocument cancels a document and undoes what it booked: reservations of a draft sale are
// released; a settled document has its entries reversed and its stock moved back.
func (s *transactionService) CancelDocument(ctx context.Context, businessID string, documentID string, reason string, userID string) (*domain.DocumentOutcome, error) {
	var outcome *domain.DocumentOutcome
	err := s.inTx(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		doc, err := s.documentSvc.LockTx(ctx, repos, businessID, documentID)
		if err != nil {
			return err
		}
		previous := doc.Status
		cancelled, err := s.documentSvc.CancelTx(ctx, repos, businessID, documentID, reason, userID)
		if err != nil {
			return err
		}
		outcome = &domain.DocumentOutcome{Document: cancelled}

		if previous == domain.StatusDraft {
			if doc.Kind == domain.KindSale {
				return s.releaseLinesTx(ctx, repos, businessID, doc, userID)
			}
			return nil
		}

		if outcome.Reversals, err = s.journalSvc.ReverseBySourceTx(ctx, repos, businessID, doc.Reference(), reason, userID); err != nil {
			return err
		}
		movements, err := s.inventorySvc.MovementsByReferenceTx(ctx, repos, businessID, doc.Reference())
		if err != nil {
			return err
		}
		sort.SliceStable(movements, func(i, j int) bool {
			if movements[i].ProductID != movements[j].ProductID {
				return movements[i].ProductID < movements[j].ProductID
			}
			return movements[i].LocationID < movements[j].LocationID
		})
		for _, m := range movements {
			effect := m.OnHandEffect()
			if effect.IsZero() {
				continue
			}
			back := domain.MovementIn
			if effect.IsPositive() {
				back = domain.MovementOut
			}
			comp, err := s.inventorySvc.RecordMovementTx(ctx, repos, businessID, domain.MovementInput{
				ProductID:  m.ProductID,
				LocationID: m.LocationID,
				Type:       back,
				Quantity:   effect.Abs(),
				UnitCost:   m.UnitCost,
				Reference:  doc.Reference(),
				Notes:      fmt.Sprintf("Cancellation of %s %s: %s", kindLabels[doc.Kind], doc.Number, reason),
			}, userID)
			if err != nil {
				return err
			}
			outcome.Movements = append(outcome.Movements, *comp)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to cancel document", slog.String("document_id", documentID))
		return nil, err
	}
	s.LogInfo(ctx, "Document cancelled",
		slog.String("document_id", documentID),
		slog.Int("reversal_count", len(outcome.Reversals)))
	return outcome, nil
}
