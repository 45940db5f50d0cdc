package accounting

import (
	"encoding/hex"
	"strings"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/blake2b"
)

// DefaultTolerance is the largest accepted difference between a stated and a computed total.
var DefaultTolerance = decimal.RequireFromString("0.01")

// WithinTolerance reports whether |a - b| <= tol.
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

// ExpectedTotal is subtotal + tax - discount.
func ExpectedTotal(subtotal, tax, discount decimal.Decimal) decimal.Decimal {
	return subtotal.Add(tax).Sub(discount)
}

// LineTotal is quantity x unit price, rounded to cents.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

// WeightedAverageCost blends the current average with incoming stock.
// A non-positive resulting quantity keeps the incoming cost.
func WeightedAverageCost(onHand, avgCost, qtyIn, costIn decimal.Decimal) decimal.Decimal {
	if onHand.IsNegative() {
		onHand = decimal.Zero
	}
	total := onHand.Add(qtyIn)
	if !total.IsPositive() {
		return costIn
	}
	return onHand.Mul(avgCost).Add(qtyIn.Mul(costIn)).DivRound(total, 4)
}

// fingerprint accumulates fields into a canonical, separator-delimited form.
type fingerprint struct{ b strings.Builder }

func (f *fingerprint) add(parts ...string) {
	for _, p := range parts {
		f.b.WriteString(p)
		f.b.WriteByte(0x1f)
	}
}

func (f *fingerprint) dec(d decimal.Decimal) { f.add(d.String()) }

func (f *fingerprint) date(t *time.Time) {
	if t == nil {
		f.add("")
		return
	}
	f.add(t.UTC().Format(time.RFC3339Nano))
}

// PayloadHash fingerprints everything that defines a recorded document, including payment
// info sent with it. Requests that carry the same idempotency key must hash equal.
func PayloadHash(doc domain.Document, payment *domain.Payment) string {
	var f fingerprint
	kind, id := domain.EncodeReference(doc.Counterparty)
	f.add(string(doc.Kind), doc.Number, kind, id, string(doc.Status), doc.Notes)
	f.date(&doc.Date)
	f.date(doc.DueDate)
	f.dec(doc.TaxAmount)
	f.dec(doc.DiscountAmount)
	f.dec(doc.TotalAmount)
	for _, l := range doc.Lines {
		f.add(l.ProductID, l.LocationID, l.AccountID, l.Description)
		f.dec(l.Quantity)
		f.dec(l.UnitPrice)
		f.dec(l.UnitCost)
	}
	if payment != nil {
		f.add("payment", payment.BankAccountID, payment.Method, payment.Reference)
		f.dec(payment.Amount)
	}
	sum := blake2b.Sum256([]byte(f.b.String()))
	return hex.EncodeToString(sum[:])
}
