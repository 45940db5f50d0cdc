package accounting_test

import (
	"testing"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/SscSPs/bizledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWithinTolerance(t *testing.T) {
	tol := accounting.DefaultTolerance
	assert.True(t, accounting.WithinTolerance(d("100.00"), d("100.01"), tol))
	assert.True(t, accounting.WithinTolerance(d("100.01"), d("100.00"), tol))
	assert.False(t, accounting.WithinTolerance(d("100.00"), d("100.02"), tol))
	assert.True(t, accounting.ExpectedTotal(d("100"), d("18"), d("8")).Equal(d("110")))
}

func TestWeightedAverageCost(t *testing.T) {
	// 10 units at 5 plus 10 units at 7 averages to 6.
	assert.True(t, accounting.WeightedAverageCost(d("10"), d("5"), d("10"), d("7")).Equal(d("6")))
	// Empty stock takes the incoming cost.
	assert.True(t, accounting.WeightedAverageCost(d("0"), d("0"), d("3"), d("4.5")).Equal(d("4.5")))
}

func TestPayloadHash(t *testing.T) {
	date := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	doc := domain.Document{
		Kind:        domain.KindSale,
		Number:      "S-1",
		Date:        date,
		TotalAmount: d("100"),
		Status:      domain.StatusPending,
		Lines: []domain.DocumentLine{
			{ProductID: "p1", LocationID: "main", Quantity: d("2"), UnitPrice: d("50")},
		},
	}
	same := doc
	same.TotalAmount = d("100.00")
	assert.Equal(t, accounting.PayloadHash(doc, nil), accounting.PayloadHash(same, nil), "trailing zeros do not change the hash")

	changed := doc
	changed.Lines = []domain.DocumentLine{{ProductID: "p1", LocationID: "main", Quantity: d("3"), UnitPrice: d("50")}}
	assert.NotEqual(t, accounting.PayloadHash(doc, nil), accounting.PayloadHash(changed, nil))

	withPayment := accounting.PayloadHash(doc, &domain.Payment{Amount: d("100"), BankAccountID: "cash"})
	assert.NotEqual(t, accounting.PayloadHash(doc, nil), withPayment)
	assert.Len(t, withPayment, 64)
}
