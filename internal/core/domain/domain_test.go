package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/bizledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestReference_EncodeDecode(t *testing.T) {
	refs := []domain.Reference{
		domain.CustomerRef{ID: "c1"},
		domain.VendorRef{ID: "v1"},
		domain.SaleRef{ID: "s1"},
		domain.PurchaseRef{ID: "p1"},
		domain.InvoiceRef{ID: "i1"},
		domain.ExpenseRef{ID: "e1"},
		domain.PaymentRef{ID: "pay1"},
		domain.AdjustmentRef{ID: "a1"},
	}
	for _, ref := range refs {
		kind, id := domain.EncodeReference(ref)
		got, err := domain.DecodeReference(kind, id)
		require.NoError(t, err)
		assert.True(t, domain.SameReference(ref, got), "kind %s", kind)
	}

	kind, id := domain.EncodeReference(nil)
	assert.Empty(t, kind)
	assert.Empty(t, id)
	got, err := domain.DecodeReference("", "")
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = domain.DecodeReference("warehouse", "w1")
	assert.Error(t, err)
	_, err = domain.DecodeReference("sale", "")
	assert.Error(t, err)
}

func TestReference_IsParty(t *testing.T) {
	assert.True(t, domain.IsParty(domain.CustomerRef{ID: "c"}))
	assert.True(t, domain.IsParty(domain.VendorRef{ID: "v"}))
	assert.False(t, domain.IsParty(domain.SaleRef{ID: "s"}))
	assert.False(t, domain.IsParty(nil))
}

func TestAccountType_DebitNormal(t *testing.T) {
	tests := []struct {
		accountType domain.AccountType
		want        bool
	}{
		{domain.Asset, true},
		{domain.Expense, true},
		{domain.AccountsReceivable, true},
		{domain.Bank, true},
		{domain.Cash, true},
		{domain.Other, true},
		{domain.Liability, false},
		{domain.Equity, false},
		{domain.Income, false},
		{domain.AccountsPayable, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.accountType.DebitNormal())
			assert.True(t, tt.accountType.Valid())
		})
	}
	assert.False(t, domain.AccountType("LIABILITY").Valid())
}

func TestAccountActivity_Balance(t *testing.T) {
	cash := domain.AccountActivity{AccountType: domain.Cash, Debits: dec("150"), Credits: dec("50")}
	assert.True(t, cash.Balance().Equal(dec("100")))

	revenue := domain.AccountActivity{AccountType: domain.Income, Debits: dec("20"), Credits: dec("120")}
	assert.True(t, revenue.Balance().Equal(dec("100")))
}

func TestInventory_Available(t *testing.T) {
	tests := []struct {
		name     string
		onHand   string
		reserved string
		want     string
	}{
		{"plenty", "10", "3", "7"},
		{"fully reserved", "5", "5", "0"},
		{"over reserved clamps to zero", "2", "5", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := domain.Inventory{OnHandQuantity: dec(tt.onHand), ReservedQuantity: dec(tt.reserved)}
			inv.Refresh()
			assert.True(t, inv.AvailableQuantity.Equal(dec(tt.want)), "got %s", inv.AvailableQuantity)
		})
	}
}

func TestStockMovement_OnHandEffect(t *testing.T) {
	out := domain.StockMovement{MovementType: domain.MovementOut, Status: domain.MovementConfirmed, Quantity: dec("4"), ConfirmedQuantity: dec("4")}
	assert.True(t, out.OnHandEffect().Equal(dec("-4")))

	pending := domain.StockMovement{MovementType: domain.MovementIn, Status: domain.MovementPending, Quantity: dec("4")}
	assert.True(t, pending.OnHandEffect().IsZero())
	assert.True(t, pending.Outstanding().Equal(dec("4")))

	partial := domain.StockMovement{MovementType: domain.MovementIn, Status: domain.MovementPartiallyFulfilled, Quantity: dec("4"), ConfirmedQuantity: dec("1")}
	assert.True(t, partial.OnHandEffect().Equal(dec("1")))
	assert.True(t, partial.Outstanding().Equal(dec("3")))

	adj := domain.StockMovement{MovementType: domain.MovementAdjustment, Status: domain.MovementConfirmed, Quantity: dec("-2"), ConfirmedQuantity: dec("-2")}
	assert.True(t, adj.OnHandEffect().Equal(dec("-2")))

	cancelled := domain.StockMovement{MovementType: domain.MovementOut, Status: domain.MovementCancelled, Quantity: dec("4")}
	assert.True(t, cancelled.OnHandEffect().IsZero())
}

func TestDocument_StatusForPaid(t *testing.T) {
	tests := []struct {
		name   string
		status domain.DocumentStatus
		paid   string
		want   domain.DocumentStatus
	}{
		{"nothing paid stays pending", domain.StatusPending, "0", domain.StatusPending},
		{"partial", domain.StatusPending, "40", domain.StatusPartPayment},
		{"full", domain.StatusPartPayment, "100", domain.StatusPaid},
		{"reverted to zero reopens", domain.StatusPaid, "0", domain.StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := domain.Document{TotalAmount: dec("100"), PaidAmount: dec(tt.paid), Status: tt.status}
			assert.Equal(t, tt.want, doc.StatusForPaid())
			doc.RecomputeBalance()
			assert.True(t, doc.BalanceDue.Equal(dec("100").Sub(dec(tt.paid))))
		})
	}
}

func TestDocument_EffectiveStatus(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	assert.Equal(t, domain.StatusOverdue, domain.Document{Status: domain.StatusPending, DueDate: &past}.EffectiveStatus(now))
	assert.Equal(t, domain.StatusOverdue, domain.Document{Status: domain.StatusPartPayment, DueDate: &past}.EffectiveStatus(now))
	assert.Equal(t, domain.StatusPending, domain.Document{Status: domain.StatusPending, DueDate: &future}.EffectiveStatus(now))
	assert.Equal(t, domain.StatusPaid, domain.Document{Status: domain.StatusPaid, DueDate: &past}.EffectiveStatus(now))
	assert.Equal(t, domain.StatusDraft, domain.Document{Status: domain.StatusDraft, DueDate: &past}.EffectiveStatus(now))
}

func TestPayment_Balances(t *testing.T) {
	p := domain.Payment{
		Amount:         dec("100"),
		RefundedAmount: dec("10"),
		Allocations: []domain.PaymentAllocation{
			{AllocationType: domain.AllocationInvoice, SourceTransactionID: "d1", AllocatedAmount: dec("60")},
			{AllocationType: domain.AllocationRefund, SourceTransactionID: "d1", AllocatedAmount: dec("-10")},
			{AllocationType: domain.AllocationAdvance, AllocatedAmount: dec("20")},
		},
	}
	assert.True(t, p.AllocatedTotal().Equal(dec("70")))
	assert.True(t, p.Unallocated().Equal(dec("20")))
	assert.True(t, p.Refundable().Equal(dec("90")))
	assert.True(t, p.NetAllocatedTo("d1").Equal(dec("50")))
}

func TestPaymentSourceType_Accepts(t *testing.T) {
	assert.True(t, domain.SourceSales.Accepts(domain.KindSale))
	assert.True(t, domain.SourceSales.Accepts(domain.KindInvoice))
	assert.False(t, domain.SourceSales.Accepts(domain.KindPurchase))
	assert.True(t, domain.SourcePurchase.Accepts(domain.KindPurchase))
	assert.True(t, domain.SourceExpense.Accepts(domain.KindExpense))
	assert.False(t, domain.SourceOthers.Accepts(domain.KindSale))
	assert.Equal(t, domain.SourceSales, domain.SourceTypeFor(domain.KindInvoice))
}

func TestPostingAccounts_Resolve(t *testing.T) {
	rules := domain.PostingAccounts{domain.RuleCash: "acc-cash", domain.RuleTax: ""}
	id, ok := rules.Resolve(domain.RuleCash)
	assert.True(t, ok)
	assert.Equal(t, "acc-cash", id)
	_, ok = rules.Resolve(domain.RuleTax)
	assert.False(t, ok)
	_, ok = rules.Resolve(domain.RuleCOGS)
	assert.False(t, ok)
	assert.False(t, domain.PostingRule("cash").Valid())
}
