package domain

import (
	"fmt"
)

// ReferenceKind is the storage tag of a Reference.
type ReferenceKind string

const (
	RefCustomer   ReferenceKind = "customer"
	RefVendor     ReferenceKind = "vendor"
	RefSale       ReferenceKind = "sale"
	RefPurchase   ReferenceKind = "purchase"
	RefInvoice    ReferenceKind = "invoice"
	RefExpense    ReferenceKind = "expense"
	RefPayment    ReferenceKind = "payment"
	RefAdjustment ReferenceKind = "adjustment"
)

// Reference points at another entity by kind and id. The set of implementations is closed:
// only the types in this file satisfy it.
type Reference interface {
	Kind() ReferenceKind
	RefID() string
	isReference()
}

type CustomerRef struct{ ID string }
type VendorRef struct{ ID string }
type SaleRef struct{ ID string }
type PurchaseRef struct{ ID string }
type InvoiceRef struct{ ID string }
type ExpenseRef struct{ ID string }
type PaymentRef struct{ ID string }

// AdjustmentRef groups the movements of one bulk adjustment or manual correction.
type AdjustmentRef struct{ ID string }

func (r CustomerRef) Kind() ReferenceKind   { return RefCustomer }
func (r VendorRef) Kind() ReferenceKind     { return RefVendor }
func (r SaleRef) Kind() ReferenceKind       { return RefSale }
func (r PurchaseRef) Kind() ReferenceKind   { return RefPurchase }
func (r InvoiceRef) Kind() ReferenceKind    { return RefInvoice }
func (r ExpenseRef) Kind() ReferenceKind    { return RefExpense }
func (r PaymentRef) Kind() ReferenceKind    { return RefPayment }
func (r AdjustmentRef) Kind() ReferenceKind { return RefAdjustment }

func (r CustomerRef) RefID() string   { return r.ID }
func (r VendorRef) RefID() string     { return r.ID }
func (r SaleRef) RefID() string       { return r.ID }
func (r PurchaseRef) RefID() string   { return r.ID }
func (r InvoiceRef) RefID() string    { return r.ID }
func (r ExpenseRef) RefID() string    { return r.ID }
func (r PaymentRef) RefID() string    { return r.ID }
func (r AdjustmentRef) RefID() string { return r.ID }

func (CustomerRef) isReference()   {}
func (VendorRef) isReference()     {}
func (SaleRef) isReference()       {}
func (PurchaseRef) isReference()   {}
func (InvoiceRef) isReference()    {}
func (ExpenseRef) isReference()    {}
func (PaymentRef) isReference()    {}
func (AdjustmentRef) isReference() {}

// EncodeReference flattens a reference into its storage columns. A nil reference encodes to empty strings.
func EncodeReference(ref Reference) (kind string, id string) {
	if ref == nil {
		return "", ""
	}
	return string(ref.Kind()), ref.RefID()
}

// DecodeReference rebuilds a Reference from its storage columns. Empty kind and id decode to nil.
func DecodeReference(kind, id string) (Reference, error) {
	if kind == "" && id == "" {
		return nil, nil
	}
	if id == "" {
		return nil, fmt.Errorf("reference of kind %q has no id", kind)
	}
	switch ReferenceKind(kind) {
	case RefCustomer:
		return CustomerRef{ID: id}, nil
	case RefVendor:
		return VendorRef{ID: id}, nil
	case RefSale:
		return SaleRef{ID: id}, nil
	case RefPurchase:
		return PurchaseRef{ID: id}, nil
	case RefInvoice:
		return InvoiceRef{ID: id}, nil
	case RefExpense:
		return ExpenseRef{ID: id}, nil
	case RefPayment:
		return PaymentRef{ID: id}, nil
	case RefAdjustment:
		return AdjustmentRef{ID: id}, nil
	default:
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}
}

// SameReference reports whether a and b point at the same entity.
func SameReference(a, b Reference) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Kind() == b.Kind() && a.RefID() == b.RefID()
}

// IsParty reports whether ref identifies a trading partner rather than a record.
func IsParty(ref Reference) bool {
	switch ref.(type) {
	case CustomerRef, VendorRef:
		return true
	default:
		return false
	}
}
