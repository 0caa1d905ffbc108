package invoices

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to InvoiceStatus }{
		{InvoiceStatusDraft, InvoiceStatusIssued},
		{InvoiceStatusDraft, InvoiceStatusVoid},
		{InvoiceStatusIssued, InvoiceStatusPaid},
		{InvoiceStatusIssued, InvoiceStatusVoid},
	}
	for _, tc := range allowed {
		if !canTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to InvoiceStatus }{
		{InvoiceStatusDraft, InvoiceStatusPaid},
		{InvoiceStatusIssued, InvoiceStatusDraft},
		{InvoiceStatusPaid, InvoiceStatusVoid},
		{InvoiceStatusPaid, InvoiceStatusIssued},
		{InvoiceStatusVoid, InvoiceStatusIssued},
		{InvoiceStatusVoid, InvoiceStatusDraft},
	}
	for _, tc := range denied {
		if canTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s denied", tc.from, tc.to)
		}
	}
}

func TestSubtotal(t *testing.T) {
	lines := []LineItem{
		{AmountMinor: 1000},
		{AmountMinor: 250},
		{AmountMinor: 0},
	}
	if got := subtotal(lines); got != 1250 {
		t.Fatalf("expected 1250, got %d", got)
	}
	if got := subtotal(nil); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestValidateLines(t *testing.T) {
	if err := validateLines(nil); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for empty lines, got %v", err)
	}
	if err := validateLines([]LineItemRequest{{Description: " ", Quantity: 1, UnitPriceMinor: 100}}); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for blank description, got %v", err)
	}
	if err := validateLines([]LineItemRequest{{Description: "work", Quantity: 0, UnitPriceMinor: 100}}); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for zero quantity, got %v", err)
	}
	if err := validateLines([]LineItemRequest{{Description: "work", Quantity: 1, UnitPriceMinor: -1}}); err != ErrInvalidArgument {
		t.Fatalf("expected ErrInvalidArgument for negative price, got %v", err)
	}
	if err := validateLines([]LineItemRequest{{Description: "work", Quantity: 2, UnitPriceMinor: 5000}}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
