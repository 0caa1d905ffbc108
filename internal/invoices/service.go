package invoices

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"crm-platform/internal/taxes"
	"crm-platform/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrOverpayment       = errors.New("payment exceeds outstanding balance")
)

// TaxCalculator is the slice of the taxes service invoicing needs.
type TaxCalculator interface {
	ComputeTax(ctx context.Context, workspaceID, region string, netMinor int64, at time.Time) (taxes.TaxAmount, error)
}

// Service provides invoice operations.
//
// Money invariants:
// - No outstanding-balance updates without a payment entry
// - Payments are append-only (immutable)
// - All money operations must be executed in a DB transaction
//
// Tenancy invariant:
// - workspace_id is required and enforced in all queries
//
// Balance strategy:
// - Outstanding is stored in a projection table (invoice_balances) updated
//   atomically alongside payment inserts.
type Service struct {
	db  *sql.DB
	tax TaxCalculator
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(db *sql.DB, tax TaxCalculator) *Service {
	return &Service{db: db, tax: tax, clock: time.Now}
}

type LineItemRequest struct {
	Description    string `json:"description"`
	Quantity       int64  `json:"quantity"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
}

type CreateRequest struct {
	ClientID  string            `json:"client_id"`
	Currency  string            `json:"currency"`
	TaxRegion string            `json:"tax_region"`
	DueDate   *time.Time        `json:"due_date,omitempty"`
	Lines     []LineItemRequest `json:"lines"`
}

type PaymentRequest struct {
	AmountMinor    int64  `json:"amount_minor"`
	Currency       string `json:"currency"`
	ExternalRef    string `json:"external_ref,omitempty"`
	IdempotencyKey string `json:"idempotency_key"`
}

func validateLines(lines []LineItemRequest) error {
	if len(lines) == 0 {
		return ErrInvalidArgument
	}
	for _, l := range lines {
		if strings.TrimSpace(l.Description) == "" {
			return ErrInvalidArgument
		}
		if l.Quantity <= 0 || l.UnitPriceMinor < 0 {
			return ErrInvalidArgument
		}
	}
	return nil
}

func subtotal(lines []LineItem) int64 {
	var sum int64
	for _, l := range lines {
		sum += l.AmountMinor
	}
	return sum
}

func canTransition(from, to InvoiceStatus) bool {
	switch from {
	case InvoiceStatusDraft:
		return to == InvoiceStatusIssued || to == InvoiceStatusVoid
	case InvoiceStatusIssued:
		return to == InvoiceStatusPaid || to == InvoiceStatusVoid
	}
	return false
}

// Create stores a draft invoice. Totals stay zero until Issue computes and
// freezes them.
func (s *Service) Create(ctx context.Context, workspaceID string, req CreateRequest) (Invoice, error) {
	if workspaceID == "" || req.ClientID == "" || req.Currency == "" || req.TaxRegion == "" {
		return Invoice{}, ErrInvalidArgument
	}
	if err := validateLines(req.Lines); err != nil {
		return Invoice{}, err
	}

	now := s.clock().UTC()
	inv := Invoice{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		ClientID:    req.ClientID,
		Currency:    req.Currency,
		TaxRegion:   req.TaxRegion,
		Status:      InvoiceStatusDraft,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i, l := range req.Lines {
		inv.Lines = append(inv.Lines, LineItem{
			ID:             uuid.NewString(),
			WorkspaceID:    workspaceID,
			InvoiceID:      inv.ID,
			Position:       i + 1,
			Description:    strings.TrimSpace(l.Description),
			Quantity:       l.Quantity,
			UnitPriceMinor: l.UnitPriceMinor,
			AmountMinor:    l.Quantity * l.UnitPriceMinor,
		})
	}

	if err := insertInvoice(ctx, s.db, inv); err != nil {
		return Invoice{}, err
	}
	if err := insertLineItems(ctx, s.db, inv.Lines); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (s *Service) Get(ctx context.Context, workspaceID, invoiceID string) (Invoice, error) {
	if workspaceID == "" || invoiceID == "" {
		return Invoice{}, ErrInvalidArgument
	}
	inv, err := getInvoice(ctx, s.db, workspaceID, invoiceID)
	if err != nil {
		return Invoice{}, err
	}
	lines, err := getLineItems(ctx, s.db, workspaceID, invoiceID)
	if err != nil {
		return Invoice{}, err
	}
	inv.Lines = lines
	return inv, nil
}

func (s *Service) List(ctx context.Context, workspaceID string, status InvoiceStatus) ([]Invoice, error) {
	if workspaceID == "" {
		return nil, ErrInvalidArgument
	}
	return listInvoices(ctx, s.db, workspaceID, status)
}

func (s *Service) ListPayments(ctx context.Context, workspaceID, invoiceID string) ([]Payment, error) {
	if workspaceID == "" || invoiceID == "" {
		return nil, ErrInvalidArgument
	}
	return listPayments(ctx, s.db, workspaceID, invoiceID)
}

// Issue freezes totals, assigns the workspace-sequential number, and opens
// the outstanding balance at the invoice total.
func (s *Service) Issue(ctx context.Context, workspaceID, invoiceID string) (Invoice, error) {
	if workspaceID == "" || invoiceID == "" {
		return Invoice{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	var out Invoice

	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		inv, err := lockInvoice(ctx, tx, workspaceID, invoiceID)
		if err != nil {
			return err
		}
		if !canTransition(inv.Status, InvoiceStatusIssued) {
			return ErrInvalidTransition
		}

		lines, err := getLineItems(ctx, s.db, workspaceID, invoiceID)
		if err != nil {
			return err
		}

		net := subtotal(lines)
		taxAmt, err := s.tax.ComputeTax(ctx, workspaceID, inv.TaxRegion, net, now)
		if err != nil {
			return err
		}

		number, err := nextInvoiceNumber(ctx, tx, workspaceID)
		if err != nil {
			return err
		}

		inv.Number = number
		inv.SubtotalMinor = net
		inv.TaxMinor = taxAmt.TaxMinor
		inv.TotalMinor = net + taxAmt.TaxMinor
		inv.Status = InvoiceStatusIssued
		inv.IssuedAt = &now
		inv.UpdatedAt = now
		inv.Lines = lines

		if err := markIssued(ctx, tx, inv); err != nil {
			return err
		}
		if err := setOutstanding(ctx, tx, workspaceID, invoiceID, inv.TotalMinor, now); err != nil {
			return err
		}
		out = inv
		return nil
	})

	return out, err
}

// RecordPayment posts a payment against an issued invoice. When the
// outstanding balance reaches zero the invoice flips to paid.
func (s *Service) RecordPayment(ctx context.Context, workspaceID, invoiceID string, req PaymentRequest) (Payment, Outstanding, error) {
	if workspaceID == "" || invoiceID == "" || req.Currency == "" || req.IdempotencyKey == "" {
		return Payment{}, Outstanding{}, ErrInvalidArgument
	}
	if req.AmountMinor <= 0 {
		return Payment{}, Outstanding{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	paymentID := uuid.NewString()

	var outPayment Payment
	var outBal Outstanding

	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		inv, err := lockInvoice(ctx, tx, workspaceID, invoiceID)
		if err != nil {
			return err
		}
		if inv.Status != InvoiceStatusIssued {
			return ErrInvalidTransition
		}
		if inv.Currency != req.Currency {
			return ErrInvalidArgument
		}

		// Idempotency: if a payment already exists for this invoice+key,
		// return it and the current balance.
		if existing, ok, err := findPaymentByIdempotency(ctx, tx, workspaceID, invoiceID, req.IdempotencyKey); err != nil {
			return err
		} else if ok {
			outPayment = existing
			b, err := getOutstandingForUpdate(ctx, tx, workspaceID, invoiceID)
			if err != nil {
				return err
			}
			outBal = b
			return nil
		}

		b, err := getOutstandingForUpdate(ctx, tx, workspaceID, invoiceID)
		if err != nil {
			return err
		}
		if req.AmountMinor > b.OutstandingMinor {
			return ErrOverpayment
		}

		p := Payment{
			ID:             paymentID,
			WorkspaceID:    workspaceID,
			InvoiceID:      invoiceID,
			AmountMinor:    req.AmountMinor,
			Currency:       req.Currency,
			ExternalRef:    req.ExternalRef,
			IdempotencyKey: req.IdempotencyKey,
			CreatedAt:      now,
		}
		if err := insertPayment(ctx, tx, p); err != nil {
			return err
		}

		nb, err := applyOutstandingDelta(ctx, tx, workspaceID, invoiceID, -req.AmountMinor, now)
		if err != nil {
			return err
		}
		if nb.OutstandingMinor == 0 {
			if err := updateStatus(ctx, tx, workspaceID, invoiceID, InvoiceStatusPaid, now); err != nil {
				return err
			}
		}
		outPayment = p
		outBal = nb
		return nil
	})

	return outPayment, outBal, err
}

// Void cancels a draft or issued invoice. Paid invoices cannot be voided.
func (s *Service) Void(ctx context.Context, workspaceID, invoiceID string) (Invoice, error) {
	if workspaceID == "" || invoiceID == "" {
		return Invoice{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	var out Invoice

	err := utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		inv, err := lockInvoice(ctx, tx, workspaceID, invoiceID)
		if err != nil {
			return err
		}
		if !canTransition(inv.Status, InvoiceStatusVoid) {
			return ErrInvalidTransition
		}
		if err := updateStatus(ctx, tx, workspaceID, invoiceID, InvoiceStatusVoid, now); err != nil {
			return err
		}
		if inv.Status == InvoiceStatusIssued {
			if err := setOutstanding(ctx, tx, workspaceID, invoiceID, 0, now); err != nil {
				return err
			}
		}
		inv.Status = InvoiceStatusVoid
		inv.UpdatedAt = now
		out = inv
		return nil
	})

	return out, err
}
