package expenses

import "time"

// Expense is a tenant-scoped cost record. Money is in minor units (int64).
type Expense struct {
	ID          string `json:"id" db:"id"`
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`

	// Date is the day the expense occurred, not the day it was recorded.
	Date time.Time `json:"date" db:"date"`

	Category    string `json:"category" db:"category"`
	Description string `json:"description" db:"description"`

	AmountMinor int64  `json:"amount_minor" db:"amount_minor"`
	Currency    string `json:"currency" db:"currency"`

	// ReceiptDocumentID references a documents entry, if a receipt was uploaded.
	ReceiptDocumentID string `json:"receipt_document_id,omitempty" db:"receipt_document_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
