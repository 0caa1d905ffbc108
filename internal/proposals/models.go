package proposals

import "time"

// Proposals are tenant-scoped. Money is in minor units (int64).
//
// Status lifecycle: draft -> sent -> accepted | declined.
type Proposal struct {
	ID          string `json:"id" db:"id"`
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`
	ClientID    string `json:"client_id" db:"client_id"`

	Title    string `json:"title" db:"title"`
	Currency string `json:"currency" db:"currency"`

	Lines []Line `json:"lines" db:"-"`

	TotalMinor int64 `json:"total_minor" db:"total_minor"`

	Status ProposalStatus `json:"status" db:"status"`

	// ValidUntil bounds acceptance; a sent proposal cannot be accepted after
	// this instant.
	ValidUntil *time.Time `json:"valid_until,omitempty" db:"valid_until"`

	SentAt    *time.Time `json:"sent_at,omitempty" db:"sent_at"`
	DecidedAt *time.Time `json:"decided_at,omitempty" db:"decided_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Line struct {
	Description    string `json:"description"`
	Quantity       int64  `json:"quantity"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
}

type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusSent     ProposalStatus = "sent"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusDeclined ProposalStatus = "declined"
)
