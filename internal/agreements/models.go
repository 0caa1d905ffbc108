package agreements

import "time"

// Agreement is a tenant-scoped contract created from an accepted proposal.
type Agreement struct {
	ID          string `json:"id" db:"id"`
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`
	ClientID    string `json:"client_id" db:"client_id"`
	ProposalID  string `json:"proposal_id" db:"proposal_id"`

	Title string `json:"title" db:"title"`
	Terms string `json:"terms" db:"terms"`

	Currency   string `json:"currency" db:"currency"`
	ValueMinor int64  `json:"value_minor" db:"value_minor"`

	EffectiveFrom time.Time  `json:"effective_from" db:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty" db:"effective_to"`

	Status AgreementStatus `json:"status" db:"status"`

	TerminatedAt *time.Time `json:"terminated_at,omitempty" db:"terminated_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type AgreementStatus string

const (
	AgreementStatusActive     AgreementStatus = "active"
	AgreementStatusTerminated AgreementStatus = "terminated"
)
