package taxes

import "time"

// Tax rates are tenant-scoped (workspace_id required everywhere).
// Percentages are expressed in basis points (1% = 100 bps) to keep the
// arithmetic in integers.

type TaxRate struct {
	ID          string `json:"id" db:"id"`
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`

	// Region identifies the jurisdiction bucket (e.g., "US-CA", "DE", "EU").
	Region string `json:"region" db:"region"`

	Name string `json:"name" db:"name"`

	// RateBps is the tax percentage in basis points (e.g., 1900 = 19%).
	RateBps int64 `json:"rate_bps" db:"rate_bps"`

	// Effective window for the rate.
	EffectiveFrom time.Time  `json:"effective_from" db:"effective_from"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty" db:"effective_to"`

	Status RateStatus `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type RateStatus string

const (
	RateStatusActive   RateStatus = "active"
	RateStatusInactive RateStatus = "inactive"
)
