package clients

import "time"

// Client is a tenant-scoped company/contact record.
type Client struct {
	ID          string `json:"id" db:"id"`
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`

	Name          string `json:"name" db:"name"`
	ContactPerson string `json:"contact_person,omitempty" db:"contact_person"`
	Email         string `json:"email,omitempty" db:"email"`
	Phone         string `json:"phone,omitempty" db:"phone"`

	BillingAddress string `json:"billing_address,omitempty" db:"billing_address"`
	Notes          string `json:"notes,omitempty" db:"notes"`

	Archived bool `json:"archived" db:"archived"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
