package documents

import "time"

// Document is tenant-scoped file metadata. Binary content never passes
// through the API; transfer happens directly against object storage via
// presigned URLs.
type Document struct {
	ID          string `json:"id" db:"id"`
	WorkspaceID string `json:"workspace_id" db:"workspace_id"`

	Name        string `json:"name" db:"name"`
	ContentType string `json:"content_type" db:"content_type"`
	SizeBytes   int64  `json:"size_bytes" db:"size_bytes"`

	// StorageKey is the object key in the bucket.
	StorageKey string `json:"-" db:"storage_key"`

	// OwnerEntity references what the document belongs to, e.g.
	// "expense:<id>", "agreement:<id>", "client:<id>".
	OwnerEntity string `json:"owner_entity,omitempty" db:"owner_entity"`

	UploadedBy string `json:"uploaded_by" db:"uploaded_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
