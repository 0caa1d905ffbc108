package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

type Repository interface {
	Create(ctx context.Context, d Document) error
	Get(ctx context.Context, workspaceID, id string) (Document, error)
	List(ctx context.Context, workspaceID string) ([]Document, error)
}

// Service registers document metadata and hands out presigned transfer URLs.
type Service struct {
	repo    Repository
	presign Presigner
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewService(repo Repository, presign Presigner) *Service {
	return &Service{repo: repo, presign: presign, clock: time.Now}
}

type RegisterUploadRequest struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	OwnerEntity string `json:"owner_entity,omitempty"`
}

type UploadGrant struct {
	Document Document `json:"document"`
	PutURL   string   `json:"put_url"`
}

const maxDocumentBytes = 100 << 20 // 100 MiB

func storageKey(workspaceID string, now time.Time) string {
	return fmt.Sprintf("%s/%d/%02d/%s", workspaceID, now.Year(), now.Month(), uuid.NewString())
}

// RegisterUpload stores the metadata row and returns a presigned PUT URL the
// caller uploads against directly.
func (s *Service) RegisterUpload(ctx context.Context, workspaceID, userID string, req RegisterUploadRequest) (UploadGrant, error) {
	if workspaceID == "" || userID == "" {
		return UploadGrant{}, ErrInvalidArgument
	}
	if strings.TrimSpace(req.Name) == "" || req.ContentType == "" {
		return UploadGrant{}, ErrInvalidArgument
	}
	if req.SizeBytes <= 0 || req.SizeBytes > maxDocumentBytes {
		return UploadGrant{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	d := Document{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Name:        strings.TrimSpace(req.Name),
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		StorageKey:  storageKey(workspaceID, now),
		OwnerEntity: req.OwnerEntity,
		UploadedBy:  userID,
		CreatedAt:   now,
	}

	url, err := s.presign.PresignPut(ctx, d.StorageKey, d.ContentType)
	if err != nil {
		return UploadGrant{}, err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return UploadGrant{}, err
	}

	return UploadGrant{Document: d, PutURL: url}, nil
}

func (s *Service) Get(ctx context.Context, workspaceID, id string) (Document, error) {
	if workspaceID == "" || id == "" {
		return Document{}, ErrInvalidArgument
	}
	return s.repo.Get(ctx, workspaceID, id)
}

func (s *Service) List(ctx context.Context, workspaceID string) ([]Document, error) {
	if workspaceID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.List(ctx, workspaceID)
}

// DownloadURL returns a presigned GET URL for an existing document.
func (s *Service) DownloadURL(ctx context.Context, workspaceID, id string) (string, error) {
	d, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return "", err
	}
	return s.presign.PresignGet(ctx, d.StorageKey)
}
