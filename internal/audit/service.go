package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service logs internal audit information.
//
// IMPORTANT:
// - Audit is internal-only. Do not expose these records to tenant users by default.
// - Callers should treat audit logging as best-effort.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.WorkspaceID == "" {
		return ErrInvalidEvent
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	now := s.clock().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	return s.repo.Append(ctx, e)
}

// LogAuth records a token-lifecycle event (login, renewal, revocation and
// their failure variants).
func (s *Service) LogAuth(ctx context.Context, t EventType, workspaceID, userID, ip, message string) error {
	return s.Append(ctx, Event{
		WorkspaceID: workspaceID,
		Type:        t,
		ActorUserID: userID,
		IPAddress:   ip,
		Message:     message,
	})
}

// LogAdminAction records a privileged action against another user or record.
func (s *Service) LogAdminAction(ctx context.Context, workspaceID, actorUserID, actorRole, ip, message, targetUserID, metadata string) error {
	return s.Append(ctx, Event{
		WorkspaceID:  workspaceID,
		Type:         EventTypeAdminAction,
		ActorUserID:  actorUserID,
		ActorRole:    actorRole,
		IPAddress:    ip,
		TargetUserID: targetUserID,
		Message:      message,
		Metadata:     metadata,
	})
}
