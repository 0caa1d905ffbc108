package documents

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakePresigner struct {
	putCalls []string
	getCalls []string
	err      error
}

func (f *fakePresigner) PresignPut(_ context.Context, key, _ string) (string, error) {
	f.putCalls = append(f.putCalls, key)
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.test/put/" + key, nil
}

func (f *fakePresigner) PresignGet(_ context.Context, key string) (string, error) {
	f.getCalls = append(f.getCalls, key)
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.test/get/" + key, nil
}

func newTestService(p *fakePresigner) *Service {
	s := NewService(NewMemoryRepo(), p)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.clock = func() time.Time { return base }
	return s
}

func TestRegisterUpload(t *testing.T) {
	p := &fakePresigner{}
	s := newTestService(p)
	ctx := context.Background()

	grant, err := s.RegisterUpload(ctx, "ws-1", "u-1", RegisterUploadRequest{
		Name:        "receipt.pdf",
		ContentType: "application/pdf",
		SizeBytes:   1024,
		OwnerEntity: "expense:e-1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.HasPrefix(grant.PutURL, "https://storage.test/put/ws-1/2026/03/") {
		t.Fatalf("unexpected put url %q", grant.PutURL)
	}
	if grant.Document.StorageKey == "" || grant.Document.UploadedBy != "u-1" {
		t.Fatalf("unexpected document %+v", grant.Document)
	}
	if len(p.putCalls) != 1 {
		t.Fatalf("expected 1 presign put call, got %d", len(p.putCalls))
	}

	// Metadata must be retrievable afterwards.
	got, err := s.Get(ctx, "ws-1", grant.Document.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "receipt.pdf" {
		t.Fatalf("unexpected name %q", got.Name)
	}
}

func TestRegisterUpload_Validation(t *testing.T) {
	s := newTestService(&fakePresigner{})
	ctx := context.Background()

	cases := []RegisterUploadRequest{
		{ContentType: "application/pdf", SizeBytes: 1},
		{Name: "a.pdf", SizeBytes: 1},
		{Name: "a.pdf", ContentType: "application/pdf", SizeBytes: 0},
		{Name: "a.pdf", ContentType: "application/pdf", SizeBytes: maxDocumentBytes + 1},
	}
	for i, req := range cases {
		if _, err := s.RegisterUpload(ctx, "ws-1", "u-1", req); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("case %d: expected ErrInvalidArgument, got %v", i, err)
		}
	}
}

func TestRegisterUpload_PresignFailureDoesNotPersist(t *testing.T) {
	p := &fakePresigner{err: errors.New("endpoint down")}
	s := newTestService(p)
	ctx := context.Background()

	_, err := s.RegisterUpload(ctx, "ws-1", "u-1", RegisterUploadRequest{
		Name: "a.pdf", ContentType: "application/pdf", SizeBytes: 1,
	})
	if err == nil {
		t.Fatalf("expected error")
	}

	docs, err := s.List(ctx, "ws-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("metadata must not be stored when presign fails, got %d", len(docs))
	}
}

func TestDownloadURL(t *testing.T) {
	p := &fakePresigner{}
	s := newTestService(p)
	ctx := context.Background()

	grant, err := s.RegisterUpload(ctx, "ws-1", "u-1", RegisterUploadRequest{
		Name: "a.pdf", ContentType: "application/pdf", SizeBytes: 1,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	url, err := s.DownloadURL(ctx, "ws-1", grant.Document.ID)
	if err != nil {
		t.Fatalf("download url: %v", err)
	}
	if url != "https://storage.test/get/"+grant.Document.StorageKey {
		t.Fatalf("unexpected url %q", url)
	}

	// Cross-workspace access is a not-found.
	if _, err := s.DownloadURL(ctx, "ws-2", grant.Document.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
