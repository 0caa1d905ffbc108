package auth

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_SwapSemantics(t *testing.T) {
	s := NewMemoryPrincipalStore()
	s.Put(Principal{ID: "u1", Email: "a@b.com"})
	ctx := context.Background()

	t0 := "token-0"
	t1 := "token-1"

	// nil -> t0: expectedOld nil matches an empty chain.
	ok, err := s.SwapCurrentRefreshToken(ctx, "u1", nil, &t0)
	if err != nil || !ok {
		t.Fatalf("swap nil->t0: ok=%v err=%v", ok, err)
	}

	// t0 -> t1 succeeds exactly once.
	ok, err = s.SwapCurrentRefreshToken(ctx, "u1", &t0, &t1)
	if err != nil || !ok {
		t.Fatalf("swap t0->t1: ok=%v err=%v", ok, err)
	}
	ok, err = s.SwapCurrentRefreshToken(ctx, "u1", &t0, &t1)
	if err != nil {
		t.Fatalf("swap: %v", err)
	}
	if ok {
		t.Fatalf("stale expected value must not swap")
	}

	p, err := s.GetPrincipalByID(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.CurrentRefreshToken == nil || *p.CurrentRefreshToken != t1 {
		t.Fatalf("expected stored token %q, got %v", t1, p.CurrentRefreshToken)
	}
}

func TestMemoryStore_SetOverwritesAndClears(t *testing.T) {
	s := NewMemoryPrincipalStore()
	s.Put(Principal{ID: "u1"})
	ctx := context.Background()

	tok := "tok"
	if err := s.SetCurrentRefreshToken(ctx, "u1", &tok); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetCurrentRefreshToken(ctx, "u1", nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	p, _ := s.GetPrincipalByID(ctx, "u1")
	if p.CurrentRefreshToken != nil {
		t.Fatalf("expected cleared token")
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	s := NewMemoryPrincipalStore()
	ctx := context.Background()

	if _, err := s.GetPrincipalByID(ctx, "missing"); !errors.Is(err, ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
	if _, err := s.GetPrincipalByEmail(ctx, "missing@x.com"); !errors.Is(err, ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
	if err := s.SetCurrentRefreshToken(ctx, "missing", nil); !errors.Is(err, ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
	if _, err := s.SwapCurrentRefreshToken(ctx, "missing", nil, nil); !errors.Is(err, ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryPrincipalStore()
	tok := "tok"
	s.Put(Principal{ID: "u1", CurrentRefreshToken: &tok})
	ctx := context.Background()

	p, _ := s.GetPrincipalByID(ctx, "u1")
	*p.CurrentRefreshToken = "mutated"

	p2, _ := s.GetPrincipalByID(ctx, "u1")
	if *p2.CurrentRefreshToken != "tok" {
		t.Fatalf("store state leaked through returned pointer")
	}
}
