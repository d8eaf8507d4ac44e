package storage

import (
	"context"
	"errors"
	"testing"
)

func TestCreateLicenseKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateLicenseKey(ctx, "TAC-PRO-001"); err != nil {
		t.Fatalf("CreateLicenseKey failed: %v", err)
	}

	lk, err := s.GetLicenseKey(ctx, "TAC-PRO-001")
	if err != nil {
		t.Fatalf("GetLicenseKey failed: %v", err)
	}
	if lk.Used {
		t.Error("fresh key should be unused")
	}
}

func TestCreateLicenseKeyDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateLicenseKey(ctx, "dup"); err != nil {
		t.Fatalf("CreateLicenseKey failed: %v", err)
	}
	if err := s.CreateLicenseKey(ctx, "dup"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestGetLicenseKeyNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetLicenseKey(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListLicenseKeys(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateLicenseKey(ctx, "extra-key"); err != nil {
		t.Fatalf("CreateLicenseKey failed: %v", err)
	}

	keys, err := s.ListLicenseKeys(ctx)
	if err != nil {
		t.Fatalf("ListLicenseKeys failed: %v", err)
	}
	// The seeded "123" plus the one just created
	if len(keys) != 2 {
		t.Errorf("expected 2 keys, got %d", len(keys))
	}
}
