package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/you/guardianauth/domain"
)

func TestSessionRepositoryImpl_ReplaceAndGet(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRepository(client)

	if err := repo.Replace(context.Background(), "user-1", "token-a", time.Hour); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := repo.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "token-a" {
		t.Errorf("expected token-a, got %q", got)
	}
}

func TestSessionRepositoryImpl_LastWriterWins(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRepository(client)

	if err := repo.Replace(context.Background(), "user-1", "token-a", time.Hour); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := repo.Replace(context.Background(), "user-1", "token-b", time.Hour); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	got, err := repo.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "token-b" {
		t.Errorf("newer token should replace older one, got %q", got)
	}
}

func TestSessionRepositoryImpl_GetMissing(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRepository(client)

	_, err := repo.Get(context.Background(), "nobody")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepositoryImpl_TTLExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewSessionRepository(client)

	if err := repo.Replace(context.Background(), "user-1", "token-a", time.Minute); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(context.Background(), "user-1")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after TTL, got %v", err)
	}
}

func TestSessionRepositoryImpl_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRepository(client)

	if err := repo.Replace(context.Background(), "user-1", "token-a", time.Hour); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := repo.Delete(context.Background(), "user-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := repo.Get(context.Background(), "user-1")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got %v", err)
	}

	// Deleting an absent slot is not an error (logout is idempotent).
	if err := repo.Delete(context.Background(), "user-1"); err != nil {
		t.Errorf("repeat delete should be a no-op, got %v", err)
	}
}
