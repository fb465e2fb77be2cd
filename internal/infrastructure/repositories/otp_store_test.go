package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/you/guardianauth/domain"
)

// setupTestRedis creates an in-memory Redis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return client, mr
}

func putOTP(t *testing.T, store domain.OTPStore, email, code, purpose string, ttl time.Duration) {
	t.Helper()
	otp := &domain.OTP{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := store.Put(context.Background(), otp, ttl); err != nil {
		t.Fatalf("Put: %v", err)
	}
}

func TestOTPStoreImpl_ConsumeHappyPath(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewOTPStore(client)

	putOTP(t, store, "a@x.com", "042137", domain.OTPPurposeLogin, 10*time.Minute)

	if err := store.Consume(context.Background(), "a@x.com", "042137", domain.OTPPurposeLogin); err != nil {
		t.Fatalf("Consume: %v", err)
	}
}

func TestOTPStoreImpl_ConsumeIsSingleUse(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewOTPStore(client)

	putOTP(t, store, "a@x.com", "042137", domain.OTPPurposeLogin, 10*time.Minute)

	if err := store.Consume(context.Background(), "a@x.com", "042137", domain.OTPPurposeLogin); err != nil {
		t.Fatalf("first Consume: %v", err)
	}
	err := store.Consume(context.Background(), "a@x.com", "042137", domain.OTPPurposeLogin)
	if !errors.Is(err, domain.ErrOTPInvalid) {
		t.Errorf("second Consume should fail with ErrOTPInvalid, got %v", err)
	}
}

func TestOTPStoreImpl_WrongCodeLeavesSlotIntact(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewOTPStore(client)

	putOTP(t, store, "a@x.com", "042137", domain.OTPPurposeLogin, 10*time.Minute)

	err := store.Consume(context.Background(), "a@x.com", "999999", domain.OTPPurposeLogin)
	if !errors.Is(err, domain.ErrOTPInvalid) {
		t.Fatalf("expected ErrOTPInvalid for wrong code, got %v", err)
	}

	// The real code must still be redeemable after a failed guess.
	if err := store.Consume(context.Background(), "a@x.com", "042137", domain.OTPPurposeLogin); err != nil {
		t.Errorf("correct code should still consume, got %v", err)
	}
}

func TestOTPStoreImpl_ExpiredCodeFails(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewOTPStore(client)

	putOTP(t, store, "a@x.com", "042137", domain.OTPPurposeLogin, 10*time.Minute)
	mr.FastForward(11 * time.Minute)

	err := store.Consume(context.Background(), "a@x.com", "042137", domain.OTPPurposeLogin)
	if !errors.Is(err, domain.ErrOTPInvalid) {
		t.Errorf("expected ErrOTPInvalid after expiry, got %v", err)
	}
}

func TestOTPStoreImpl_NewCodeReplacesOld(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewOTPStore(client)

	putOTP(t, store, "a@x.com", "111111", domain.OTPPurposeLogin, 10*time.Minute)
	putOTP(t, store, "a@x.com", "222222", domain.OTPPurposeLogin, 10*time.Minute)

	if err := store.Consume(context.Background(), "a@x.com", "111111", domain.OTPPurposeLogin); !errors.Is(err, domain.ErrOTPInvalid) {
		t.Errorf("superseded code should fail, got %v", err)
	}
	if err := store.Consume(context.Background(), "a@x.com", "222222", domain.OTPPurposeLogin); err != nil {
		t.Errorf("most recent code should succeed, got %v", err)
	}
}

func TestOTPStoreImpl_PurposesAreIsolated(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewOTPStore(client)

	putOTP(t, store, "a@x.com", "111111", domain.OTPPurposeLogin, 10*time.Minute)
	putOTP(t, store, "a@x.com", "222222", domain.OTPPurposeResetPassword, 10*time.Minute)

	if err := store.Consume(context.Background(), "a@x.com", "111111", domain.OTPPurposeResetPassword); !errors.Is(err, domain.ErrOTPInvalid) {
		t.Errorf("login code must not redeem for reset_password, got %v", err)
	}
	if err := store.Consume(context.Background(), "a@x.com", "111111", domain.OTPPurposeLogin); err != nil {
		t.Errorf("login code should redeem for login, got %v", err)
	}
}

func TestOTPStoreImpl_ConcurrentConsumeExactlyOnce(t *testing.T) {
	client, _ := setupTestRedis(t)
	store := NewOTPStore(client)

	putOTP(t, store, "a@x.com", "042137", domain.OTPPurposeLogin, 10*time.Minute)

	const goroutines = 8
	var wg sync.WaitGroup
	successes := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Consume(context.Background(), "a@x.com", "042137", domain.OTPPurposeLogin); err == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	count := 0
	for range successes {
		count++
	}
	if count != 1 {
		t.Errorf("expected exactly one successful consume, got %d", count)
	}
}
