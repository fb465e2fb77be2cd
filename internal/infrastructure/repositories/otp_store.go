package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/you/guardianauth/domain"
)

// consumeOTPLua atomically gets, compares and deletes an OTP slot.
// KEYS[1] = slot key
// ARGV[1] = presented code
//
// Returns 1 when the code matched and the slot was deleted, 0 otherwise.
// A wrong code leaves the slot intact so the real code stays redeemable.
var consumeOTPLua = redis.NewScript(`
local stored = redis.call('GET', KEYS[1])
if not stored then
  return 0
end
if stored ~= ARGV[1] then
  return 0
end
redis.call('DEL', KEYS[1])
return 1
`)

// OTPStoreImpl implements domain.OTPStore using Redis. One key per
// (email, purpose); SET replaces the prior code so the most recently
// issued OTP is the only one trusted.
type OTPStoreImpl struct {
	client *redis.Client
	prefix string
}

// NewOTPStore creates a new Redis-backed OTP store
func NewOTPStore(client *redis.Client) domain.OTPStore {
	return &OTPStoreImpl{
		client: client,
		prefix: "otp:",
	}
}

func (s *OTPStoreImpl) key(email, purpose string) string {
	return fmt.Sprintf("%s%s:%s", s.prefix, purpose, email)
}

// Put implements domain.OTPStore
func (s *OTPStoreImpl) Put(ctx context.Context, otp *domain.OTP, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(otp.Email, otp.Purpose), otp.Code, ttl).Err()
}

// Consume implements domain.OTPStore. The Lua script guarantees that two
// concurrent calls with the same valid code succeed at most once.
func (s *OTPStoreImpl) Consume(ctx context.Context, email, code, purpose string) error {
	res, err := consumeOTPLua.Run(ctx, s.client, []string{s.key(email, purpose)}, code).Int()
	if err != nil {
		return fmt.Errorf("failed to consume otp: %w", err)
	}
	if res != 1 {
		return domain.ErrOTPInvalid
	}
	return nil
}
