package repo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"daily-task-portal/internal/domain"
)

const keyOTP = "otp:challenge:"

// delIfMatch removes the challenge only while it still holds the expected hash.
var delIfMatch = redis.NewScript(`
if redis.call("HGET", KEYS[1], "hash") == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// OTPStoreRedis keeps one hash per email and lets redis expire it.
type OTPStoreRedis struct{ rdb redis.UniversalClient }

func NewOTPStoreRedis(rdb redis.UniversalClient) *OTPStoreRedis { return &OTPStoreRedis{rdb: rdb} }

func otpKey(email string) string { return keyOTP + domain.NormalizeEmail(email) }

func (s *OTPStoreRedis) Put(ctx context.Context, ch *domain.OTPChallenge, ttl time.Duration) error {
	key := otpKey(ch.Email)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, map[string]any{
			"hash":      ch.CodeHash,
			"issued_at": ch.IssuedAt.UnixNano(),
		})
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put otp challenge: %w", err)
	}
	return nil
}

func (s *OTPStoreRedis) Get(ctx context.Context, email string) (*domain.OTPChallenge, error) {
	m, err := s.rdb.HGetAll(ctx, otpKey(email)).Result()
	if err != nil {
		return nil, fmt.Errorf("get otp challenge: %w", err)
	}
	if len(m) == 0 || m["hash"] == "" {
		return nil, nil
	}
	ns, err := strconv.ParseInt(m["issued_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse otp issued_at: %w", err)
	}
	return &domain.OTPChallenge{
		Email:    domain.NormalizeEmail(email),
		CodeHash: m["hash"],
		IssuedAt: time.Unix(0, ns),
	}, nil
}

func (s *OTPStoreRedis) DeleteIfMatch(ctx context.Context, email, codeHash string) (bool, error) {
	n, err := delIfMatch.Run(ctx, s.rdb, []string{otpKey(email)}, codeHash).Int64()
	if err != nil {
		return false, fmt.Errorf("consume otp challenge: %w", err)
	}
	return n == 1, nil
}

func (s *OTPStoreRedis) Delete(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, otpKey(email)).Err()
}
