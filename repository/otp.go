package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/kundanmehta01/UniNotes-sub001/domain"

	"github.com/redis/go-redis/v9"
)

type otpRedisRepository struct {
	client *redis.Client
}

func NewOTPRedisRepository(client *redis.Client) domain.OTPRepository {
	return &otpRedisRepository{client: client}
}

func otpKey(email string) string {
	return "otp:" + email
}

func (r *otpRedisRepository) SaveChallenge(ctx context.Context, email string, ch *domain.OTPChallenge, ttl time.Duration) error {
	key := otpKey(email)

	data := map[string]string{
		"code_hash":    ch.CodeHash,
		"first_name":   ch.FirstName,
		"last_name":    ch.LastName,
		"registration": strconv.FormatBool(ch.Registration),
		"attempts":     strconv.Itoa(ch.Attempts),
		"sent_at":      ch.SentAt.UTC().Format(time.RFC3339),
	}

	if err := r.client.HSet(ctx, key, data).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, key, ttl).Err()
}

// GetChallenge returns the pending challenge, or nil when none exists
// (expired keys vanish with the TTL).
func (r *otpRedisRepository) GetChallenge(ctx context.Context, email string) (*domain.OTPChallenge, error) {
	vals, err := r.client.HGetAll(ctx, otpKey(email)).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, nil
	}

	attempts, _ := strconv.Atoi(vals["attempts"])
	registration, _ := strconv.ParseBool(vals["registration"])
	sentAt, _ := time.Parse(time.RFC3339, vals["sent_at"])

	return &domain.OTPChallenge{
		CodeHash:     vals["code_hash"],
		FirstName:    vals["first_name"],
		LastName:     vals["last_name"],
		Registration: registration,
		Attempts:     attempts,
		SentAt:       sentAt,
	}, nil
}

func (r *otpRedisRepository) IncrementAttempts(ctx context.Context, email string) (int, error) {
	n, err := r.client.HIncrBy(ctx, otpKey(email), "attempts", 1).Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *otpRedisRepository) DeleteChallenge(ctx context.Context, email string) error {
	return r.client.Del(ctx, otpKey(email)).Err()
}
