package domain

import (
	"context"
	"time"
)

// OTPChallenge is the pending challenge stored in Redis under "otp:<email>".
// CodeHash is a bcrypt hash of the 6-digit code; the plaintext code only ever
// lives in the email we send. FirstName/LastName are carried for registration
// challenges so the user row can be created after verification succeeds.
type OTPChallenge struct {
	CodeHash     string
	FirstName    string
	LastName     string
	Registration bool
	Attempts     int
	SentAt       time.Time
}

type OTPRepository interface {
	SaveChallenge(ctx context.Context, email string, ch *OTPChallenge, ttl time.Duration) error
	GetChallenge(ctx context.Context, email string) (*OTPChallenge, error)
	IncrementAttempts(ctx context.Context, email string) (int, error)
	DeleteChallenge(ctx context.Context, email string) error
}
