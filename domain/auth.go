package domain

import (
	"context"
	"errors"

	"github.com/kundanmehta01/UniNotes-sub001/utils"
)

// Verification errors. The "expired" / "invalid" wording is part of the API
// contract: clients classify verify failures by substring of the message.
var (
	ErrOTPExpired         = errors.New("otp has expired, please request a new one")
	ErrOTPInvalid         = errors.New("invalid otp code")
	ErrTooManyOTPAttempts = errors.New("too many invalid attempts, please request a new otp")
	ErrResendCooldown     = errors.New("please wait before requesting another otp")
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailNotFound      = errors.New("email not registered")
	ErrUserInactive       = errors.New("account is deactivated")
)

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthUseCase interface {
	GetAccessTokenManager() *utils.JWTManager
	GetRefreshTokenManager() *utils.JWTManager
	CheckExists(ctx context.Context, email string) (bool, error)
	SendLoginOTP(ctx context.Context, email string) error
	SendRegisterOTP(ctx context.Context, email, firstName, lastName string) error
	VerifyOTP(ctx context.Context, email, code string) (*AuthTokens, *User, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Me(ctx context.Context, userID string) (*User, error)
}
