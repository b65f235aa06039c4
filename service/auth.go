package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kundanmehta01/UniNotes-sub001/domain"
	"github.com/kundanmehta01/UniNotes-sub001/utils"

	"gorm.io/gorm"
)

const (
	otpTTL            = 5 * time.Minute
	otpResendCooldown = time.Minute
	maxOTPAttempts    = 5
)

type authService struct {
	userRepo     domain.UserRepository
	otpRepo      domain.OTPRepository
	mailer       utils.Mailer
	accessToken  *utils.JWTManager
	refreshToken *utils.JWTManager

	now func() time.Time // mockable
}

func NewAuthService(userRepo domain.UserRepository, otpRepo domain.OTPRepository, mailer utils.Mailer, secret string) domain.AuthUseCase {
	return &authService{
		userRepo:     userRepo,
		otpRepo:      otpRepo,
		mailer:       mailer,
		accessToken:  utils.NewJWTManager(secret, time.Hour),
		refreshToken: utils.NewJWTManager(secret, 7*24*time.Hour),
		now:          time.Now,
	}
}

func (s *authService) GetAccessTokenManager() *utils.JWTManager {
	return s.accessToken
}

func (s *authService) GetRefreshTokenManager() *utils.JWTManager {
	return s.refreshToken
}

// CheckExists reports whether an account is registered for the email.
func (s *authService) CheckExists(ctx context.Context, email string) (bool, error) {
	_, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SendLoginOTP issues a login code for an existing account.
func (s *authService) SendLoginOTP(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrEmailNotFound
		}
		return err
	}
	if !user.IsActive {
		return domain.ErrUserInactive
	}

	return s.issueChallenge(ctx, email, &domain.OTPChallenge{Registration: false})
}

// SendRegisterOTP issues a registration code. The profile fields ride along in
// the challenge; the user row is only created once the code is verified.
func (s *authService) SendRegisterOTP(ctx context.Context, email, firstName, lastName string) error {
	if _, err := s.userRepo.GetUserByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.issueChallenge(ctx, email, &domain.OTPChallenge{
		FirstName:    firstName,
		LastName:     lastName,
		Registration: true,
	})
}

func (s *authService) issueChallenge(ctx context.Context, email string, ch *domain.OTPChallenge) error {
	existing, err := s.otpRepo.GetChallenge(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && s.now().Sub(existing.SentAt) < otpResendCooldown {
		return domain.ErrResendCooldown
	}

	code, err := utils.GenerateOTP(6)
	if err != nil {
		return err
	}
	hash, err := utils.HashOTP(code)
	if err != nil {
		return err
	}

	ch.CodeHash = hash
	ch.Attempts = 0
	ch.SentAt = s.now()

	if err := s.otpRepo.SaveChallenge(ctx, email, ch, otpTTL); err != nil {
		return err
	}

	subject := "Your UniNotes verification code"
	body := fmt.Sprintf("Your verification code is: %s (valid for %d minutes)", code, int(otpTTL.Minutes()))
	if err := s.mailer.Send(email, subject, body); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}

// VerifyOTP checks the code and, on success, returns a token pair and the
// authenticated user. Registration challenges create the user here.
func (s *authService) VerifyOTP(ctx context.Context, email, code string) (*domain.AuthTokens, *domain.User, error) {
	ch, err := s.otpRepo.GetChallenge(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if ch == nil {
		// Redis expired the key along with the challenge TTL.
		return nil, nil, domain.ErrOTPExpired
	}

	if ch.Attempts >= maxOTPAttempts {
		_ = s.otpRepo.DeleteChallenge(ctx, email)
		return nil, nil, domain.ErrTooManyOTPAttempts
	}

	if !utils.CompareOTP(ch.CodeHash, code) {
		attempts, err := s.otpRepo.IncrementAttempts(ctx, email)
		if err != nil {
			return nil, nil, err
		}
		if attempts >= maxOTPAttempts {
			_ = s.otpRepo.DeleteChallenge(ctx, email)
			return nil, nil, domain.ErrTooManyOTPAttempts
		}
		return nil, nil, domain.ErrOTPInvalid
	}

	var user *domain.User
	if ch.Registration {
		user = &domain.User{
			Email:     email,
			FirstName: ch.FirstName,
			LastName:  ch.LastName,
			Role:      domain.RoleStudent,
			IsActive:  true,
		}
		if err := s.userRepo.CreateUser(ctx, user); err != nil {
			return nil, nil, err
		}
	} else {
		user, err = s.userRepo.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		return nil, nil, err
	}
	_ = s.otpRepo.DeleteChallenge(ctx, email)

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*domain.AuthTokens, error) {
	userID, _, err := s.refreshToken.VerifyToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	return s.issueTokens(user)
}

func (s *authService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *authService) issueTokens(user *domain.User) (*domain.AuthTokens, error) {
	access, err := s.accessToken.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.refreshToken.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &domain.AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}
