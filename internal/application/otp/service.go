package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/healthapp-api/internal/domain"
	"github.com/healthapp-api/internal/infrastructure/smtp"
	"github.com/healthapp-api/internal/pkg/id"
)

// TTL is how long an issued code stays valid.
const TTL = 10 * time.Minute

type Service interface {
	// Request issues a fresh OTP and dispatches it. Registration OTPs are
	// rejected for already-registered emails; password-change OTPs require an
	// existing identity.
	Request(ctx context.Context, req domain.SendOtpRequest) error
	// Verify checks the submitted code against the newest record for the
	// email and marks it verified on success.
	Verify(ctx context.Context, req domain.VerifyOtpRequest) error
}

type otpStore interface {
	Put(ctx context.Context, rec *domain.OtpRecord) error
	Latest(ctx context.Context, email string) (*domain.OtpRecord, error)
	MarkVerified(ctx context.Context, rec *domain.OtpRecord) error
}

type identityStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	otpRepo      otpStore
	identityRepo identityStore
	mailer       smtp.Mailer
	smsSender    smsSender
}

type ServiceDeps struct {
	OtpRepo      otpStore
	IdentityRepo identityStore
	Mailer       smtp.Mailer
	SMSSender    smsSender
}

func NewService(deps ServiceDeps) Service {
	return &service{
		otpRepo:      deps.OtpRepo,
		identityRepo: deps.IdentityRepo,
		mailer:       deps.Mailer,
		smsSender:    deps.SMSSender,
	}
}

func (s *service) Request(ctx context.Context, req domain.SendOtpRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	intent := domain.OtpIntentRegister
	if req.IsChangePassword {
		intent = domain.OtpIntentPassword
		if _, err := s.identityRepo.GetByEmail(ctx, email); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.E(domain.ErrNotFound, domain.CodeNotFound, "no account exists for this email")
			}
			return err
		}
	} else {
		if _, err := s.identityRepo.GetByEmail(ctx, email); err == nil {
			return domain.E(domain.ErrConflict, domain.CodeAlreadyExists, "email is already registered")
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	now := time.Now()
	rec := &domain.OtpRecord{
		Email:     email,
		OtpID:     id.New(),
		Code:      code,
		Intent:    intent,
		Verified:  false,
		ExpiresAt: now.Add(TTL).Unix(),
		CreatedAt: now.Unix(),
	}
	// Persist before dispatch: a delivery failure must never leave a code the
	// store doesn't know about.
	if err := s.otpRepo.Put(ctx, rec); err != nil {
		return err
	}

	// SMS delivery needs a configured sender; without one the code still goes
	// out by email.
	if req.IsChangePassword && req.PhoneNumber != "" && s.smsSender != nil {
		return s.smsSender.SendSMS(ctx, req.PhoneNumber, "Your Health App verification code: "+code)
	}
	return s.mailer.SendEmail(email, "Your OTP Verification Code", smtp.OtpTemplate(code))
}

func (s *service) Verify(ctx context.Context, req domain.VerifyOtpRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	rec, err := s.otpRepo.Latest(ctx, email)
	if err != nil {
		return domain.E(domain.ErrBadRequest, domain.CodeOtpRequired, "no OTP found for this email")
	}
	if rec.Code != req.Otp {
		return domain.E(domain.ErrBadRequest, domain.CodeInvalidCode, "invalid OTP")
	}
	if rec.Verified {
		return domain.E(domain.ErrBadRequest, domain.CodeOtpAlreadyUsed, "OTP already used")
	}
	if rec.ExpiresAt < time.Now().Unix() {
		return domain.E(domain.ErrBadRequest, domain.CodeOtpExpired, "OTP expired")
	}
	return s.otpRepo.MarkVerified(ctx, rec)
}

// generateCode draws a uniform 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
