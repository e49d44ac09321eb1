package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/healthapp-api/internal/domain"
	"github.com/healthapp-api/internal/infrastructure/smtp"
	"github.com/healthapp-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldFirstName       = "first_name"
	fieldLastName        = "last_name"
	fieldAge             = "age"
	fieldDob             = "dob"
	fieldGender          = "gender"
	fieldPhoneNumber     = "phone_number"
	fieldAddress1        = "address1"
	fieldAddress2        = "address2"
	fieldCity            = "city"
	fieldState           = "state"
	fieldPincode         = "pincode"
	fieldBloodGroup      = "blood_group"
	fieldAadhaar         = "aadhaar"
	fieldPan             = "pan"
	fieldProfileImageURL = "profile_image_url"
	fieldProfileScore    = "profile_score"
	fieldIsNewUser       = "is_new_user"
	fieldLastModifiedBy  = "last_modified_by"
	fieldPasswordHash    = "password_hash"
)

// ImageUpload is an optional profile image accompanying a register call.
type ImageUpload struct {
	Filename string
	Reader   io.Reader
}

// RegisterResult reports which branch ran. Created is true for a new
// account, in which case UserToken is set; Profile is always the saved state.
type RegisterResult struct {
	Created   bool
	UserToken string
	Profile   *domain.Profile
}

type Service interface {
	// Register runs one of two disjoint branches: a bearer-token holder gets
	// an authenticated profile update; otherwise a new account is created,
	// gated on a verified OTP for the email.
	Register(ctx context.Context, req domain.RegisterRequest, image *ImageUpload) (*RegisterResult, error)
	Login(ctx context.Context, req domain.LoginRequest) (string, error)
	ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
	GetProfile(ctx context.Context, identityID string) (*domain.Profile, error)
}

type identityStore interface {
	Put(ctx context.Context, ident *domain.Identity) error
	Get(ctx context.Context, identityID string) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	Update(ctx context.Context, identityID string, updates map[string]interface{}) error
	Delete(ctx context.Context, identityID string) error
}

type profileStore interface {
	Put(ctx context.Context, p *domain.Profile) error
	GetByIdentityID(ctx context.Context, identityID string) (*domain.Profile, error)
	Update(ctx context.Context, profileID string, updates map[string]interface{}) error
}

type otpStore interface {
	Latest(ctx context.Context, email string) (*domain.OtpRecord, error)
}

type tokenProvider interface {
	Sign(identityID string) (string, error)
	Verify(token string) (string, error)
}

type imageStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

// scoreFunc recomputes profile completeness. Injected so tests can pin it.
type scoreFunc func(*domain.Profile) int

type service struct {
	identityRepo identityStore
	profileRepo  profileStore
	otpRepo      otpStore
	tokens       tokenProvider
	images       imageStore
	mailer       smtp.Mailer
	score        scoreFunc
	now          func() time.Time
}

type ServiceDeps struct {
	IdentityRepo identityStore
	ProfileRepo  profileStore
	OtpRepo      otpStore
	Tokens       tokenProvider
	Images       imageStore
	Mailer       smtp.Mailer
	Score        scoreFunc
	Now          func() time.Time
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		identityRepo: deps.IdentityRepo,
		profileRepo:  deps.ProfileRepo,
		otpRepo:      deps.OtpRepo,
		tokens:       deps.Tokens,
		images:       deps.Images,
		mailer:       deps.Mailer,
		score:        deps.Score,
		now:          deps.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Register(ctx context.Context, req domain.RegisterRequest, image *ImageUpload) (*RegisterResult, error) {
	if strings.TrimSpace(req.UserToken) != "" {
		return s.updateProfile(ctx, req, image)
	}
	return s.createAccount(ctx, req, image)
}

// updateProfile is the authenticated branch. Email and password are not
// mutable here; dob changes recompute age server-side. No OTP check — the
// bearer token establishes identity.
func (s *service) updateProfile(ctx context.Context, req domain.RegisterRequest, image *ImageUpload) (*RegisterResult, error) {
	identityID, err := s.tokens.Verify(req.UserToken)
	if err != nil {
		return nil, err
	}
	ident, err := s.identityRepo.Get(ctx, identityID)
	if err != nil {
		return nil, domain.E(domain.ErrNotFound, domain.CodeNotFound, "account not found")
	}

	prof, err := s.profileRepo.GetByIdentityID(ctx, identityID)
	created := false
	if err != nil {
		// Only a definitive miss creates a row; a store failure must not spawn
		// a second profile for the identity.
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		// Fetch-or-create: a legacy account may predate the profile record.
		now := s.now().UTC()
		prof = &domain.Profile{
			ProfileID:  id.New(),
			IdentityID: identityID,
			Email:      ident.Email,
			IsNewUser:  true,
			CreatedBy:  identityID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		created = true
	}

	if image != nil {
		url, err := s.uploadImage(ctx, identityID, image)
		if err != nil {
			return nil, err
		}
		req.Profile.ProfileImageURL = &url
	}

	updates := s.applyUpdate(prof, req.Profile)
	prof.ProfileScore = s.score(prof)
	prof.LastModifiedBy = identityID

	if created {
		prof.IsNewUser = false
		if err := s.profileRepo.Put(ctx, prof); err != nil {
			return nil, err
		}
		return &RegisterResult{Profile: prof}, nil
	}

	updates[fieldProfileScore] = prof.ProfileScore
	updates[fieldLastModifiedBy] = identityID
	updates[fieldIsNewUser] = false
	if err := s.profileRepo.Update(ctx, prof.ProfileID, updates); err != nil {
		return nil, err
	}
	prof.IsNewUser = false
	return &RegisterResult{Profile: prof}, nil
}

// createAccount is the new-account branch: verified OTP required, email must
// be unregistered. Persistence strictly precedes the welcome mail.
func (s *service) createAccount(ctx context.Context, req domain.RegisterRequest, image *ImageUpload) (*RegisterResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		missing := map[string]string{}
		if email == "" {
			missing["email"] = "required"
		}
		if req.Password == "" {
			missing["password"] = "required"
		}
		return nil, domain.E(domain.ErrBadRequest, domain.CodeFieldRequired, "email and password are required").
			WithDetails(missing)
	}

	rec, err := s.otpRepo.Latest(ctx, email)
	if err != nil || !rec.Verified {
		return nil, domain.E(domain.ErrBadRequest, domain.CodeOtpRequired, "email is not verified; request and verify an OTP first")
	}

	if _, err := s.identityRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.E(domain.ErrConflict, domain.CodeAlreadyExists, "an account already exists for this email")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	ident := &domain.Identity{
		IdentityID:   id.New(),
		Email:        email,
		PasswordHash: string(hash),
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.identityRepo.Put(ctx, ident); err != nil {
		return nil, err
	}

	if image != nil {
		url, err := s.uploadImage(ctx, ident.IdentityID, image)
		if err != nil {
			s.compensate(ctx, ident.IdentityID)
			return nil, err
		}
		req.Profile.ProfileImageURL = &url
	}

	prof := &domain.Profile{
		ProfileID:  id.New(),
		IdentityID: ident.IdentityID,
		Email:      email,
		IsNewUser:  true,
		CreatedBy:  ident.IdentityID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.applyUpdate(prof, req.Profile)
	prof.ProfileScore = s.score(prof)
	if err := s.profileRepo.Put(ctx, prof); err != nil {
		s.compensate(ctx, ident.IdentityID)
		return nil, err
	}

	if err := s.mailer.SendEmail(email, "Welcome to Health App", smtp.WelcomeTemplate(prof.FirstName)); err != nil {
		return nil, fmt.Errorf("send welcome email: %w", err)
	}

	token, err := s.tokens.Sign(ident.IdentityID)
	if err != nil {
		return nil, err
	}
	return &RegisterResult{Created: true, UserToken: token, Profile: prof}, nil
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	ident, err := s.identityRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.E(domain.ErrNotFound, domain.CodeNotFound, "no account exists for this email")
		}
		return "", err
	}
	if ident.PasswordHash == "" {
		// Legacy/partial record created before passwords were mandatory.
		return "", domain.E(domain.ErrBadRequest, domain.CodeRegistrationIncomplete, "registration is incomplete; reset your password to continue")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(ident.PasswordHash), []byte(req.Password)); err != nil {
		return "", domain.E(domain.ErrUnauthorized, domain.CodeUnauthorized, "invalid password")
	}
	return s.tokens.Sign(ident.IdentityID)
}

func (s *service) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	ident, err := s.identityRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.E(domain.ErrNotFound, domain.CodeNotFound, "no account exists for this email")
		}
		return err
	}
	rec, err := s.otpRepo.Latest(ctx, email)
	if err != nil || !rec.Verified {
		return domain.E(domain.ErrBadRequest, domain.CodeOtpRequired, "request and verify an OTP before resetting the password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.identityRepo.Update(ctx, ident.IdentityID, map[string]interface{}{
		fieldPasswordHash:   string(hash),
		fieldLastModifiedBy: ident.IdentityID,
	})
}

func (s *service) GetProfile(ctx context.Context, identityID string) (*domain.Profile, error) {
	prof, err := s.profileRepo.GetByIdentityID(ctx, identityID)
	if err != nil {
		return nil, domain.E(domain.ErrNotFound, domain.CodeNotFound, "profile not found")
	}
	return prof, nil
}

// applyUpdate merges the caller-writable fields into prof and returns the
// matching attribute update map. Dob changes recompute age from the current
// date. The ProfileUpdate type is the whole allow-list: protected fields have
// no representation here.
func (s *service) applyUpdate(prof *domain.Profile, upd domain.ProfileUpdate) map[string]interface{} {
	updates := map[string]interface{}{}
	if upd.FirstName != nil {
		prof.FirstName = *upd.FirstName
		updates[fieldFirstName] = *upd.FirstName
	}
	if upd.LastName != nil {
		prof.LastName = *upd.LastName
		updates[fieldLastName] = *upd.LastName
	}
	if upd.Dob != nil {
		prof.Dob = upd.Dob
		prof.Age = ageAt(*upd.Dob, s.now())
		updates[fieldDob] = upd.Dob.UTC().Format(time.RFC3339)
		updates[fieldAge] = prof.Age
	}
	if upd.Gender != nil {
		prof.Gender = *upd.Gender
		updates[fieldGender] = *upd.Gender
	}
	if upd.PhoneNumber != nil {
		prof.PhoneNumber = *upd.PhoneNumber
		updates[fieldPhoneNumber] = *upd.PhoneNumber
	}
	if upd.Address1 != nil {
		prof.Address1 = *upd.Address1
		updates[fieldAddress1] = *upd.Address1
	}
	if upd.Address2 != nil {
		prof.Address2 = *upd.Address2
		updates[fieldAddress2] = *upd.Address2
	}
	if upd.City != nil {
		prof.City = *upd.City
		updates[fieldCity] = *upd.City
	}
	if upd.State != nil {
		prof.State = *upd.State
		updates[fieldState] = *upd.State
	}
	if upd.Pincode != nil {
		prof.Pincode = *upd.Pincode
		updates[fieldPincode] = *upd.Pincode
	}
	if upd.BloodGroup != nil {
		prof.BloodGroup = *upd.BloodGroup
		updates[fieldBloodGroup] = *upd.BloodGroup
	}
	if upd.Aadhaar != nil {
		prof.Aadhaar = *upd.Aadhaar
		updates[fieldAadhaar] = *upd.Aadhaar
	}
	if upd.Pan != nil {
		prof.Pan = *upd.Pan
		updates[fieldPan] = *upd.Pan
	}
	if upd.ProfileImageURL != nil {
		prof.ProfileImageURL = *upd.ProfileImageURL
		updates[fieldProfileImageURL] = *upd.ProfileImageURL
	}
	return updates
}

func (s *service) uploadImage(ctx context.Context, identityID string, image *ImageUpload) (string, error) {
	key := fmt.Sprintf("profile-images/%s/%s%s", identityID, id.New(), strings.ToLower(filepath.Ext(image.Filename)))
	return s.images.Upload(ctx, key, image.Reader, contentTypeFor(image.Filename))
}

// compensate deletes the identity created moments earlier so a failed
// registration can be retried instead of dead-ending on AlreadyExists.
func (s *service) compensate(ctx context.Context, identityID string) {
	if err := s.identityRepo.Delete(ctx, identityID); err != nil {
		// The orphaned identity stays; operators can reap it.
		slog.Warn("compensating identity delete failed", "identity_id", identityID, "err", err)
	}
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// ageAt computes full years elapsed between dob and now.
func ageAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
