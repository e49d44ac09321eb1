package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/healthapp-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockOtpStore struct{ mock.Mock }

func (m *mockOtpStore) Put(ctx context.Context, rec *domain.OtpRecord) error {
	return m.Called(ctx, rec).Error(0)
}
func (m *mockOtpStore) Latest(ctx context.Context, email string) (*domain.OtpRecord, error) {
	args := m.Called(ctx, email)
	if rec, _ := args.Get(0).(*domain.OtpRecord); rec != nil {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOtpStore) MarkVerified(ctx context.Context, rec *domain.OtpRecord) error {
	return m.Called(ctx, rec).Error(0)
}

type mockIdentityStore struct{ mock.Mock }

func (m *mockIdentityStore) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	args := m.Called(ctx, email)
	if ident, _ := args.Get(0).(*domain.Identity); ident != nil {
		return ident, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, msg string) error {
	return m.Called(ctx, to, msg).Error(0)
}

func newService(os *mockOtpStore, is *mockIdentityStore, ml *mockMailer, sms *mockSMSSender) Service {
	deps := ServiceDeps{
		OtpRepo:      os,
		IdentityRepo: is,
		Mailer:       ml,
	}
	// Assigning a nil *mockSMSSender would produce a non-nil interface.
	if sms != nil {
		deps.SMSSender = sms
	}
	return NewService(deps)
}

// --- Request ---

func TestRequest_RegisterIntent_EmailAlreadyRegistered(t *testing.T) {
	is := &mockIdentityStore{}
	is.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.Identity{IdentityID: "i1"}, nil)

	svc := newService(nil, is, nil, nil)
	err := svc.Request(context.Background(), domain.SendOtpRequest{Email: "a@x.com"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.Equal(t, domain.CodeAlreadyExists, domain.CodeOf(err))
}

func TestRequest_PasswordIntent_NoAccount(t *testing.T) {
	is := &mockIdentityStore{}
	is.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)

	svc := newService(nil, is, nil, nil)
	err := svc.Request(context.Background(), domain.SendOtpRequest{Email: "a@x.com", IsChangePassword: true})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRequest_HappyPath_PersistsBeforeMail(t *testing.T) {
	is := &mockIdentityStore{}
	os := &mockOtpStore{}
	ml := &mockMailer{}

	is.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	var stored *domain.OtpRecord
	os.On("Put", mock.Anything, mock.AnythingOfType("*domain.OtpRecord")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.OtpRecord)
	}).Return(nil)
	ml.On("SendEmail", "a@x.com", mock.Anything, mock.Anything).Return(nil)

	svc := newService(os, is, ml, nil)
	err := svc.Request(context.Background(), domain.SendOtpRequest{Email: "A@x.com "})

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "a@x.com", stored.Email)
	assert.Len(t, stored.Code, 6)
	assert.Equal(t, domain.OtpIntentRegister, stored.Intent)
	assert.False(t, stored.Verified)
	assert.InDelta(t, time.Now().Add(TTL).Unix(), stored.ExpiresAt, 5)
	ml.AssertExpectations(t)
}

func TestRequest_MailFailure_SurfacesAfterPersist(t *testing.T) {
	is := &mockIdentityStore{}
	os := &mockOtpStore{}
	ml := &mockMailer{}

	is.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	os.On("Put", mock.Anything, mock.Anything).Return(nil)
	ml.On("SendEmail", "a@x.com", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	svc := newService(os, is, ml, nil)
	err := svc.Request(context.Background(), domain.SendOtpRequest{Email: "a@x.com"})

	require.Error(t, err)
	os.AssertExpectations(t) // record was persisted despite the mail failure
}

func TestRequest_PasswordIntent_PhoneDeliveredViaSMS(t *testing.T) {
	is := &mockIdentityStore{}
	os := &mockOtpStore{}
	sms := &mockSMSSender{}

	is.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.Identity{IdentityID: "i1"}, nil)
	os.On("Put", mock.Anything, mock.Anything).Return(nil)
	sms.On("SendSMS", mock.Anything, "+919876543210", mock.Anything).Return(nil)

	svc := newService(os, is, nil, sms)
	err := svc.Request(context.Background(), domain.SendOtpRequest{
		Email:            "a@x.com",
		IsChangePassword: true,
		PhoneNumber:      "+919876543210",
	})

	require.NoError(t, err)
	sms.AssertExpectations(t)
}

func TestRequest_PasswordIntent_NoSMSSender_FallsBackToEmail(t *testing.T) {
	is := &mockIdentityStore{}
	os := &mockOtpStore{}
	ml := &mockMailer{}

	is.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.Identity{IdentityID: "i1"}, nil)
	os.On("Put", mock.Anything, mock.Anything).Return(nil)
	ml.On("SendEmail", "a@x.com", mock.Anything, mock.Anything).Return(nil)

	svc := newService(os, is, ml, nil)
	err := svc.Request(context.Background(), domain.SendOtpRequest{
		Email:            "a@x.com",
		IsChangePassword: true,
		PhoneNumber:      "+919876543210",
	})

	require.NoError(t, err)
	ml.AssertExpectations(t)
}

func TestRequest_RegisterIntent_StoreFailure_IsNotTreatedAsUnregistered(t *testing.T) {
	is := &mockIdentityStore{}
	os := &mockOtpStore{}

	is.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("dynamo unavailable"))

	svc := newService(os, is, nil, nil)
	err := svc.Request(context.Background(), domain.SendOtpRequest{Email: "a@x.com"})

	require.Error(t, err)
	assert.Equal(t, domain.CodeServerError, domain.CodeOf(err))
	os.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

// --- Verify ---

func TestVerify_NoOtpFound(t *testing.T) {
	os := &mockOtpStore{}
	os.On("Latest", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)

	svc := newService(os, nil, nil, nil)
	err := svc.Verify(context.Background(), domain.VerifyOtpRequest{Email: "a@x.com", Otp: "123456"})

	require.Error(t, err)
	assert.Equal(t, domain.CodeOtpRequired, domain.CodeOf(err))
}

func TestVerify_InvalidCode(t *testing.T) {
	os := &mockOtpStore{}
	os.On("Latest", mock.Anything, "a@x.com").Return(&domain.OtpRecord{
		Email:     "a@x.com",
		Code:      "111111",
		ExpiresAt: time.Now().Add(5 * time.Minute).Unix(),
	}, nil)

	svc := newService(os, nil, nil, nil)
	err := svc.Verify(context.Background(), domain.VerifyOtpRequest{Email: "a@x.com", Otp: "222222"})

	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidCode, domain.CodeOf(err))
}

func TestVerify_AlreadyUsed(t *testing.T) {
	os := &mockOtpStore{}
	os.On("Latest", mock.Anything, "a@x.com").Return(&domain.OtpRecord{
		Email:     "a@x.com",
		Code:      "111111",
		Verified:  true,
		ExpiresAt: time.Now().Add(5 * time.Minute).Unix(),
	}, nil)

	svc := newService(os, nil, nil, nil)
	err := svc.Verify(context.Background(), domain.VerifyOtpRequest{Email: "a@x.com", Otp: "111111"})

	require.Error(t, err)
	assert.Equal(t, domain.CodeOtpAlreadyUsed, domain.CodeOf(err))
}

func TestVerify_Expired_EvenWithMatchingUnverifiedCode(t *testing.T) {
	os := &mockOtpStore{}
	os.On("Latest", mock.Anything, "a@x.com").Return(&domain.OtpRecord{
		Email:     "a@x.com",
		Code:      "111111",
		ExpiresAt: time.Now().Add(-1 * time.Minute).Unix(),
	}, nil)

	svc := newService(os, nil, nil, nil)
	err := svc.Verify(context.Background(), domain.VerifyOtpRequest{Email: "a@x.com", Otp: "111111"})

	require.Error(t, err)
	assert.Equal(t, domain.CodeOtpExpired, domain.CodeOf(err))
}

func TestVerify_HappyPath_MarksVerified(t *testing.T) {
	os := &mockOtpStore{}
	rec := &domain.OtpRecord{
		Email:     "a@x.com",
		OtpID:     "o1",
		Code:      "111111",
		ExpiresAt: time.Now().Add(5 * time.Minute).Unix(),
	}
	os.On("Latest", mock.Anything, "a@x.com").Return(rec, nil)
	os.On("MarkVerified", mock.Anything, rec).Return(nil)

	svc := newService(os, nil, nil, nil)
	err := svc.Verify(context.Background(), domain.VerifyOtpRequest{Email: "a@x.com", Otp: "111111"})

	require.NoError(t, err)
	os.AssertExpectations(t)
}

func TestGenerateCode_FixedWidth(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}
