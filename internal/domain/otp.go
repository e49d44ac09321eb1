package domain

// OTP intents. A registration OTP may only be requested for an email with no
// existing identity; a password-change OTP requires one.
const (
	OtpIntentRegister = "register"
	OtpIntentPassword = "password"
)

// OtpRecord is a one-time passcode keyed by email.
// PK: email, SK: otp_id (ULID — newest record sorts last, queried descending).
// Multiple outstanding records per email may coexist; only the newest one is
// ever consulted. ExpiresAt is a Unix timestamp used as DynamoDB TTL, so
// stale rows age out without any request-path cleanup.
type OtpRecord struct {
	Email     string `json:"email" dynamodbav:"email"`
	OtpID     string `json:"id" dynamodbav:"otp_id"`
	Code      string `json:"-" dynamodbav:"code"`
	Intent    string `json:"intent" dynamodbav:"intent"`
	Verified  bool   `json:"verified" dynamodbav:"verified"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"`
}

type SendOtpRequest struct {
	Email            string `json:"email" validate:"required,email"`
	IsChangePassword bool   `json:"isChangePassword"`
	// PhoneNumber switches password-change OTP delivery to SMS.
	PhoneNumber string `json:"phoneNumber" validate:"omitempty,e164"`
}

type VerifyOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Otp   string `json:"otp" validate:"required,len=6,numeric"`
}
