package domain

import "time"

// Identity is the credential record: email plus password hash, independent of
// the demographic profile. Email uniqueness is enforced at creation time
// against the lowercased form.
type Identity struct {
	IdentityID     string    `json:"id" dynamodbav:"identity_id"`
	Email          string    `json:"email" dynamodbav:"email"`
	PasswordHash   string    `json:"-" dynamodbav:"password_hash"`
	Verified       bool      `json:"verified" dynamodbav:"verified"`
	CreatedBy      string    `json:"created_by,omitempty" dynamodbav:"created_by"`
	LastModifiedBy string    `json:"last_modified_by,omitempty" dynamodbav:"last_modified_by"`
	CreatedAt      time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt      time.Time `json:"updated" dynamodbav:"updated_at"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}
