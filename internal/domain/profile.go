package domain

import "time"

// Profile is the demographic record owned by exactly one Identity.
// IdentityID is immutable after creation. ProfileScore always holds the
// recomputed completeness value for the current field set.
type Profile struct {
	ProfileID       string     `json:"id" dynamodbav:"profile_id"`
	IdentityID      string     `json:"identity_id" dynamodbav:"identity_id"`
	Email           string     `json:"email" dynamodbav:"email"`
	FirstName       string     `json:"first_name" dynamodbav:"first_name"`
	LastName        string     `json:"last_name" dynamodbav:"last_name"`
	Age             int        `json:"age" dynamodbav:"age"`
	Dob             *time.Time `json:"dob,omitempty" dynamodbav:"dob"`
	Gender          string     `json:"gender" dynamodbav:"gender"`
	PhoneNumber     string     `json:"phone_number" dynamodbav:"phone_number"`
	Address1        string     `json:"address1" dynamodbav:"address1"`
	Address2        string     `json:"address2" dynamodbav:"address2"`
	City            string     `json:"city" dynamodbav:"city"`
	State           string     `json:"state" dynamodbav:"state"`
	Pincode         int        `json:"pincode" dynamodbav:"pincode"`
	BloodGroup      string     `json:"blood_group" dynamodbav:"blood_group"`
	Aadhaar         string     `json:"aadhaar" dynamodbav:"aadhaar"`
	Pan             string     `json:"pan" dynamodbav:"pan"`
	ProfileImageURL string     `json:"profile_image" dynamodbav:"profile_image_url"`
	ProfileScore    int        `json:"profile_score" dynamodbav:"profile_score"`
	IsNewUser       bool       `json:"is_new_user" dynamodbav:"is_new_user"`
	CreatedBy       string     `json:"created_by,omitempty" dynamodbav:"created_by"`
	LastModifiedBy  string     `json:"last_modified_by,omitempty" dynamodbav:"last_modified_by"`
	CreatedAt       time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt       time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// ProfileUpdate is the full set of caller-writable profile attributes. The
// type itself is the allow-list: anything a client submits outside these
// fields simply has nowhere to go, so protected fields (identity_id,
// profile_score, timestamps) can never be written directly.
type ProfileUpdate struct {
	FirstName       *string    `json:"firstName"`
	LastName        *string    `json:"lastName"`
	Dob             *time.Time `json:"dob"`
	Gender          *string    `json:"gender"`
	PhoneNumber     *string    `json:"phoneNumber"`
	Address1        *string    `json:"address1"`
	Address2        *string    `json:"address2"`
	City            *string    `json:"city"`
	State           *string    `json:"state"`
	Pincode         *int       `json:"pincode"`
	BloodGroup      *string    `json:"bloodGroup"`
	Aadhaar         *string    `json:"aadhaar"`
	Pan             *string    `json:"pan"`
	ProfileImageURL *string    `json:"profileImage"`
}

// RegisterRequest carries the multipart form fields of POST /user/register.
// Email and Password are required on the new-account branch only; UserToken
// selects the authenticated-update branch.
type RegisterRequest struct {
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"omitempty,min=6,max=72"`
	UserToken string `json:"userToken"`
	Profile   ProfileUpdate
}
