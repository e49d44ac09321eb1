package score

import (
	"testing"
	"time"

	"github.com/healthapp-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func fullProfile() *domain.Profile {
	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Profile{
		FirstName:       "Asha",
		LastName:        "Rao",
		Dob:             &dob,
		Age:             35,
		PhoneNumber:     "+919876543210",
		Address1:        "12 MG Road",
		City:            "Bengaluru",
		Email:           "asha@example.com",
		Gender:          "female",
		ProfileImageURL: "https://cdn.example.com/p/asha.jpg",
		BloodGroup:      "O+",
	}
}

func TestCompute_AllFieldsValid_Is100(t *testing.T) {
	assert.Equal(t, 100, Compute(fullProfile()))
}

func TestCompute_EmptyProfile_Is0(t *testing.T) {
	assert.Equal(t, 0, Compute(&domain.Profile{}))
}

func TestCompute_WhitespaceStringsAreInvalid(t *testing.T) {
	p := &domain.Profile{FirstName: "   ", LastName: "\t"}
	assert.Equal(t, 0, Compute(p))
}

func TestCompute_SingleField(t *testing.T) {
	p := &domain.Profile{FirstName: "Asha"}
	assert.Equal(t, 10, Compute(p))
}

func TestCompute_AddressPartsCountOnce(t *testing.T) {
	onlyCity := &domain.Profile{City: "Pune"}
	fullAddress := &domain.Profile{Address1: "1 Main St", Address2: "Flat 2", City: "Pune", State: "MH", Pincode: 411001}
	assert.Equal(t, Compute(onlyCity), Compute(fullAddress))
}

func TestCompute_MonotoneInValidFields(t *testing.T) {
	p := &domain.Profile{}
	prev := Compute(p)
	for _, add := range []func(){
		func() { p.FirstName = "Asha" },
		func() { p.LastName = "Rao" },
		func() { p.Age = 35 },
		func() { p.PhoneNumber = "+919876543210" },
		func() { p.City = "Bengaluru" },
		func() { p.Email = "asha@example.com" },
		func() { p.Gender = "female" },
		func() { p.BloodGroup = "O+" },
	} {
		add()
		got := Compute(p)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestCompute_Deterministic(t *testing.T) {
	p := fullProfile()
	assert.Equal(t, Compute(p), Compute(p))
}
