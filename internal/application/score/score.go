// Package score computes the profile-completeness percentage. It is pure:
// no I/O, deterministic for identical input. It runs on every profile save
// to keep the stored score synchronized with the field values.
package score

import (
	"strings"

	"github.com/healthapp-api/internal/domain"
)

// The fixed checklist of trackable profile fields. Address counts once,
// as long as any part of it is filled in.
const fieldCount = 10

// Compute returns the completeness percentage in [0,100]: the share of
// checklist fields that hold a valid value, rounded to the nearest integer.
func Compute(p *domain.Profile) int {
	completed := 0
	for _, ok := range []bool{
		validString(p.FirstName),
		validString(p.LastName),
		p.Dob != nil && !p.Dob.IsZero(),
		p.Age > 0,
		validString(p.PhoneNumber),
		validString(p.Address1) || validString(p.Address2) ||
			validString(p.City) || validString(p.State) || p.Pincode > 0,
		validString(p.Email),
		validString(p.Gender),
		validString(p.ProfileImageURL),
		validString(p.BloodGroup),
	} {
		if ok {
			completed++
		}
	}
	// round(100 * completed / fieldCount) in integer arithmetic
	return (100*completed + fieldCount/2) / fieldCount
}

func validString(s string) bool {
	return strings.TrimSpace(s) != ""
}
