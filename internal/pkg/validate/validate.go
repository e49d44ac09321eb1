package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/healthapp-api/internal/domain"
)

// v is the package-level singleton validator, initialised once at package
// load time.
var v = validator.New()

// Struct validates the given struct using its validate tags. Failures are
// returned as an INVALID_DATA domain error carrying per-field details.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	details := make(map[string]string, len(ve))
	var msgs []string
	for _, fe := range ve {
		details[fe.Field()] = fe.Tag()
		msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
	}
	return domain.E(domain.ErrBadRequest, domain.CodeInvalidData, strings.Join(msgs, "; ")).WithDetails(details)
}
