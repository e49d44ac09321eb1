package http

import (
	"github.com/healthapp-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/healthapp-api/internal/infrastructure/jwt"
	s3infra "github.com/healthapp-api/internal/infrastructure/s3"
	"github.com/healthapp-api/internal/infrastructure/smtp"
	"github.com/healthapp-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	IdentityRepo *dynamo.IdentityRepo
	ProfileRepo  *dynamo.ProfileRepo
	OtpRepo      *dynamo.OtpRepo
	ImageStore   *s3infra.Store
	Mailer       smtp.Mailer
	SMSSender    sns.SMSSender
	JWTProvider  *jwtinfra.Provider
}
