package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/healthapp-api/internal/application/account"
	"github.com/healthapp-api/internal/application/otp"
	"github.com/healthapp-api/internal/application/score"
	"github.com/healthapp-api/internal/config"
	"github.com/healthapp-api/internal/transport/http/handler"
	appmiddleware "github.com/healthapp-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	otpSvc := otp.NewService(otp.ServiceDeps{
		OtpRepo:      deps.OtpRepo,
		IdentityRepo: deps.IdentityRepo,
		Mailer:       deps.Mailer,
		SMSSender:    deps.SMSSender,
	})
	accountSvc := account.NewService(account.ServiceDeps{
		IdentityRepo: deps.IdentityRepo,
		ProfileRepo:  deps.ProfileRepo,
		OtpRepo:      deps.OtpRepo,
		Tokens:       deps.JWTProvider,
		Images:       deps.ImageStore,
		Mailer:       deps.Mailer,
		Score:        score.Compute,
	})

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(otpSvc, accountSvc)
	dataH := handler.NewDataHandler()

	r.Get("/health", healthH.Ping)

	r.Route("/user", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/sendOtp", userH.SendOtp)
		r.Post("/verifyOtp", userH.VerifyOtp)
		r.With(sensitiveRL.Limit).Post("/register", userH.Register)
		r.With(sensitiveRL.Limit).Post("/login", userH.Login)
		r.With(sensitiveRL.Limit).Post("/forgotPassword", userH.ForgotPassword)

		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.JWTProvider))
			r.Get("/getUser", userH.GetUser)
		})
	})

	r.Route("/data", func(r chi.Router) {
		r.Get("/bloodGroups", dataH.BloodGroups)
	})

	return r
}
