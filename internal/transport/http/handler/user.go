package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/healthapp-api/internal/application/account"
	"github.com/healthapp-api/internal/application/otp"
	"github.com/healthapp-api/internal/domain"
	"github.com/healthapp-api/internal/pkg/validate"
	"github.com/healthapp-api/internal/transport/http/middleware"
)

const maxMultipartMemory = 8 << 20 // 8 MiB

// UserHandler handles the registration, verification and login endpoints.
type UserHandler struct {
	otpSvc     otp.Service
	accountSvc account.Service
}

func NewUserHandler(otpSvc otp.Service, accountSvc account.Service) *UserHandler {
	return &UserHandler{otpSvc: otpSvc, accountSvc: accountSvc}
}

func (h *UserHandler) SendOtp(w http.ResponseWriter, r *http.Request) {
	var req domain.SendOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeInvalidData, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	if err := h.otpSvc.Request(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "OTP sent successfully", nil)
}

func (h *UserHandler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyOtpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeInvalidData, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	if err := h.otpSvc.Verify(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "OTP verified successfully", nil)
}

// Register accepts a multipart form (profile fields plus an optional
// profileImage file) or a plain JSON body. The service decides between the
// new-account and authenticated-update branches based on userToken.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, image, err := parseRegisterRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeInvalidData, err.Error())
		return
	}
	if err := validate.Struct(req); err != nil {
		httpError(w, err)
		return
	}

	result, err := h.accountSvc.Register(r.Context(), *req, image)
	if err != nil {
		httpError(w, err)
		return
	}
	if result.Created {
		writeSuccess(w, http.StatusCreated, "User created successfully", map[string]interface{}{
			"userToken": result.UserToken,
			"profile":   result.Profile,
		})
		return
	}
	writeSuccess(w, http.StatusOK, "User updated successfully", result.Profile)
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeInvalidData, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	token, err := h.accountSvc.Login(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "login successful", map[string]string{"userToken": token})
}

func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeInvalidData, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, err)
		return
	}
	if err := h.accountSvc.ForgotPassword(r.Context(), req); err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "password updated successfully", nil)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	identityID, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, domain.CodeUnauthorized, "unauthorized")
		return
	}
	prof, err := h.accountSvc.GetProfile(r.Context(), identityID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", prof)
}

// parseRegisterRequest reads either a multipart form or a JSON body into a
// RegisterRequest plus the optional image upload.
func parseRegisterRequest(r *http.Request) (*domain.RegisterRequest, *account.ImageUpload, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var req domain.RegisterRequest
		// Dob shadows the embedded field so clients can send "YYYY-MM-DD".
		body := struct {
			Email     string `json:"email"`
			Password  string `json:"password"`
			UserToken string `json:"userToken"`
			Dob       string `json:"dob"`
			domain.ProfileUpdate
		}{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, nil, err
		}
		req.Email = body.Email
		req.Password = body.Password
		req.UserToken = body.UserToken
		req.Profile = body.ProfileUpdate
		if body.Dob != "" {
			t, err := time.Parse("2006-01-02", body.Dob)
			if err != nil {
				return nil, nil, domain.E(domain.ErrBadRequest, domain.CodeInvalidData, "dob must be in YYYY-MM-DD format")
			}
			req.Profile.Dob = &t
		}
		return &req, nil, nil
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, nil, err
	}
	req := &domain.RegisterRequest{
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
		UserToken: r.FormValue("userToken"),
	}

	strField := func(name string, dst **string) {
		if v := r.FormValue(name); v != "" {
			s := v
			*dst = &s
		}
	}
	strField("firstName", &req.Profile.FirstName)
	strField("lastName", &req.Profile.LastName)
	strField("gender", &req.Profile.Gender)
	strField("phoneNumber", &req.Profile.PhoneNumber)
	strField("address1", &req.Profile.Address1)
	strField("address2", &req.Profile.Address2)
	strField("city", &req.Profile.City)
	strField("state", &req.Profile.State)
	strField("bloodGroup", &req.Profile.BloodGroup)
	strField("aadhaar", &req.Profile.Aadhaar)
	strField("pan", &req.Profile.Pan)

	if v := r.FormValue("dob"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, nil, domain.E(domain.ErrBadRequest, domain.CodeInvalidData, "dob must be in YYYY-MM-DD format")
		}
		req.Profile.Dob = &t
	}
	if v := r.FormValue("pincode"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, domain.E(domain.ErrBadRequest, domain.CodeInvalidData, "pincode must be numeric")
		}
		req.Profile.Pincode = &n
	}

	var image *account.ImageUpload
	if file, header, err := r.FormFile("profileImage"); err == nil {
		image = &account.ImageUpload{Filename: header.Filename, Reader: file}
	}
	return req, image, nil
}
