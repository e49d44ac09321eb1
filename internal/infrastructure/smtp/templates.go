package smtp

import "fmt"

// OtpTemplate renders the verification-code email body.
func OtpTemplate(code string) string {
	return fmt.Sprintf(`<div style="font-family:Arial, sans-serif; padding:20px; background:#f5f7fa;">
  <div style="max-width:500px; margin:0 auto; background:#ffffff; padding:30px; border-radius:8px;">
    <h2 style="color:#4a4a4a; text-align:center;">Health App Verification Code</h2>
    <p style="font-size:16px; color:#555;">
      Use the following One-Time Password (OTP) to complete your verification.
    </p>
    <div style="text-align:center; margin:25px 0;">
      <span style="font-size:32px; letter-spacing:3px; font-weight:bold; color:#2d6cdf;">%s</span>
    </div>
    <p style="color:#777; font-size:14px;">
      This OTP is valid for <strong>10 minutes</strong>.
      Do not share this code with anyone.
    </p>
    <p style="font-size:12px; color:#aaa; text-align:center;">
      If you did not request this, please ignore this email.
    </p>
  </div>
</div>`, code)
}

// WelcomeTemplate renders the post-registration welcome email body.
func WelcomeTemplate(firstName string) string {
	greeting := "Welcome"
	if firstName != "" {
		greeting = "Welcome, " + firstName
	}
	return fmt.Sprintf(`<div style="font-family:Arial, sans-serif; padding:20px; background:#f5f7fa;">
  <div style="max-width:500px; margin:0 auto; background:#ffffff; padding:30px; border-radius:8px;">
    <h2 style="color:#4a4a4a; text-align:center;">%s!</h2>
    <p style="font-size:16px; color:#555;">
      Your Health App account has been created. Complete your profile to get
      the most out of the app.
    </p>
  </div>
</div>`, greeting)
}
