package notify

import (
	"fmt"
	"html"
	"time"
)

const codeLayout = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background: #f9f9f9; border-radius: 10px;">
  <h1 style="color: #333; text-align: center;">%s</h1>
  <div style="background: #fff; padding: 20px; border-radius: 8px; text-align: center;">
    <p style="font-size: 16px; color: #666;">Your verification code is:</p>
    <h2 style="font-size: 32px; color: #4CAF50; letter-spacing: 5px;">%s</h2>
    <p style="font-size: 14px; color: #999;">This code expires in %d minutes. Do not share it with anyone.</p>
  </div>
  <p style="font-size: 14px; color: #666; text-align: center;">If you did not request this code, ignore this email.</p>
</div>`

// OTPMessage builds the code mail; login and registration differ only in wording.
func OTPMessage(kind Kind, to, code string, ttl time.Duration) Message {
	subject, heading := "Verify your email", "Email Verification Code"
	if kind == KindLoginOTP {
		subject, heading = "Your Login OTP Code", "2-Step Verification Code"
	}
	return Message{
		Kind:    kind,
		To:      to,
		Subject: subject,
		HTML:    fmt.Sprintf(codeLayout, heading, html.EscapeString(code), int(ttl.Minutes())),
	}
}

func ApprovedMessage(to, name string) Message {
	return Message{
		Kind:    KindApproved,
		To:      to,
		Subject: "Account Approved! Welcome Aboard!",
		HTML: fmt.Sprintf(`<p>Hi %s,</p>
<p>Your account has been approved by our admin.</p>
<p>You can now log in and start using the platform.</p>
<p>Thanks,<br>The Team</p>`, html.EscapeString(name)),
	}
}

func RejectedMessage(to, name string) Message {
	return Message{
		Kind:    KindRejected,
		To:      to,
		Subject: "Update on Your Registration",
		HTML: fmt.Sprintf(`<p>Hi %s,</p>
<p>After review, your registration has been rejected.</p>
<p>If you believe this is a mistake, please contact our support team.</p>
<p>Thanks,<br>The Team</p>`, html.EscapeString(name)),
	}
}
