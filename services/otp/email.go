package otp

import (
	"fmt"
	"html"
	"time"

	"homeserve/services/notification"
)

var subjects = map[string]string{
	PurposeVerify: "Confirm your HomeServe account",
	PurposeReset:  "Reset your HomeServe password",
	PurposeLogin:  "Your HomeServe sign-in code",
}

func otpEmail(to, name, purpose, code string, ttl time.Duration) notification.Email {
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your code is <strong>%s</strong>. It expires in %d minutes.</p>"+
			"<p>If you did not request it you can ignore this email.</p>",
		html.EscapeString(name), code, int(ttl.Minutes()))
	return notification.Email{To: to, Subject: subjects[purpose], Body: body}
}
