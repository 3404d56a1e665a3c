// Copyright (c) 2026 GymFusion. All rights reserved.
// Author: dev@gymfusion.app

package mailer

import (
	"strings"
	"text/template"
)

// Subjects for the two transactional messages.
const (
	SubjectVerifyEmail   = "Please verify your email"
	SubjectPasswordReset = "Password reset request"
)

var verificationTemplate = template.Must(template.New("verification").Parse(
	`Hi {{.Name}},

Welcome to GymFusion! We're very excited to have you on board.

To verify your email please open the following link:

{{.Link}}

This link expires in 20 minutes. If you did not create an account, you can
safely ignore this email.

Need help, or have questions? Just reply to this email, we'd love to help.

The GymFusion Team
`))

var passwordResetTemplate = template.Must(template.New("password_reset").Parse(
	`Hi {{.Name}},

We got a request to reset the password of your account.

To reset your password open the following link:

{{.Link}}

This link expires in 20 minutes. If you did not request a reset, you can
safely ignore this email and your password will remain unchanged.

Need help, or have questions? Just reply to this email, we'd love to help.

The GymFusion Team
`))

type templateData struct {
	Name string
	Link string
}

// VerificationEmail builds the email-verification message for a new account.
func VerificationEmail(to, name, verificationURL string) Message {
	return Message{
		To:      to,
		Subject: SubjectVerifyEmail,
		Body:    render(verificationTemplate, templateData{Name: name, Link: verificationURL}),
	}
}

// PasswordResetEmail builds the password-reset message.
func PasswordResetEmail(to, name, resetURL string) Message {
	return Message{
		To:      to,
		Subject: SubjectPasswordReset,
		Body:    render(passwordResetTemplate, templateData{Name: name, Link: resetURL}),
	}
}

func render(tmpl *template.Template, data templateData) string {
	var builder strings.Builder
	// Templates are static and parsed at init; execution cannot fail on
	// this data shape.
	_ = tmpl.Execute(&builder, data)
	return builder.String()
}
