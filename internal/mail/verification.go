package mail

import "fmt"

// VerificationMessage renders the signup/resend verification email. The link
// embeds the single-use token; the body also shows the Vault ID because it is
// the login handle the user must keep.
func VerificationMessage(to, verificationURL, vaultID string) Message {
	text := fmt.Sprintf(`StudyVault - Email Verification

Thank you for signing up. To complete your registration, verify your email
address by visiting the link below:

%s

Your Vault ID: %s
Save this ID! You'll need it to log in after verification.

This link will expire in 24 hours. If you didn't create an account, you can
safely ignore this email.`, verificationURL, vaultID)

	html := fmt.Sprintf(`<html><body>
<h2>Verify Your Email Address</h2>
<p>Thank you for signing up for StudyVault. To complete your registration,
click the link below:</p>
<p><a href="%s">Verify Email Address</a></p>
<p>Your Vault ID: <strong>%s</strong><br>
Save this ID! You'll need it to log in after verification.</p>
<p>This link will expire in 24 hours. If you didn't create an account, you
can safely ignore this email.</p>
</body></html>`, verificationURL, vaultID)

	return Message{
		To:      to,
		Subject: "Verify your StudyVault email address",
		HTML:    html,
		Text:    text,
	}
}
