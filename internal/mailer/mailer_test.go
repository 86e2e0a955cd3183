package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSender(t *testing.T) *SMTPSender {
	t.Helper()
	s, err := NewSMTPSender("127.0.0.1", 1025, "", "", "Meetmax <no-reply@meetmax.local>")
	require.NoError(t, err)
	return s
}

func TestRenderVerification(t *testing.T) {
	s := newTestSender(t)

	body, err := s.render("verification.html", mailData{
		Name:      "Ada",
		ActionURL: "http://localhost:3500/api/auth/verify/tok123",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Hi Ada")
	assert.Contains(t, body, "http://localhost:3500/api/auth/verify/tok123")
	assert.Contains(t, body, "Confirm your email address")
}

func TestRenderPasswordReset(t *testing.T) {
	s := newTestSender(t)

	body, err := s.render("password_reset.html", mailData{
		Name:      "Ada",
		ActionURL: "http://localhost:3500/api/auth/new-password/tok123",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Reset your password")
	assert.Contains(t, body, "http://localhost:3500/api/auth/new-password/tok123")
}
