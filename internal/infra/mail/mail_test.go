package mail

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rolodex/config"
)

func TestConfirmationLink(t *testing.T) {
	assert.Equal(t,
		"https://rolodex.example.com/auth/confirm/tok123",
		confirmationLink("https://rolodex.example.com/", "tok123"),
	)
	assert.Equal(t,
		"https://rolodex.example.com/auth/confirm/tok123",
		confirmationLink("https://rolodex.example.com", "tok123"),
	)
}

func TestBuildConfirmationMessage(t *testing.T) {
	msg := string(buildConfirmationMessage(
		"noreply@rolodex.example.com",
		"alice@example.com",
		"alice",
		"https://rolodex.example.com/auth/confirm/tok123",
	))

	assert.Contains(t, msg, "To: alice@example.com\r\n")
	assert.Contains(t, msg, "Hi alice,")
	assert.Contains(t, msg, "https://rolodex.example.com/auth/confirm/tok123")
	// Headers and body are separated by a blank line.
	assert.Contains(t, msg, "\r\n\r\n")
}

func TestNew_SelectsDevMailer(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mailer := New(&config.Config{Mail: &config.MailConfig{Dev: true}}, logger)
	_, ok := mailer.(*devMailer)
	assert.True(t, ok)

	mailer = New(&config.Config{Mail: &config.MailConfig{Host: "smtp.example.com", Port: 587}}, logger)
	_, ok = mailer.(*smtpMailer)
	assert.True(t, ok)
}

func TestDevMailer_LogsLink(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	mailer := NewDevMailer(&config.MailConfig{BaseURL: "http://localhost:8080"}, logger)
	err := mailer.SendConfirmation(context.Background(), "alice@example.com", "alice", "tok123")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "http://localhost:8080/auth/confirm/tok123")
}
