package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountCreated(t *testing.T) {
	msg, err := AccountCreated("jane@example.com", "Jane", "s3cret!", "http://app/login")
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", msg.To)
	assert.Contains(t, msg.HTML, "s3cret!")
	assert.Contains(t, msg.HTML, `href="http://app/login"`)
}

func TestTemplatesEscapeInput(t *testing.T) {
	msg, err := RegistrationRequest("admin@example.com", "<script>x</script>", "Bob", "bob@example.com", "http://app/r?token=a")
	require.NoError(t, err)

	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
}

func TestResetPassword(t *testing.T) {
	msg, err := ResetPassword("a@b.c", "Ann", "http://app/reset-password?token=t")
	require.NoError(t, err)

	assert.Equal(t, "Reset your password", msg.Subject)
	assert.Contains(t, msg.HTML, "Ann")
}
