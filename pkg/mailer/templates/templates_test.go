package templates

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVerifyEmail(t *testing.T) {
	exp := time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)
	data := ToMap(NewData("Acme", "Jane", "jane@example.com",
		WithCode("042917"),
		WithExpiresAt(exp),
		WithVerifyURL("https://acme.test/verify"),
	))

	subject, text, html, err := Render(VerifyEmail, data)
	require.NoError(t, err)

	assert.Equal(t, "Acme: verify your email address", subject)
	assert.Contains(t, text, "Hi Jane,")
	assert.Contains(t, text, "042917")
	assert.Contains(t, text, "02 January 2025, 03:04 UTC")
	assert.Contains(t, text, "https://acme.test/verify")
	assert.Contains(t, html, "<strong>042917</strong>")
	assert.Contains(t, html, `href="https://acme.test/verify"`)
}

func TestRenderFallbacks(t *testing.T) {
	subject, text, _, err := Render(PasswordChanged, map[string]any{"Email": "x@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "Your account: your password was changed", subject)
	assert.True(t, strings.HasPrefix(text, "Hi there,"))
	assert.Contains(t, text, "The password for x@example.com was changed.")
}

func TestRenderEscapesHTML(t *testing.T) {
	_, text, html, err := Render(PasswordChanged, map[string]any{"Name": "<b>x</b>", "Email": "x@example.com"})
	require.NoError(t, err)

	assert.Contains(t, text, "<b>x</b>")
	assert.NotContains(t, html, "<b>x</b>")
	assert.Contains(t, html, "&lt;b&gt;x&lt;/b&gt;")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	require.Error(t, err)
}
