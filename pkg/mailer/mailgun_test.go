package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPassesThroughPlainJob(t *testing.T) {
	job := EmailJob{To: "a@example.com", Subject: "s", Text: "t", HTML: "<p>h</p>"}
	called := false
	subject, text, html, err := Render(job, func(string, any) (string, string, string, error) {
		called = true
		return "", "", "", nil
	})
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, "s", subject)
	assert.Equal(t, "t", text)
	assert.Equal(t, "<p>h</p>", html)
}

func TestRenderFillsRecipientIntoTemplateData(t *testing.T) {
	job := EmailJob{To: "a@example.com", Template: "verify_email"}
	var gotName string
	var gotData map[string]any
	_, _, _, err := Render(job, func(name string, data any) (string, string, string, error) {
		gotName = name
		gotData = data.(map[string]any)
		return "subj", "txt", "html", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "verify_email", gotName)
	assert.Equal(t, "a@example.com", gotData["Email"])
}
