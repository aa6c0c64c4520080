package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func TestBuildMail(t *testing.T) {
	m, err := buildMail("no-reply@lostnomore.local", &Message{
		Recipients: []string{"b@x.com", "c@x.com"},
		Subject:    "New Found Item Reported",
		HTML:       "<p>hi</p>",
	})
	require.NoError(t, err)

	rcpts, err := m.GetRecipients()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"no-reply@lostnomore.local", "b@x.com", "c@x.com"}, rcpts)
	assert.Equal(t, []string{"New Found Item Reported"}, m.GetGenHeader(mail.HeaderSubject))
}

func TestBuildMail_InvalidRecipient(t *testing.T) {
	_, err := buildMail("no-reply@lostnomore.local", &Message{Recipients: []string{"not an address"}})
	assert.Error(t, err)
}
