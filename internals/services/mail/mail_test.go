package mail

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPicksConsoleWithoutKey(t *testing.T) {
	_, ok := New("", "School", "noreply@school.local").(*ConsoleMailer)
	assert.True(t, ok)
	_, ok = New("key", "School", "noreply@school.local").(*SendgridMailer)
	assert.True(t, ok)
}

func TestSendgridPrepare(t *testing.T) {
	s := NewSendgridMailer("key", "School", "noreply@school.local")
	m := s.prepare(Message{
		To:      []Address{{Name: "Ana", Email: "ana@school.local"}},
		Subject: "Overdue book",
		Text:    "Please return it.",
	})
	assert.Equal(t, "noreply@school.local", m.From.Address)
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "Overdue book", m.Personalizations[0].Subject)
	assert.Equal(t, "ana@school.local", m.Personalizations[0].To[0].Address)
	assert.Len(t, m.Content, 1)
}

func TestSendgridSend(t *testing.T) {
	status := http.StatusAccepted
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		got = string(b)
		w.WriteHeader(status)
	}))
	defer srv.Close()

	prev := sendgridHost
	sendgridHost = srv.URL
	defer func() { sendgridHost = prev }()

	s := NewSendgridMailer("key", "School", "noreply@school.local")
	msg := Message{To: []Address{{Email: "ana@school.local"}}, Subject: "Hi", Text: "Hello"}

	require.NoError(t, s.Send(context.Background(), msg))
	assert.Contains(t, got, "ana@school.local")

	status = http.StatusUnauthorized
	assert.Error(t, s.Send(context.Background(), msg))

	got = ""
	require.NoError(t, s.Send(context.Background(), Message{Subject: "nobody"}))
	assert.Empty(t, got)
}
