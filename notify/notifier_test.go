package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pricewatch/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func Test_Notify_PushesWhenConfigured(t *testing.T) {
	var got pushRequest
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	n := NewNotifier(models.Settings{ChatBotToken: "tok", ChatBotChatID: "42"}, zap.NewNop())
	n.apiBase = server.URL

	n.Notify("Target price reached", "Laptop at 95.00 $")

	require.Equal(t, "/bottok/sendMessage", gotPath)
	require.Equal(t, "42", got.ChatID)
	require.Equal(t, "<b>Target price reached</b>\nLaptop at 95.00 $", got.Text)
	require.Equal(t, "HTML", got.ParseMode)
}

func Test_Notify_SkipsPushWithoutCredentials(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	n := NewNotifier(models.Settings{ChatBotToken: "tok"}, zap.NewNop())
	n.apiBase = server.URL

	n.Notify("Alert", "message")
	require.False(t, called, "push must not fire with an incomplete credential pair")
}

func Test_Notify_PushFailureIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	n := NewNotifier(models.Settings{ChatBotToken: "bad", ChatBotChatID: "42"}, zap.NewNop())
	n.apiBase = server.URL

	// Must not panic or propagate anything.
	n.Notify("Alert", "message")
}

func Test_Notify_UnreachableEndpointIsSwallowed(t *testing.T) {
	n := NewNotifier(models.Settings{ChatBotToken: "tok", ChatBotChatID: "42"}, zap.NewNop())
	n.apiBase = "http://127.0.0.1:1"

	n.Notify("Alert", "message")
}
