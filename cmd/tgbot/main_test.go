package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReply(t *testing.T) {
	cases := []struct {
		text    string
		want    string
		handled bool
	}{
		{"/ice 100 20 8 5 10 20 30 50", "Ice resistance: 558.46 kN", true},
		{"/ice@floe_bot 100 20 8 5 10 20 30 0", "Ice resistance: 0 kN", true},
		{"/ice 100 20 8 5 10 20 30", usage, true},
		{"/help", usage, true},
		{"hello", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := reply(tc.text)
		assert.Equal(t, tc.handled, ok, tc.text)
		assert.Equal(t, tc.want, got, tc.text)
	}
}

func TestReply_InvalidNumber(t *testing.T) {
	got, ok := reply("/ice 100 20 8 -5 10 20 30 50")
	assert.True(t, ok)
	assert.Contains(t, got, "Invalid input")

	got, _ = reply("/ice 100 20 8 five 10 20 30 50")
	assert.Contains(t, got, "Invalid input")
}

func TestRun_AnswersMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu    sync.Mutex
		calls int
		sent  []map[string]any
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/botTEST/getUpdates", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		resp := UpdateResponse{OK: true}
		if first {
			resp.Result = []Update{
				{UpdateID: 7, Message: &Message{MessageID: 1, Chat: Chat{ID: 42}, Text: "/ice 100 20 8 5 10 20 30 50"}},
				{UpdateID: 8, Message: &Message{MessageID: 2, Chat: Chat{ID: 42}, Text: "just chatting"}},
			}
		} else {
			cancel()
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/botTEST/sendMessage", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		sent = append(sent, body)
		mu.Unlock()
		w.Write([]byte(`{"ok":true}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	b := &bot{token: "TEST", baseURL: srv.URL, client: srv.Client(), logger: slog.Default()}
	b.run(ctx)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sent, 1)
	assert.Equal(t, float64(42), sent[0]["chat_id"])
	assert.Equal(t, "Ice resistance: 558.46 kN", sent[0]["text"])
}
