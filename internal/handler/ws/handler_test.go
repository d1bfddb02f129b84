package ws

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	checkService "github.com/zhouzirui/misinfo-check/backend/internal/service/check"
)

type scriptedCompleter map[string]string

func (s scriptedCompleter) Complete(_ context.Context, query string) (string, error) {
	answer, ok := s[query]
	if !ok {
		return "", errors.New("upstream down")
	}
	return answer, nil
}

func dial(t *testing.T, completer checkService.Completer) *websocket.Conn {
	t.Helper()
	r := chi.NewRouter()
	New(checkService.NewService(completer, nil, nil), nil).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/check"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, frame string) map[string]string {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out map[string]string
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read: %v", err)
	}
	return out
}

func TestWebSocketCheckFrames(t *testing.T) {
	conn := dial(t, scriptedCompleter{
		"Is the sky blue?": "Yes, the sky is blue due to Rayleigh scattering.",
		"Who won?":         "I cannot verify this information.",
	})

	got := roundTrip(t, conn, `{"text":"Is the sky blue?"}`)
	if got["status"] != "verified" || got["message"] != "Yes, the sky is blue due to Rayleigh scattering." {
		t.Fatalf("unexpected frame %v", got)
	}

	got = roundTrip(t, conn, `{"text":"Who won?"}`)
	if got["status"] != "neutral" {
		t.Fatalf("unexpected frame %v", got)
	}
}

func TestWebSocketErrorFrames(t *testing.T) {
	conn := dial(t, scriptedCompleter{})

	for _, frame := range []string{`{}`, `{"text":""}`, `{"text":null}`} {
		if got := roundTrip(t, conn, frame); got["error"] != "No text provided" {
			t.Fatalf("%q: unexpected frame %v", frame, got)
		}
	}

	for _, frame := range []string{`not json`, `{"text":7}`} {
		if got := roundTrip(t, conn, frame); got["error"] != "An unexpected server error occurred" {
			t.Fatalf("%q: unexpected frame %v", frame, got)
		}
	}

	if got := roundTrip(t, conn, `{"text":"anything"}`); got["error"] != "An unexpected server error occurred" {
		t.Fatalf("unexpected frame %v", got)
	}
}
