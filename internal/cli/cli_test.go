package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const searchPage = `<html><body>
<div class="result"><h2><a class="result__a" href="https://example.com/sky">Why is the sky blue?</a></h2>
<a class="result__snippet">Rayleigh scattering.</a></div>
</body></html>`

const completion = `{"id":"chatcmpl-1","object":"chat.completion","created":0,"model":"llama3-70b-8192",
"choices":[{"index":0,"message":{"role":"assistant","content":"Yes, the sky is blue due to Rayleigh scattering.</s>"},"finish_reason":"stop"}]}`

func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/chat/completions"):
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, completion)
		case strings.HasPrefix(r.URL.Path, "/html"):
			_, _ = io.WriteString(w, searchPage)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setEnv(t *testing.T, srv *httptest.Server) {
	t.Helper()
	t.Setenv("LLM_PROVIDER", "groq")
	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("GROQ_BASE_URL", srv.URL+"/openai/v1")
	t.Setenv("SEARCH_ENGINE", "duckduckgo")
	t.Setenv("SEARCH_BASE_URL", srv.URL+"/html/")
	t.Setenv("CHAT_LOG_PATH", filepath.Join(t.TempDir(), "Data", "ChatLog.json"))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCheckCommand(t *testing.T) {
	setEnv(t, upstream(t))

	out, err := execute(t, "check", "Is", "the", "sky", "blue?")
	if err != nil {
		t.Fatalf("check err: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if got["status"] != "verified" || got["message"] != "Yes, the sky is blue due to Rayleigh scattering." {
		t.Fatalf("unexpected verdict %v", got)
	}
}

func TestSearchCommand(t *testing.T) {
	setEnv(t, upstream(t))

	out, err := execute(t, "search", "sky")
	if err != nil {
		t.Fatalf("search err: %v", err)
	}
	want := "The search results for 'sky' are:\n[start]\nTitle: Why is the sky blue?\nDescription: Rayleigh scattering.\n\n[end]\n"
	if out != want {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestClockCommand(t *testing.T) {
	setEnv(t, upstream(t))

	out, err := execute(t, "clock")
	if err != nil {
		t.Fatalf("clock err: %v", err)
	}
	if !strings.HasPrefix(out, "Use This Real Time Information if needed: \nDay: ") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLogCommand(t *testing.T) {
	setEnv(t, upstream(t))
	path := os.Getenv("CHAT_LOG_PATH")

	out, err := execute(t, "log")
	if err != nil {
		t.Fatalf("log err: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Fatalf("unexpected output %q", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected chat log to be bootstrapped: %v", err)
	}
}

func TestInvalidConfigurationFails(t *testing.T) {
	setEnv(t, upstream(t))
	t.Setenv("SEARCH_ENGINE", "altavista")

	if _, err := execute(t, "clock"); err == nil {
		t.Fatal("expected configuration error")
	}
}
