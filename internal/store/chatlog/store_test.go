package chatlog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zhouzirui/misinfo-check/backend/internal/model/chat"
	"github.com/zhouzirui/misinfo-check/backend/internal/store/chatlog"
)

func TestOpenBootstrapsMissingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Data", "ChatLog.json")

	store, err := chatlog.Open(path)
	if err != nil {
		t.Fatalf("Open err: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file to be created: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("unexpected bootstrap content %q", data)
	}
}

func TestOpenLoadsExistingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ChatLog.json")
	content := `[{"role":"user","content":"Is the sky blue?"},{"role":"assistant","content":"Yes."}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	store, err := chatlog.Open(path)
	if err != nil {
		t.Fatalf("Open err: %v", err)
	}

	want := []chat.Message{
		{Role: chat.RoleUser, Content: "Is the sky blue?"},
		{Role: chat.RoleAssistant, Content: "Yes."},
	}
	if diff := cmp.Diff(want, store.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	got := store.Messages()
	got[0].Content = "changed"
	if store.Messages()[0].Content != "Is the sky blue?" {
		t.Fatal("Messages must return a copy")
	}
}

func TestOpenResetsCorruptLog(t *testing.T) {
	for _, content := range []string{"{not json", `{"role":"user"}`, ""} {
		path := filepath.Join(t.TempDir(), "ChatLog.json")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}

		store, err := chatlog.Open(path)
		if err != nil {
			t.Fatalf("%q: Open err: %v", content, err)
		}
		if store.Len() != 0 {
			t.Fatalf("%q: expected empty store, got %d", content, store.Len())
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("%q: read log: %v", content, err)
		}
		if string(data) != "[]" {
			t.Fatalf("%q: expected log reset to [], got %q", content, data)
		}
	}
}

func TestOpenFailsOnUnreadablePath(t *testing.T) {
	// A directory in place of the file is an I/O error, not a corrupt log.
	path := filepath.Join(t.TempDir(), "ChatLog.json")
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if _, err := chatlog.Open(path); err == nil {
		t.Fatal("expected error when the log path is a directory")
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := chatlog.Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
