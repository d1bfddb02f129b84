// Package chatlog loads the persisted chat log used to seed the service at startup.
package chatlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/zhouzirui/misinfo-check/backend/internal/model/chat"
)

// Store holds the messages read at startup. It is read-only once opened.
type Store struct {
	path string

	mu       sync.RWMutex
	messages []chat.Message
}

// Open reads the log at path. A missing or unparsable log is replaced with an empty one;
// other I/O errors are returned.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("chat log path is empty")
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := bootstrap(path); err != nil {
			return nil, err
		}
		return &Store{path: path, messages: make([]chat.Message, 0)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read chat log %s: %w", path, err)
	}

	var messages []chat.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		slog.Warn("chat log unreadable, resetting", "path", path, "error", err)
		if err := bootstrap(path); err != nil {
			return nil, err
		}
		return &Store{path: path, messages: make([]chat.Message, 0)}, nil
	}
	if messages == nil {
		messages = make([]chat.Message, 0)
	}
	return &Store{path: path, messages: messages}, nil
}

func bootstrap(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chat log dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("create chat log: %w", err)
	}
	return nil
}

// Path returns the file the store was opened from.
func (s *Store) Path() string { return s.path }

// Len returns the number of stored messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Messages returns a copy of the stored log.
func (s *Store) Messages() []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]chat.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}
