package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ViFerX/research-assistant/internal/domain/user"
	"github.com/ViFerX/research-assistant/internal/session"
)

// persistedSession is the on-disk form of the bearer session, so separate
// CLI invocations share one login.
type persistedSession struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

func sessionFilePath() string {
	if p := os.Getenv("RESEARCH_SESSION_FILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".researchctl-session.json"
	}
	return filepath.Join(home, ".researchctl", "session.json")
}

// restoreSession installs a previously saved session, if any.
func restoreSession(sessions *session.Store) {
	data, err := os.ReadFile(sessionFilePath())
	if err != nil {
		return
	}
	var ps persistedSession
	if err := json.Unmarshal(data, &ps); err != nil || ps.Token == "" {
		slog.Warn("ignoring unreadable session file", "path", sessionFilePath())
		return
	}
	sessions.Login(ps.Token, ps.User)
}

func saveSessionFile(token string, u user.User) {
	path := sessionFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		slog.Warn("cannot create session directory", "error", err)
		return
	}
	data, err := json.Marshal(persistedSession{Token: token, User: u})
	if err != nil {
		return
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		slog.Warn("cannot save session", "error", err)
	}
}

func clearSessionFile() {
	if err := os.Remove(sessionFilePath()); err != nil && !os.IsNotExist(err) {
		slog.Warn("cannot remove session file", "error", err)
	}
}
