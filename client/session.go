package client

import (
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/kundanmehta01/UniNotes-sub001/domain"
)

// Session is the persisted login state. Loading and saving happen only at
// these two boundaries; nothing mutates the file behind the caller's back.
type Session struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *domain.User `json:"user,omitempty"`
	SavedAt      time.Time    `json:"saved_at"`
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.AccessToken != ""
}

// LoadSession reads a saved session. A missing file yields (nil, nil) so a
// fresh install is not an error.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes the session with owner-only permissions; it holds tokens.
func (s *Session) Save(path string) error {
	s.SavedAt = time.Now()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// ClearSession removes the saved session; a missing file is fine.
func ClearSession(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
