package client

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SessionCookie is the name of the credential cookie set by the server.
const SessionCookie = "token"

// Session is the credential handle obtained at login. Its contents are opaque
// to the client; they are only forwarded on authorized calls.
type Session struct {
	Cookies []Cookie `yaml:"cookies"`
}

type Cookie struct {
	Name    string    `yaml:"name"`
	Value   string    `yaml:"value"`
	Expires time.Time `yaml:"expires,omitempty"`
}

func newSession(cookies []*http.Cookie, now time.Time) *Session {
	s := &Session{}

	for _, c := range cookies {
		cookie := Cookie{Name: c.Name, Value: c.Value}

		switch {
		case c.MaxAge < 0:
			continue
		case c.MaxAge > 0:
			cookie.Expires = now.Add(time.Duration(c.MaxAge) * time.Second).UTC()
		case !c.Expires.IsZero():
			cookie.Expires = c.Expires.UTC()
		}

		s.Cookies = append(s.Cookies, cookie)
	}

	return s
}

// Valid reports whether the session still holds an unexpired credential cookie.
func (s *Session) Valid(now time.Time) bool {
	if s == nil {
		return false
	}

	for _, c := range s.Cookies {
		if c.Name == SessionCookie && (c.Expires.IsZero() || now.Before(c.Expires)) {
			return true
		}
	}

	return false
}

func (s *Session) attach(req *http.Request) {
	if s == nil {
		return
	}

	for _, c := range s.Cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
}

func (s *Session) cookieHeader() string {
	if s == nil {
		return ""
	}

	parts := make([]string, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		parts = append(parts, (&http.Cookie{Name: c.Name, Value: c.Value}).String())
	}

	return strings.Join(parts, "; ")
}

// DefaultSessionPath returns the per-user location of the session file.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, "missions", "session.yaml"), nil
}

// SaveSession writes the session to path, readable only by the owner.
func SaveSession(path string, s *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	bytes, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.WriteFile(path, bytes, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	return nil
}

// LoadSession reads a session written by SaveSession. Expired cookies are dropped.
// A missing file yields an empty session.
func LoadSession(path string, now time.Time) (*Session, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Session{}, nil
		}

		return nil, fmt.Errorf("read session: %w", err)
	}

	var stored Session
	if err := yaml.Unmarshal(bytes, &stored); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	s := &Session{}
	for _, c := range stored.Cookies {
		if !c.Expires.IsZero() && !now.Before(c.Expires) {
			continue
		}

		s.Cookies = append(s.Cookies, c)
	}

	return s, nil
}

// RemoveSession deletes the session file. A missing file is not an error.
func RemoveSession(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
