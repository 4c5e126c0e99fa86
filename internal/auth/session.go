package auth

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// SessionCookie is the cookie carrying the session ID.
const SessionCookie = "vr_session"

// DefaultSessionTTL is how long a sign-in lasts.
const DefaultSessionTTL = 30 * 24 * time.Hour

var (
	// ErrNoSession is returned when the request has no known session.
	ErrNoSession = errors.New("no session")
	// ErrSessionExpired is returned for a session past its expiry.
	ErrSessionExpired = errors.New("session expired")
)

// SessionStore keeps signed-in usernames in the sessions table.
// Expiry times are stored in UTC.
type SessionStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSessionStore creates a session store with DefaultSessionTTL.
func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db, ttl: DefaultSessionTTL, now: time.Now}
}

// Create signs username in and sets the session cookie on w.
func (s *SessionStore) Create(w http.ResponseWriter, username string) error {
	id := rand.Text()
	expires := s.now().UTC().Add(s.ttl)

	if _, err := s.db.Exec(
		"INSERT INTO sessions (id, username, expires_at) VALUES (?, ?, ?)",
		id, username, expires,
	); err != nil {
		return fmt.Errorf("storing session for %s: %w", username, err)
	}

	http.SetCookie(w, sessionCookie(id, expires))
	return nil
}

// Validate returns the username of the request's session. Expired sessions are
// deleted as they are found.
func (s *SessionStore) Validate(r *http.Request) (string, error) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return "", ErrNoSession
	}

	var (
		username string
		expires  time.Time
	)
	err = s.db.QueryRow(
		"SELECT username, expires_at FROM sessions WHERE id = ?", c.Value,
	).Scan(&username, &expires)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", ErrNoSession
	case err != nil:
		return "", fmt.Errorf("looking up session: %w", err)
	}

	if !s.now().Before(expires) {
		if err := s.delete(c.Value); err != nil {
			return "", err
		}
		return "", ErrSessionExpired
	}
	return username, nil
}

// Destroy signs the request's session out and expires the cookie.
// A request without a session is not an error.
func (s *SessionStore) Destroy(w http.ResponseWriter, r *http.Request) error {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	if err := s.delete(c.Value); err != nil {
		return err
	}

	expired := sessionCookie("", time.Time{})
	expired.MaxAge = -1
	http.SetCookie(w, expired)
	return nil
}

// Cleanup deletes every expired session.
func (s *SessionStore) Cleanup() error {
	res, err := s.db.Exec("DELETE FROM sessions WHERE expires_at <= ?", s.now().UTC())
	if err != nil {
		return fmt.Errorf("removing expired sessions: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		slog.Debug("removed expired sessions", "count", n)
	}
	return nil
}

func (s *SessionStore) delete(id string) error {
	if _, err := s.db.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
