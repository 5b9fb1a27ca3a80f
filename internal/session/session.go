// Package session provides cookie-identified HTTP sessions. The session
// payload is the logged-in user, stored as JSON in the persistent store with
// a TTL.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"tulasisilks/internal/kvstore"
	"tulasisilks/internal/models"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "ts_session"

	// DefaultTTL is how long a session lives before it expires.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces session keys in the store.
	keyPrefix = "session:"

	// userKeyPrefix holds the ids of each user's sessions.
	userKeyPrefix = "session-user:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Data holds the session payload: the session user and when the session
// started.
type Data struct {
	User      models.User `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}

// Store manages session lifecycle.
type Store struct {
	kv     kvstore.Store
	ttl    time.Duration
	secure bool

	mu sync.Mutex // guards the per-user index
}

// NewStore creates a session store. secure marks the cookie Secure, which
// should be on behind TLS.
func NewStore(kv kvstore.Store, secure bool) *Store {
	return &Store{
		kv:     kv,
		ttl:    DefaultTTL,
		secure: secure,
	}
}

// SetTTL changes how long new and updated sessions live.
func (s *Store) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		s.ttl = ttl
	}
}

// Create generates a new session for user, stores it, and sets the
// session cookie on the response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, user *models.User) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data := Data{User: *user, CreatedAt: time.Now()}
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	if err := s.kv.Set(ctx, keyPrefix+id, payload, s.ttl); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}
	if user.ID != "" {
		if err := s.track(ctx, user.ID, id); err != nil {
			return "", err
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return id, nil
}

// Get retrieves the session named by the request cookie. Returns nil if no
// valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}

	payload, err := s.kv.Get(ctx, keyPrefix+cookie.Value)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	return &data, nil
}

// Destroy removes the session and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	if err := s.kv.Delete(ctx, keyPrefix+cookie.Value); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})

	return nil
}

// DestroyUser removes every live session of the user, as when a customer
// is blocked. Returns how many sessions were removed.
func (s *Store) DestroyUser(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.live(ctx, userID)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := s.kv.Delete(ctx, keyPrefix+id); err != nil {
			return 0, fmt.Errorf("session destroy user: %w", err)
		}
	}
	if err := s.kv.Delete(ctx, userKeyPrefix+userID); err != nil {
		return 0, fmt.Errorf("session destroy user: %w", err)
	}
	return len(ids), nil
}

// track adds id to the user's index, pruning sessions that have expired.
func (s *Store) track(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.live(ctx, userID)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(append(ids, id))
	if err != nil {
		return fmt.Errorf("session index marshal: %w", err)
	}
	if err := s.kv.Set(ctx, userKeyPrefix+userID, payload, s.ttl); err != nil {
		return fmt.Errorf("session index: %w", err)
	}
	return nil
}

// live returns the indexed session ids of the user that still exist.
func (s *Store) live(ctx context.Context, userID string) ([]string, error) {
	payload, err := s.kv.Get(ctx, userKeyPrefix+userID)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session index: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(payload, &ids); err != nil {
		return nil, fmt.Errorf("session index unmarshal: %w", err)
	}

	out := ids[:0]
	for _, id := range ids {
		_, err := s.kv.Get(ctx, keyPrefix+id)
		if errors.Is(err, kvstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("session index: %w", err)
		}
		out = append(out, id)
	}
	return out, nil
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
