package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"careernest/internal/domain/user"
)

// Session is the signed token plus the cached user record identifying the
// current actor. The user record is a cache of the token's claims; the guard
// and filters read the role from here without re-decoding the token.
type Session struct {
	Token   string    `json:"token"`
	User    user.User `json:"user"`
	SavedAt time.Time `json:"saved_at"`
}

// NotificationPrefs shares the session file because both pieces of client
// state live in the same local storage mechanism.
type NotificationPrefs struct {
	EmailOnDecision bool `json:"email_on_decision"`
	EmailOnStatus   bool `json:"email_on_status"`
}

type storeData struct {
	Session *Session          `json:"session,omitempty"`
	Prefs   NotificationPrefs `json:"notification_prefs"`
}

// Store persists the session and preferences to a JSON file. All reads go
// through the in-memory copy loaded at open; writes are write-through.
type Store struct {
	filePath string
	mu       sync.RWMutex
	data     storeData
}

func NewStore(filePath string) (*Store, error) {
	s := &Store{filePath: filePath}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return nil, err
	}
	if err := s.loadFromFile(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

func (s *Store) loadFromFile() error {
	raw, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, &s.data)
}

func (s *Store) saveToFile() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, raw, 0o600)
}

func (s *Store) Get() (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data.Session == nil || s.data.Session.Token == "" {
		return nil, false
	}
	copied := *s.data.Session
	return &copied, true
}

func (s *Store) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.SavedAt = time.Now().UTC()
	s.data.Session = &sess
	return s.saveToFile()
}

// Clear drops the token and the cached user record in one write. A partial
// clear would let a stale role pass the route guard.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Session = nil
	return s.saveToFile()
}

func (s *Store) Prefs() NotificationPrefs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Prefs
}

func (s *Store) SavePrefs(prefs NotificationPrefs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Prefs = prefs
	return s.saveToFile()
}

// Token implements the api token source against the current session.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data.Session == nil {
		return ""
	}
	return s.data.Session.Token
}
