// Package session holds per-conversation state: the single snapshot slot,
// the currently focused file and the mutable fields derived by analysis
// routines. Snapshots themselves are immutable; this package owns the only
// mutable state in the pipeline.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"repocopilot/internal/snapshot"
)

// Derived carries scalar results computed by analysis routines. They belong
// here, never on the snapshot.
type Derived struct {
	ComplexityScore float64
	CodeSmells      []string
	SecurityScore   int
	Vulnerabilities []string
	TestFramework   string
}

// Exchange is one user/assistant turn kept for conversation history.
type Exchange struct {
	User      string
	Assistant string
	At        time.Time
}

// Session is the per-conversation context. The snapshot slot is
// single-writer: it is only ever replaced wholesale, never grown in place.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.RWMutex
	snap    *snapshot.Snapshot
	focus   string
	derived Derived
	history []Exchange
}

// New creates a session, minting an ID when none is supplied.
func New(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{ID: id, CreatedAt: time.Now()}
}

// Snapshot returns the attached snapshot, nil when nothing is loaded.
func (s *Session) Snapshot() *snapshot.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// SetSnapshot replaces the snapshot slot wholesale and resets focus and
// derived state, which described the previous repository.
func (s *Session) SetSnapshot(snap *snapshot.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.derived = Derived{}
	s.focus = ""
	if snap != nil {
		s.focus = snap.RequestedPath
	}
}

// Focus returns the currently focused file path, "" when none.
func (s *Session) Focus() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.focus
}

// SetFocus updates the focused-file marker. The focused file's content may
// legitimately be absent from the snapshot; callers must handle that.
func (s *Session) SetFocus(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focus = path
}

// Derived returns a copy of the analysis-derived fields.
func (s *Session) Derived() Derived {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.derived
}

// UpdateDerived applies fn to the derived fields under the session lock.
func (s *Session) UpdateDerived(fn func(*Derived)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.derived)
}

// AddHistory appends one conversation turn.
func (s *Session) AddHistory(user, assistant string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Exchange{User: user, Assistant: assistant, At: time.Now()})
}

// History returns a copy of the conversation turns.
func (s *Session) History() []Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Exchange, len(s.history))
	copy(out, s.history)
	return out
}
