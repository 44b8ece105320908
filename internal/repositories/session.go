package repositories

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/cv-architect/internal/state"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Create() state.Session
	FindByID(id uuid.UUID) (state.Session, error)
	Apply(id uuid.UUID, action state.Action) (state.Session, error)
	Delete(id uuid.UUID) error
	Count() int
}

// sessionRepository keeps sessions in memory only; they die with the process.
type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]state.Session
	now      func() time.Time
}

func NewSessionRepository() SessionRepository {
	return NewSessionRepositoryWithClock(time.Now)
}

func NewSessionRepositoryWithClock(now func() time.Time) SessionRepository {
	return &sessionRepository{
		sessions: make(map[uuid.UUID]state.Session),
		now:      now,
	}
}

// Create implements SessionRepository.
func (r *sessionRepository) Create() state.Session {
	s := state.New(uuid.New(), r.now())

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	return s
}

// FindByID implements SessionRepository.
func (r *sessionRepository) FindByID(id uuid.UUID) (state.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return state.Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Apply runs the reducer under the write lock so check-and-set transitions
// such as GenerateStarted are atomic.
func (r *sessionRepository) Apply(id uuid.UUID, action state.Action) (state.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.sessions[id]
	if !ok {
		return state.Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	next, err := state.Reduce(current, action, r.now())
	if err != nil {
		return current, err
	}

	r.sessions[id] = next
	return next, nil
}

// Delete implements SessionRepository.
func (r *sessionRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(r.sessions, id)
	return nil
}

// Count implements SessionRepository.
func (r *sessionRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
