package repositories

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/cv-architect/internal/models"
	"alfredoptarigan/cv-architect/internal/state"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func TestSessionRepository_CreateFindDelete(t *testing.T) {
	repo := NewSessionRepositoryWithClock(fixedClock)

	s := repo.Create()
	assert.Equal(t, state.PhaseEmpty, s.Phase)
	assert.Equal(t, fixedClock(), s.CreatedAt)
	assert.Equal(t, 1, repo.Count())

	found, err := repo.FindByID(s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)

	require.NoError(t, repo.Delete(s.ID))
	_, err = repo.FindByID(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, repo.Delete(s.ID), ErrSessionNotFound)
}

func TestSessionRepository_ApplyUnknownSession(t *testing.T) {
	repo := NewSessionRepository()
	_, err := repo.Apply(uuid.New(), state.FormatStarted{})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionRepository_ApplyRejectedLeavesStateUntouched(t *testing.T) {
	repo := NewSessionRepositoryWithClock(fixedClock)
	s := repo.Create()

	_, err := repo.Apply(s.ID, state.RefineStarted{EditRequest: "x"})
	assert.ErrorIs(t, err, state.ErrNoActiveCV)

	found, err := repo.FindByID(s.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Logs)
}

func TestSessionRepository_GenerateStartedIsSingleFlight(t *testing.T) {
	repo := NewSessionRepository()
	s := repo.Create()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Apply(s.ID, state.GenerateStarted{Styles: models.AllStyles}); err == nil {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, started)
}
