package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hasandi22/Final-year-research---Data-Collection/models"
)

// memorySessionRepository keeps sessions in process memory.
type memorySessionRepository struct {
	sessions map[string]models.SurveySession
	mu       sync.RWMutex
}

// NewMemorySessionRepository creates an in-memory SessionRepository.
func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]models.SurveySession),
	}
}

func (r *memorySessionRepository) CreateSession(_ context.Context, session *models.SurveySession) error {
	if session == nil || session.ID == "" {
		return errors.New("session id cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	r.sessions[session.ID] = *session
	log.Printf("INFO: [MemorySessionRepository] Created session %s for participant %s.", session.ID, session.ParticipantID)
	return nil
}

func (r *memorySessionRepository) GetSession(_ context.Context, id string) (*models.SurveySession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[id]
	if !exists {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return &session, nil
}

func (r *memorySessionRepository) UpdateSession(_ context.Context, session *models.SurveySession) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	original, exists := r.sessions[session.ID]
	if !exists {
		return fmt.Errorf("update session %s: %w", session.ID, ErrSessionNotFound)
	}
	session.CreatedAt = original.CreatedAt
	session.UpdatedAt = time.Now()
	r.sessions[session.ID] = *session
	return nil
}
