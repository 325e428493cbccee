package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hasandi22/Final-year-research---Data-Collection/models"

	"gorm.io/gorm"
)

// ErrSessionNotFound is returned when no session has the requested id.
var ErrSessionNotFound = errors.New("survey session not found")

// SessionRepository persists survey sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.SurveySession) error
	GetSession(ctx context.Context, id string) (*models.SurveySession, error)
	UpdateSession(ctx context.Context, session *models.SurveySession) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a gorm-backed SessionRepository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) CreateSession(ctx context.Context, session *models.SurveySession) error {
	if session == nil || session.ID == "" {
		return errors.New("session id cannot be empty")
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		log.Printf("ERROR: [SessionRepository] Failed to create session %s: %v", session.ID, err)
		return fmt.Errorf("failed to create session %s: %w", session.ID, err)
	}
	log.Printf("INFO: [SessionRepository] Created session %s for participant %s.", session.ID, session.ParticipantID)
	return nil
}

func (r *sessionRepository) GetSession(ctx context.Context, id string) (*models.SurveySession, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	var session models.SurveySession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
		}
		log.Printf("ERROR: [SessionRepository] Failed to fetch session %s: %v", id, err)
		return nil, fmt.Errorf("failed to fetch session %s: %w", id, err)
	}
	return &session, nil
}

func (r *sessionRepository) UpdateSession(ctx context.Context, session *models.SurveySession) error {
	if session == nil || session.ID == "" {
		return errors.New("session id cannot be empty")
	}
	res := r.db.WithContext(ctx).Model(&models.SurveySession{}).
		Where("id = ?", session.ID).
		Select("participant_id", "step", "state", "submitted_at", "updated_at").
		Updates(session)
	if res.Error != nil {
		log.Printf("ERROR: [SessionRepository] Failed to update session %s: %v", session.ID, res.Error)
		return fmt.Errorf("failed to update session %s: %w", session.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update session %s: %w", session.ID, ErrSessionNotFound)
	}
	return nil
}
