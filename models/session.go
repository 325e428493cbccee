package models

import (
	"time"

	"gorm.io/datatypes"
)

// SurveySession binds an opaque session id to one participant's SurveyState.
// The state is kept as a JSON column; Step and SubmittedAt are mirrored for querying.
type SurveySession struct {
	ID            string                           `json:"id" gorm:"primaryKey;size:36"`
	ParticipantID string                           `json:"participant_id" gorm:"index;size:36;not null"`
	Step          Step                             `json:"step" gorm:"type:varchar(32);index"`
	State         datatypes.JSONType[SurveyState] `json:"state"`
	SubmittedAt   *time.Time                       `json:"submitted_at,omitempty"`
	CreatedAt     time.Time                        `json:"created_at"`
	UpdatedAt     time.Time                        `json:"updated_at"`
}

// TableName specifies the table name for the SurveySession model.
func (SurveySession) TableName() string {
	return "survey_sessions"
}

// NewSurveySession wraps a fresh state into a session record.
func NewSurveySession(id string, state SurveyState) *SurveySession {
	s := &SurveySession{ID: id}
	s.SetState(state)
	return s
}

// Survey returns the decoded state.
func (s *SurveySession) Survey() SurveyState {
	return s.State.Data()
}

// SetState replaces the state and refreshes the mirrored columns.
func (s *SurveySession) SetState(state SurveyState) {
	s.State = datatypes.NewJSONType(state)
	s.ParticipantID = state.ParticipantID
	s.Step = state.Step
	s.SubmittedAt = state.SubmittedAt
}
