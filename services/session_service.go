package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hasandi22/Final-year-research---Data-Collection/models"
	"github.com/hasandi22/Final-year-research---Data-Collection/repository"
)

// SessionService drives one participant through the study.
type SessionService interface {
	Start(ctx context.Context) (*models.SurveySession, error)
	Get(ctx context.Context, id string) (*models.SurveySession, error)
	Apply(ctx context.Context, id string, action Action) (*models.SurveySession, string, error)
	Submit(ctx context.Context, id string) (*models.SurveySession, models.SubmissionRecord, error)
	Synthesize(ctx context.Context, id, text, voiceName string) (*Audio, error)
	Review(ctx context.Context, id string) ([]byte, error)
	View(session *models.SurveySession, warning string) models.SessionView
}

type sessionService struct {
	repo       repository.SessionRepository
	sequencer  *Sequencer
	instrument *models.Instrument
	submitter  SubmissionService
	voices     VoiceService
	warnings   []string
	now        func() time.Time

	locks sessionLocks
}

// NewSessionService wires the session workflow. warnings are configuration problems
// shown on every view.
func NewSessionService(
	repo repository.SessionRepository,
	instrument *models.Instrument,
	submitter SubmissionService,
	voices VoiceService,
	warnings []string,
) SessionService {
	return &sessionService{
		repo:       repo,
		sequencer:  NewSequencer(instrument),
		instrument: instrument,
		submitter:  submitter,
		voices:     voices,
		warnings:   warnings,
		now:        time.Now,
		locks:      sessionLocks{held: make(map[string]*sessionLock)},
	}
}

// sessionLocks serializes work per session. An entry lives only while some caller
// holds or waits for it.
type sessionLocks struct {
	mu   sync.Mutex
	held map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	sl, ok := l.held[id]
	if !ok {
		sl = &sessionLock{}
		l.held[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.mu.Lock()
	return func() {
		sl.mu.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.held, id)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}

func (s *sessionService) lock(id string) func() {
	return s.locks.lock(id)
}

// Start creates a session with a fresh participant id.
func (s *sessionService) Start(ctx context.Context) (*models.SurveySession, error) {
	state := models.NewSurveyState(uuid.NewString(), s.now())
	session := models.NewSurveySession(uuid.NewString(), state)
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	log.Printf("INFO: [SessionService] Participant %s started session %s.", state.ParticipantID, session.ID)
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*models.SurveySession, error) {
	return s.repo.GetSession(ctx, id)
}

// Apply runs one UI action and persists the resulting state. The returned string is
// a warning for the participant, e.g. missing consent.
func (s *sessionService) Apply(ctx context.Context, id string, action Action) (*models.SurveySession, string, error) {
	defer s.lock(id)()

	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return nil, "", err
	}
	state := session.Survey()
	if state.Submitted() {
		return session, "", ErrAlreadySubmitted
	}

	tr, err := s.sequencer.Apply(state, action)
	if err != nil {
		return session, "", err
	}
	session.SetState(tr.State)
	if err := s.repo.UpdateSession(ctx, session); err != nil {
		return nil, "", fmt.Errorf("save session: %w", err)
	}
	if tr.State.Step != state.Step {
		log.Printf("INFO: [SessionService] Session %s moved %s -> %s.", id, state.Step, tr.State.Step)
	}
	return session, tr.Warning, nil
}

// Submit appends the session's record to the dataset. A failed upload is recorded on
// the session and can be retried.
func (s *sessionService) Submit(ctx context.Context, id string) (*models.SurveySession, models.SubmissionRecord, error) {
	defer s.lock(id)()

	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return nil, models.SubmissionRecord{}, err
	}
	state := session.Survey()
	if state.Submitted() {
		return session, models.SubmissionRecord{}, ErrAlreadySubmitted
	}
	if state.Step != models.StepReview {
		return session, models.SubmissionRecord{}, ErrSubmitNotAllowed
	}

	now := s.now().UTC()
	record, submitErr := s.submitter.Submit(ctx, state, now)
	if submitErr != nil {
		state.LastSubmitError = submitErr.Error()
	} else {
		state.SubmittedAt = &now
		state.LastSubmitError = ""
	}
	session.SetState(state)
	if err := s.repo.UpdateSession(ctx, session); err != nil {
		if submitErr == nil {
			// The row is in the dataset already; only the local bookkeeping is stale.
			log.Printf("ERROR: [SessionService] Session %s submitted but not marked: %v", id, err)
			return session, record, nil
		}
		return nil, record, errors.Join(submitErr, err)
	}
	return session, record, submitErr
}

// Synthesize renders audio for the session's current voice step.
func (s *sessionService) Synthesize(ctx context.Context, id, text, voiceName string) (*Audio, error) {
	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.Step.IsVoiceSession() {
		return nil, ErrSynthesisNotAllowed
	}
	return s.voices.Synthesize(ctx, text, voiceName)
}

// Review renders the participant's answers as a PDF.
func (s *sessionService) Review(ctx context.Context, id string) ([]byte, error) {
	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return RenderReviewPDF(session.Survey(), s.now())
}

func (s *sessionService) View(session *models.SurveySession, warning string) models.SessionView {
	state := session.Survey()
	form, _ := s.instrument.Form(state.Step)
	view := models.NewSessionView(state, form, s.warnings)
	view.Warning = warning
	return view
}
