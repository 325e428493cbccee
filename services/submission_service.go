package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hasandi22/Final-year-research---Data-Collection/dataset"
	"github.com/hasandi22/Final-year-research---Data-Collection/models"
)

// ErrAlreadySubmitted is returned when a session's record already reached the dataset.
var ErrAlreadySubmitted = errors.New("responses already submitted")

// ErrSubmitNotAllowed is returned when a submission is attempted before the review step.
var ErrSubmitNotAllowed = errors.New("submission is only possible from the review step")

// Flatten turns a state into the dataset row. It never fails and does not modify state.
func Flatten(state models.SurveyState, submittedAt time.Time) models.SubmissionRecord {
	submittedAt = submittedAt.UTC()
	if submittedAt.Before(state.StartedAt) {
		submittedAt = state.StartedAt.UTC()
	}

	var fields []models.RecordField
	add := func(col string, v any) {
		fields = append(fields, models.RecordField{Column: col, Value: v})
	}
	addItems := func(prefix string, items []*int) {
		for i, v := range items {
			add(models.ItemColumn(prefix, i+1), intOrNil(v))
		}
	}

	d := state.Demographics
	add("participant_id", state.ParticipantID)
	add("start_ts_utc", state.StartedAt.UTC().Format(models.TimestampLayout))
	add("submit_ts_utc", submittedAt.Format(models.TimestampLayout))
	add("age", intOrNil(d.Age))
	add("gender", stringOrNil(d.Gender))
	add("gender_other", d.GenderOther)
	add("education", stringOrNil(d.Education))
	add("voice_exp", stringOrNil(d.VoiceExp))
	add("used_assistants", stringOrNil(d.UsedAssistants))
	add("tech_comfort", stringOrNil(d.TechComfort))
	add("single_mood", intOrNil(state.Baseline.SingleMood))
	addItems("gad", state.Baseline.GAD[:])
	add("gad_impact", stringOrNil(state.Baseline.GADImpact))
	addItems("panas", state.Baseline.PANAS[:])

	for _, s := range []struct {
		prefix  string
		session models.VoiceSession
	}{
		{"emp", state.Empathetic},
		{"neu", state.Neutral},
	} {
		addItems(s.prefix, s.session.Items[:])
		add(s.prefix+"_state_anxiety", intOrNil(s.session.StateAnxiety))
		addItems(s.prefix+"_post", s.session.Post[:])
	}

	o := state.Open
	for i, v := range []string{o.Emp, o.Neu, o.Compare, o.Pref, o.Empathy, o.Trust, o.Triggers, o.Improve, o.More1, o.More2} {
		add(models.OpenColumns[i], v)
	}
	return models.SubmissionRecord{Fields: fields}
}

func intOrNil(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func stringOrNil(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

// SubmissionService appends records to the dataset file.
type SubmissionService interface {
	Submit(ctx context.Context, state models.SurveyState, now time.Time) (models.SubmissionRecord, error)
}

type submissionService struct {
	store dataset.Store
	repo  string
	path  string
	// Submissions are a read-modify-write of one file; serialize them within the process.
	mu sync.Mutex
}

// NewSubmissionService creates a SubmissionService writing to repo/path in store.
func NewSubmissionService(store dataset.Store, repo, path string) SubmissionService {
	return &submissionService{store: store, repo: repo, path: path}
}

func (s *submissionService) Submit(ctx context.Context, state models.SurveyState, now time.Time) (models.SubmissionRecord, error) {
	record := Flatten(state, now)
	if s.repo == "" {
		return record, errors.New("no dataset repository configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.snapshot(ctx)
	table.Append(record.Columns(), record.Cells())
	data, err := table.EncodeCSV()
	if err != nil {
		return record, fmt.Errorf("encode dataset: %w", err)
	}
	if err := s.store.Upload(ctx, data, s.repo, s.path); err != nil {
		log.Printf("ERROR: [SubmissionService] Upload of %s/%s failed: %v", s.repo, s.path, err)
		return record, err
	}
	log.Printf("INFO: [SubmissionService] Appended participant %s to %s/%s (%d rows).", state.ParticipantID, s.repo, s.path, table.Len())
	return record, nil
}

// snapshot loads the current dataset. Any failure starts a fresh table.
func (s *submissionService) snapshot(ctx context.Context) *dataset.Table {
	data, err := s.store.Download(ctx, s.repo, s.path)
	if err != nil {
		if errors.Is(err, dataset.ErrNotFound) {
			log.Printf("INFO: [SubmissionService] %s/%s does not exist yet, creating it.", s.repo, s.path)
		} else {
			log.Printf("WARN: [SubmissionService] Could not download %s/%s, starting a new table: %v", s.repo, s.path, err)
		}
		return dataset.NewTable("participant_id")
	}
	table, err := dataset.ParseCSV(data)
	if err != nil {
		log.Printf("WARN: [SubmissionService] Could not parse %s/%s, starting a new table: %v", s.repo, s.path, err)
		return dataset.NewTable("participant_id")
	}
	return table
}
