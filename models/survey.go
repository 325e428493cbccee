package models

import (
	"errors"
	"fmt"
	"time"
)

// Step identifies one page of the study flow.
type Step string

const (
	StepConsent      Step = "consent"
	StepDemographics Step = "demographics"
	StepBaseline     Step = "baseline"
	StepSessionEmp   Step = "session_emp"
	StepSessionNeu   Step = "session_neu"
	StepOpen         Step = "open"
	StepReview       Step = "review"
)

// Steps is the fixed order in which a participant walks through the study.
var Steps = []Step{
	StepConsent,
	StepDemographics,
	StepBaseline,
	StepSessionEmp,
	StepSessionNeu,
	StepOpen,
	StepReview,
}

// StepIndex returns the 0-based position of step in Steps, or -1.
func StepIndex(step Step) int {
	for i, s := range Steps {
		if s == step {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the study steps.
func (s Step) Valid() bool {
	return StepIndex(s) >= 0
}

// IsVoiceSession reports whether audio playback is part of this step.
func (s Step) IsVoiceSession() bool {
	return s == StepSessionEmp || s == StepSessionNeu
}

// Progress returns (index+1)/len(Steps) for a valid step and 0 otherwise.
func Progress(step Step) float64 {
	idx := StepIndex(step)
	if idx < 0 {
		return 0
	}
	return float64(idx+1) / float64(len(Steps))
}

// ErrOutOfRange is returned when a scale item or value falls outside its scale.
var ErrOutOfRange = errors.New("value out of range")

// ScaleSpec describes a Likert scale: how many items it has and the allowed values.
type ScaleSpec struct {
	Name  string
	Items int
	Min   int
	Max   int
}

var (
	GADScale     = ScaleSpec{Name: "gad", Items: 7, Min: 1, Max: 4}
	PANASScale   = ScaleSpec{Name: "panas", Items: 10, Min: 1, Max: 5}
	VoiceScale   = ScaleSpec{Name: "voice", Items: 8, Min: 1, Max: 5}
	PostScale    = ScaleSpec{Name: "post", Items: 7, Min: 1, Max: 5}
	MoodScale    = ScaleSpec{Name: "single_mood", Items: 1, Min: 1, Max: 5}
	AnxietyScale = ScaleSpec{Name: "state_anxiety", Items: 1, Min: 1, Max: 5}
)

// Check validates a single response value against the scale range.
func (s ScaleSpec) Check(v int) error {
	if v < s.Min || v > s.Max {
		return fmt.Errorf("%s: %d not in %d..%d: %w", s.Name, v, s.Min, s.Max, ErrOutOfRange)
	}
	return nil
}

func setItem(items []*int, spec ScaleSpec, item, v int) error {
	if item < 1 || item > len(items) {
		return fmt.Errorf("%s: item %d not in 1..%d: %w", spec.Name, item, len(items), ErrOutOfRange)
	}
	if err := spec.Check(v); err != nil {
		return err
	}
	items[item-1] = &v
	return nil
}

func getItem(items []*int, item int) *int {
	if item < 1 || item > len(items) {
		return nil
	}
	return items[item-1]
}

// GADResponses holds the seven GAD-7 items, nil meaning unanswered.
type GADResponses [7]*int

func (r *GADResponses) Set(item, v int) error { return setItem(r[:], GADScale, item, v) }
func (r GADResponses) Get(item int) *int       { return getItem(r[:], item) }

// PANASResponses holds the ten PANAS short-form items.
type PANASResponses [10]*int

func (r *PANASResponses) Set(item, v int) error { return setItem(r[:], PANASScale, item, v) }
func (r PANASResponses) Get(item int) *int       { return getItem(r[:], item) }

// VoiceResponses holds the eight voice-rating statements of a session.
type VoiceResponses [8]*int

func (r *VoiceResponses) Set(item, v int) error { return setItem(r[:], VoiceScale, item, v) }
func (r VoiceResponses) Get(item int) *int       { return getItem(r[:], item) }

// PostResponses holds the seven post-session items of a session.
type PostResponses [7]*int

func (r *PostResponses) Set(item, v int) error { return setItem(r[:], PostScale, item, v) }
func (r PostResponses) Get(item int) *int       { return getItem(r[:], item) }

// Demographics is filled on the demographics step.
type Demographics struct {
	Age            *int    `json:"age"`
	Gender         *string `json:"gender"`
	GenderOther    string  `json:"gender_other"`
	Education      *string `json:"education"`
	VoiceExp       *string `json:"voice_exp"`
	UsedAssistants *string `json:"used_assistants"`
	TechComfort    *string `json:"tech_comfort"`
}

// Baseline holds the GAD-7, PANAS and single-item mood answers.
type Baseline struct {
	GAD        GADResponses   `json:"gad"`
	GADImpact  *string        `json:"gad_impact"`
	PANAS      PANASResponses `json:"panas"`
	SingleMood *int           `json:"single_mood"`
}

// VoiceSession holds one audio-stimulus session: the voice and script played
// and the participant's ratings.
type VoiceSession struct {
	VoiceName    string         `json:"voice_name"`
	Script       string         `json:"script"`
	Items        VoiceResponses `json:"items"`
	StateAnxiety *int           `json:"state_anxiety"`
	Post         PostResponses  `json:"post"`
}

// OpenEnded holds the qualitative free-text answers.
type OpenEnded struct {
	Emp      string `json:"open_emp"`
	Neu      string `json:"open_neu"`
	Compare  string `json:"open_compare"`
	Pref     string `json:"open_pref"`
	Empathy  string `json:"open_empathy"`
	Trust    string `json:"open_trust"`
	Triggers string `json:"open_triggers"`
	Improve  string `json:"open_improve"`
	More1    string `json:"open_more_1"`
	More2    string `json:"open_more_2"`
}

// SurveyState is everything one participant has answered so far.
// Handlers treat it as a value: fields are replaced, pointees are never written.
type SurveyState struct {
	ParticipantID   string       `json:"participant_id"`
	StartedAt       time.Time    `json:"started_at"`
	Consented       bool         `json:"consented"`
	Step            Step         `json:"step"`
	Demographics    Demographics `json:"demographics"`
	Baseline        Baseline     `json:"baseline"`
	Empathetic      VoiceSession `json:"session_emp"`
	Neutral         VoiceSession `json:"session_neu"`
	Open            OpenEnded    `json:"open"`
	SubmittedAt     *time.Time   `json:"submitted_at,omitempty"`
	LastSubmitError string       `json:"last_submit_error,omitempty"`
}

const (
	DefaultEmpatheticVoice = "Rachel"
	DefaultNeutralVoice    = "Antoni"

	DefaultEmpatheticScript = `Hi, I’m glad you’re here. I know life can feel overwhelming sometimes,
and it’s completely okay to have moments of stress or worry.
You’re not alone in feeling this way. Take a slow breath with me… inhale… and exhale.
You’re doing your best, and that’s enough. Remember, even small steps forward matter.
You deserve kindness, and I’m proud of you for taking this moment for yourself.`

	DefaultNeutralScript = `Hello, thank you for participating in this session.
In a moment, you will be asked to reflect on your current feelings.
This is simply a part of the study procedure.
Please listen carefully and respond as instructed.
There are no right or wrong answers.
Your participation is valuable, and your responses will help us better understand voice interactions.`
)

// NewSurveyState returns the all-null state a session starts with.
func NewSurveyState(participantID string, startedAt time.Time) SurveyState {
	return SurveyState{
		ParticipantID: participantID,
		StartedAt:     startedAt.UTC(),
		Step:          StepConsent,
		Empathetic: VoiceSession{
			VoiceName: DefaultEmpatheticVoice,
			Script:    DefaultEmpatheticScript,
		},
		Neutral: VoiceSession{
			VoiceName: DefaultNeutralVoice,
			Script:    DefaultNeutralScript,
		},
	}
}

// Session returns the voice session belonging to step, or nil for other steps.
func (s *SurveyState) Session(step Step) *VoiceSession {
	switch step {
	case StepSessionEmp:
		return &s.Empathetic
	case StepSessionNeu:
		return &s.Neutral
	}
	return nil
}

// Submitted reports whether the record has already reached the dataset.
func (s SurveyState) Submitted() bool {
	return s.SubmittedAt != nil
}
