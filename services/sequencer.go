package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/hasandi22/Final-year-research---Data-Collection/models"
)

var (
	// ErrInvalidAnswer is returned when an action carries answers the step's widgets could not produce.
	ErrInvalidAnswer = errors.New("invalid answer")
	// ErrUnknownAction is returned for an action type the current step does not accept.
	ErrUnknownAction = errors.New("action not allowed on this step")
)

// ConsentWarning is shown when a participant tries to leave the consent page without agreeing.
const ConsentWarning = "You must agree to continue."

// DiscardedWarning is shown when back was pressed with answers that could not be saved.
const DiscardedWarning = "Your last changes on that page were not saved."

// ActionType is what the participant clicked.
type ActionType string

const (
	ActionSave ActionType = "save"
	ActionNext ActionType = "next"
	ActionBack ActionType = "back"
)

// Action is one UI interaction: the answers currently on screen plus the button pressed.
type Action struct {
	Type    ActionType      `json:"type"`
	Consent bool            `json:"consent"`
	Answers json.RawMessage `json:"answers,omitempty"`
}

// Transition is the outcome of applying an action.
type Transition struct {
	State   models.SurveyState
	Warning string
}

// Advance moves to the following step. The last step is a fixed point.
func Advance(state models.SurveyState) models.SurveyState {
	if idx := models.StepIndex(state.Step); idx >= 0 && idx < len(models.Steps)-1 {
		state.Step = models.Steps[idx+1]
	}
	return state
}

// Retreat moves to the preceding step. The first step is a fixed point.
func Retreat(state models.SurveyState) models.SurveyState {
	if idx := models.StepIndex(state.Step); idx > 0 {
		state.Step = models.Steps[idx-1]
	}
	return state
}

// DemographicsAnswers is the demographics form payload. Nil fields are left as they are.
type DemographicsAnswers struct {
	Age            *int    `json:"age"`
	Gender         *string `json:"gender"`
	GenderOther    *string `json:"gender_other"`
	Education      *string `json:"education"`
	VoiceExp       *string `json:"voice_exp"`
	UsedAssistants *string `json:"used_assistants"`
	TechComfort    *string `json:"tech_comfort"`
}

// BaselineAnswers carries scale answers keyed by 1-based item number.
type BaselineAnswers struct {
	GAD        map[int]int `json:"gad"`
	GADImpact  *string     `json:"gad_impact"`
	PANAS      map[int]int `json:"panas"`
	SingleMood *int        `json:"single_mood"`
}

// SessionAnswers is the payload of both voice-session steps.
type SessionAnswers struct {
	VoiceName    *string     `json:"voice_name"`
	Script       *string     `json:"script"`
	Items        map[int]int `json:"items"`
	StateAnxiety *int        `json:"state_anxiety"`
	Post         map[int]int `json:"post"`
}

// OpenAnswers is the free-text payload of the open step.
type OpenAnswers struct {
	Emp      *string `json:"open_emp"`
	Neu      *string `json:"open_neu"`
	Compare  *string `json:"open_compare"`
	Pref     *string `json:"open_pref"`
	Empathy  *string `json:"open_empathy"`
	Trust    *string `json:"open_trust"`
	Triggers *string `json:"open_triggers"`
	Improve  *string `json:"open_improve"`
	More1    *string `json:"open_more_1"`
	More2    *string `json:"open_more_2"`
}

type stepHandler func(state models.SurveyState, action Action) (Transition, error)

// Sequencer applies actions to a survey state. It never mutates its input.
type Sequencer struct {
	instrument *models.Instrument
	handlers   map[models.Step]map[ActionType]stepHandler
}

// NewSequencer builds the dispatch table for every step.
func NewSequencer(instrument *models.Instrument) *Sequencer {
	s := &Sequencer{instrument: instrument}
	s.handlers = map[models.Step]map[ActionType]stepHandler{
		models.StepConsent: {
			ActionSave: s.saveConsent,
			ActionNext: s.nextConsent,
			ActionBack: s.backConsent,
		},
		models.StepDemographics: navigable(s.applyDemographics),
		models.StepBaseline:     navigable(s.applyBaseline),
		models.StepSessionEmp:   navigable(s.applySession),
		models.StepSessionNeu:   navigable(s.applySession),
		models.StepOpen:         navigable(s.applyOpen),
		models.StepReview: {
			ActionSave: withAnswers(applyNothing, nil),
			ActionBack: retreating(applyNothing),
		},
	}
	return s
}

type applyFunc func(state models.SurveyState, answers json.RawMessage) (models.SurveyState, error)

func navigable(apply applyFunc) map[ActionType]stepHandler {
	return map[ActionType]stepHandler{
		ActionSave: withAnswers(apply, nil),
		ActionNext: withAnswers(apply, Advance),
		ActionBack: retreating(apply),
	}
}

func withAnswers(apply applyFunc, move func(models.SurveyState) models.SurveyState) stepHandler {
	return func(state models.SurveyState, action Action) (Transition, error) {
		next, err := apply(state, action.Answers)
		if err != nil {
			return Transition{State: state}, err
		}
		if move != nil {
			next = move(next)
		}
		return Transition{State: next}, nil
	}
}

// retreating saves the answers and moves back. Back always moves: answers that
// fail validation are dropped and the transition carries DiscardedWarning.
func retreating(apply applyFunc) stepHandler {
	return func(state models.SurveyState, action Action) (Transition, error) {
		next, err := apply(state, action.Answers)
		if err != nil {
			return Transition{State: Retreat(state), Warning: DiscardedWarning}, nil
		}
		return Transition{State: Retreat(next)}, nil
	}
}

func applyNothing(state models.SurveyState, _ json.RawMessage) (models.SurveyState, error) {
	return state, nil
}

// Apply runs action against state and returns the new state. On error the returned
// state equals the input.
func (s *Sequencer) Apply(state models.SurveyState, action Action) (Transition, error) {
	byType, ok := s.handlers[state.Step]
	if !ok {
		return Transition{State: state}, fmt.Errorf("unknown step %q", state.Step)
	}
	handler, ok := byType[action.Type]
	if !ok {
		return Transition{State: state}, fmt.Errorf("%s on %s: %w", action.Type, state.Step, ErrUnknownAction)
	}
	return handler(state, action)
}

func (s *Sequencer) saveConsent(state models.SurveyState, action Action) (Transition, error) {
	state.Consented = action.Consent
	return Transition{State: state}, nil
}

// backConsent keeps the participant on consent, the first step.
func (s *Sequencer) backConsent(state models.SurveyState, _ Action) (Transition, error) {
	return Transition{State: Retreat(state)}, nil
}

func (s *Sequencer) nextConsent(state models.SurveyState, action Action) (Transition, error) {
	if !action.Consent {
		return Transition{State: state, Warning: ConsentWarning}, nil
	}
	state.Consented = true
	return Transition{State: Advance(state)}, nil
}

// decodeAnswers unmarshals a payload strictly; an empty payload decodes to the zero value.
func decodeAnswers(raw json.RawMessage, into any) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
	}
	return nil
}

func (s *Sequencer) checkOption(step models.Step, key string, value *string) error {
	if value != nil && !s.instrument.AllowsOption(step, key, *value) {
		return fmt.Errorf("%w: %s %q is not an option", ErrInvalidAnswer, key, *value)
	}
	return nil
}

func (s *Sequencer) checkNumber(step models.Step, key string, value *int) error {
	if value == nil {
		return nil
	}
	f, ok := s.instrument.Field(step, key)
	if !ok || (f.Min == 0 && f.Max == 0) {
		return nil
	}
	if *value < f.Min || *value > f.Max {
		return fmt.Errorf("%w: %s %d not in %d..%d", ErrInvalidAnswer, key, *value, f.Min, f.Max)
	}
	return nil
}

// setScale writes answers into a scale in item order so failures are deterministic.
func setScale(set func(item, v int) error, answers map[int]int) error {
	items := make([]int, 0, len(answers))
	for item := range answers {
		items = append(items, item)
	}
	sort.Ints(items)
	for _, item := range items {
		if err := set(item, answers[item]); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
		}
	}
	return nil
}

func checkScalar(spec models.ScaleSpec, v *int) error {
	if v == nil {
		return nil
	}
	if err := spec.Check(*v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAnswer, err)
	}
	return nil
}

func (s *Sequencer) applyDemographics(state models.SurveyState, raw json.RawMessage) (models.SurveyState, error) {
	var a DemographicsAnswers
	if err := decodeAnswers(raw, &a); err != nil {
		return state, err
	}
	step := models.StepDemographics
	if err := s.checkNumber(step, "age", a.Age); err != nil {
		return state, err
	}
	for key, v := range map[string]*string{
		"gender":          a.Gender,
		"education":       a.Education,
		"voice_exp":       a.VoiceExp,
		"used_assistants": a.UsedAssistants,
		"tech_comfort":    a.TechComfort,
	} {
		if err := s.checkOption(step, key, v); err != nil {
			return state, err
		}
	}

	d := state.Demographics
	if a.Age != nil {
		d.Age = a.Age
	}
	if a.Gender != nil {
		d.Gender = a.Gender
	}
	if a.GenderOther != nil {
		d.GenderOther = *a.GenderOther
	}
	if a.Education != nil {
		d.Education = a.Education
	}
	if a.VoiceExp != nil {
		d.VoiceExp = a.VoiceExp
	}
	if a.UsedAssistants != nil {
		d.UsedAssistants = a.UsedAssistants
	}
	if a.TechComfort != nil {
		d.TechComfort = a.TechComfort
	}
	state.Demographics = d
	return state, nil
}

func (s *Sequencer) applyBaseline(state models.SurveyState, raw json.RawMessage) (models.SurveyState, error) {
	var a BaselineAnswers
	if err := decodeAnswers(raw, &a); err != nil {
		return state, err
	}
	if err := s.checkOption(models.StepBaseline, "gad_impact", a.GADImpact); err != nil {
		return state, err
	}
	if err := checkScalar(models.MoodScale, a.SingleMood); err != nil {
		return state, err
	}

	b := state.Baseline
	if err := setScale(b.GAD.Set, a.GAD); err != nil {
		return state, err
	}
	if err := setScale(b.PANAS.Set, a.PANAS); err != nil {
		return state, err
	}
	if a.GADImpact != nil {
		b.GADImpact = a.GADImpact
	}
	if a.SingleMood != nil {
		b.SingleMood = a.SingleMood
	}
	state.Baseline = b
	return state, nil
}

func (s *Sequencer) applySession(state models.SurveyState, raw json.RawMessage) (models.SurveyState, error) {
	var a SessionAnswers
	if err := decodeAnswers(raw, &a); err != nil {
		return state, err
	}
	if err := checkScalar(models.AnxietyScale, a.StateAnxiety); err != nil {
		return state, err
	}

	sess := *state.Session(state.Step)
	if err := setScale(sess.Items.Set, a.Items); err != nil {
		return state, err
	}
	if err := setScale(sess.Post.Set, a.Post); err != nil {
		return state, err
	}
	if a.VoiceName != nil {
		sess.VoiceName = *a.VoiceName
	}
	if a.Script != nil {
		sess.Script = *a.Script
	}
	if a.StateAnxiety != nil {
		sess.StateAnxiety = a.StateAnxiety
	}
	*state.Session(state.Step) = sess
	return state, nil
}

func (s *Sequencer) applyOpen(state models.SurveyState, raw json.RawMessage) (models.SurveyState, error) {
	var a OpenAnswers
	if err := decodeAnswers(raw, &a); err != nil {
		return state, err
	}
	o := state.Open
	for dst, src := range map[*string]*string{
		&o.Emp:      a.Emp,
		&o.Neu:      a.Neu,
		&o.Compare:  a.Compare,
		&o.Pref:     a.Pref,
		&o.Empathy:  a.Empathy,
		&o.Trust:    a.Trust,
		&o.Triggers: a.Triggers,
		&o.Improve:  a.Improve,
		&o.More1:    a.More1,
		&o.More2:    a.More2,
	} {
		if src != nil {
			*dst = *src
		}
	}
	state.Open = o
	return state, nil
}
