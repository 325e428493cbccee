package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hasandi22/Final-year-research---Data-Collection/middleware"
	"github.com/hasandi22/Final-year-research---Data-Collection/models"
	"github.com/hasandi22/Final-year-research---Data-Collection/repository"
	"github.com/hasandi22/Final-year-research---Data-Collection/services"
	"github.com/hasandi22/Final-year-research---Data-Collection/utils"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// APIHandler holds the services the HTTP handlers delegate to.
type APIHandler struct {
	sessions     services.SessionService
	voices       services.VoiceService
	tokens       *utils.TokenManager
	instrument   *models.Instrument
	configErrors []string
}

// NewAPIHandler creates a new APIHandler. configErrors are startup problems reported by /api/health.
func NewAPIHandler(
	sessions services.SessionService,
	voices services.VoiceService,
	tokens *utils.TokenManager,
	instrument *models.Instrument,
	configErrors []string,
) *APIHandler {
	return &APIHandler{
		sessions:     sessions,
		voices:       voices,
		tokens:       tokens,
		instrument:   instrument,
		configErrors: configErrors,
	}
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"code":    status,
		"message": "OK",
		"data":    data,
	})
}

// HealthHandler reports the version and any configuration problems.
func (h *APIHandler) HealthHandler(c *gin.Context) {
	status := "ok"
	if len(h.configErrors) > 0 {
		status = "degraded"
	}
	ok(c, http.StatusOK, gin.H{
		"status":        status,
		"version":       Version,
		"config_errors": h.configErrors,
	})
}

// StepsHandler lists the study steps in order.
func (h *APIHandler) StepsHandler(c *gin.Context) {
	type stepInfo struct {
		Step   models.Step `json:"step"`
		Number int         `json:"number"`
		Title  string      `json:"title"`
	}
	steps := make([]stepInfo, 0, len(models.Steps))
	for i, s := range models.Steps {
		info := stepInfo{Step: s, Number: i + 1}
		if form, found := h.instrument.Form(s); found {
			info.Title = form.Title
		}
		steps = append(steps, info)
	}
	ok(c, http.StatusOK, steps)
}

// FormHandler returns the questions of one step.
func (h *APIHandler) FormHandler(c *gin.Context) {
	step := models.Step(c.Param("step"))
	form, found := h.instrument.Form(step)
	if !found {
		utils.SendJSONError(c, http.StatusNotFound, "Unknown step.", nil, string(step))
		return
	}
	ok(c, http.StatusOK, form)
}

// StartSessionHandler creates a session and hands out its token, also as a cookie.
func (h *APIHandler) StartSessionHandler(c *gin.Context) {
	session, err := h.sessions.Start(c.Request.Context())
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Could not start a survey session.", err)
		return
	}
	token, err := h.tokens.Issue(session.ID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Could not start a survey session.", err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, int(utils.SessionTokenTTL.Seconds()), "/", "", c.Request.TLS != nil, true)
	ok(c, http.StatusCreated, gin.H{
		"token": token,
		"view":  h.sessions.View(session, ""),
	})
}

// GetSessionHandler returns the current view of the caller's session.
func (h *APIHandler) GetSessionHandler(c *gin.Context) {
	session, err := h.sessions.Get(c.Request.Context(), c.GetString(middleware.SessionIDKey))
	if err != nil {
		h.sendServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, h.sessions.View(session, ""))
}

// ActionHandler applies save/next/back with the answers on screen.
func (h *APIHandler) ActionHandler(c *gin.Context) {
	var action services.Action
	if err := c.ShouldBindJSON(&action); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request body.", err, err.Error())
		return
	}
	session, warning, err := h.sessions.Apply(c.Request.Context(), c.GetString(middleware.SessionIDKey), action)
	if err != nil {
		h.sendServiceError(c, err)
		return
	}
	ok(c, http.StatusOK, h.sessions.View(session, warning))
}

// ListVoicesHandler returns the voice picker entries.
func (h *APIHandler) ListVoicesHandler(c *gin.Context) {
	voices, err := h.voices.ListVoices(c.Request.Context())
	if err != nil {
		utils.SendJSONError(c, http.StatusBadGateway, fmt.Sprintf("Could not load voices: %v", err), err)
		return
	}
	ok(c, http.StatusOK, voices)
}

// SynthesizeRequest asks for audio. Empty fields default to the current session's script and voice.
type SynthesizeRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// SynthesizeHandler returns the generated clip as audio/mpeg.
func (h *APIHandler) SynthesizeHandler(c *gin.Context) {
	var req SynthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request body.", err, err.Error())
		return
	}
	ctx := c.Request.Context()
	id := c.GetString(middleware.SessionIDKey)

	if req.Text == "" || req.Voice == "" {
		session, err := h.sessions.Get(ctx, id)
		if err != nil {
			h.sendServiceError(c, err)
			return
		}
		state := session.Survey()
		if vs := state.Session(state.Step); vs != nil {
			if req.Text == "" {
				req.Text = vs.Script
			}
			if req.Voice == "" {
				req.Voice = vs.VoiceName
			}
		}
	}

	audio, err := h.sessions.Synthesize(ctx, id, req.Text, req.Voice)
	if err != nil {
		h.sendServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, audio.ContentType, audio.Data)
}

// ReviewPDFHandler sends a PDF copy of the answers.
func (h *APIHandler) ReviewPDFHandler(c *gin.Context) {
	pdf, err := h.sessions.Review(c.Request.Context(), c.GetString(middleware.SessionIDKey))
	if err != nil {
		h.sendServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="survey-responses.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// SubmitHandler appends the participant's record to the dataset.
func (h *APIHandler) SubmitHandler(c *gin.Context) {
	session, record, err := h.sessions.Submit(c.Request.Context(), c.GetString(middleware.SessionIDKey))
	if err != nil {
		h.sendServiceError(c, err)
		return
	}
	log.Printf("INFO: [API] Participant %s submitted.", session.ParticipantID)
	ok(c, http.StatusOK, gin.H{
		"message": "Submitted! Thank you for participating.",
		"record":  record.Map(),
		"view":    h.sessions.View(session, ""),
	})
}

// sendServiceError maps service errors to HTTP responses.
func (h *APIHandler) sendServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrSessionNotFound):
		utils.SendJSONError(c, http.StatusNotFound, "Survey session not found.", err)
	case errors.Is(err, services.ErrInvalidAnswer), errors.Is(err, services.ErrUnknownAction):
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid answer.", err, err.Error())
	case errors.Is(err, services.ErrAlreadySubmitted):
		utils.SendJSONError(c, http.StatusConflict, "Your responses have already been submitted.", err)
	case errors.Is(err, services.ErrSubmitNotAllowed), errors.Is(err, services.ErrSynthesisNotAllowed):
		utils.SendJSONError(c, http.StatusConflict, err.Error(), err)
	case errors.Is(err, services.ErrVoiceNotFound):
		utils.SendJSONError(c, http.StatusNotFound, fmt.Sprintf("Voice generation failed: %v", err), err)
	case isSynthesisPath(c):
		utils.SendJSONError(c, http.StatusBadGateway, fmt.Sprintf("Voice generation failed: %v", err), err)
	case isSubmitPath(c):
		utils.SendJSONError(c, http.StatusBadGateway, fmt.Sprintf("Upload failed: %v", err), err)
	default:
		utils.SendJSONError(c, http.StatusInternalServerError, "", err)
	}
}

func isSynthesisPath(c *gin.Context) bool { return c.FullPath() == "/api/voices/synthesize" }
func isSubmitPath(c *gin.Context) bool    { return c.FullPath() == "/api/session/submit" }
