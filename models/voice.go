package models

import "fmt"

// VoiceDescriptor is a provider voice as shown in the voice picker.
type VoiceDescriptor struct {
	Name        string `json:"name"`
	VoiceID     string `json:"voice_id"`
	Gender      string `json:"gender"`
	Accent      string `json:"accent"`
	Description string `json:"description"`
	Label       string `json:"label"`
}

// VoiceMetadata fills in labels a provider leaves empty.
type VoiceMetadata struct {
	Gender      string
	Accent      string
	Description string
}

// DefaultVoiceMetadata covers the premade ElevenLabs voices.
var DefaultVoiceMetadata = map[string]VoiceMetadata{
	"Rachel":  {Gender: "Female", Accent: "American", Description: "Casual, matter-of-fact, personable"},
	"Clyde":   {Gender: "Male", Accent: "American", Description: "Intense, great for characters"},
	"Roger":   {Gender: "Male", Accent: "American", Description: "Classy, easy-going"},
	"Sarah":   {Gender: "Female", Accent: "American", Description: "Professional, confident, warm"},
	"Laura":   {Gender: "Female", Accent: "American", Description: "Sassy, sunny enthusiasm, quirky"},
	"Thomas":  {Gender: "Male", Accent: "American", Description: "Meditative, soft, subdued"},
	"Charlie": {Gender: "Male", Accent: "Australian", Description: "Hyped, confident, energetic"},
	"George":  {Gender: "Male", Accent: "British", Description: "Mature, warm resonance"},
	"Callum":  {Gender: "Male", Accent: "Neutral", Description: "Gravelly, unsettling edge"},
	"River":   {Gender: "Neutral", Accent: "American", Description: "Calm, relaxed, neutral"},
	"Harry":   {Gender: "Male", Accent: "American", Description: "Rough, animated warrior, young"},
	"Liam":    {Gender: "Male", Accent: "American", Description: "Confident, energetic, warm, young"},
	"Alice":   {Gender: "Female", Accent: "British", Description: "Clear, engaging, professional, friendly (e-learning suitable)"},
	"Matilda": {Gender: "Female", Accent: "American", Description: "Upbeat, professional, pleasing alto pitch, educational"},
	"Will":    {Gender: "Male", Accent: "American", Description: "Chill, conversational, laid back, young"},
	"Jessica": {Gender: "Female", Accent: "American", Description: "Cute, young, playful, trendy"},
	"Eric":    {Gender: "Male", Accent: "American", Description: "Classy, smooth tenor, middle-aged"},
	"Chris":   {Gender: "Male", Accent: "American", Description: "Casual, natural, down-to-earth, middle-aged"},
	"Brian":   {Gender: "Male", Accent: "American", Description: "Classy, resonant, comforting, middle-aged"},
	"Daniel":  {Gender: "Male", Accent: "British", Description: "Formal, professional, broadcast/news, middle-aged"},
	"Lily":    {Gender: "Female", Accent: "British", Description: "Confident, warm, velvety, narration, middle-aged"},
	"Bill":    {Gender: "Male", Accent: "American", Description: "Crisp, friendly, comforting, old"},
}

// DescribeVoice merges provider labels with the local table. Provider labels win.
func DescribeVoice(name, voiceID string, labels map[string]string) VoiceDescriptor {
	meta := DefaultVoiceMetadata[name]
	d := VoiceDescriptor{
		Name:        name,
		VoiceID:     voiceID,
		Gender:      firstNonEmpty(labels["gender"], meta.Gender, "Unknown"),
		Accent:      firstNonEmpty(labels["accent"], meta.Accent, "Unknown"),
		Description: firstNonEmpty(labels["description"], meta.Description, "No description available"),
	}
	d.Label = fmt.Sprintf("%s — %s | %s | %s", d.Name, d.Gender, d.Accent, d.Description)
	return d
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
