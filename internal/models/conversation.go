package models

import "time"

// Chat roles as exchanged with the generation providers.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is a single role-tagged utterance in a chat session.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation is one immutable record per finished chat session.
// It is created once at session end and never mutated afterwards.
type Conversation struct {
	ID            string    `json:"id" db:"id"`
	ChildID       string    `json:"-" db:"child_id"`
	Date          string    `json:"date" db:"date"`
	Time          string    `json:"time" db:"time"`
	Duration      float64   `json:"duration" db:"duration"`
	Summary       string    `json:"summary" db:"summary"`
	Interests     string    `json:"interests" db:"interests"`
	Emotion       string    `json:"emotion" db:"emotion"`
	Stress        string    `json:"stress" db:"stress"`
	StressSummary string    `json:"stressSummary" db:"stress_summary"`
	CreatedAt     time.Time `json:"-" db:"created_at"`
}

// Stress levels the gateway is constrained to answer with.
const (
	StressStressless = "Stressless"
	StressLow        = "Low"
	StressModerate   = "Moderate"
	StressHigh       = "High"
)

// NotStressedSentinel is the fixed stress-reason text the gateway returns
// when the user does not appear stressed.
const NotStressedSentinel = "User not stressed"
