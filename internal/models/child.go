package models

import "time"

// Child represents a child profile document. The password hash is never
// serialized to API responses.
type Child struct {
	ID             string               `json:"id" db:"id"`
	ParentUUID     string               `json:"parent_uuid" db:"parent_uuid"`
	ReportID       string               `json:"report_id,omitempty" db:"report_id"`
	Name           string               `json:"name" db:"name"`
	Age            int                  `json:"age" db:"age"`
	Sex            string               `json:"sex" db:"sex"`
	NeuroCat       []string             `json:"neuro_cat" db:"-"`
	AdditionalInfo string               `json:"additional_info,omitempty" db:"additional_info"`
	Points         int                  `json:"points" db:"points"`
	Username       string               `json:"username,omitempty" db:"username"`
	PasswordHash   string               `json:"-" db:"password_hash"`
	ChatSummary    *ConversationSummary `json:"chat_summary,omitempty" db:"-"`
	CreatedAt      time.Time            `json:"created_at" db:"created_at"`
}

// ConversationSummary is the rolling per-child aggregate folded on every
// finished conversation. It lives embedded in the Child record.
type ConversationSummary struct {
	LastUpdated      time.Time `json:"last_updated"`
	Conversations    int       `json:"conversations"`
	TotalDuration    float64   `json:"total_duration"`
	Emotion          string    `json:"emotion"`
	Stress           string    `json:"stress"`
	StressSummary    string    `json:"stressSummary"`
	InterestsSummary string    `json:"interests_summary"`
}
