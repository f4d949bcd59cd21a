package session

import (
	"time"

	"github.com/stammerchat/stammer/internal/stutter"
)

// CreateRequest defines payload for creating a preview session.
type CreateRequest struct {
	UserID        string              `json:"user_id"`
	Settings      stutter.RawSettings `json:"settings"`
	MaxChunkChars int                 `json:"max_chunk_chars"`
}

// CreateResponse returns created session metadata.
type CreateResponse struct {
	SessionID       string    `json:"session_id"`
	UserID          string    `json:"user_id"`
	Status          Status    `json:"status"`
	MaxChunkChars   int       `json:"max_chunk_chars"`
	StartedAt       time.Time `json:"started_at"`
	LastActivityAt  time.Time `json:"last_activity_at"`
	InactivityTTLMS int64     `json:"inactivity_ttl_ms"`
}
