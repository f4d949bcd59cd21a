package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stammerchat/stammer/internal/stutter"
)

// MessageType identifies websocket payload variants.
type MessageType string

const (
	TypeComposeRequest MessageType = "compose_request"
	TypeClientControl  MessageType = "client_control"
	TypeComposeResult  MessageType = "compose_result"
	TypeSystemEvent    MessageType = "system_event"
	TypeErrorEvent     MessageType = "error_event"
)

var ErrUnsupportedType = errors.New("unsupported message type")

type Envelope struct {
	Type MessageType `json:"type"`
}

// ComposeRequest asks for a live preview of one message. Settings and
// the chunk budget are optional; zero values fall back to the session
// snapshot.
type ComposeRequest struct {
	Type          MessageType          `json:"type"`
	SessionID     string               `json:"session_id"`
	Seq           int                  `json:"seq"`
	Text          string               `json:"text"`
	Settings      *stutter.RawSettings `json:"settings,omitempty"`
	MaxChunkChars int                  `json:"max_chunk_chars,omitempty"`
}

type ClientControl struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Action    string      `json:"action"`
}

// ComposeResult carries the transformed text and its send-ready
// segments back to the composer.
type ComposeResult struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Seq       int         `json:"seq"`
	Output    string      `json:"output"`
	Chunks    []string    `json:"chunks"`
}

type SystemEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Code      string      `json:"code"`
	Detail    string      `json:"detail,omitempty"`
}

type ErrorEvent struct {
	Type      MessageType `json:"type"`
	SessionID string      `json:"session_id"`
	Code      string      `json:"code"`
	Source    string      `json:"source"`
	Retryable bool        `json:"retryable"`
	Detail    string      `json:"detail"`
}

func ParseClientMessage(raw []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("invalid envelope: %w", err)
	}

	switch env.Type {
	case TypeComposeRequest:
		var msg ComposeRequest
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" {
			return nil, errors.New("invalid compose_request")
		}
		return msg, nil
	case TypeClientControl:
		var msg ClientControl
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, err
		}
		if msg.SessionID == "" || msg.Action == "" {
			return nil, errors.New("invalid client_control")
		}
		return msg, nil
	default:
		return nil, ErrUnsupportedType
	}
}
