package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stammerchat/stammer/internal/chunk"
	"github.com/stammerchat/stammer/internal/protocol"
	"github.com/stammerchat/stammer/internal/stutter"
)

// handlePreviewWS attaches a composer to a live preview session. Each
// compose_request is answered with a compose_result; the websocket
// write side stays single-threaded behind the outbound queue.
func (s *Server) handlePreviewWS(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "missing_session_id", "query parameter session_id is required")
		return
	}

	if _, err := s.sessions.Get(sessionID); err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	s.metrics.SessionEvents.WithLabelValues("ws_connected").Inc()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	outbound := make(chan any, 64)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-outbound:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(msg); err != nil {
					cancel()
					return
				}
				if t, ok := messageTypeOf(msg); ok {
					s.metrics.WSMessages.WithLabelValues("outbound", string(t)).Inc()
				}
			}
		}
	}()

	send := func(msg any) {
		select {
		case outbound <- msg:
		default:
			// Previews are best-effort; drop rather than block the reader.
		}
	}

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
		return nil
	})

readLoop:
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}

		parsed, err := protocol.ParseClientMessage(data)
		if err != nil {
			send(protocol.ErrorEvent{
				Type:      protocol.TypeErrorEvent,
				SessionID: sessionID,
				Code:      "invalid_client_message",
				Source:    "gateway",
				Retryable: false,
				Detail:    err.Error(),
			})
			continue
		}
		if t, ok := messageTypeOf(parsed); ok {
			s.metrics.WSMessages.WithLabelValues("inbound", string(t)).Inc()
		}

		switch msg := parsed.(type) {
		case protocol.ComposeRequest:
			if msg.SessionID != sessionID {
				send(sessionMismatch(sessionID))
				continue
			}
			result, err := s.previewCompose(msg)
			if err != nil {
				send(protocol.ErrorEvent{
					Type:      protocol.TypeErrorEvent,
					SessionID: sessionID,
					Code:      "session_not_found",
					Source:    "gateway",
					Retryable: false,
					Detail:    err.Error(),
				})
				break readLoop
			}
			send(result)
		case protocol.ClientControl:
			switch msg.Action {
			case "ping":
				_ = s.sessions.Touch(sessionID)
				send(protocol.SystemEvent{Type: protocol.TypeSystemEvent, SessionID: sessionID, Code: "pong"})
			case "end":
				break readLoop
			}
		}

		select {
		case <-ctx.Done():
			break readLoop
		default:
		}
	}

	cancel()
	<-writerDone
	s.metrics.SessionEvents.WithLabelValues("ws_disconnected").Inc()
}

// previewCompose resolves the request against the session snapshot,
// persists any settings override, and runs the transform plus split.
func (s *Server) previewCompose(msg protocol.ComposeRequest) (protocol.ComposeResult, error) {
	sess, err := s.sessions.Get(msg.SessionID)
	if err != nil {
		return protocol.ComposeResult{}, err
	}

	settings := sess.Settings
	if msg.Settings != nil {
		settings = *msg.Settings
		if err := s.sessions.UpdateSettings(msg.SessionID, settings); err != nil {
			return protocol.ComposeResult{}, err
		}
	}
	maxChars := msg.MaxChunkChars
	if maxChars <= 0 {
		maxChars = sess.MaxChunkChars
	}
	if maxChars <= 0 {
		maxChars = s.cfg.DefaultMaxChunkChars
	}

	start := time.Now()
	output := stutter.Transform(msg.Text, settings)
	chunks := chunk.SplitWithMarkers(output, maxChars)
	s.metrics.ObserveCompose("ws", "ok", time.Since(start), len(chunks))
	_ = s.sessions.RecordPreview(msg.SessionID)

	return protocol.ComposeResult{
		Type:      protocol.TypeComposeResult,
		SessionID: msg.SessionID,
		Seq:       msg.Seq,
		Output:    output,
		Chunks:    chunks,
	}, nil
}

func sessionMismatch(sessionID string) protocol.ErrorEvent {
	return protocol.ErrorEvent{
		Type:      protocol.TypeErrorEvent,
		SessionID: sessionID,
		Code:      "session_mismatch",
		Source:    "gateway",
		Retryable: false,
		Detail:    "compose_request session_id does not match this connection",
	}
}

func messageTypeOf(msg any) (protocol.MessageType, bool) {
	switch m := msg.(type) {
	case protocol.ComposeRequest:
		return m.Type, true
	case protocol.ClientControl:
		return m.Type, true
	case protocol.ComposeResult:
		return m.Type, true
	case protocol.SystemEvent:
		return m.Type, true
	case protocol.ErrorEvent:
		return m.Type, true
	default:
		return "", false
	}
}
