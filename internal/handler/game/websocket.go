package game

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/people-person/internal/service/session"
)

const writeWait = 5 * time.Second

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type outgoingMessage struct {
	Type  string        `json:"type"`
	View  *session.View `json:"view,omitempty"`
	Error string        `json:"error,omitempty"`
}

// handleWebSocket 每帧推送快照，并接收 input/quit 指令。
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)

	inbound := make(chan inboundMessage)
	readErr := make(chan error, 1)
	go func() {
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				readErr <- err
				return
			}
			select {
			case inbound <- msg:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(h.frame)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-readErr:
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("websocket read stopped", zap.Error(err))
			}
			return
		case <-h.engine.Exited():
			view := h.engine.View()
			_ = h.write(conn, outgoingMessage{Type: "exit", View: &view})
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"),
				time.Now().Add(writeWait))
			return
		case msg := <-inbound:
			if reply, ok := h.apply(msg); ok {
				if err := h.write(conn, reply); err != nil {
					return
				}
			}
		case <-ticker.C:
			view := h.engine.View()
			if err := h.write(conn, outgoingMessage{Type: "frame", View: &view}); err != nil {
				return
			}
		}
	}
}

// apply runs one client command. It answers only when the command failed.
func (h *Handler) apply(msg inboundMessage) (outgoingMessage, bool) {
	var err error
	switch msg.Type {
	case "input":
		err = h.engine.Submit(msg.Text)
	case "quit":
		err = h.engine.Quit()
	default:
		return outgoingMessage{Type: "error", Error: "unknown message type: " + msg.Type}, true
	}
	if err != nil {
		return outgoingMessage{Type: "error", Error: err.Error()}, true
	}
	return outgoingMessage{}, false
}

func (h *Handler) write(conn *websocket.Conn, msg outgoingMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		h.logger.Debug("websocket write failed", zap.Error(err))
		return err
	}
	return nil
}
