// Package game exposes one running session over HTTP, SSE and WebSocket.
package game

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/people-person/internal/model/score"
	"github.com/zhouzirui/people-person/internal/service/session"
	"github.com/zhouzirui/people-person/pkg/utils"
)

// Engine 是处理器依赖的会话能力。
type Engine interface {
	View() session.View
	Submit(text string) error
	Quit() error
	Exited() <-chan struct{}
}

// Handler 游戏的HTTP处理器
type Handler struct {
	engine   Engine
	scores   score.Store
	frame    time.Duration
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// New 创建游戏处理器。frameRate 决定推送快照的频率。
func New(engine Engine, scores score.Store, frameRate int, logger *zap.Logger) *Handler {
	if frameRate < 1 {
		frameRate = 30
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		engine: engine,
		scores: scores,
		frame:  time.Second / time.Duration(frameRate),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// RegisterRoutes 注册游戏相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/state", h.handleState)
	r.Post("/input", h.handleInput)
	r.Post("/quit", h.handleQuit)
	r.Get("/leaderboard", h.handleLeaderboard)
	r.Get("/stream", h.handleStream)
	r.Get("/ws", h.handleWebSocket)
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.engine.View())
}

type inputRequest struct {
	Text string `json:"text"`
}

// handleInput 提交咨询师的一句话
func (h *Handler) handleInput(w http.ResponseWriter, r *http.Request) {
	var payload inputRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.engine.Submit(payload.Text); err != nil {
		status, message := submitStatus(err)
		utils.WriteError(w, status, message)
		return
	}
	utils.WriteJSON(w, http.StatusAccepted, h.engine.View())
}

func submitStatus(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrGameOver):
		return http.StatusGone, err.Error()
	case errors.Is(err, session.ErrNotAwaitingInput):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "submit failed"
	}
}

// handleQuit 结束会话。第一次进入排行榜，第二次退出程序。
func (h *Handler) handleQuit(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Quit(); err != nil {
		h.logger.Error("quit failed", zap.Error(err))
		utils.WriteError(w, http.StatusInternalServerError, "failed to save scores")
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.engine.View())
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := session.LeaderboardSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	utils.WriteJSON(w, http.StatusOK, h.scores.Leaderboard(limit))
}

// handleStream 以 SSE 推送每一帧的快照
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.WriteError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	ctx := r.Context()

	ticker := time.NewTicker(h.frame)
	defer ticker.Stop()

	if err := utils.SendSSEEvent(w, flusher, "frame", h.engine.View()); err != nil {
		h.logger.Debug("sse client gone", zap.Error(err))
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.engine.Exited():
			_ = utils.SendSSEEvent(w, flusher, "exit", h.engine.View())
			return
		case <-ticker.C:
			if err := utils.SendSSEEvent(w, flusher, "frame", h.engine.View()); err != nil {
				h.logger.Debug("sse client gone", zap.Error(err))
				return
			}
		}
	}
}
