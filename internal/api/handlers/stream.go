package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/wonny/edgelab/internal/consistency"
	"github.com/wonny/edgelab/pkg/logger"
)

// streamMessage is one websocket frame in a multi-window stream
type streamMessage struct {
	Type     string      `json:"type"` // "progress" | "result" | "error"
	Progress interface{} `json:"progress,omitempty"`
	Result   interface{} `json:"result,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// StreamHandler streams multi-window progress over websocket
// ⭐ SSOT: 웹소켓 업그레이드/프레이밍은 여기서만
type StreamHandler struct {
	backtest *BacktestHandler
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewStreamHandler creates the websocket stream handler
func NewStreamHandler(backtest *BacktestHandler, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		backtest: backtest,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// 로컬 분석 도구 — 오리진 제한 없음
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: log,
	}
}

// MultiStream handles GET /api/backtest/multi/ws.
// 첫 텍스트 프레임으로 multiRequest를 받고, 윈도우가 끝날 때마다 progress
// 프레임을, 마지막에 result 프레임을 보낸다.
func (h *StreamHandler) MultiStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	var req multiRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.writeError(conn, "invalid request frame: "+err.Error())
		return
	}

	strat, err := h.backtest.resolve(req.runRequest)
	if err != nil {
		h.writeError(conn, err.Error())
		return
	}
	if len(req.Windows) == 0 {
		h.writeError(conn, "windows are required")
		return
	}

	// 진행 이벤트는 완료 순서대로 직렬화됨 (analyzer가 콜백을 직렬 호출)
	progress := func(event consistency.ProgressEvent) {
		h.write(conn, streamMessage{Type: "progress", Progress: event})
	}

	report := h.backtest.analyzer.Analyze(r.Context(), strat,
		h.backtest.toRunConfig(req.runRequest), req.Windows, progress)

	h.write(conn, streamMessage{Type: "result", Result: report})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *StreamHandler) write(conn *websocket.Conn, msg streamMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.WithError(err).Error("Stream message marshal failed")
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.WithError(err).Warn("Stream write failed")
	}
}

func (h *StreamHandler) writeError(conn *websocket.Conn, reason string) {
	h.write(conn, streamMessage{Type: "error", Error: reason})
}
