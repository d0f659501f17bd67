package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"AstroChart/internal/domain/models"
	xhttp "AstroChart/pkg/http"
	xlogger "AstroChart/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	wsWriteWait   = 10 * time.Second
	wsPongWait    = 60 * time.Second
	wsPingPeriod  = wsPongWait * 9 / 10
	wsMaxFrame    = 4096
	wsCalcTimeout = 30 * time.Second
)

// wsFrame is the envelope of every server frame.
type wsFrame struct {
	Type   string             `json:"type"` // "chart" or "error"
	Chart  *models.NatalChart `json:"chart,omitempty"`
	Errors interface{}        `json:"errors,omitempty"`
}

// ChartsWSHandler answers each BirthDataInput text frame with a chart frame.
type ChartsWSHandler struct {
	logger   *xlogger.Logger
	charts   ChartService
	upgrader websocket.Upgrader
}

func NewChartsWSHandler(logger *xlogger.Logger, charts ChartService) *ChartsWSHandler {
	return &ChartsWSHandler{
		logger: logger,
		charts: charts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 8192,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *ChartsWSHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/charts", h.Serve)
}

func (h *ChartsWSHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", xlogger.Error(err))
		return nil // upgrader already replied
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	conn.SetReadLimit(wsMaxFrame)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	frames := make(chan wsFrame, 4)
	go h.writeLoop(ctx, conn, frames)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("ws read failed", xlogger.Error(err))
			}
			return nil
		}
		if msgType != websocket.TextMessage {
			continue
		}

		frame := h.handleFrame(ctx, data)
		select {
		case frames <- frame:
		case <-ctx.Done():
			return nil
		}
	}
}

func (h *ChartsWSHandler) handleFrame(ctx context.Context, data []byte) wsFrame {
	var in models.BirthDataInput
	if err := json.Unmarshal(data, &in); err != nil {
		return errorFrame(xhttp.BadRequestError("frame is not valid JSON"))
	}
	if verr := xhttp.ValidateStruct(ctx, &in); verr != nil {
		return wsFrame{Type: "error", Errors: verr}
	}

	cctx, cancel := context.WithTimeout(ctx, wsCalcTimeout)
	defer cancel()

	chart, err := h.charts.Calculate(cctx, in)
	if err != nil {
		appErr := toAppError(err, xhttp.BadGatewayError)
		if appErr.Status >= 500 {
			h.logger.Error("ws chart failed", xlogger.Error(err))
		}
		return errorFrame(appErr)
	}
	return wsFrame{Type: "chart", Chart: chart}
}

func errorFrame(e *xhttp.AppError) wsFrame {
	return wsFrame{Type: "error", Errors: []*xhttp.AppError{e}}
}

// writeLoop owns all writes to conn, interleaving replies with pings.
func (h *ChartsWSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, frames <-chan wsFrame) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(wsWriteWait))
			return
		case f := <-frames:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(f); err != nil {
				h.logger.Warn("ws write failed", xlogger.Error(err))
				_ = conn.Close() // unblocks the read loop
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}
