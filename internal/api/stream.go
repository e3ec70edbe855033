package api

import (
	"fmt"
	"time"

	"trading-dashboard/internal/catalog"
	"trading-dashboard/internal/dashboard"
	"trading-dashboard/internal/models"
	"trading-dashboard/internal/series"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 10 * time.Second

type streamRequest struct {
	Symbol          string `json:"symbol"`
	Period          *int   `json:"period"`
	IntervalSeconds int    `json:"interval_seconds"`
}

type streamMessage struct {
	Symbol string               `json:"symbol,omitempty"`
	Series models.PriceSeries   `json:"series,omitempty"`
	State  *models.DerivedState `json:"state,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// StreamPrices: GET /api/ws
//
// The client opens with {"symbol":"AAPL","period":30,"interval_seconds":5}.
// A fresh series is pushed immediately and then every interval until the
// client goes away. Without an interval the server sends one snapshot and
// closes normally.
func (h *APIHandler) StreamPrices(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	var req streamRequest
	if err := conn.ReadJSON(&req); err != nil {
		log.Debug().Err(err).Msg("websocket: no subscription received")
		return
	}
	symbol, period, interval, err := h.parseStreamRequest(req)
	if err != nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(streamMessage{Error: err.Error()})
		closeNormal(conn, "invalid subscription")
		return
	}

	// drain control frames and notice when the peer leaves
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ctx := c.Request.Context()
	send := func() error {
		msg := streamMessage{Symbol: symbol}
		s, err := h.source.Series(ctx, symbol, period)
		if err != nil {
			msg.Error = err.Error()
		} else if state, err := dashboard.DeriveState(s); err == nil {
			msg.Series = s
			msg.State = &state
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}

	if err := send(); err != nil {
		return
	}
	if interval == 0 {
		closeNormal(conn, "")
		return
	}

	log.Info().Str("symbol", symbol).Dur("interval", interval).Msg("websocket stream started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-gone:
			log.Info().Str("symbol", symbol).Msg("websocket stream closed by client")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := send(); err != nil {
				log.Debug().Err(err).Str("symbol", symbol).Msg("websocket write failed")
				return
			}
		}
	}
}

func (h *APIHandler) parseStreamRequest(req streamRequest) (string, int, time.Duration, error) {
	symbol := catalog.NormalizeSymbol(req.Symbol)
	if symbol == "" {
		return "", 0, 0, fmt.Errorf("%w: missing symbol", series.ErrInvalidArgument)
	}
	period := series.DefaultPeriod
	if req.Period != nil {
		period = *req.Period
	}
	if period < 0 || period > series.MaxPeriod {
		return "", 0, 0, fmt.Errorf("%w: period must be between 0 and %d, got %d", series.ErrInvalidArgument, series.MaxPeriod, period)
	}
	if req.IntervalSeconds < 0 {
		return "", 0, 0, fmt.Errorf("%w: negative interval", series.ErrInvalidArgument)
	}
	interval := time.Duration(req.IntervalSeconds) * time.Second
	if interval > 0 && interval < h.streamMinInterval {
		interval = h.streamMinInterval
	}
	return symbol, period, interval, nil
}

func closeNormal(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
