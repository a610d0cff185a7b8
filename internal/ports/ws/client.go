package ws

import (
	"context"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	sendBuffer   = 64
	writeTimeout = 10 * time.Second
	pingInterval = 15 * time.Second
)

// Client is one websocket connection. Only the owning room closes send.
type Client struct {
	ID     string
	UserID string

	conn *websocket.Conn
	send chan Msg
}

func newClient(id, userID string, conn *websocket.Conn) *Client {
	return &Client{ID: id, UserID: userID, conn: conn, send: make(chan Msg, sendBuffer)}
}

// writeLoop drains send onto the socket and keeps the connection alive.
// It returns once the room has closed send or a write fails.
func (c *Client) writeLoop(ctx context.Context, logger *zap.Logger) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.Close(websocket.StatusNormalClosure, "bye")
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, c.conn, msg)
			cancel()
			if err != nil {
				logger.Debug("write failed", zap.Error(err))
				return
			}
		case <-ping.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

// readLoop forwards every frame to the room until the connection drops.
func (c *Client) readLoop(ctx context.Context, room *Room, logger *zap.Logger) {
	for {
		var msg inbound
		if err := wsjson.Read(ctx, c.conn, &msg); err != nil {
			logger.Debug("read ended", zap.Error(err))
			return
		}
		room.submit(c, msg)
	}
}
