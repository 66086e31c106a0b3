package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/tuncanbit/lnpay/internal/domain/interfaces"
	"github.com/tuncanbit/lnpay/internal/domain/models"
)

var (
	ErrClientNotFound = errors.New("client not found")
	ErrClientInactive = errors.New("client is inactive")
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// Client is one subscribed status-update consumer.
type Client struct {
	id        string
	conn      *websocket.Conn
	active    atomic.Bool
	send      chan *models.StatusUpdate
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn) interfaces.WebSocketClient {
	client := &Client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan *models.StatusUpdate, 256),
		done: make(chan struct{}),
	}
	client.active.Store(true)

	go client.writePump()
	go client.readPump()

	return client
}

func (c *Client) GetID() string {
	return c.id
}

// Send queues a status update for delivery, dropping it rather than
// blocking the broadcaster when the client cannot keep up.
func (c *Client) Send(message *models.StatusUpdate) error {
	if !c.active.Load() {
		return ErrClientInactive
	}

	select {
	case c.send <- message:
		return nil
	case <-c.done:
		return ErrClientInactive
	default:
		log.Warn().Str("client_id", c.id).Msg("WebSocket client send channel full, dropping message")
		return errors.New("send channel full")
	}
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.active.Store(false)
		close(c.done)
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

func (c *Client) IsActive() bool {
	return c.active.Load()
}

// HandleConnection blocks until the connection is closed.
func (c *Client) HandleConnection() {
	defer c.Close()

	<-c.done
}

// readPump drains incoming frames; clients only listen, so reads exist to
// surface pongs and closes.
func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.done:
			return
		default:
			if _, _, err := c.conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Error().Err(err).Str("client_id", c.id).Msg("Unexpected WebSocket close error")
				}
				return
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(message)
			if err != nil {
				log.Error().Err(err).Str("client_id", c.id).Msg("Failed to marshal WebSocket message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
