package server

import (
	"net/http"
	"time"

	"exodus-server/internal/session"
	"exodus-server/pkg/api"
	"exodus-server/pkg/logger"
	"exodus-server/pkg/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и сессией
type Client struct {
	Session    *session.Session
	Conn       *websocket.Conn
	Send       chan api.ServerResponse
	ObserverID string
}

func NewClient(s *session.Session, conn *websocket.Conn) *Client {
	return &Client{
		Session: s,
		Conn:    conn,
		Send:    make(chan api.ServerResponse, 256),
	}
}

// readPump читает команды наблюдателя
func (c *Client) readPump() {
	hub := c.Session.Hub()
	defer func() {
		if c.ObserverID != "" {
			hub.Unregister(c.ObserverID)
			logger.Log.WithField("observer", c.ObserverID).Info("Observer disconnected")
		} else {
			close(c.Send)
		}
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection")
		}
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	// 1. HANDSHAKE: первое сообщение несет токен наблюдателя
	var hello api.ClientCommand
	if err := c.Conn.ReadJSON(&hello); err != nil {
		logger.Log.Warn("Handshake failed")
		return
	}

	c.ObserverID = hello.Token
	if c.ObserverID == "" {
		c.ObserverID = utils.GenerateID()
	}

	// 2. ПОДПИСКА НА ОБНОВЛЕНИЯ
	updates := hub.Register(c.ObserverID)
	go func() {
		for msg := range updates {
			c.Send <- msg
		}
		close(c.Send)
	}()

	logger.Log.WithFields(logrus.Fields{
		"observer":  c.ObserverID,
		"observers": hub.SubscriberCount(),
	}).Info("Observer connected")

	// Первый кадр не ждет плановой рассылки
	c.submit(api.ClientCommand{Action: "SNAPSHOT"})
	if hello.Action != "" {
		c.submit(hello)
	}

	// 3. ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Errorf("WS Error: %v", err)
			}
			break
		}
		c.submit(cmd)
	}
}

func (c *Client) submit(cmd api.ClientCommand) {
	cmd.Token = c.ObserverID
	if !c.Session.Submit(c.ObserverID, cmd) {
		logger.Log.WithFields(logrus.Fields{
			"observer": c.ObserverID,
			"action":   cmd.Action,
		}).Warn("Command queue full, dropping command")
	}
}

// writePump отправляет данные наблюдателю + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
