package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/michaldrozd/spellcross-sub000/internal/domain"
	"github.com/michaldrozd/spellcross-sub000/internal/engine"
	"github.com/michaldrozd/spellcross-sub000/pkg/api"
	"github.com/michaldrozd/spellcross-sub000/pkg/logger"
	"github.com/michaldrozd/spellcross-sub000/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096 // MOVE с длинным путём
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и боем. Смотрит на бой глазами одной стороны.
type Client struct {
	Session      *engine.Session
	Conn         *websocket.Conn
	Send         chan api.ServerResponse // Личный канал из Hub
	Faction      domain.Faction
	SubscriberID string
	log          *logrus.Entry
}

// handleWS обрабатывает подключение по WebSocket: /battles/{id}/ws?faction=player
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	faction, ok := queryFaction(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(session, conn, faction)

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

// NewClient подписывает соединение на снимки стороны faction.
func NewClient(session *engine.Session, conn *websocket.Conn, faction domain.Faction) *Client {
	id := utils.NewSubscriberID()
	c := &Client{
		Session:      session,
		Conn:         conn,
		Faction:      faction,
		SubscriberID: id,
		log: logger.Log.WithFields(logrus.Fields{
			"battle_id":     session.ID,
			"subscriber_id": id,
			"faction":       faction,
		}),
	}
	c.Send = session.Subscribe(id, faction)
	c.log.Info("Client connected")
	return c
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		c.Session.Unsubscribe(c.SubscriberID)
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("WS Error")
			}
			return
		}
		c.execute(cmd)
	}
}

// execute выполняет команду от имени стороны соединения и отвечает RESULT/ERROR.
// Снимки с изменениями приходят отдельно через Hub.
func (c *Client) execute(cmd api.ClientCommand) {
	cmd.Faction = c.Faction.String()

	resp := api.ServerResponse{Type: api.MsgResult, BattleID: c.Session.ID}
	action := domain.ParseAction(cmd.Action)
	if action == domain.ActionUnknown {
		resp.Type = api.MsgError
		resp.Result = &api.CommandResult{Action: cmd.Action, Error: "unknown action"}
		c.Session.Hub.SendTo(c.SubscriberID, resp)
		return
	}

	res, err := c.Session.Execute(c.Faction, action, cmd.Payload)
	if err != nil {
		resp.Type = api.MsgError
		resp.Result = &api.CommandResult{Action: cmd.Action, Error: err.Error()}
	} else {
		resp.Result = toCommandResult(cmd.Action, res)
	}
	c.Session.Hub.SendTo(c.SubscriberID, resp)
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				// Hub закрыл канал
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
