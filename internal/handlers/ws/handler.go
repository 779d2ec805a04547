// Package ws serves the game over websockets. Each connection is one player:
// it joins on connect, sends action frames, receives one response frame per
// action plus pushed snapshots, and leaves on disconnect.
package ws

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/geometry"
	"github.com/KirkDiggler/treasure-realm/internal/orchestrators/game"
	"github.com/KirkDiggler/treasure-realm/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// HandlerConfig holds dependencies for the websocket handler
type HandlerConfig struct {
	Service   game.Service
	Validator *protocol.Validator
	Hub       *Hub
	Logger    logrus.FieldLogger
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Service == nil {
		vb.RequiredField("Service")
	}
	if c.Validator == nil {
		vb.RequiredField("Validator")
	}
	if c.Hub == nil {
		vb.RequiredField("Hub")
	}
	if c.Logger == nil {
		vb.RequiredField("Logger")
	}
	return vb.Build()
}

// Handler upgrades HTTP requests to game sessions
type Handler struct {
	service   game.Service
	validator *protocol.Validator
	hub       *Hub
	logger    logrus.FieldLogger
	upgrader  websocket.Upgrader
}

// NewHandler creates a new websocket handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Handler{
		service:   cfg.Service,
		validator: cfg.Validator,
		hub:       cfg.Hub,
		logger:    cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}, nil
}

type client struct {
	playerID string
	conn     *websocket.Conn
	send     chan *protocol.Response
	refresh  chan struct{}
	// done is closed once the read side has finished
	done chan struct{}
	// writerDone is closed when writePump exits
	writerDone chan struct{}
}

// ServeHTTP joins the player named by the player_id query parameter, or a
// fresh uuid when absent. Optional x and y choose the spawn point.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	input, err := joinInput(r)
	if err != nil {
		http.Error(w, errors.GetMessage(err), errors.GetCode(err).HTTPStatus())
		return
	}

	log := h.logger.WithField("player_id", input.PlayerID)

	joined, err := h.service.Join(r.Context(), input)
	if err != nil {
		log.WithError(err).Info("join rejected")
		http.Error(w, errors.GetMessage(err), errors.GetCode(err).HTTPStatus())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		h.leave(input.PlayerID)
		return
	}

	c := &client{
		playerID:   input.PlayerID,
		conn:       conn,
		send:       make(chan *protocol.Response, sendBuffer),
		refresh:    make(chan struct{}, 1),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	h.hub.register(c)
	c.send <- joined.Response
	log.Info("client connected")

	ctx := context.WithoutCancel(r.Context())
	go h.writePump(ctx, c)
	h.readPump(ctx, c)

	close(c.done)
	<-c.writerDone
	h.hub.unregister(c)
	h.leave(input.PlayerID)
	log.Info("client disconnected")
}

func joinInput(r *http.Request) (*game.JoinInput, error) {
	q := r.URL.Query()
	input := &game.JoinInput{
		PlayerID: q.Get("player_id"),
		Name:     q.Get("name"),
	}
	if input.PlayerID == "" {
		input.PlayerID = uuid.NewString()
	}

	xs, ys := q.Get("x"), q.Get("y")
	if xs == "" && ys == "" {
		return input, nil
	}
	x, errX := strconv.ParseFloat(xs, 64)
	y, errY := strconv.ParseFloat(ys, 64)
	if errX != nil || errY != nil {
		return nil, errors.InvalidArgument("x and y must both be numbers")
	}
	input.Position = &geometry.Point{X: x, Y: y}
	return input, nil
}

func (h *Handler) leave(playerID string) {
	if _, err := h.service.Leave(context.Background(), &game.LeaveInput{PlayerID: playerID}); err != nil {
		h.logger.WithError(err).WithField("player_id", playerID).Warn("failed to remove player")
	}
}

func (h *Handler) readPump(ctx context.Context, c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		h.logger.WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).WithField("player_id", c.playerID).Warn("websocket read failed")
			}
			return
		}

		resp, err := h.handleFrame(ctx, c.playerID, data)
		if err != nil {
			h.logger.WithError(err).WithField("player_id", c.playerID).Warn("failed to handle frame")
			return
		}

		select {
		case c.send <- resp:
		case <-c.writerDone:
			return
		}
	}
}

// handleFrame resolves one frame. A frame that fails validation is answered
// with the player's current view and a failed result.
func (h *Handler) handleFrame(ctx context.Context, playerID string, data []byte) (*protocol.Response, error) {
	action, err := h.validator.Decode(data)
	if err != nil {
		out, snapErr := h.service.GetSnapshot(ctx, &game.GetSnapshotInput{PlayerID: playerID})
		if snapErr != nil {
			return nil, snapErr
		}
		out.Response.Result = &protocol.ActionResult{
			Code:    string(errors.GetCode(err)),
			Message: errors.GetMessage(err),
		}
		return out.Response, nil
	}

	out, err := h.service.HandleAction(ctx, &game.HandleActionInput{
		PlayerID: playerID,
		Action:   action,
	})
	if err != nil {
		return nil, err
	}
	return out.Response, nil
}

func (h *Handler) writePump(ctx context.Context, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(c.writerDone)
		if err := c.conn.Close(); err != nil {
			h.logger.WithError(err).Debug("failed to close websocket connection")
		}
	}()

	for {
		select {
		case resp := <-c.send:
			if err := h.write(c, resp); err != nil {
				return
			}

		case <-c.refresh:
			out, err := h.service.GetSnapshot(ctx, &game.GetSnapshotInput{PlayerID: c.playerID})
			if err != nil {
				h.logger.WithError(err).WithField("player_id", c.playerID).Warn("failed to build pushed snapshot")
				continue
			}
			if err := h.write(c, out.Response); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				h.logger.WithError(err).Debug("failed to set ping write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.logger.WithError(err).Debug("ping failed")
				return
			}

		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (h *Handler) write(c *client, resp *protocol.Response) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		h.logger.WithError(err).Debug("failed to set write deadline")
	}
	if err := c.conn.WriteJSON(resp); err != nil {
		h.logger.WithError(err).WithField("player_id", c.playerID).Debug("write failed")
		return err
	}
	return nil
}
