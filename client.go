package main

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"asteroid-field/game"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
	maxNameLen        = 16
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	limiter    *rate.Limiter
	sessionID  string
	role       string // RolePilot or RoleSpectator while in a session
	remoteAddr string
	// Auth state
	authPilotID  int64  // 0 = unauthenticated
	authUsername string // "" = unauthenticated
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		limiter:    rate.NewLimiter(rate.Limit(maxMessagesPerSec), maxMessagesPerSec),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		if !c.limiter.Allow() {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			wsRejected.WithLabelValues("rate").Inc()
			break
		}

		// Binary input messages: 2 bytes [0x01, flags]
		if msgType == websocket.BinaryMessage && len(message) == 2 && message[0] == binaryInput {
			c.handleBinaryInput(message)
		} else {
			c.handleMessage(message)
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }() // send may already be closed
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message.
// Prefixes with 0xFF marker byte so WritePump can distinguish from text.
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgList:
		c.SendJSON(Envelope{T: MsgSessions, Data: c.hub.sessions.ListSessions()})
	case MsgJoin:
		c.handleJoin(env.D)
	case MsgWatch:
		c.handleWatch(env.D)
	case MsgInput:
		c.handleInput(env.D)
	case MsgLeave:
		c.leave()
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgProfile:
		c.handleProfile()
	default:
		c.sendError("unknown message type")
	}
}

// session returns the session the client is in, if it still exists
func (c *Client) session() *Session {
	if c.sessionID == "" {
		return nil
	}
	return c.hub.sessions.GetSession(c.sessionID)
}

func (c *Client) handleJoin(data json.RawMessage) {
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if c.session() != nil {
		c.sendError("already in a session")
		return
	}
	sess := c.hub.sessions.GetSession(msg.SessionID)
	if sess == nil {
		c.sendError("session not found")
		return
	}

	name, pilotID := c.authUsername, c.authPilotID
	if pilotID == 0 {
		name = strings.TrimSpace(msg.Name)
		if name == "" {
			name = "Pilot"
		}
		if len(name) > maxNameLen {
			name = name[:maxNameLen]
		}
		if c.hub.auth != nil {
			if id, guest, err := c.hub.auth.Guest(); err == nil {
				pilotID = id
				name = guest
			} else {
				log.Printf("guest pilot: %v", err)
			}
		}
	}

	if !sess.Game.SetPilot(c, name, pilotID) {
		c.sendError("session already has a pilot")
		return
	}
	c.sessionID = sess.ID
	c.role = RolePilot
	c.SendJSON(Envelope{T: MsgJoined, Data: JoinedMsg{SessionID: sess.ID, Role: RolePilot, Pilot: name}})
}

func (c *Client) handleWatch(data json.RawMessage) {
	var msg JoinMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if c.session() != nil {
		c.sendError("already in a session")
		return
	}
	sess := c.hub.sessions.GetSession(msg.SessionID)
	if sess == nil || !sess.Game.AddSpectator(c) {
		c.sendError("session not found")
		return
	}
	c.sessionID = sess.ID
	c.role = RoleSpectator
	pilot, _ := sess.Game.Pilot()
	c.SendJSON(Envelope{T: MsgJoined, Data: JoinedMsg{SessionID: sess.ID, Role: RoleSpectator, Pilot: pilot}})
}

// handleBinaryInput decodes a compact [0x01, flags] input message
func (c *Client) handleBinaryInput(msg []byte) {
	if c.role != RolePilot {
		return
	}
	if sess := c.session(); sess != nil {
		sess.Game.HandleInput(c, game.KeyStateFromFlags(msg[1]))
	}
}

func (c *Client) handleInput(data json.RawMessage) {
	if c.role != RolePilot {
		return
	}
	var input InputMsg
	if err := json.Unmarshal(data, &input); err != nil {
		return
	}
	if sess := c.session(); sess != nil {
		sess.Game.HandleInput(c, input.KeyState())
	}
}

// leave detaches the client from its session. A leaving pilot ends the
// session; spectators just stop receiving frames.
func (c *Client) leave() {
	sess := c.session()
	role := c.role
	c.sessionID, c.role = "", ""
	if sess == nil {
		return
	}
	if role == RolePilot && sess.Game.IsPilot(c) {
		c.hub.sessions.EndSession(sess.ID, endPilotLeft)
		return
	}
	sess.Game.RemoveSpectator(c)
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		c.sendError("accounts disabled")
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	id, username, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil {
		c.sendError("invalid token")
		return
	}
	c.authPilotID = id
	c.authUsername = username
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{
		Token:    msg.Token,
		Username: username,
		PilotID:  id,
	}})
}

func (c *Client) handleProfile() {
	if c.hub.db == nil || c.authPilotID == 0 {
		c.sendError("not authenticated")
		return
	}
	stats, err := c.hub.db.GetStats(c.authPilotID)
	if err != nil || stats == nil {
		c.sendError("profile not found")
		return
	}
	c.SendJSON(Envelope{T: MsgProfileData, Data: ProfileDataMsg{
		Username:  c.authUsername,
		Level:     stats.Level,
		XP:        stats.XP,
		Runs:      stats.Runs,
		BestScore: stats.BestScore,
		Asteroids: stats.Asteroids,
		Enemies:   stats.Enemies,
		Playtime:  stats.Playtime,
	}})
}
