package main

import (
	"encoding/json"

	"asteroid-field/game"
	"asteroid-field/render"
)

// Client -> Server message types
const (
	MsgJoin    = "join"  // fly the ship of a session
	MsgWatch   = "watch" // spectate a session
	MsgLeave   = "leave"
	MsgInput   = "input"
	MsgList    = "list"
	MsgAuth    = "auth"
	MsgProfile = "profile"
)

// Server -> Client message types
const (
	MsgSessions    = "sessions"
	MsgJoined      = "joined"
	MsgEnded       = "ended"
	MsgAuthOK      = "auth_ok"
	MsgProfileData = "profile_data"
	MsgError       = "error"
)

// Binary input: [binaryInput, flags] with game.Flag* bits
const binaryInput = 0x01

// Roles a client can hold in a session
const (
	RolePilot     = "pilot"
	RoleSpectator = "spectator"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// InputMsg is the JSON form of the pilot's held keys
type InputMsg struct {
	Thrust bool `json:"thrust"`
	Brake  bool `json:"brake"`
	Left   bool `json:"left"`
	Right  bool `json:"right"`
	Fire   bool `json:"fire"`
}

// KeyState converts the message into engine intents
func (m InputMsg) KeyState() game.KeyState {
	return game.KeyState{Thrust: m.Thrust, Brake: m.Brake, Left: m.Left, Right: m.Right, Fire: m.Fire}
}

// JoinMsg asks to pilot or watch a session
type JoinMsg struct {
	SessionID string `json:"sid"`
	Name      string `json:"name,omitempty"`
}

// JoinedMsg confirms a join or watch
type JoinedMsg struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	Pilot     string `json:"pilot,omitempty"`
}

// AuthMsg attaches a token to the connection
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms the authenticated pilot
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PilotID  int64  `json:"pilotId"`
}

// ProfileDataMsg carries the pilot's running totals
type ProfileDataMsg struct {
	Username  string  `json:"username"`
	Level     int     `json:"level"`
	XP        int     `json:"xp"`
	Runs      int     `json:"runs"`
	BestScore int     `json:"bestScore"`
	Asteroids int     `json:"asteroids"`
	Enemies   int     `json:"enemies"`
	Playtime  float64 `json:"playtime"`
}

// FrameState is broadcast as a msgpack binary message
type FrameState struct {
	Tick       uint64          `msgpack:"t"`
	CameraX    float64         `msgpack:"cx"`
	CameraY    float64         `msgpack:"cy"`
	Width      float64         `msgpack:"w"`
	Height     float64         `msgpack:"h"`
	Hits       int             `msgpack:"hits"`
	Shots      int             `msgpack:"shots"`
	Asteroids  uint64          `msgpack:"ast"`
	Enemies    uint64          `msgpack:"en"`
	Invincible bool            `msgpack:"inv"`
	Sprites    []render.Sprite `msgpack:"s"`
}

// RunSummary is sent to every client when a session ends
type RunSummary struct {
	SessionID string  `json:"sid"`
	Pilot     string  `json:"pilot,omitempty"`
	Reason    string  `json:"reason"`
	Duration  float64 `json:"duration"`
	Frames    uint64  `json:"frames"`
	Asteroids uint64  `json:"asteroids"`
	Enemies   uint64  `json:"enemies"`
	Hits      int     `json:"hits"`
	Shots     int     `json:"shots"`
	Score     int     `json:"score"`
	XP        int     `json:"xp,omitempty"`
	Level     int     `json:"level,omitempty"`

	Achievements []AchievementDef `json:"achievements,omitempty"`
}

// SessionInfo is used in the session list
type SessionInfo struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Pilot      string  `json:"pilot,omitempty"`
	Spectators int     `json:"spectators"`
	Uptime     float64 `json:"uptime"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}
