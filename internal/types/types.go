package types

import "github.com/dotchase/dot-chase-backend/internal/game"

// Client -> server message kinds. Anything else is treated as a position
// update so minimal clients that only ever send {x,y} keep working.
const (
	KindSubmitNickname = "submitNickname"
	KindChatMessage    = "chatMessage"
	KindSelectGameMode = "selectGameMode"
)

type ClientMessage struct {
	Type     string  `json:"type,omitempty"`
	Nickname string  `json:"nickname,omitempty"`
	Message  string  `json:"message,omitempty"`
	Mode     string  `json:"mode,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
}

// Server -> client messages. The world snapshot (game.Snapshot) is sent
// bare, without a "type" field, exactly as clients already expect it.

type RequestNickname struct {
	Type string `json:"type"` // "requestNickname"
	ID   string `json:"id"`
}

type NicknameError struct {
	Type    string `json:"type"` // "nicknameError"
	Message string `json:"message"`
}

type Joined struct {
	Type        string                 `json:"type"` // "joined"
	ID          string                 `json:"id"`
	ChaserID    string                 `json:"chaserId"`
	GameMode    game.Mode              `json:"gameMode"`
	GameEndTime *int64                 `json:"gameEndTime"`
	Teams       map[game.Team][]string `json:"teams"`
	TeamScores  map[game.Team]int      `json:"teamScores"`
}

type ChatMessage struct {
	Type    string `json:"type"` // "chatMessage"
	Sender  string `json:"sender,omitempty"`
	Message string `json:"message"`
}

func NewRequestNickname(id string) RequestNickname {
	return RequestNickname{Type: "requestNickname", ID: id}
}

func NewNicknameError(msg string) NicknameError {
	return NicknameError{Type: "nicknameError", Message: msg}
}

func NewChatMessage(sender, msg string) ChatMessage {
	return ChatMessage{Type: "chatMessage", Sender: sender, Message: msg}
}

func NewJoined(id string, snap game.Snapshot) Joined {
	return Joined{
		Type:        "joined",
		ID:          id,
		ChaserID:    snap.ChaserID,
		GameMode:    snap.Mode,
		GameEndTime: snap.GameEndTime,
		Teams:       snap.Teams,
		TeamScores:  snap.TeamScores,
	}
}
