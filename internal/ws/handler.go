package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dotchase/dot-chase-backend/internal/arena"
	"github.com/dotchase/dot-chase-backend/internal/game"
	"github.com/dotchase/dot-chase-backend/internal/types"
)

const (
	writeTimeout = 3 * time.Second
	outboxSize   = 16
)

// Handler upgrades the connection, mints a session id, and bridges the
// socket to the arena: a writer goroutine drains the outbox, the reader
// loop turns frames into arena messages.
func Handler(a *arena.Arena, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		sessionID := uuid.NewString()
		out := make(chan any, outboxSize)

		a.Inbox() <- arena.Connect{SessionID: sessionID, Outbox: out}
		defer func() { a.Inbox() <- arena.Disconnect{SessionID: sessionID} }()

		// Writer: marshals whatever the arena pushes. When the outbox
		// closes (disconnect, slow-client drop, shutdown) the socket is
		// closed too so the reader below unblocks.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for v := range out {
				payload, err := json.Marshal(v)
				if err != nil {
					log.Error("marshal outbound", zap.Error(err))
					continue
				}
				ctx, cancel := context.WithTimeout(writeCtx, writeTimeout)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
			conn.Close(websocket.StatusGoingAway, "server closed session")
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				// Unparseable frames carry no usable coordinates, so the
				// position-update fallback does not apply; drop them.
				log.Warn("malformed frame",
					zap.String("session", sessionID), zap.Error(err))
				continue
			}

			a.Inbox() <- toArenaMsg(sessionID, cm)
		}
	}
}

// toArenaMsg maps a decoded frame onto an arena message. Unknown types fall
// back to a position update, the compatibility behavior minimal clients
// rely on; the arena then ignores it unless the session has a player.
func toArenaMsg(sessionID string, m types.ClientMessage) arena.Msg {
	switch m.Type {
	case types.KindSubmitNickname:
		return arena.SubmitNickname{SessionID: sessionID, Nickname: m.Nickname}
	case types.KindChatMessage:
		return arena.Chat{SessionID: sessionID, Message: m.Message}
	case types.KindSelectGameMode:
		// Invalid mode strings still travel to the arena; the world
		// rejects them so the decision is logged in one place.
		return arena.SelectMode{SessionID: sessionID, Mode: game.Mode(m.Mode)}
	default:
		return arena.Move{SessionID: sessionID, X: m.X, Y: m.Y}
	}
}
