package arena

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dotchase/dot-chase-backend/internal/game"
	"github.com/dotchase/dot-chase-backend/internal/types"
)

type Msg interface{ isArenaMsg() }

// Connect registers a session's outbox and prompts it for a nickname. The
// session is not a player until SubmitNickname succeeds.
type Connect struct {
	SessionID string
	Outbox    chan any // receives types.* messages and game.Snapshot values
}

type Disconnect struct{ SessionID string }

type SubmitNickname struct {
	SessionID string
	Nickname  string
}

type Chat struct {
	SessionID string
	Message   string
}

type SelectMode struct {
	SessionID string
	Mode      game.Mode
}

type Move struct {
	SessionID string
	X, Y      float64
}

// AddPowerUp carries a power-up produced by the spawner collaborator.
type AddPowerUp struct{ PowerUp game.PowerUp }

type GetState struct {
	Reply chan View
}

type Shutdown struct{}

func (Connect) isArenaMsg()        {}
func (Disconnect) isArenaMsg()     {}
func (SubmitNickname) isArenaMsg() {}
func (Chat) isArenaMsg()           {}
func (SelectMode) isArenaMsg()     {}
func (Move) isArenaMsg()           {}
func (AddPowerUp) isArenaMsg()     {}
func (GetState) isArenaMsg()       {}
func (Shutdown) isArenaMsg()       {}

type View struct {
	NumClients int
	State      game.Snapshot
}

// Arena owns the world and every client outbox. All mutation flows through
// its inbox one message at a time, so world invariants hold between
// messages and every broadcast sees a settled state.
type Arena struct {
	inbox   chan Msg
	world   *game.World
	clients map[string]chan any
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context, w *game.World, log *zap.Logger) *Arena {
	ctx, cancel := context.WithCancel(parent)
	a := &Arena{
		inbox:   make(chan Msg, 64),
		world:   w,
		clients: make(map[string]chan any),
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	go a.loop()
	return a
}

func (a *Arena) Inbox() chan<- Msg { return a.inbox }

func (a *Arena) loop() {
	for {
		select {
		case <-a.ctx.Done():
			a.shutdown()
			return

		case m := <-a.inbox:
			switch msg := m.(type) {
			case Connect:
				a.clients[msg.SessionID] = msg.Outbox
				a.sendTo(msg.SessionID, types.NewRequestNickname(msg.SessionID))
				a.log.Info("session connected", zap.String("session", msg.SessionID))

			case Disconnect:
				// The client entry may already be gone if a slow outbox
				// got the session dropped mid-broadcast; its player still
				// has to go, so removal runs unconditionally.
				ch, ok := a.clients[msg.SessionID]
				if ok {
					close(ch)
					delete(a.clients, msg.SessionID)
				}
				removed := a.world.Remove(msg.SessionID)
				if !ok && !removed {
					// Duplicate close event: nothing changed, nothing
					// to broadcast.
					break
				}
				a.broadcast()
				a.log.Info("session disconnected", zap.String("session", msg.SessionID))

			case SubmitNickname:
				_, err := a.world.Register(msg.SessionID, msg.Nickname)
				if err != nil {
					a.sendTo(msg.SessionID, types.NewNicknameError("Nickname already taken"))
					a.log.Debug("nickname rejected",
						zap.String("session", msg.SessionID),
						zap.String("nickname", msg.Nickname))
					break
				}
				a.sendTo(msg.SessionID, types.NewJoined(msg.SessionID, a.world.Snapshot()))
				a.broadcast()
				a.log.Info("player joined",
					zap.String("session", msg.SessionID),
					zap.String("nickname", msg.Nickname))

			case Chat:
				// Verbatim relay, tagged with the sender's nickname if it
				// has one. Chat never touches world state, so no snapshot.
				out := types.NewChatMessage(a.world.Nickname(msg.SessionID), msg.Message)
				for id := range a.clients {
					a.sendTo(id, out)
				}

			case SelectMode:
				if err := a.world.SetMode(msg.Mode, time.Now()); err != nil {
					a.log.Warn("mode change rejected",
						zap.String("session", msg.SessionID),
						zap.String("mode", string(msg.Mode)),
						zap.Error(err))
					break
				}
				a.broadcast()
				a.log.Info("game mode changed", zap.String("mode", string(msg.Mode)))

			case Move:
				// Stale moves from sessions without a player are dropped.
				if a.world.Move(msg.SessionID, msg.X, msg.Y) {
					a.broadcast()
				}

			case AddPowerUp:
				a.world.AddPowerUp(msg.PowerUp)
				a.broadcast()

			case GetState:
				msg.Reply <- View{NumClients: len(a.clients), State: a.world.Snapshot()}

			case Shutdown:
				a.shutdown()
				return
			}
		}
	}
}

func (a *Arena) shutdown() {
	for id, ch := range a.clients {
		close(ch)
		delete(a.clients, id)
	}
	a.cancel()
}

// broadcast fans the current snapshot out to every open outbox. One
// immutable copy is built per trigger; all clients see the same state.
func (a *Arena) broadcast() {
	snap := a.world.Snapshot()
	for id := range a.clients {
		a.sendTo(id, snap)
	}
}

// sendTo delivers without ever blocking the loop. A client whose outbox is
// full is dropped: its channel closes here, and the websocket layer's
// Disconnect later removes its player even though the entry is gone.
func (a *Arena) sendTo(id string, v any) {
	ch, ok := a.clients[id]
	if !ok {
		return
	}
	select {
	case ch <- v:
	default:
		close(ch)
		delete(a.clients, id)
		a.log.Warn("dropping slow client", zap.String("session", id))
	}
}
