package game

import (
	"errors"
	"math/rand"
	"slices"
	"sort"
	"time"
)

var ErrNicknameTaken = errors.New("nickname already taken")
var ErrUnknownMode = errors.New("unknown game mode")

type Mode string

const (
	ModeClassic Mode = "classic"
	ModeTeam    Mode = "team"
	ModeTimed   Mode = "timed"
)

// ParseMode maps a wire mode string onto a known Mode. The mode set is
// closed; anything else is rejected rather than adopted as a new mode.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeClassic, ModeTeam, ModeTimed:
		return Mode(s), true
	default:
		return "", false
	}
}

type Team string

const (
	TeamNone Team = ""
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

// Default spawn point for every new player.
const (
	SpawnX = 200
	SpawnY = 200
)

type Player struct {
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Color    [3]float64 `json:"color"`
	Score    int        `json:"score"`
	Nickname string     `json:"nickname"`
	Team     Team       `json:"team,omitempty"`
}

type PowerUp struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Kind string  `json:"kind"`
}

// Snapshot is the full world state as broadcast to every client. It shares
// nothing with the live World; the arena hands it to writer goroutines.
type Snapshot struct {
	Players     map[string]Player `json:"players"`
	ChaserID    string            `json:"chaserId"`
	PowerUps    []PowerUp         `json:"powerUps"`
	Mode        Mode              `json:"gameMode"`
	GameEndTime *int64            `json:"gameEndTime"`
	Teams       map[Team][]string `json:"teams"`
	TeamScores  map[Team]int      `json:"teamScores"`
}

// World is the authoritative shared state. It is not safe for concurrent
// use: the arena loop is the single owner and serializes every mutation.
type World struct {
	Players     map[string]Player
	ChaserID    string
	PowerUps    []PowerUp
	Mode        Mode
	GameEndTime *int64 // ms since epoch, nil unless Mode == ModeTimed
	Teams       map[Team][]string
	TeamScores  map[Team]int

	nicknames     map[string]bool
	timedDuration time.Duration
	maxPowerUps   int
}

func NewWorld(timedDuration time.Duration, maxPowerUps int) *World {
	return &World{
		Players:       make(map[string]Player),
		PowerUps:      []PowerUp{},
		Mode:          ModeClassic,
		Teams:         map[Team][]string{TeamRed: {}, TeamBlue: {}},
		TeamScores:    map[Team]int{TeamRed: 0, TeamBlue: 0},
		nicknames:     make(map[string]bool),
		timedDuration: timedDuration,
		maxPowerUps:   maxPowerUps,
	}
}

// Register claims the nickname and creates the player for the session:
// default spawn point, random color, score zero. The first player to
// register while no chaser exists becomes the chaser; in team mode the
// player joins the currently smaller roster.
func (w *World) Register(id, nickname string) (Player, error) {
	if w.nicknames[nickname] {
		return Player{}, ErrNicknameTaken
	}
	w.nicknames[nickname] = true

	p := Player{X: SpawnX, Y: SpawnY, Color: randomColor(), Nickname: nickname}
	if w.ChaserID == "" {
		w.ChaserID = id
	}
	if w.Mode == ModeTeam {
		p.Team = w.assignTeam(id)
	}
	w.Players[id] = p
	return p, nil
}

// Remove tears the session out of the world: nickname released, player
// deleted, chaser re-elected if needed, rosters pruned. Returns false if the
// session had no player (duplicate close, or it never registered).
func (w *World) Remove(id string) bool {
	p, ok := w.Players[id]
	if !ok {
		return false
	}
	delete(w.nicknames, p.Nickname)
	delete(w.Players, id)
	if w.ChaserID == id {
		w.ChaserID = w.nextChaser()
	}
	w.removeFromRosters(id)
	return true
}

// Move applies a position update. Updates for sessions without an active
// player are dropped; disconnect races make those routine, not errors.
func (w *World) Move(id string, x, y float64) bool {
	p, ok := w.Players[id]
	if !ok {
		return false
	}
	p.X, p.Y = x, y
	w.Players[id] = p
	return true
}

// SetMode runs the full mode transition: every score zeroed, rosters
// cleared, end time recomputed, and — when entering team mode — all current
// players rebalanced. Callers broadcast once, after it returns, so no client
// ever observes a half-applied transition.
func (w *World) SetMode(mode Mode, now time.Time) error {
	if _, ok := ParseMode(string(mode)); !ok {
		return ErrUnknownMode
	}
	w.Mode = mode
	w.ResetScores()
	w.Teams = map[Team][]string{TeamRed: {}, TeamBlue: {}}
	for id, p := range w.Players {
		p.Team = TeamNone
		w.Players[id] = p
	}
	if mode == ModeTimed {
		end := now.Add(w.timedDuration).UnixMilli()
		w.GameEndTime = &end
	} else {
		w.GameEndTime = nil
	}
	if mode == ModeTeam {
		w.rebalanceAll()
	}
	return nil
}

// ResetScores zeroes every player score and both team scores.
func (w *World) ResetScores() {
	for id, p := range w.Players {
		p.Score = 0
		w.Players[id] = p
	}
	w.TeamScores = map[Team]int{TeamRed: 0, TeamBlue: 0}
}

// AddPowerUp appends a spawned power-up, discarding the oldest once the
// configured cap is reached. The world only carries power-ups; spawning is
// the external spawner's job.
func (w *World) AddPowerUp(p PowerUp) {
	w.PowerUps = append(w.PowerUps, p)
	if w.maxPowerUps > 0 && len(w.PowerUps) > w.maxPowerUps {
		w.PowerUps = slices.Delete(w.PowerUps, 0, len(w.PowerUps)-w.maxPowerUps)
	}
}

// Snapshot deep-copies the broadcastable state.
func (w *World) Snapshot() Snapshot {
	players := make(map[string]Player, len(w.Players))
	for id, p := range w.Players {
		players[id] = p
	}
	teams := map[Team][]string{
		TeamRed:  slices.Clone(w.Teams[TeamRed]),
		TeamBlue: slices.Clone(w.Teams[TeamBlue]),
	}
	scores := map[Team]int{
		TeamRed:  w.TeamScores[TeamRed],
		TeamBlue: w.TeamScores[TeamBlue],
	}
	var end *int64
	if w.GameEndTime != nil {
		e := *w.GameEndTime
		end = &e
	}
	return Snapshot{
		Players:     players,
		ChaserID:    w.ChaserID,
		PowerUps:    slices.Clone(w.PowerUps),
		Mode:        w.Mode,
		GameEndTime: end,
		Teams:       teams,
		TeamScores:  scores,
	}
}

// Nickname returns the registered nickname for a session, empty if the
// session never completed registration.
func (w *World) Nickname(id string) string {
	return w.Players[id].Nickname
}

// assignTeam puts the session on the smaller roster. Ties go to red; the
// tie-break is fixed so repeated joins partition deterministically.
func (w *World) assignTeam(id string) Team {
	team := TeamBlue
	if len(w.Teams[TeamRed]) <= len(w.Teams[TeamBlue]) {
		team = TeamRed
	}
	w.Teams[team] = append(w.Teams[team], id)
	return team
}

// rebalanceAll reassigns every player from empty rosters, walking session
// ids in ascending order so the resulting partition is reproducible.
func (w *World) rebalanceAll() {
	ids := make([]string, 0, len(w.Players))
	for id := range w.Players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := w.Players[id]
		p.Team = w.assignTeam(id)
		w.Players[id] = p
	}
}

func (w *World) removeFromRosters(id string) {
	for _, team := range []Team{TeamRed, TeamBlue} {
		w.Teams[team] = slices.DeleteFunc(w.Teams[team], func(pid string) bool {
			return pid == id
		})
	}
}

// nextChaser picks the lowest surviving session id. Map iteration order is
// never used for this selection.
func (w *World) nextChaser() string {
	next := ""
	for id := range w.Players {
		if next == "" || id < next {
			next = id
		}
	}
	return next
}

func randomColor() [3]float64 {
	return [3]float64{rand.Float64() * 255, rand.Float64() * 255, rand.Float64() * 255}
}
