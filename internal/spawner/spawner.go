package spawner

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/dotchase/dot-chase-backend/internal/arena"
	"github.com/dotchase/dot-chase-backend/internal/game"
)

var kinds = []string{"speed", "shield", "freeze"}

// Spawner is the collaborator that populates the world's power-up set. It
// never touches state directly; each spawn goes through the arena inbox so
// the single mutation path stays intact.
type Spawner struct {
	arena    *arena.Arena
	interval time.Duration
	width    float64
	height   float64
	log      *zap.Logger
}

func New(a *arena.Arena, interval time.Duration, width, height float64, log *zap.Logger) *Spawner {
	return &Spawner{arena: a, interval: interval, width: width, height: height, log: log}
}

// Run spawns a power-up every interval until the context ends.
func (s *Spawner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p := game.PowerUp{
				X:    rand.Float64() * s.width,
				Y:    rand.Float64() * s.height,
				Kind: kinds[rand.Intn(len(kinds))],
			}
			s.log.Debug("power-up spawned",
				zap.String("kind", p.Kind),
				zap.Float64("x", p.X),
				zap.Float64("y", p.Y))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case s.arena.Inbox() <- arena.AddPowerUp{PowerUp: p}:
			}
		}
	}
}
