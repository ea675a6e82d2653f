package scenario

import (
	"sync"
	"time"

	gamegrpc "github.com/louisbranch/millionaire/internal/services/game/api/grpc/game"
)

type scenarioState struct {
	userID  string
	gameID  string
	game    gamegrpc.Game
	hasGame bool
	seeded  int
}

// scenarioClock is the server clock; advance steps move it forward.
type scenarioClock struct {
	mu  sync.Mutex
	now time.Time
}

func newScenarioClock(start time.Time) *scenarioClock {
	return &scenarioClock{now: start.UTC()}
}

func (c *scenarioClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *scenarioClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
