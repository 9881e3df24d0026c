package match

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/codeclash/codeclash/internal/domain"
	"github.com/codeclash/codeclash/internal/errors"
	"github.com/codeclash/codeclash/internal/event"
)

const (
	defaultQueueTTL      = 5 * time.Minute
	defaultRoomTTL       = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

// Catalog supplies the set of problems a new room can be bound to.
type Catalog interface {
	ListProblemIDs(ctx context.Context) ([]string, error)
}

// Outcome is one player's view of a resolved room.
type Outcome struct {
	Won    bool
	Tie    bool
	Reason string
}

type Config struct {
	Catalog  Catalog
	EventBus *event.Bus

	// QueueTTL and RoomTTL bound how long an unmatched queue entry and an
	// inactive room survive; the sweep runs every SweepInterval between
	// Start and Stop. Zero values pick defaults.
	QueueTTL      time.Duration
	RoomTTL       time.Duration
	SweepInterval time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Engine pairs waiting users into battle rooms and resolves their outcome.
// All queue, room and index state is owned by the engine and mutated under a
// single lock; every operation is a short, bounded critical section.
type Engine struct {
	catalog Catalog
	eb      *event.Bus
	now     func() time.Time

	queueTTL      time.Duration
	roomTTL       time.Duration
	sweepInterval time.Duration

	mu    sync.Mutex
	queue *waitQueue
	rooms *registry

	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func NewEngine(c Config) *Engine {
	e := &Engine{
		catalog:       c.Catalog,
		eb:            c.EventBus,
		now:           c.Now,
		queueTTL:      c.QueueTTL,
		roomTTL:       c.RoomTTL,
		sweepInterval: c.SweepInterval,
		queue:         newWaitQueue(),
		rooms:         newRegistry(),
	}

	if e.now == nil {
		e.now = time.Now
	}
	if e.queueTTL <= 0 {
		e.queueTTL = defaultQueueTTL
	}
	if e.roomTTL <= 0 {
		e.roomTTL = defaultRoomTTL
	}
	if e.sweepInterval <= 0 {
		e.sweepInterval = defaultSweepInterval
	}

	return e
}

// EnterQueue tries to pair the user with someone already waiting. On success
// both users share the returned room; the opponent learns of it through
// their own PollQueue. With nobody available the user is enqueued and nil is
// returned. A user already in a room gets their existing pairing back.
func (e *Engine) EnterQueue(ctx context.Context, userID string) (*domain.Pairing, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rm, ok := e.rooms.roomFor(userID); ok {
		return rm.pairing(), nil
	}

	now := e.now()

	opponent, ok := e.queue.takeOpponentFor(userID)
	if !ok {
		e.queue.enqueue(userID, now)
		return nil, nil
	}

	problemID, err := e.pickProblem(ctx)
	if err != nil {
		// Pairing cannot proceed; keep both users waiting for a retry.
		e.queue.restore(opponent)
		e.queue.enqueue(userID, now)
		return nil, err
	}

	e.queue.remove(userID)

	rm, err := e.rooms.create(opponent.userID, userID, problemID, now)
	if err != nil {
		e.queue.restore(opponent)
		e.queue.enqueue(userID, now)
		return nil, err
	}

	slog.InfoContext(ctx, "match: room created",
		"room", rm.RoomID,
		"problem", rm.ProblemID,
		"playerA", rm.PlayerA,
		"playerB", rm.PlayerB,
	)

	e.eb.Publish(ctx, domain.EventPlayersPaired{Room: rm.Room})

	return rm.pairing(), nil
}

// PollQueue reports the user's pairing if they have been matched. It never
// mutates engine state.
func (e *Engine) PollQueue(ctx context.Context, userID string) (*domain.Pairing, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if rm, ok := e.rooms.roomFor(userID); ok {
		return rm.pairing(), nil
	}

	return nil, nil
}

// SubmitResult records the player's battle submission. If this call completes
// the room (or the player resubmits after resolution) the player's outcome is
// returned; otherwise nil means the opponent is still playing.
func (e *Engine) SubmitResult(ctx context.Context, userID, roomID string, sub domain.BattleSubmission) (*Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rm, resolved, err := e.rooms.recordSubmission(roomID, userID, sub, e.now())
	if err != nil {
		return nil, err
	}

	if resolved {
		slog.InfoContext(ctx, "match: room resolved",
			"room", rm.RoomID,
			"winner", rm.verdict.Winner,
			"reason", rm.verdict.Reason,
		)

		e.eb.Publish(ctx, domain.EventMatchResolved{
			Room:    rm.Room,
			Verdict: *rm.verdict,
		})
	}

	if rm.verdict == nil {
		return nil, nil
	}

	return rm.outcomeFor(userID), nil
}

// PollResult returns the player's outcome once the room is resolved, nil
// while it is not. The room is destroyed after both players have retrieved
// their outcome.
func (e *Engine) PollResult(ctx context.Context, userID, roomID string) (*Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.rooms.consumeResult(roomID, userID, e.now())
}

func (e *Engine) pickProblem(ctx context.Context) (string, error) {
	ids, err := e.catalog.ListProblemIDs(ctx)
	if err != nil {
		return "", errors.Internal(fmt.Errorf("list problems: %w", err))
	}

	if len(ids) == 0 {
		return "", errors.New(errors.CodeResourceExhausted,
			errors.WithMessagef("no problems available"))
	}

	return ids[rand.IntN(len(ids))], nil
}

// Start launches the background sweep removing stale queue entries and
// abandoned rooms. A stopped engine may be started again.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopChan = make(chan struct{})
	stop := e.stopChan
	e.mu.Unlock()

	e.wg.Add(1)
	go e.sweepLoop(stop)
}

// Stop halts the sweep and waits for it to finish.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.mu.Unlock()

	close(e.stopChan)
	e.wg.Wait()
}

func (e *Engine) sweepLoop(stop <-chan struct{}) {
	defer e.wg.Done()

	ticker := time.NewTicker(e.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.sweep()
		case <-stop:
			return
		}
	}
}

// sweep expires queue entries older than QueueTTL and rooms idle longer
// than RoomTTL.
func (e *Engine) sweep() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	for _, userID := range e.queue.expire(now.Add(-e.queueTTL)) {
		slog.Info("match: queue entry expired", "user", userID)
	}

	for _, rm := range e.rooms.expire(now.Add(-e.roomTTL)) {
		slog.Info("match: abandoned room expired",
			"room", rm.RoomID,
			"playerA", rm.PlayerA,
			"playerB", rm.PlayerB,
		)
	}
}
