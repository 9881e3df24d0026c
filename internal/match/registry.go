package match

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codeclash/codeclash/internal/domain"
	"github.com/codeclash/codeclash/internal/errors"
)

// room tracks the mutable battle state behind a domain.Room: each player's
// submission (write-once), the verdict once both have submitted, and which
// players have consumed the verdict.
type room struct {
	domain.Room

	submissions map[string]domain.BattleSubmission
	verdict     *domain.Verdict
	consumed    map[string]struct{}
	touchTime   time.Time
}

func (r *room) pairing() *domain.Pairing {
	return &domain.Pairing{
		RoomID:    r.RoomID,
		ProblemID: r.ProblemID,
	}
}

// outcomeFor translates the stored verdict to the given player's perspective.
// Must only be called once the verdict is set.
func (r *room) outcomeFor(userID string) *Outcome {
	if r.verdict.Tie() {
		return &Outcome{Tie: true, Reason: r.verdict.Reason}
	}

	return &Outcome{Won: r.verdict.Winner == userID, Reason: r.verdict.Reason}
}

// registry owns every live room and the user-to-room index. Rooms and their
// two index entries are created and destroyed together, so the index is
// always consistent with room membership.
//
// registry is not safe for concurrent use; the engine's lock guards it.
type registry struct {
	rooms    map[string]*room
	userRoom map[string]string
}

func newRegistry() *registry {
	return &registry{
		rooms:    make(map[string]*room),
		userRoom: make(map[string]string),
	}
}

// create allocates a room for the two players. ID collision means a broken
// ID source, not a recoverable condition.
func (r *registry) create(playerA, playerB, problemID string, now time.Time) (*room, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("generate room ID: %w", err))
	}

	roomID := id.String()
	if _, ok := r.rooms[roomID]; ok {
		return nil, errors.Internal(fmt.Errorf("room ID collision: %s", roomID))
	}

	rm := &room{
		Room: domain.Room{
			RoomID:     roomID,
			PlayerA:    playerA,
			PlayerB:    playerB,
			ProblemID:  problemID,
			CreateTime: now,
		},
		submissions: make(map[string]domain.BattleSubmission),
		consumed:    make(map[string]struct{}),
		touchTime:   now,
	}

	r.rooms[roomID] = rm
	r.userRoom[playerA] = roomID
	r.userRoom[playerB] = roomID

	return rm, nil
}

// roomFor looks the user up in the user-to-room index.
func (r *registry) roomFor(userID string) (*room, bool) {
	roomID, ok := r.userRoom[userID]
	if !ok {
		return nil, false
	}

	rm, ok := r.rooms[roomID]
	return rm, ok
}

// get fetches a room by ID, verifying the user belongs to it.
func (r *registry) get(roomID, userID string) (*room, error) {
	rm, ok := r.rooms[roomID]
	if !ok {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithMessagef("room not found: %s", roomID))
	}

	if !rm.Has(userID) {
		return nil, errors.New(errors.CodePermissionDenied,
			errors.WithMessagef("user %s is not a player in room %s", userID, roomID))
	}

	return rm, nil
}

// recordSubmission stores the player's submission. The first submission per
// player wins: a resubmission is ignored, never overwritten. The call that
// lands the second submission resolves the room and stores the verdict; it
// reports resolved=true so the caller can publish the resolution exactly once.
func (r *registry) recordSubmission(roomID, userID string, sub domain.BattleSubmission, now time.Time) (rm *room, resolved bool, err error) {
	rm, err = r.get(roomID, userID)
	if err != nil {
		return nil, false, err
	}

	rm.touchTime = now

	if _, ok := rm.submissions[userID]; ok {
		return rm, false, nil
	}

	rm.submissions[userID] = sub

	_, aDone := rm.submissions[rm.PlayerA]
	_, bDone := rm.submissions[rm.PlayerB]
	if aDone && bDone {
		v := Resolve(rm.PlayerA, rm.PlayerB, rm.submissions[rm.PlayerA], rm.submissions[rm.PlayerB])
		rm.verdict = &v
		return rm, true, nil
	}

	return rm, false, nil
}

// consumeResult returns the verdict from the player's perspective, or nil
// while the room is unresolved. Consumption is tracked per player: the room
// is destroyed only after both distinct players have retrieved the result.
func (r *registry) consumeResult(roomID, userID string, now time.Time) (*Outcome, error) {
	rm, err := r.get(roomID, userID)
	if err != nil {
		return nil, err
	}

	if rm.verdict == nil {
		rm.touchTime = now
		return nil, nil
	}

	out := rm.outcomeFor(userID)

	rm.consumed[userID] = struct{}{}
	if len(rm.consumed) == 2 {
		r.destroy(rm)
	} else {
		rm.touchTime = now
	}

	return out, nil
}

// destroy removes the room and both index entries atomically.
func (r *registry) destroy(rm *room) {
	delete(r.userRoom, rm.PlayerA)
	delete(r.userRoom, rm.PlayerB)
	delete(r.rooms, rm.RoomID)
}

// expire destroys rooms untouched since the cutoff and returns them.
func (r *registry) expire(cutoff time.Time) []*room {
	var expired []*room

	for _, rm := range r.rooms {
		if rm.touchTime.Before(cutoff) {
			expired = append(expired, rm)
		}
	}
	for _, rm := range expired {
		r.destroy(rm)
	}

	return expired
}

func (r *registry) len() int {
	return len(r.rooms)
}
