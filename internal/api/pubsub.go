package api

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/codeclash/codeclash/internal/domain"
)

const maxConcurrent = 100

type (
	Notification struct {
		Event string `json:"event"`
		Data  any    `json:"data"`
	}

	PairingData struct {
		RoomID    string `json:"roomId"`
		ProblemID string `json:"problemId"`
		Opponent  string `json:"opponent"`
	}

	VerdictData struct {
		RoomID string `json:"roomId"`
		Won    bool   `json:"won"`
		Tie    bool   `json:"tie"`
		Reason string `json:"reason"`
	}
)

// PublishPlayersPaired tells both players their room is ready, so a client
// subscribed to its channel learns of the pairing without polling.
func (a *API) PublishPlayersPaired(ctx context.Context, e domain.EventPlayersPaired) error {
	rm := e.Room

	var eg errgroup.Group
	eg.SetLimit(maxConcurrent)

	for _, player := range []string{rm.PlayerA, rm.PlayerB} {
		player := player
		eg.Go(func() error {
			return a.publishNotification(ctx, player, e.Name(), PairingData{
				RoomID:    rm.RoomID,
				ProblemID: rm.ProblemID,
				Opponent:  rm.Opponent(player),
			})
		})
	}

	return eg.Wait()
}

// PublishMatchResolved pushes each player their own view of the verdict.
func (a *API) PublishMatchResolved(ctx context.Context, e domain.EventMatchResolved) error {
	rm, v := e.Room, e.Verdict

	var eg errgroup.Group
	eg.SetLimit(maxConcurrent)

	for _, player := range []string{rm.PlayerA, rm.PlayerB} {
		player := player
		eg.Go(func() error {
			return a.publishNotification(ctx, player, e.Name(), VerdictData{
				RoomID: rm.RoomID,
				Won:    !v.Tie() && v.Winner == player,
				Tie:    v.Tie(),
				Reason: v.Reason,
			})
		})
	}

	return eg.Wait()
}

func (a *API) publishNotification(ctx context.Context, user, event string, data any) error {
	n := Notification{
		Event: event,
		Data:  data,
	}

	b, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("pubsub: marshal %s: %v", event, err)
	}

	return a.redis.Publish(ctx, fmt.Sprintf("%s:user:%s", a.prefix, user), b).Err()
}
