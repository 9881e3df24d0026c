package domain

const (
	EventNamePlayersPaired = "match.paired"
	EventNameMatchResolved = "match.resolved"
)

// EventPlayersPaired fires when two waiting users are bound to a room.
type EventPlayersPaired struct {
	Room Room
}

func (EventPlayersPaired) Name() string { return EventNamePlayersPaired }

// EventMatchResolved fires when the second submission lands and the room's
// verdict is computed.
type EventMatchResolved struct {
	Room    Room
	Verdict Verdict
}

func (EventMatchResolved) Name() string { return EventNameMatchResolved }
