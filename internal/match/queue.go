package match

import (
	"time"
)

type queueEntry struct {
	userID      string
	enqueueTime time.Time
}

// waitQueue is the list of users waiting for an opponent. Matching policy is
// FIFO: the first entry whose user is not the caller wins. The membership set
// makes enqueue idempotent without scanning.
//
// waitQueue is not safe for concurrent use; the engine's lock guards it.
type waitQueue struct {
	entries []queueEntry
	members map[string]struct{}
}

func newWaitQueue() *waitQueue {
	return &waitQueue{
		members: make(map[string]struct{}),
	}
}

// enqueue adds the user to the back of the queue. A user already waiting is
// left where they are.
func (q *waitQueue) enqueue(userID string, now time.Time) {
	if _, ok := q.members[userID]; ok {
		return
	}

	q.entries = append(q.entries, queueEntry{userID: userID, enqueueTime: now})
	q.members[userID] = struct{}{}
}

// restore puts a previously taken entry back at the front of the queue,
// keeping its original enqueue time. Used when room creation fails after an
// opponent was already taken.
func (q *waitQueue) restore(e queueEntry) {
	if _, ok := q.members[e.userID]; ok {
		return
	}

	q.entries = append([]queueEntry{e}, q.entries...)
	q.members[e.userID] = struct{}{}
}

// takeOpponentFor removes and returns the first queued entry belonging to
// someone other than userID. A user can never be matched with themselves.
func (q *waitQueue) takeOpponentFor(userID string) (queueEntry, bool) {
	for i, e := range q.entries {
		if e.userID == userID {
			continue
		}

		q.entries = append(q.entries[:i], q.entries[i+1:]...)
		delete(q.members, e.userID)
		return e, true
	}

	return queueEntry{}, false
}

// remove discards the user's entry if present.
func (q *waitQueue) remove(userID string) {
	if _, ok := q.members[userID]; !ok {
		return
	}

	for i, e := range q.entries {
		if e.userID == userID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			break
		}
	}
	delete(q.members, userID)
}

// expire removes every entry enqueued before the cutoff and returns the
// affected user IDs.
func (q *waitQueue) expire(cutoff time.Time) []string {
	var expired []string

	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.enqueueTime.Before(cutoff) {
			delete(q.members, e.userID)
			expired = append(expired, e.userID)
			continue
		}
		kept = append(kept, e)
	}
	q.entries = kept

	return expired
}

func (q *waitQueue) len() int {
	return len(q.entries)
}
