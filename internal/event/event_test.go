package event_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codeclash/codeclash/internal/event"
)

func TestBus_PublishSubscribe(t *testing.T) {
	type (
		inputs struct {
			published   []event.Event
			subscribers []subscriber
		}

		outputs struct {
			received map[string][]event.Event
		}
	)

	tests := map[string]struct {
		arrange func() inputs
		assert  func(t *testing.T, out outputs)
	}{
		"subscriber only receives events it subscribed to": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						eventWithName("match.paired"),
						eventWithName("match.resolved"),
					},
					subscribers: []subscriber{
						{
							name:        "s1",
							subscribeTo: []string{"match.resolved"},
						},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.ElementsMatch(t, []event.Event{eventWithName("match.resolved")}, out.received["s1"])
			},
		},

		"repeated events are all delivered": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						eventWithName("match.paired"),
						eventWithName("match.paired"),
						eventWithName("match.paired"),
					},
					subscribers: []subscriber{
						{
							name:        "s1",
							subscribeTo: []string{"match.paired"},
						},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.Len(t, out.received["s1"], 3)
			},
		},

		"an event fans out to every subscriber": {
			arrange: func() inputs {
				return inputs{
					published: []event.Event{
						eventWithName("match.resolved"),
					},
					subscribers: []subscriber{
						{
							name:        "pubsub",
							subscribeTo: []string{"match.resolved"},
						},
						{
							name:        "metrics",
							subscribeTo: []string{"match.resolved", "match.paired"},
						},
					},
				}
			},

			assert: func(t *testing.T, out outputs) {
				assert.ElementsMatch(t, []event.Event{eventWithName("match.resolved")}, out.received["pubsub"])
				assert.ElementsMatch(t, []event.Event{eventWithName("match.resolved")}, out.received["metrics"])
			},
		},
	}

	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			in := tt.arrange()
			mu := sync.Mutex{}
			out := outputs{received: make(map[string][]event.Event)}

			b := event.NewBus()
			for _, s := range in.subscribers {
				for _, e := range s.subscribeTo {
					b.Subscribe(e, func(ctx context.Context, e event.Event) error {
						mu.Lock()
						out.received[s.name] = append(out.received[s.name], e)
						mu.Unlock()
						return nil
					})
				}
			}

			for _, e := range in.published {
				b.Publish(context.Background(), e)
			}
			b.Stop()

			tt.assert(t, out)
		})
	}
}

func TestBus_BoundedPool(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		count int
	)

	b := event.NewBus(event.WithPoolSize(1))
	b.Subscribe("e", func(ctx context.Context, e event.Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})

	for i := 0; i < 50; i++ {
		b.Publish(context.Background(), eventWithName("e"))
	}
	b.Stop()

	assert.Equal(t, 50, count)
}

type eventWithName string

func (e eventWithName) Name() string {
	return string(e)
}

type subscriber struct {
	name        string
	subscribeTo []string
}
