package observability

import "context"

// NoOpObserver discards all events. It is the default observer of a map.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(context.Context, Event) {}

// MultiObserver forwards each event to every member, in order.
type MultiObserver []Observer

// NewMultiObserver drops nil entries. When a single observer remains it is
// returned as is.
func NewMultiObserver(observers ...Observer) Observer {
	var members MultiObserver
	for _, obs := range observers {
		if obs != nil {
			members = append(members, obs)
		}
	}

	switch len(members) {
	case 0:
		return NoOpObserver{}
	case 1:
		return members[0]
	}
	return members
}

func (m MultiObserver) OnEvent(ctx context.Context, event Event) {
	for _, obs := range m {
		obs.OnEvent(ctx, event)
	}
}
