// Package dedupe collapses repeated submissions that share an identity.
package dedupe

// entry is the currently retained submission for one identity.
type entry[T any] struct {
	at   int64
	pos  int
	item T
}

// Latest keeps, per identity, the most recent item offered. Iteration order
// is the order in which identities were first seen, so callers get a stable
// ordering regardless of which submission wins.
//
// Latest is not safe for concurrent use; each pairing run owns its own.
type Latest[T any] struct {
	order      []string
	entries    map[string]*entry[T]
	superseded int
}

// NewLatest creates an empty Latest.
func NewLatest[T any](opts ...Option) *Latest[T] {
	c := config{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&c)
	}
	return &Latest[T]{
		order:   make([]string, 0, c.capacity),
		entries: make(map[string]*entry[T], c.capacity),
	}
}

// Offer records item for id at the given time; pos is the caller's position
// for the offer, e.g. its input index. When id was already present the offer
// is a resubmission: superseded is true and dropped is the position of the
// item that lost, which is the retained one when at is equal or later.
// On equal timestamps the later offer wins.
func (l *Latest[T]) Offer(id string, pos int, at int64, item T) (dropped int, superseded bool) {
	if e, ok := l.entries[id]; ok {
		l.superseded++
		if at < e.at {
			return pos, true
		}
		dropped = e.pos
		e.at, e.pos, e.item = at, pos, item
		return dropped, true
	}
	l.entries[id] = &entry[T]{at: at, pos: pos, item: item}
	l.order = append(l.order, id)
	return 0, false
}

// Items returns the retained items in first-seen order.
func (l *Latest[T]) Items() []T {
	out := make([]T, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.entries[id].item)
	}
	return out
}

// Size returns the number of distinct identities.
func (l *Latest[T]) Size() int { return len(l.order) }

// Superseded returns how many offers collapsed into an existing identity.
func (l *Latest[T]) Superseded() int { return l.superseded }
