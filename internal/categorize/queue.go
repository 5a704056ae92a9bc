package categorize

import "sync"

// learningQueue records which cache keys were resolved by the AI path, for
// offline promotion into static rules. Deduplicated, insertion-ordered,
// write-only during normal operation; snapshotted on demand for export.
type learningQueue struct {
	seen map[string]struct{}
	keys []string
	mu   sync.Mutex
}

func newLearningQueue() *learningQueue {
	return &learningQueue{seen: make(map[string]struct{})}
}

// add inserts a key, returning false if it was already present.
func (q *learningQueue) add(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.seen[key]; ok {
		return false
	}
	q.seen[key] = struct{}{}
	q.keys = append(q.keys, key)
	return true
}

// snapshot returns the queued keys in insertion order. Never nil, so exports
// serialize as an empty list rather than null.
func (q *learningQueue) snapshot() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.keys))
	copy(out, q.keys)
	return out
}

func (q *learningQueue) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.keys)
}
