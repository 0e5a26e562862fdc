package signer

import "sync"

// replayCache is a bounded set of content hashes of previously verified
// tokens. It is deliberately a size-bounded FIFO: when the cap is
// exceeded the oldest inserted entries are evicted, regardless of when
// they were last checked. Entries still expire naturally with the token's
// exp claim, so losing one early only re-permits a token that a fresh
// verification would accept anyway.
type replayCache struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	order []string
	cap   int
}

func newReplayCache(capacity int) *replayCache {
	if capacity <= 0 {
		capacity = DefaultReplayCap
	}
	return &replayCache{
		seen: make(map[string]struct{}, capacity),
		cap:  capacity,
	}
}

// remember records hash and reports whether it was already present.
// The check and the insert happen under one lock so two concurrent
// verifications of the same token cannot both be accepted.
func (c *replayCache) remember(hash string) (replayed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[hash]; ok {
		return true
	}

	c.seen[hash] = struct{}{}
	c.order = append(c.order, hash)

	for len(c.order) > c.cap {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.seen, oldest)
	}
	return false
}

func (c *replayCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
