package controller

import (
	"context"
	"time"
)

// SyncEvent asks application instances to replay their outbox.
type SyncEvent struct {
	Tag string    `json:"tag"`
	At  time.Time `json:"at"`
}

// Subscribe registers a listener for sync events. The returned function
// unsubscribes and closes the channel.
func (c *Controller) Subscribe() (<-chan SyncEvent, func()) {
	ch := make(chan SyncEvent, 1)

	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = ch
	c.subMu.Unlock()

	var once bool
	return ch, func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		if once {
			return
		}
		once = true
		delete(c.subscribers, id)
		close(ch)
	}
}

// Sync notifies every subscriber and returns how many were reached. A
// subscriber with an undelivered event already pending is skipped; one
// pending event is enough to trigger a replay.
func (c *Controller) Sync(ctx context.Context, tag string) int {
	ev := SyncEvent{Tag: tag, At: c.now().UTC()}

	c.subMu.Lock()
	defer c.subMu.Unlock()

	delivered := 0
	for _, ch := range c.subscribers {
		select {
		case ch <- ev:
			delivered++
		default:
		}
	}
	c.logger.Info(ctx, "sync requested", "tag", tag, "subscribers", len(c.subscribers), "delivered", delivered)
	return delivered
}
