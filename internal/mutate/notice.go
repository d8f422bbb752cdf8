package mutate

// Level classifies a notice for display.
type Level int

// Notice levels.
const (
	LevelInfo Level = iota
	LevelError
)

// Notice is a user-facing notification emitted when a mutation settles.
// Failures always carry the underlying reason; nothing is swallowed.
type Notice struct {
	Level   Level
	Message string
}

// SubscribeNotices registers fn to run for every notice. The returned
// function removes the subscription.
func (c *Coordinator) SubscribeNotices(fn func(Notice)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.noticeSubs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.noticeSubs, id)
		c.mu.Unlock()
	}
}

func (c *Coordinator) notify(level Level, message string) {
	c.mu.Lock()
	subs := make([]func(Notice), 0, len(c.noticeSubs))
	for _, fn := range c.noticeSubs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	n := Notice{Level: level, Message: message}
	for _, fn := range subs {
		fn(n)
	}
}
