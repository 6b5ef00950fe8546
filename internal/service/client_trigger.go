package service

// syncTrigger is a coalescing wake-up signal shared by the dispatcher and the
// sync processor. Any number of Fire calls before the listener wakes up
// collapse into one.
type syncTrigger struct {
	ch chan struct{}
}

func newSyncTrigger() *syncTrigger {
	return &syncTrigger{ch: make(chan struct{}, 1)}
}

// Fire never blocks.
func (t *syncTrigger) Fire() {
	select {
	case t.ch <- struct{}{}:
	default:
	}
}

func (t *syncTrigger) C() <-chan struct{} {
	return t.ch
}
