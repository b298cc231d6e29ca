package progress

import (
	"sync"
	"time"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/model"
)

// DefaultTTL how long a finished job's last snapshot stays retrievable
const DefaultTTL = 10 * time.Minute

// jobState per-job fan-out state. Subscriber channels have capacity 1 with
// latest-value-wins replacement, so a slow subscriber never stalls the
// pipeline and the terminal event is never dropped (nothing is published
// after it, so nothing can replace it).
type jobState struct {
	last     model.ProgressSnapshot
	hasLast  bool
	terminal bool
	doneAt   time.Time
	subs     map[int]chan model.ProgressSnapshot
	nextSub  int
}

// Broadcaster routes progress snapshots from pipelines to subscribers.
// One entry per in-flight (or recently finished) upload job.
type Broadcaster struct {
	mu   sync.Mutex
	jobs map[string]*jobState
	ttl  time.Duration
}

// NewBroadcaster creates a broadcaster with the given terminal retention TTL
func NewBroadcaster(ttl time.Duration) *Broadcaster {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Broadcaster{
		jobs: make(map[string]*jobState),
		ttl:  ttl,
	}
}

// Register creates the job entry before the pipeline goroutine starts, so a
// subscriber arriving between job creation and the first snapshot still finds it
func (b *Broadcaster) Register(jobID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.purgeExpiredLocked(time.Now())

	if _, ok := b.jobs[jobID]; !ok {
		b.jobs[jobID] = &jobState{
			subs: make(map[int]chan model.ProgressSnapshot),
		}
	}
}

// Publish fans a snapshot out to every subscriber. Never blocks: if a
// subscriber has an unread snapshot it is replaced by the newer one.
func (b *Broadcaster) Publish(jobID string, snap model.ProgressSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	js, ok := b.jobs[jobID]
	if !ok {
		return
	}

	js.last = snap
	js.hasLast = true
	if snap.Type != model.EventProgress {
		js.terminal = true
		js.doneAt = time.Now()
	}

	for _, ch := range js.subs {
		sendLatest(ch, snap)
	}
}

// Subscribe attaches to a job's stream. The last snapshot (including a
// terminal one for an already-finished job) is replayed immediately.
// The returned cancel func detaches; detaching never cancels the job.
func (b *Broadcaster) Subscribe(jobID string) (<-chan model.ProgressSnapshot, func(), bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.purgeExpiredLocked(time.Now())

	js, ok := b.jobs[jobID]
	if !ok {
		return nil, nil, false
	}

	id := js.nextSub
	js.nextSub++
	ch := make(chan model.ProgressSnapshot, 1)
	js.subs[id] = ch

	if js.hasLast {
		ch <- js.last
	}

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if js, ok := b.jobs[jobID]; ok {
			delete(js.subs, id)
		}
	}

	return ch, cancel, true
}

// Last returns the most recent snapshot (poll fallback for clients that
// cannot hold an event stream open)
func (b *Broadcaster) Last(jobID string) (model.ProgressSnapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.purgeExpiredLocked(time.Now())

	js, ok := b.jobs[jobID]
	if !ok || !js.hasLast {
		return model.ProgressSnapshot{}, false
	}
	return js.last, true
}

// sendLatest non-blocking latest-value-wins delivery into a cap-1 channel.
// All sends happen under the broadcaster lock, so drain-then-send cannot race
// with another producer.
func sendLatest(ch chan model.ProgressSnapshot, snap model.ProgressSnapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	// channel full: drop the stale snapshot, deliver the newer one
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

// purgeExpiredLocked evicts finished jobs past the retention TTL
func (b *Broadcaster) purgeExpiredLocked(now time.Time) {
	for id, js := range b.jobs {
		if js.terminal && now.Sub(js.doneAt) > b.ttl {
			delete(b.jobs, id)
		}
	}
}
