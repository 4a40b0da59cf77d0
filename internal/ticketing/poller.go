package ticketing

import (
	"context"
	"sync"
	"time"

	"algotix/internal/logging"
	"algotix/internal/scheduler"
)

const DefaultPollInterval = 10 * time.Second

type StatusSource interface {
	Status(ctx context.Context) (Status, error)
}

// Poller keeps the last known node status fresh. Failed polls keep the
// previous value.
type Poller struct {
	src      StatusSource
	interval time.Duration
	log      logging.Logger
	sched    *scheduler.Scheduler
	onUpdate func(Status)

	mu     sync.RWMutex
	latest Status
	known  bool
}

func NewPoller(src StatusSource, interval time.Duration, log logging.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{src: src, interval: interval, log: log, sched: scheduler.New(log)}
}

// OnUpdate sets a callback for every successful poll. Call before Start.
func (p *Poller) OnUpdate(fn func(Status)) { p.onUpdate = fn }

// Start polls once right away, then on every interval until Stop.
func (p *Poller) Start(ctx context.Context) {
	_ = p.poll(ctx)
	p.sched.Every(p.interval, "algo-status", p.poll)
	p.sched.Start()
}

func (p *Poller) Stop() { p.sched.Stop() }

// Latest returns the last fetched status and whether any poll has succeeded.
func (p *Poller) Latest() (Status, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest, p.known
}

func (p *Poller) poll(ctx context.Context) error {
	st, err := p.src.Status(ctx)
	if err != nil {
		p.log.Warn(ctx, "failed to fetch algo status", "error", err)
		return nil
	}
	p.mu.Lock()
	p.latest, p.known = st, true
	p.mu.Unlock()
	if p.onUpdate != nil {
		p.onUpdate(st)
	}
	return nil
}
