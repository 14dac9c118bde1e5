// Package offline decides when the journal syncs: on every transition from
// offline to online, and when asked to.
package offline

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/growthjournal/internal/logging"
)

// Connectivity reports whether the remote store is reachable.
type Connectivity interface {
	Online() bool
	// Subscribe emits the state on every change until ctx is done, then
	// closes the channel. Only the latest state is kept for slow readers.
	Subscribe(ctx context.Context) <-chan bool
}

// Signal is a settable Connectivity.
type Signal struct {
	mu     sync.Mutex
	online bool
	subs   map[chan bool]struct{}
}

func NewSignal(online bool) *Signal {
	return &Signal{online: online, subs: make(map[chan bool]struct{})}
}

func (s *Signal) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// Set updates the state and notifies subscribers if it changed.
func (s *Signal) Set(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.online == online {
		return
	}
	s.online = online
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- online
	}
}

func (s *Signal) Subscribe(ctx context.Context) <-chan bool {
	ch := make(chan bool, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}

// Pinger is satisfied by remote.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingProber drives a Signal by pinging the remote store on an interval.
type PingProber struct {
	*Signal
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	log      logging.Logger
}

func NewPingProber(p Pinger, interval, timeout time.Duration, log logging.Logger) *PingProber {
	return &PingProber{
		Signal:   NewSignal(false),
		pinger:   p,
		interval: interval,
		timeout:  timeout,
		log:      log.With("module", "connectivity"),
	}
}

// Probe pings once and updates the signal.
func (p *PingProber) Probe(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, p.timeout)
	err := p.pinger.Ping(pctx)
	cancel()

	online := err == nil
	if online != p.Online() {
		if online {
			p.log.Info(ctx, "switched to online mode")
		} else {
			p.log.Info(ctx, "switched to offline mode", "error", err)
		}
	}
	p.Set(online)
	return online
}

// Run probes immediately and then every interval until ctx is done.
func (p *PingProber) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Probe(ctx)
	for {
		select {
		case <-ticker.C:
			p.Probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}
