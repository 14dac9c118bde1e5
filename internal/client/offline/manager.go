package offline

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/growthjournal/internal/client/syncer"
	"github.com/dmitrijs2005/growthjournal/internal/logging"
)

// Syncer is satisfied by *syncer.Engine.
type Syncer interface {
	SyncAll(ctx context.Context, userID string) (*syncer.Result, error)
}

// Manager triggers one sync pass per offline-to-online transition and on
// demand. It does not retry failed passes.
type Manager struct {
	conn   Connectivity
	engine Syncer
	userID string
	log    logging.Logger

	mu       sync.Mutex
	started  uint64
	recorded uint64
	last     *syncer.Result
	lastErr  error

	wg sync.WaitGroup
}

func NewManager(conn Connectivity, engine Syncer, userID string, log logging.Logger) *Manager {
	return &Manager{
		conn:   conn,
		engine: engine,
		userID: userID,
		log:    log.With("module", "offline"),
	}
}

// Run watches connectivity until ctx is done and waits for an in-flight
// pass to finish before returning. The state starts as offline, so being
// online at startup counts as a transition.
func (m *Manager) Run(ctx context.Context) {
	defer m.wg.Wait()

	changes := m.conn.Subscribe(ctx)
	online := false
	if m.conn.Online() {
		online = true
		m.trigger(ctx)
	}

	for {
		select {
		case state, ok := <-changes:
			if !ok {
				return
			}
			if state && !online {
				m.trigger(ctx)
			}
			online = state
		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) trigger(ctx context.Context) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if _, err := m.SyncNow(ctx); err != nil {
			m.log.Warn(ctx, "automatic sync failed", "error", err)
		}
	}()
}

// SyncNow runs a pass for the manager's user and returns its result. Passes
// may overlap; a pass started while another is running still reads the
// store afresh. LastResult keeps the outcome of the latest started pass.
func (m *Manager) SyncNow(ctx context.Context) (*syncer.Result, error) {
	m.mu.Lock()
	m.started++
	seq := m.started
	m.mu.Unlock()

	res, err := m.engine.SyncAll(ctx, m.userID)

	m.mu.Lock()
	if seq > m.recorded {
		m.recorded = seq
		m.last, m.lastErr = res, err
	}
	m.mu.Unlock()
	return res, err
}

// LastResult returns the outcome of the most recent pass. Both are nil
// before the first pass.
func (m *Manager) LastResult() (*syncer.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.lastErr
}

// Online reports the current connectivity.
func (m *Manager) Online() bool { return m.conn.Online() }
