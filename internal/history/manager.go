package history

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"
)

// ManagerConfig configures the process-wide manager.
type ManagerConfig struct {
	BaseDir       string
	FlushInterval time.Duration
	FlushHands    int
	Clock         quartz.Clock
}

// Manager owns one Monitor per game and flushes them on a ticker or when a
// monitor's buffer fills up.
type Manager struct {
	cfg    ManagerConfig
	logger zerolog.Logger
	ticker *quartz.Ticker

	mu       sync.RWMutex
	monitors map[string]*Monitor
	disabled map[string]struct{}
	flushReq chan struct{}
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewManager creates and starts a hand-history manager.
func NewManager(logger zerolog.Logger, cfg ManagerConfig) *Manager {
	if cfg.BaseDir == "" {
		cfg.BaseDir = "hands"
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 10 * time.Second
	}
	if cfg.FlushHands <= 0 {
		cfg.FlushHands = 50
	}
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}

	m := &Manager{
		cfg:      cfg,
		logger:   logger.With().Str("component", "history").Logger(),
		ticker:   cfg.Clock.NewTicker(cfg.FlushInterval, "history", "flush"),
		monitors: make(map[string]*Monitor),
		disabled: make(map[string]struct{}),
		flushReq: make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
	m.wg.Add(1)
	go m.run()
	return m
}

// HandResolved buffers a settled hand, opening the game's monitor on first use.
func (m *Manager) HandResolved(rec Record) {
	monitor, err := m.monitor(rec.GameID)
	if err != nil {
		m.logger.Error().Err(err).Str("game_id", rec.GameID).Msg("Hand history unavailable")
		return
	}
	if monitor == nil {
		return
	}
	monitor.Add(rec)
}

// GameFinished flushes and releases the game's monitor.
func (m *Manager) GameFinished(gameID string) {
	m.mu.Lock()
	monitor, ok := m.monitors[gameID]
	delete(m.monitors, gameID)
	delete(m.disabled, gameID)
	m.mu.Unlock()

	if ok {
		if err := monitor.Close(); err != nil {
			m.logger.Error().Err(err).Str("game_id", gameID).Msg("Hand history flush on finish failed")
		}
	}
}

// Flush writes every buffered hand now.
func (m *Manager) Flush() {
	m.flushAll()
}

// Shutdown stops the ticker and flushes all monitors.
func (m *Manager) Shutdown() {
	close(m.stop)
	m.wg.Wait()
	m.ticker.Stop()
	m.flushAll()

	m.mu.Lock()
	monitors := m.monitors
	m.monitors = make(map[string]*Monitor)
	m.mu.Unlock()

	for gameID, monitor := range monitors {
		if err := monitor.Close(); err != nil {
			m.logger.Error().Err(err).Str("game_id", gameID).Msg("Hand history flush on shutdown failed")
		}
	}
}

// Dir returns the directory a game's hands are written to
func (m *Manager) Dir(gameID string) string {
	return filepath.Join(m.cfg.BaseDir, fmt.Sprintf("game-%s", gameID))
}

// monitor returns nil without error for games whose recording was disabled.
func (m *Manager) monitor(gameID string) (*Monitor, error) {
	m.mu.RLock()
	monitor, ok := m.monitors[gameID]
	_, off := m.disabled[gameID]
	m.mu.RUnlock()
	if ok {
		return monitor, nil
	}
	if off {
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if monitor, ok := m.monitors[gameID]; ok {
		return monitor, nil
	}

	monitor, err := NewMonitor(MonitorConfig{
		GameID:     gameID,
		OutputDir:  m.Dir(gameID),
		FlushHands: m.cfg.FlushHands,
	}, m.logger.With().Str("game_id", gameID).Logger())
	if err != nil {
		return nil, err
	}
	monitor.SetFlushNotifier(m.requestFlush)
	m.monitors[gameID] = monitor
	return monitor, nil
}

func (m *Manager) run() {
	defer m.wg.Done()
	for {
		select {
		case <-m.ticker.C:
			m.flushAll()
		case <-m.flushReq:
			m.flushAll()
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) requestFlush() {
	select {
	case m.flushReq <- struct{}{}:
	default:
	}
}

func (m *Manager) flushAll() {
	m.mu.RLock()
	snapshot := make(map[string]*Monitor, len(m.monitors))
	for k, v := range m.monitors {
		snapshot[k] = v
	}
	m.mu.RUnlock()

	for gameID, monitor := range snapshot {
		err := monitor.Flush()
		if err != nil {
			m.logger.Error().Err(err).Str("game_id", gameID).Msg("Hand history flush failed")
		}
		disabled, dropped := monitor.HandleFlushResult(err)
		if disabled {
			m.logger.Error().Str("game_id", gameID).Int("dropped_hands", dropped).
				Msg("Hand history recording disabled after repeated failures")
			m.mu.Lock()
			delete(m.monitors, gameID)
			m.disabled[gameID] = struct{}{}
			m.mu.Unlock()
		}
	}
}
