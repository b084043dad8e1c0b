package history

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	defaultFilename = "hands.toml"
	maxFailures     = 3
)

// MonitorConfig configures a per-game monitor.
type MonitorConfig struct {
	GameID     string
	OutputDir  string
	Filename   string
	FlushHands int
}

// Monitor buffers the settled hands of one game and appends them to disk.
type Monitor struct {
	cfg     MonitorConfig
	logger  zerolog.Logger
	outPath string

	mu                  sync.Mutex
	flushMu             sync.Mutex
	buffer              []Record
	flushNotifier       func()
	consecutiveFailures int
	disabled            bool
	sectionCounter      int
}

// NewMonitor constructs a monitor, continuing the section numbering of an
// existing file.
func NewMonitor(cfg MonitorConfig, logger zerolog.Logger) (*Monitor, error) {
	if cfg.GameID == "" {
		return nil, errors.New("history: GameID is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("history: OutputDir is required")
	}
	if cfg.Filename == "" {
		cfg.Filename = defaultFilename
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("history: create dir: %w", err)
	}

	outPath := filepath.Join(cfg.OutputDir, cfg.Filename)
	counter, err := readLastSectionCounter(outPath)
	if err != nil {
		return nil, fmt.Errorf("history: read sections: %w", err)
	}

	return &Monitor{
		cfg:            cfg,
		logger:         logger,
		outPath:        outPath,
		buffer:         make([]Record, 0, max(1, cfg.FlushHands)),
		sectionCounter: counter,
	}, nil
}

// path returns the file the monitor appends to
func (m *Monitor) path() string {
	return m.outPath
}

// SetFlushNotifier registers a callback invoked once the buffer reaches FlushHands.
func (m *Monitor) SetFlushNotifier(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushNotifier = fn
}

// Add buffers a settled hand.
func (m *Monitor) Add(rec Record) {
	var notifier func()

	m.mu.Lock()
	if m.disabled {
		m.mu.Unlock()
		return
	}
	m.buffer = append(m.buffer, rec)
	if m.cfg.FlushHands > 0 && len(m.buffer) >= m.cfg.FlushHands {
		notifier = m.flushNotifier
	}
	m.mu.Unlock()

	if notifier != nil {
		notifier()
	}
}

// pending returns the number of buffered hands
func (m *Monitor) pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buffer)
}

// Flush appends buffered hands to the file.
func (m *Monitor) Flush() error {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()

	m.mu.Lock()
	if m.disabled || len(m.buffer) == 0 {
		m.mu.Unlock()
		return nil
	}
	records := append([]Record(nil), m.buffer...)
	baseSection := m.sectionCounter
	m.mu.Unlock()

	file, err := os.OpenFile(m.outPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	if baseSection > 0 {
		if _, err := io.WriteString(file, "\n"); err != nil {
			return err
		}
	}

	written := 0
	lastSection := baseSection
	for i := range records {
		section := lastSection + 1
		if err := writeSection(file, section, &records[i], i < len(records)-1); err != nil {
			m.finalizeFlush(written, lastSection)
			return err
		}
		lastSection = section
		written++
	}

	m.finalizeFlush(written, lastSection)
	m.logger.Debug().Int("hands", written).Str("path", m.outPath).Msg("Hand history flushed")
	return nil
}

// Close flushes remaining data.
func (m *Monitor) Close() error {
	return m.Flush()
}

// HandleFlushResult tracks consecutive failures and disables the monitor
// after maxFailures, dropping whatever is still buffered.
func (m *Monitor) HandleFlushResult(err error) (disabled bool, dropped int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		m.consecutiveFailures = 0
		return false, 0
	}

	m.consecutiveFailures++
	if m.consecutiveFailures >= maxFailures {
		dropped = len(m.buffer)
		m.buffer = nil
		m.disabled = true
		return true, dropped
	}
	return false, 0
}

// isDisabled reports whether the monitor has been disabled.
func (m *Monitor) isDisabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disabled
}

func (m *Monitor) finalizeFlush(flushed int, lastSection int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if flushed > 0 {
		if flushed >= len(m.buffer) {
			m.buffer = m.buffer[:0]
		} else {
			m.buffer = m.buffer[flushed:]
		}
	}
	if lastSection > m.sectionCounter {
		m.sectionCounter = lastSection
	}
}

func readLastSectionCounter(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	last := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) >= 3 && line[0] == '[' && line[len(line)-1] == ']' {
			if n, err := strconv.Atoi(line[1 : len(line)-1]); err == nil && n > last {
				last = n
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return last, nil
}
