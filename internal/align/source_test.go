package align

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type memorySource struct {
	chapters []string
	countErr error
	textErr  map[int]error
	panics   map[int]bool
	delay    time.Duration
	release  chan struct{}

	calls    atomic.Int32
	mu       sync.Mutex
	inFlight int
	peak     int
}

func newMemorySource(chapters ...string) *memorySource {
	return &memorySource{chapters: chapters}
}

func (m *memorySource) ChapterCount(context.Context, string) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	return len(m.chapters), nil
}

func (m *memorySource) ChapterText(ctx context.Context, _ string, chapter int) (string, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.inFlight++
	m.peak = max(m.peak, m.inFlight)
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.release != nil {
		<-m.release
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.panics[chapter] {
		panic("corrupt chapter")
	}
	if err, ok := m.textErr[chapter]; ok {
		return "", err
	}
	return m.chapters[chapter], nil
}

func (m *memorySource) peakConcurrency() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peak
}
