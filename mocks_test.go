package themeprefs

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockStore implements the Store interface for testing.
type MockStore struct {
	mu       sync.Mutex
	data     map[string]string
	getErr   error
	setErr   error
	getCalls int
	setCalls int
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]string)}
}

func (m *MockStore) Get(ctx context.Context, key string) (string, error) {
	_, _ = ctx.Deadline()
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCalls++
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MockStore) Set(ctx context.Context, key, value string) error {
	_, _ = ctx.Deadline()
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *MockStore) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MockStore) calls() (gets, sets int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCalls, m.setCalls
}

func (m *MockStore) failWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

// panicStore panics on every call.
type panicStore struct{}

func (panicStore) Get(context.Context, string) (string, error) { panic("store exploded") }
func (panicStore) Set(context.Context, string, string) error   { panic("store exploded") }

// staticDetector reports a fixed signal.
type staticDetector struct {
	dark  bool
	ok    bool
	calls int
}

func (d *staticDetector) Detect(context.Context) (bool, bool) {
	d.calls++
	return d.dark, d.ok
}

// blockingStore holds Get until release is closed.
type blockingStore struct {
	*MockStore
	entered chan struct{}
	release chan struct{}
}

func newBlockingStore() *blockingStore {
	return &blockingStore{
		MockStore: NewMockStore(),
		entered:   make(chan struct{}),
		release:   make(chan struct{}),
	}
}

func (b *blockingStore) Get(ctx context.Context, key string) (string, error) {
	close(b.entered)
	<-b.release
	return b.MockStore.Get(ctx, key)
}

// MockLogger implements the Logger interface for testing.
type MockLogger struct {
	mu       sync.Mutex
	Messages []string
}

func (m *MockLogger) Debug(msg string, args ...any) { m.record("DEBUG", msg, args...) }
func (m *MockLogger) Info(msg string, args ...any)  { m.record("INFO", msg, args...) }
func (m *MockLogger) Warn(msg string, args ...any)  { m.record("WARN", msg, args...) }
func (m *MockLogger) Error(msg string, args ...any) { m.record("ERROR", msg, args...) }

func (m *MockLogger) SetLevel(level LogLevel) {
	m.record("SET_LEVEL", fmt.Sprint(level))
}

func (m *MockLogger) record(level, msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, formatMessage(level, msg, args...))
}

// count returns how many messages were logged at level.
func (m *MockLogger) count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.Messages {
		if strings.HasPrefix(msg, level+":") {
			n++
		}
	}
	return n
}

func formatMessage(level, msg string, args ...any) string {
	if len(args) > 0 {
		return fmt.Sprintf("%s: %s %v", level, msg, args)
	}
	return fmt.Sprintf("%s: %s", level, msg)
}
