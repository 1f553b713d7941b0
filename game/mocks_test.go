package game

import (
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// --- WebsocketConnection ---

type MockWebsocketConnection struct {
	mock.Mock
}

func (m *MockWebsocketConnection) Close(reason string) {
	m.Called(reason)
}

func (m *MockWebsocketConnection) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockWebsocketConnection) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockWebsocketConnection) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- WordSelector ---

type MockWordSelector struct {
	mock.Mock
}

func (m *MockWordSelector) Next(previous string) string {
	args := m.Called(previous)
	return args.String(0)
}

func (m *MockWordSelector) Reset() {
	m.Called()
}

// --- Player ---

type MockPlayer struct {
	mock.Mock
}

func (m *MockPlayer) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPlayer) Send(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockPlayer) CancelAndRelease() {
	m.Called()
}

// newMockPlayer returns a player whose ID and release calls are always accepted.
func newMockPlayer(id string) *MockPlayer {
	p := &MockPlayer{}
	p.On("ID").Return(id).Maybe()
	p.On("CancelAndRelease").Return().Maybe()
	return p
}

// --- Clock ---

type fakeTimer struct {
	mu       sync.Mutex
	c        chan time.Time
	d        time.Duration
	periodic bool
	stopped  bool
}

func (t *fakeTimer) C() <-chan time.Time {
	return t.c
}

func (t *fakeTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTimer) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// fire blocks until the game loop receives the tick.
func (t *fakeTimer) fire() {
	t.c <- time.Now()
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) NewTimer(d time.Duration) Timer {
	return c.add(d, false)
}

func (c *fakeClock) NewTicker(d time.Duration) Timer {
	return c.add(d, true)
}

func (c *fakeClock) add(d time.Duration, periodic bool) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{c: make(chan time.Time), d: d, periodic: periodic}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *fakeClock) last() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) == 0 {
		return nil
	}
	return c.timers[len(c.timers)-1]
}
