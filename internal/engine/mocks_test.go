package engine_test

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockFetcher simulates the network layer using `testify/mock`.
type MockFetcher struct {
	mock.Mock
}

// Fetch implements the engine.VCardFetcher interface.
func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// MockStorage records writes and can be told to fail them.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Get(key string) ([]byte, error) {
	args := m.Called(key)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorage) Set(key string, blob []byte) error {
	return m.Called(key, blob).Error(0)
}

var errDiskFull = errors.New("disk full")

// day builds a local midnight date.
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// clockAt returns a clock frozen at 09:30 local time on the given day.
func clockAt(y int, m time.Month, d int) MockClock {
	return MockClock{CurrentTime: time.Date(y, m, d, 9, 30, 0, 0, time.Local)}
}
