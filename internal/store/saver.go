package store

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Saver coalesces writes of a single key. Schedule never waits on the store
// unless delay is zero; failed writes are logged and dropped.
type Saver struct {
	store Store
	key   string
	delay time.Duration
	log   *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending *string

	// writeMu serializes store writes so Cancel can wait out an in-flight one.
	writeMu sync.Mutex
}

// NewSaver returns a Saver writing key to s at most once per delay.
func NewSaver(s Store, key string, delay time.Duration, log *slog.Logger) *Saver {
	if log == nil {
		log = slog.Default()
	}
	return &Saver{store: s, key: key, delay: delay, log: log}
}

// Schedule records value as the latest snapshot and arms the timer.
func (s *Saver) Schedule(value string) {
	if s.delay <= 0 {
		s.write(value)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = &value
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.fire)
}

func (s *Saver) fire() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	v := s.pending
	s.pending = nil
	s.mu.Unlock()
	if v != nil {
		s.writeLocked(*v)
	}
}

// Flush writes the pending value now, if any.
func (s *Saver) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.fire()
}

// Cancel drops the pending value and waits for any in-flight write, so a
// following Delete cannot be overwritten by a stale snapshot.
func (s *Saver) Cancel() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	s.mu.Unlock()
	s.writeMu.Lock()
	s.writeMu.Unlock() //nolint:staticcheck // empty critical section waits for fire()
}

// Pending reports whether a write is scheduled but not yet performed.
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

func (s *Saver) write(value string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.writeLocked(value)
}

func (s *Saver) writeLocked(value string) {
	if err := s.store.Set(context.Background(), s.key, value); err != nil {
		s.log.Warn("snapshot write failed", "key", s.key, "error", err)
		return
	}
	s.log.Debug("snapshot written", "key", s.key, "bytes", len(value))
}
