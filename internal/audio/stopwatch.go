package audio

import (
	"sync"
	"time"
)

// Player is a playback clock the user can pause and seek.
type Player interface {
	Position() time.Duration
	Playing() bool
	Length() time.Duration
	Start(delay time.Duration) error
	Toggle()
	Seek(d time.Duration) error
	Close() error
}

// OpenPlayer opens the song at path. Without a song the chart plays
// against a silent stopwatch of the given length.
func OpenPlayer(path string, rate float64, length time.Duration) (Player, error) {
	if path == "" {
		return NewStopwatch(length, rate), nil
	}
	return Open(path, rate)
}

// Stopwatch is a silent Player driven by the wall clock.
type Stopwatch struct {
	mu      sync.Mutex
	now     func() time.Time
	rate    float64
	length  time.Duration
	base    time.Duration // position when the current run began
	since   time.Time
	running bool
}

func NewStopwatch(length time.Duration, rate float64) *Stopwatch {
	if rate <= 0 {
		rate = 1
	}
	return &Stopwatch{now: time.Now, rate: rate, length: length}
}

func (s *Stopwatch) position() time.Duration {
	pos := s.base
	if s.running {
		if d := s.now().Sub(s.since); d > 0 {
			pos += time.Duration(float64(d) * s.rate)
		}
	}
	if pos > s.length {
		pos = s.length
	}
	return pos
}

func (s *Stopwatch) Position() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position()
}

func (s *Stopwatch) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running && !s.now().Before(s.since) && s.position() < s.length
}

func (s *Stopwatch) Length() time.Duration {
	return s.length
}

// Start runs the stopwatch after delay.
func (s *Stopwatch) Start(delay time.Duration) error {
	s.mu.Lock()
	s.since = s.now().Add(delay)
	s.running = true
	s.mu.Unlock()
	return nil
}

func (s *Stopwatch) Toggle() {
	s.mu.Lock()
	s.base = s.position()
	s.since = s.now()
	s.running = !s.running
	s.mu.Unlock()
}

func (s *Stopwatch) Seek(d time.Duration) error {
	s.mu.Lock()
	pos := s.position() + d
	if pos < 0 {
		pos = 0
	}
	if pos > s.length {
		pos = s.length
	}
	s.base = pos
	if s.now().After(s.since) {
		s.since = s.now()
	}
	s.mu.Unlock()
	return nil
}

func (s *Stopwatch) Close() error {
	return nil
}
