package speech

import (
	"context"
	"sync"
	"time"
)

var (
	_ Source = (*Recognizer)(nil)
	_ Source = (*Scripted)(nil)
)

// Scripted is a deterministic speech source. It replays a fixed event script
// on a fixed cadence and reports canned levels, which makes it usable both
// as a test double and as the demo-mode source.
type Scripted struct {
	// Auth is returned by RequestAuthorization.
	Auth AuthorizationStatus

	// Events are replayed in order after StartTranscription.
	Events []TranscriptEvent

	// Levels are cycled through by AudioLevel. Empty means always 0.
	Levels []float64

	// Interval between replayed events. Zero means 200ms.
	Interval time.Duration

	// StartErr, when set, fails StartTranscription.
	StartErr error

	mu       sync.Mutex
	levelIdx int
	cancel   context.CancelFunc
	starts   int
	stops    int
}

func (s *Scripted) RequestAuthorization(ctx context.Context) (AuthorizationStatus, error) {
	return s.Auth, nil
}

func (s *Scripted) Available() bool {
	return s.Auth != AuthorizationRestricted
}

func (s *Scripted) AudioLevel() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Levels) == 0 {
		return 0
	}
	level := s.Levels[s.levelIdx%len(s.Levels)]
	s.levelIdx++
	return level
}

func (s *Scripted) StartTranscription(ctx context.Context) (<-chan TranscriptEvent, error) {
	if s.StartErr != nil {
		return nil, s.StartErr
	}
	s.StopTranscription()

	interval := s.Interval
	if interval == 0 {
		interval = 200 * time.Millisecond
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.starts++
	events := make([]TranscriptEvent, len(s.Events))
	copy(events, s.Events)
	s.mu.Unlock()

	out := make(chan TranscriptEvent, len(events))
	go func() {
		defer close(out)
		for _, ev := range events {
			select {
			case <-runCtx.Done():
				return
			case <-time.After(interval):
			}
			select {
			case out <- ev:
			case <-runCtx.Done():
				return
			}
		}
		<-runCtx.Done()
	}()
	return out, nil
}

func (s *Scripted) StopTranscription() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		s.stops++
	}
}

// Sessions reports how many sessions were started and stopped; used by tests
// asserting start/stop pairing.
func (s *Scripted) Sessions() (starts, stops int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts, s.stops
}
