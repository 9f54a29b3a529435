// Package monitor samples engine statistics on an interval and hands them to
// the configured sinks.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/mqmap/overlay/internal/engine"
)

// StatsSource is implemented by *engine.Engine.
type StatsSource interface {
	Stats() engine.Stats
}

// Sink receives samples. Influx and the GORM storage backends implement it.
type Sink interface {
	RecordStats(ctx context.Context, at time.Time, s engine.Stats) error
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Source   StatsSource
	Sinks    []Sink
	Interval time.Duration
	Logger   *slog.Logger
	// StatusPath, when set, is rewritten with the latest sample as JSON.
	StatusPath string
	// OnSample is called after each sample, on the monitor goroutine.
	OnSample func(engine.Stats)
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}
	last      engine.Stats
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = 10 * time.Second
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Last returns the most recent sample.
func (s *Service) Last() engine.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Status renders a sample for display.
func Status(st engine.Stats) []string {
	state := "inactive"
	if st.Active {
		state = "active"
	}
	return []string{
		fmt.Sprintf("Map %s in %s, frame %d", state, st.Zone, st.Frame),
		fmt.Sprintf("Objects: %d, Labels: %d, Lines: %d, MapLocs: %d", st.Objects, st.Labels, st.Lines, st.Locations),
		fmt.Sprintf("Last frame: %s, Faults: %d, Regenerations: %d, Dropped events: %d",
			st.FrameDuration, st.Faults, st.Regenerations, st.DroppedEvents),
	}
}

// Sample takes one sample and writes it to every sink. Sink errors are
// logged and do not stop the other sinks.
func (s *Service) Sample(ctx context.Context, at time.Time) engine.Stats {
	st := s.deps.Source.Stats()
	s.mu.Lock()
	s.last = st
	s.mu.Unlock()

	for _, sink := range s.deps.Sinks {
		if err := sink.RecordStats(ctx, at, st); err != nil {
			s.deps.Logger.Error("Error recording frame stats", "sink", fmt.Sprintf("%T", sink), "error", err)
		}
	}
	if s.deps.StatusPath != "" {
		if err := writeStatus(s.deps.StatusPath, at, st); err != nil {
			s.deps.Logger.Error("Error writing status file", "path", s.deps.StatusPath, "error", err)
		}
	}
	if s.deps.OnSample != nil {
		s.deps.OnSample(st)
	}
	return st
}

func writeStatus(path string, at time.Time, st engine.Stats) error {
	doc := struct {
		Time  time.Time    `json:"time"`
		Stats engine.Stats `json:"stats"`
		Lines []string     `json:"lines"`
	}{at.UTC(), st, Status(st)}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Start starts the status monitor goroutine
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stopChan, s.done
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
			close(done)
		}()

		s.deps.Logger.Debug("Starting status monitor", "interval", s.deps.Interval)
		ticker := time.NewTicker(s.deps.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Sample(ctx, now)
			}
		}
	}()
	return nil
}

// Stop stops the status monitor and waits for the goroutine to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}
