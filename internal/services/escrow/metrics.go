package escrow

import (
	"sync"
	"time"

	"campusrent/internal/models"
)

// StatsCollector keeps in-process counters for the health endpoint.
type StatsCollector struct {
	mu          sync.Mutex
	transitions map[string]int64
	failures    map[string]int64
	durations   map[string]time.Duration
	calls       map[string]int64
}

// Stats is a point-in-time copy of the counters.
type Stats struct {
	Transitions     map[string]int64  `json:"transitions"`
	Failures        map[string]int64  `json:"failures"`
	AverageDuration map[string]string `json:"averageDuration"`
}

func NewStatsCollector() *StatsCollector {
	return &StatsCollector{
		transitions: make(map[string]int64),
		failures:    make(map[string]int64),
		durations:   make(map[string]time.Duration),
		calls:       make(map[string]int64),
	}
}

func (c *StatsCollector) RecordTransition(from, to models.EscrowState) {
	key := string(to)
	if from != "" {
		key = string(from) + "->" + string(to)
	}
	c.mu.Lock()
	c.transitions[key]++
	c.mu.Unlock()
}

func (c *StatsCollector) RecordFailure(operation, reason string) {
	c.mu.Lock()
	c.failures[operation+":"+reason]++
	c.mu.Unlock()
}

func (c *StatsCollector) RecordOperationDuration(operation string, d time.Duration) {
	c.mu.Lock()
	c.durations[operation] += d
	c.calls[operation]++
	c.mu.Unlock()
}

func (c *StatsCollector) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Transitions:     make(map[string]int64, len(c.transitions)),
		Failures:        make(map[string]int64, len(c.failures)),
		AverageDuration: make(map[string]string, len(c.durations)),
	}
	for k, v := range c.transitions {
		s.Transitions[k] = v
	}
	for k, v := range c.failures {
		s.Failures[k] = v
	}
	for op, total := range c.durations {
		s.AverageDuration[op] = (total / time.Duration(c.calls[op])).String()
	}
	return s
}
