// Package health aggregates the reachability of the gateway's collaborators
// into one process-wide status report.
package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status is the overall or per-component health.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsServing reports whether the process can still answer requests.
func (s Status) IsServing() bool {
	return s == StatusHealthy || s == StatusDegraded
}

const defaultProbeTimeout = 3 * time.Second

// Probe checks one collaborator. A nil error means reachable.
type Probe func(ctx context.Context) error

// ComponentStatus is the outcome of one probe.
type ComponentStatus struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}

// Report is the aggregated status of every registered probe.
type Report struct {
	Status     Status                     `json:"status"`
	Components map[string]ComponentStatus `json:"components"`
	CheckedAt  time.Time                  `json:"checkedAt"`
}

// Checker runs named probes concurrently.
type Checker struct {
	timeout time.Duration
	names   []string
	probes  map[string]Probe
}

// NewChecker builds a checker applying timeout to every probe. A
// non-positive timeout uses three seconds.
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Checker{timeout: timeout, probes: make(map[string]Probe)}
}

// Register adds or replaces the probe for name.
func (c *Checker) Register(name string, probe Probe) *Checker {
	if probe == nil {
		return c
	}
	if _, exists := c.probes[name]; !exists {
		c.names = append(c.names, name)
		sort.Strings(c.names)
	}
	c.probes[name] = probe
	return c
}

// Check runs every probe and aggregates the result: no failures is healthy,
// every probe failing is unhealthy, anything in between is degraded.
func (c *Checker) Check(ctx context.Context) Report {
	report := Report{
		Status:     StatusHealthy,
		Components: make(map[string]ComponentStatus, len(c.names)),
		CheckedAt:  time.Now().UTC(),
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, name := range c.names {
		probe := c.probes[name]
		g.Go(func() error {
			status := c.run(ctx, probe)
			mu.Lock()
			report.Components[name] = status
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, component := range report.Components {
		if component.Status != StatusHealthy {
			failed++
		}
	}
	switch {
	case failed == 0:
		report.Status = StatusHealthy
	case failed == len(report.Components):
		report.Status = StatusUnhealthy
	default:
		report.Status = StatusDegraded
	}
	return report
}

func (c *Checker) run(ctx context.Context, probe Probe) ComponentStatus {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := probe(ctx)
	status := ComponentStatus{Status: StatusHealthy, LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		status.Status = StatusUnhealthy
		status.Error = err.Error()
	}
	return status
}
