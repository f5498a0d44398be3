// Package jobmgr runs named fire-and-forget jobs with status callbacks and
// in-memory tracking of what is still pending.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(func(msg string) {
//	    log.Println("JOB:", msg)
//	})
//
//	err := jm.StartAfter("delete-channel:123", 10*time.Second, func(ctx context.Context) error {
//	    return deleteChannel(ctx, "123")
//	})
//
// The package is intentionally minimal: no retry logic, no workers, no persistence.
// Jobs run on a background context; they outlive the request that scheduled
// them and are lost if the process exits first.
package jobmgr

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Job is a scheduled or running unit of work.
type Job struct {
	Name  string
	DueAt time.Time
}

// StatusReporter receives lifecycle events for jobs.
// Example messages:
//
//	scheduled:delete-channel:123
//	running:delete-channel:123
//	error:delete-channel:123:HTTP 403
//	done:delete-channel:123
type StatusReporter func(string)

// Manager tracks jobs by name. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*Job
	Reporter StatusReporter

	// after is swapped in tests.
	after func(time.Duration, func()) *time.Timer
}

// NewManager creates a new Manager.
// The reporter callback may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*Job),
		Reporter: reporter,
		after:    time.AfterFunc,
	}
}

// StartAsync runs a job in a separate goroutine and returns immediately.
// If a job with the same name is pending, an error is returned.
// Jobs are removed automatically after completion (success or failure).
func (m *Manager) StartAsync(name string, runner func(ctx context.Context) error) error {
	if err := m.add(name, time.Now()); err != nil {
		return err
	}
	go m.run(name, runner)
	return nil
}

// StartAfter runs a job once delay has elapsed. The same name rules as
// StartAsync apply from the moment it is scheduled.
func (m *Manager) StartAfter(name string, delay time.Duration, runner func(ctx context.Context) error) error {
	if err := m.add(name, time.Now().Add(delay)); err != nil {
		return err
	}
	m.report("scheduled:" + name)
	m.after(delay, func() { m.run(name, runner) })
	return nil
}

// Schedule is StartAfter in the shape the ticket controller expects.
func (m *Manager) Schedule(name string, delay time.Duration, runner func(ctx context.Context) error) error {
	return m.StartAfter(name, delay, runner)
}

func (m *Manager) add(name string, due time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.jobs[name]; exists {
		return fmt.Errorf("job '%s' is already pending", name)
	}
	m.jobs[name] = &Job{Name: name, DueAt: due}
	return nil
}

func (m *Manager) run(name string, runner func(ctx context.Context) error) {
	m.report("running:" + name)

	err := runner(context.Background())
	if err != nil {
		m.report("error:" + name + ":" + err.Error())
	} else {
		m.report("done:" + name)
	}

	m.mu.Lock()
	delete(m.jobs, name)
	m.mu.Unlock()
}

// List returns the names of pending jobs, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Status returns a human-readable summary of pending jobs.
// Example:
//
//	"Pending jobs: delete-channel:1, delete-channel:2"
//
// If none are pending: "No jobs are pending."
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are pending."
	}
	return fmt.Sprintf("Pending jobs: %s", strings.Join(active, ", "))
}

// report delivers lifecycle messages to the reporter if present.
func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
