// Package catalog is the in-memory store behind the coverage service: it
// holds named footprint templates and pointing lists, and keeps the
// results of completed coverage jobs keyed by job ID.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/surveyfoundry/skycoverage/core"
	"github.com/surveyfoundry/skycoverage/model"
)

// Lookup and insertion failures wrap these sentinels so callers can map
// them to API status codes.
var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)

// Job is a completed coverage computation together with the inputs that
// produced it.
type Job struct {
	ID        string
	Footprint string
	Targets   string
	Spec      model.GridSpec
	Result    *model.CoverageResult
	Created   time.Time
	Elapsed   time.Duration
}

// Catalog is a thread-safe store of footprints, target lists, and jobs.
type Catalog struct {
	mu sync.RWMutex

	footprints map[string]core.Polygon
	targets    map[string][]model.Target
	jobs       map[string]*Job
}

// New constructs an empty catalog.
func New() *Catalog {
	return &Catalog{
		footprints: make(map[string]core.Polygon),
		targets:    make(map[string][]model.Target),
		jobs:       make(map[string]*Job),
	}
}

// AddFootprint stores a validated footprint template under a name. It
// returns an error if the name is taken or the polygon is malformed.
func (c *Catalog) AddFootprint(name string, poly core.Polygon) error {
	if name == "" {
		return fmt.Errorf("footprint name is empty")
	}
	if err := poly.Validate(); err != nil {
		return fmt.Errorf("footprint %q: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.footprints[name]; exists {
		return fmt.Errorf("footprint %q: %w", name, ErrExists)
	}
	// Store a copy so later caller mutations cannot corrupt the template.
	stored := make(core.Polygon, len(poly))
	copy(stored, poly)
	c.footprints[name] = stored
	return nil
}

// GetFootprint returns a copy of the named template, or an error if
// absent. Callers may mutate the result without affecting the store.
func (c *Catalog) GetFootprint(name string) (core.Polygon, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	poly, ok := c.footprints[name]
	if !ok {
		return nil, fmt.Errorf("footprint %q: %w", name, ErrNotFound)
	}
	out := make(core.Polygon, len(poly))
	copy(out, poly)
	return out, nil
}

// ListFootprints returns the stored footprint names, sorted.
func (c *Catalog) ListFootprints() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.footprints))
	for name := range c.footprints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddTargetList stores a pointing list under a name.
func (c *Catalog) AddTargetList(name string, targets []model.Target) error {
	if name == "" {
		return fmt.Errorf("target list name is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.targets[name]; exists {
		return fmt.Errorf("target list %q: %w", name, ErrExists)
	}
	stored := make([]model.Target, len(targets))
	copy(stored, targets)
	c.targets[name] = stored
	return nil
}

// GetTargetList returns a copy of the named pointing list, or an error
// if absent.
func (c *Catalog) GetTargetList(name string) ([]model.Target, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	targets, ok := c.targets[name]
	if !ok {
		return nil, fmt.Errorf("target list %q: %w", name, ErrNotFound)
	}
	out := make([]model.Target, len(targets))
	copy(out, targets)
	return out, nil
}

// ListTargetLists returns the stored pointing list names, sorted.
func (c *Catalog) ListTargetLists() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.targets))
	for name := range c.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StoreJob records a completed job and assigns it a fresh ID.
func (c *Catalog) StoreJob(job *Job) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	job.ID = uuid.NewString()
	if job.Created.IsZero() {
		job.Created = time.Now().UTC()
	}
	c.jobs[job.ID] = job
	return job.ID
}

// GetJob returns the job with the given ID, or an error if absent.
func (c *Catalog) GetJob(id string) (*Job, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	job, ok := c.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %q: %w", id, ErrNotFound)
	}
	return job, nil
}

// ListJobs returns all stored jobs, newest first.
func (c *Catalog) ListJobs() []*Job {
	c.mu.RLock()
	defer c.mu.RUnlock()
	jobs := make([]*Job, 0, len(c.jobs))
	for _, job := range c.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Created.After(jobs[j].Created) })
	return jobs
}
