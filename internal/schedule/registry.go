// Package schedule runs each user's daily job search on a cron trigger.
package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// TriggerRegistry manages named recurring triggers. Registering an existing
// id replaces its trigger.
type TriggerRegistry interface {
	Register(id, spec string, fn func()) error
	Remove(id string)
}

// CronRegistry backs TriggerRegistry with a UTC cron scheduler.
type CronRegistry struct {
	c       *cron.Cron
	mu      sync.Mutex
	entries map[string]cron.EntryID
}

func NewCronRegistry() *CronRegistry {
	return &CronRegistry{
		c:       cron.New(cron.WithLocation(time.UTC)),
		entries: map[string]cron.EntryID{},
	}
}

func (r *CronRegistry) Register(id, spec string, fn func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entryID, ok := r.entries[id]; ok {
		r.c.Remove(entryID)
		delete(r.entries, id)
	}
	entryID, err := r.c.AddFunc(spec, fn)
	if err != nil {
		return err
	}
	r.entries[id] = entryID
	return nil
}

func (r *CronRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entryID, ok := r.entries[id]; ok {
		r.c.Remove(entryID)
		delete(r.entries, id)
	}
}

// Start begins firing triggers in a background goroutine.
func (r *CronRegistry) Start() { r.c.Start() }

// Stop halts the scheduler. The returned context completes once any running
// trigger functions have returned.
func (r *CronRegistry) Stop() context.Context { return r.c.Stop() }
