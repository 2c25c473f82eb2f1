package model

import (
	"math/rand"
	"sync"
)

// Coordinator holds the only shared mutable state between simulated
// users: the per-org creation counters that gate steady-state traffic,
// and the list of call IDs returned by successful creations. One
// instance per run, passed by reference to every user goroutine.
//
// The increment path is exact under the lock; the counter itself never
// passes quota. Gate checks read a value that is stale by the time the
// request lands, so a burst of in-flight creates can still put a few
// rows past quota server side. That slack is part of the intended load
// shape, not something to tighten up.
type Coordinator struct {
	quota int

	countMtx sync.Mutex
	created  map[string]int

	idMtx sync.RWMutex
	ids   []string
}

func NewCoordinator(orgs []string, quota int) *Coordinator {
	created := make(map[string]int, len(orgs))
	for _, org := range orgs {
		created[org] = 0
	}
	return &Coordinator{
		quota:   quota,
		created: created,
	}
}

func (c *Coordinator) Quota() int {
	return c.quota
}

// TryIncrement counts one successful creation for org and returns the
// count after the increment. Returns false once org is at quota; the
// caller's create then already landed past the boundary and is not
// counted. The count comes from under the same lock as the increment,
// so exactly one caller ever sees the quota value.
func (c *Coordinator) TryIncrement(org string) (int, bool) {
	c.countMtx.Lock()
	defer c.countMtx.Unlock()
	if c.created[org] >= c.quota {
		return c.created[org], false
	}
	c.created[org]++
	return c.created[org], true
}

func (c *Coordinator) Count(org string) int {
	c.countMtx.Lock()
	defer c.countMtx.Unlock()
	return c.created[org]
}

// QuotaReached is the phase gate: create users stop here, everyone else
// starts here.
func (c *Coordinator) QuotaReached(org string) bool {
	return c.Count(org) >= c.quota
}

// RecordID appends a created call's ID to the shared list. Producer side
// is append-only; only called after a response classified as a
// successful creation.
func (c *Coordinator) RecordID(id string) {
	c.idMtx.Lock()
	c.ids = append(c.ids, id)
	c.idMtx.Unlock()
}

// SampleID returns a uniformly random recorded ID, or false when none
// exist yet. A sampled ID may already be gone server side.
func (c *Coordinator) SampleID() (string, bool) {
	c.idMtx.RLock()
	defer c.idMtx.RUnlock()
	if len(c.ids) == 0 {
		return "", false
	}
	return c.ids[rand.Intn(len(c.ids))], true
}

// DropID removes id from the shared list if present. Best-effort cache
// invalidation after a 404; concurrent samplers may still hand it out.
func (c *Coordinator) DropID(id string) {
	c.idMtx.Lock()
	defer c.idMtx.Unlock()
	for i, v := range c.ids {
		if v == id {
			c.ids[i] = c.ids[len(c.ids)-1]
			c.ids = c.ids[:len(c.ids)-1]
			return
		}
	}
}

func (c *Coordinator) IDCount() int {
	c.idMtx.RLock()
	defer c.idMtx.RUnlock()
	return len(c.ids)
}
