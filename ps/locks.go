package ps

import (
	"fmt"
	"sync"
)

// LockEntity returns the mutex serializing mutations of one entity. The mutex
// is created on first use and lives for the lifetime of the Persistence, so
// two writers racing on the same entity always contend on the same lock.
// Callers Lock/Unlock it around the whole read-resolve-commit step.
func (p *Persistence) LockEntity(table string, entityId int64) *sync.Mutex {
	p.entityMu.Lock()
	defer p.entityMu.Unlock()

	if p.entities == nil {
		p.entities = make(map[string]*sync.Mutex)
	}

	key := fmt.Sprintf("%s/%d", table, entityId)
	mu, ok := p.entities[key]
	if !ok {
		mu = &sync.Mutex{}
		p.entities[key] = mu
	}
	return mu
}
