package memstore

import (
	"context"

	"salon/internal/domain/audit"
)

type AuditStore struct {
	s *Store
}

func (a *AuditStore) Insert(_ context.Context, evt audit.Event) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	a.s.events = append(a.s.events, evt)
	return nil
}

func (a *AuditStore) List(_ context.Context, filter audit.Filter, limit, offset int) ([]audit.Event, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	out := make([]audit.Event, 0)
	skipped := 0
	for i := len(a.s.events) - 1; i >= 0; i-- {
		evt := a.s.events[i]
		if filter.Action != "" && evt.Action != filter.Action {
			continue
		}
		if filter.EntityType != "" && evt.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != "" && evt.EntityID != filter.EntityID {
			continue
		}
		if filter.ActorUser != "" && evt.ActorID != filter.ActorUser {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, evt)
	}
	return out, nil
}
