package memstore

import (
	"context"
	"sort"

	"salon/internal/domain/catalog"
	"salon/internal/domain/errs"
)

type CatalogStore struct {
	s *Store
}

func (c *CatalogStore) InsertService(_ context.Context, svc catalog.Service) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.services[svc.ID] = svc
	return nil
}

func (c *CatalogStore) UpdateService(_ context.Context, svc catalog.Service) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if _, ok := c.s.services[svc.ID]; !ok {
		return errs.ErrNotFound
	}
	c.s.services[svc.ID] = svc
	return nil
}

func (c *CatalogStore) GetService(_ context.Context, id string) (catalog.Service, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	svc, ok := c.s.services[id]
	if !ok {
		return catalog.Service{}, errs.ErrNotFound
	}
	return svc, nil
}

func (c *CatalogStore) ListServices(_ context.Context) ([]catalog.Service, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	out := make([]catalog.Service, 0, len(c.s.services))
	for _, svc := range c.s.services {
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (c *CatalogStore) InsertEmployee(_ context.Context, emp catalog.Employee) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.employees[emp.ID] = emp
	return nil
}

func (c *CatalogStore) UpdateEmployee(_ context.Context, emp catalog.Employee) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if _, ok := c.s.employees[emp.ID]; !ok {
		return errs.ErrNotFound
	}
	c.s.employees[emp.ID] = emp
	return nil
}

func (c *CatalogStore) GetEmployee(_ context.Context, id string) (catalog.Employee, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	emp, ok := c.s.employees[id]
	if !ok {
		return catalog.Employee{}, errs.ErrNotFound
	}
	return emp, nil
}

func (c *CatalogStore) ListEmployees(_ context.Context) ([]catalog.Employee, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	out := make([]catalog.Employee, 0, len(c.s.employees))
	for _, emp := range c.s.employees {
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (c *CatalogStore) InsertClient(_ context.Context, client catalog.Client) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.clients[client.ID] = client
	return nil
}

func (c *CatalogStore) GetClient(_ context.Context, id string) (catalog.Client, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	client, ok := c.s.clients[id]
	if !ok {
		return catalog.Client{}, errs.ErrNotFound
	}
	return client, nil
}

func (c *CatalogStore) ListClients(_ context.Context) ([]catalog.Client, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	out := make([]catalog.Client, 0, len(c.s.clients))
	for _, client := range c.s.clients {
		out = append(out, client)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
